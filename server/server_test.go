package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-uptask"
	"github.com/goliatone/go-uptask/server"
)

type stubMailer struct {
	mu    sync.Mutex
	codes []string
}

func (m *stubMailer) SendAccountConfirmation(ctx context.Context, email, name, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, code)
	return nil
}

func (m *stubMailer) SendPasswordReset(ctx context.Context, email, name, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, code)
	return nil
}

func (m *stubMailer) lastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.codes)
	return m.codes[len(m.codes)-1]
}

type testEnv struct {
	srv      *server.Server
	repo     uptask.RepositoryManager
	accounts *uptask.AccountManager
	tokens   uptask.TokenService
	mail     *stubMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := uptask.OpenDB(dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, uptask.Migrate(db))

	repo := uptask.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := uptask.NewTokenService([]byte("test-signing-key"), time.Hour, "uptask", nil)
	mail := &stubMailer{}
	accounts := uptask.NewAccountManager(repo, tokens, mail)

	return &testEnv{
		srv:      server.New(repo, accounts, tokens),
		repo:     repo,
		accounts: accounts,
		tokens:   tokens,
		mail:     mail,
	}
}

// signup registers, confirms, and logs a user in, returning the user and a
// live session token.
func (e *testEnv) signup(t *testing.T, name, email string) (*uptask.User, string) {
	t.Helper()
	ctx := context.Background()

	user, err := e.accounts.Register(ctx, name, email, "hunter2hunter2")
	require.NoError(t, err)
	require.NoError(t, e.accounts.ConfirmAccount(ctx, e.mail.lastCode(t)))

	session, err := e.accounts.Login(ctx, email, "hunter2hunter2")
	require.NoError(t, err)

	return user, session
}

func (e *testEnv) request(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiberHeaderContentType, "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.srv.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

const fiberHeaderContentType = "Content-Type"

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/auth/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "not authorized", decodeError(t, resp))
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)

	// garbage token
	resp := env.request(t, http.MethodGet, "/api/auth/user", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "token is not valid", decodeError(t, resp))

	// expired token
	stale := uptask.NewTokenService([]byte("test-signing-key"), -time.Minute, "uptask", nil)
	expired, err := stale.Generate(uuid.New())
	require.NoError(t, err)

	resp = env.request(t, http.MethodGet, "/api/auth/user", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "token is not valid", decodeError(t, resp))

	// well formed token whose subject does not exist
	ghost, err := env.tokens.Generate(uuid.New())
	require.NoError(t, err)

	resp = env.request(t, http.MethodGet, "/api/auth/user", ghost, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "token is not valid", decodeError(t, resp))
}

func TestRegisterAndLoginOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":                  "Ada",
		"email":                 "ada@example.com",
		"password":              "hunter2hunter2",
		"password_confirmation": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/auth/confirm-account", "", map[string]string{
		"token": env.mail.lastCode(t),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	session := readBody(t, resp)
	require.NotEmpty(t, session)

	resp = env.request(t, http.MethodGet, "/api/auth/user", session, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "ada@example.com", profile.Email)
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":                  "Ada",
		"email":                 "ada@example.com",
		"password":              "hunter2hunter2",
		"password_confirmation": "different12345",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, session := env.signup(t, "Manager", "manager@example.com")

	resp := env.request(t, http.MethodPost, "/api/projects", session, map[string]string{
		"project_name": "UpTask",
		"client_name":  "ACME",
		"description":  "rebuild the backend",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	resp = env.request(t, http.MethodGet, "/api/projects", session, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var projects []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&projects))
	assert.Len(t, projects, 1)

	resp = env.request(t, http.MethodGet, "/api/projects/"+created.ID, session, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPut, "/api/projects/"+created.ID, session, map[string]string{
		"project_name": "UpTask v2",
		"client_name":  "ACME",
		"description":  "rebuild the backend again",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, "/api/projects/"+created.ID, session, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/projects/"+created.ID, session, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProjectAccessControl(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	manager, managerSession := env.signup(t, "Manager", "manager@example.com")
	member, memberSession := env.signup(t, "Member", "member@example.com")
	_, outsiderSession := env.signup(t, "Outsider", "outsider@example.com")

	project := seedProject(t, env, manager.ID)
	_, err := env.repo.TeamMembers().Add(ctx, project, member.ID)
	require.NoError(t, err)

	path := "/api/projects/" + project.String()

	// members can read
	resp := env.request(t, http.MethodGet, path, memberSession, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// outsiders get a 404, the project should not be discoverable
	resp = env.request(t, http.MethodGet, path, outsiderSession, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "invalid action", decodeError(t, resp))

	// only the manager can mutate, membership does not help
	payload := map[string]string{
		"project_name": "renamed",
		"client_name":  "ACME",
		"description":  "nope",
	}
	resp = env.request(t, http.MethodPut, path, memberSession, payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid action", decodeError(t, resp))

	resp = env.request(t, http.MethodPut, path, managerSession, payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func seedProject(t *testing.T, env *testEnv, managerID uuid.UUID) uuid.UUID {
	t.Helper()

	project, err := env.repo.Projects().Create(context.Background(), &uptask.Project{
		ID:          uuid.New(),
		ProjectName: "seeded",
		ClientName:  "ACME",
		Description: "seeded project",
		ManagerID:   managerID,
	})
	require.NoError(t, err)

	return project.ID
}

func seedTask(t *testing.T, env *testEnv, projectID uuid.UUID) uuid.UUID {
	t.Helper()

	task, err := env.repo.Tasks().Create(context.Background(), &uptask.Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Name:        "seeded task",
		Description: "seeded",
		Status:      uptask.TaskStatusPending,
	})
	require.NoError(t, err)

	return task.ID
}

func TestTaskCrossProjectGuard(t *testing.T) {
	env := newTestEnv(t)

	manager, session := env.signup(t, "Manager", "manager@example.com")

	projectA := seedProject(t, env, manager.ID)
	projectB := seedProject(t, env, manager.ID)
	taskA := seedTask(t, env, projectA)

	// the task exists but does not belong to project B
	path := fmt.Sprintf("/api/projects/%s/tasks/%s", projectB, taskA)
	resp := env.request(t, http.MethodGet, path, session, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid action", decodeError(t, resp))

	// through its own project it resolves fine
	path = fmt.Sprintf("/api/projects/%s/tasks/%s", projectA, taskA)
	resp = env.request(t, http.MethodGet, path, session, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTaskStatusRecordsActor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	manager, _ := env.signup(t, "Manager", "manager@example.com")
	member, memberSession := env.signup(t, "Member", "member@example.com")

	project := seedProject(t, env, manager.ID)
	task := seedTask(t, env, project)

	_, err := env.repo.TeamMembers().Add(ctx, project, member.ID)
	require.NoError(t, err)

	path := fmt.Sprintf("/api/projects/%s/tasks/%s/status", project, task)
	resp := env.request(t, http.MethodPost, path, memberSession, map[string]string{
		"status": "inProgress",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	detail, err := env.repo.Tasks().GetWithDetail(ctx, task)
	require.NoError(t, err)
	require.Len(t, detail.StatusHistory, 1)
	assert.Equal(t, member.ID, detail.StatusHistory[0].UserID)
	assert.Equal(t, uptask.TaskStatusInProgress, detail.Status)

	// unknown states are rejected before touching the task
	resp = env.request(t, http.MethodPost, path, memberSession, map[string]string{
		"status": "abandoned",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTeamEndpoints(t *testing.T) {
	env := newTestEnv(t)

	manager, session := env.signup(t, "Manager", "manager@example.com")
	member, _ := env.signup(t, "Member", "member@example.com")

	project := seedProject(t, env, manager.ID)
	base := fmt.Sprintf("/api/projects/%s/team", project)

	// find by email
	resp := env.request(t, http.MethodPost, base+"/find", session, map[string]string{
		"email": "member@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPost, base+"/find", session, map[string]string{
		"email": "nobody@example.com",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// add
	resp = env.request(t, http.MethodPost, base, session, map[string]string{
		"user_id": member.ID.String(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// adding twice is a conflict
	resp = env.request(t, http.MethodPost, base, session, map[string]string{
		"user_id": member.ID.String(),
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// list
	resp = env.request(t, http.MethodGet, base, session, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var roster []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&roster))
	assert.Len(t, roster, 1)

	// remove
	resp = env.request(t, http.MethodDelete, base+"/"+member.ID.String(), session, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// removing again is a conflict
	resp = env.request(t, http.MethodDelete, base+"/"+member.ID.String(), session, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestNoteAuthorOnlyDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	manager, managerSession := env.signup(t, "Manager", "manager@example.com")
	member, memberSession := env.signup(t, "Member", "member@example.com")

	project := seedProject(t, env, manager.ID)
	task := seedTask(t, env, project)

	_, err := env.repo.TeamMembers().Add(ctx, project, member.ID)
	require.NoError(t, err)

	base := fmt.Sprintf("/api/projects/%s/tasks/%s/notes", project, task)

	resp := env.request(t, http.MethodPost, base, memberSession, map[string]string{
		"content": "my note",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var note struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&note))

	// even the project manager cannot delete someone else's note
	resp = env.request(t, http.MethodDelete, base+"/"+note.ID, managerSession, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, base+"/"+note.ID, memberSession, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
