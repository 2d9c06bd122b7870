package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/goliatone/go-uptask"
)

const (
	userLocalsKey    = "user"
	projectLocalsKey = "project"
	taskLocalsKey    = "task"
)

// bearerToken pulls the credential out of the Authorization header.
func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}

// Authenticate guards protected routes. A missing header fails fast;
// every other token problem, including a subject that no longer exists,
// collapses into the same response so callers learn nothing about why.
func (s *Server) Authenticate(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return uptask.ErrMissingAuthHeader
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return uptask.ErrInvalidSession
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return uptask.ErrInvalidSession
	}

	user, err := s.repo.Users().GetByID(c.UserContext(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return uptask.ErrInvalidSession
		}
		return err
	}

	c.Locals(userLocalsKey, user)
	c.SetUserContext(uptask.WithUser(c.UserContext(), user))

	return c.Next()
}

// ProjectResolver loads the :projectID route param, with relations, and
// makes it available downstream. An unparseable id reads as not found.
func (s *Server) ProjectResolver(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("projectID"))
	if err != nil {
		return uptask.ErrProjectNotFound
	}

	project, err := s.repo.Projects().GetWithRelations(c.UserContext(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return uptask.ErrProjectNotFound
		}
		return err
	}

	c.Locals(projectLocalsKey, project)
	c.SetUserContext(uptask.WithProject(c.UserContext(), project))

	return c.Next()
}

// TaskResolver loads the :taskID route param.
func (s *Server) TaskResolver(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("taskID"))
	if err != nil {
		return uptask.ErrTaskNotFound
	}

	task, err := s.repo.Tasks().GetByID(c.UserContext(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return uptask.ErrTaskNotFound
		}
		return err
	}

	c.Locals(taskLocalsKey, task)
	c.SetUserContext(uptask.WithTask(c.UserContext(), task))

	return c.Next()
}

// TaskBelongsToProject rejects requests whose task and project path
// segments do not match.
func (s *Server) TaskBelongsToProject(c *fiber.Ctx) error {
	project := currentProject(c)
	task := currentTask(c)

	if project == nil || task == nil || task.ProjectID != project.ID {
		return uptask.ErrInvalidAction
	}

	return c.Next()
}

// ManagerOnly limits a route to the project manager. Team membership does
// not count.
func (s *Server) ManagerOnly(c *fiber.Ctx) error {
	user := currentUser(c)
	project := currentProject(c)

	if user == nil || project == nil || user.ID != project.ManagerID {
		return uptask.ErrInvalidAction
	}

	return c.Next()
}

func currentUser(c *fiber.Ctx) *uptask.User {
	user, _ := c.Locals(userLocalsKey).(*uptask.User)
	return user
}

func currentProject(c *fiber.Ctx) *uptask.Project {
	project, _ := c.Locals(projectLocalsKey).(*uptask.Project)
	return project
}

func currentTask(c *fiber.Ctx) *uptask.Task {
	task, _ := c.Locals(taskLocalsKey).(*uptask.Task)
	return task
}
