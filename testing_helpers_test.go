package uptask_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-uptask"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := uptask.OpenDB(dsn)
	require.NoError(t, err)

	// a single connection keeps the shared in-memory database alive for
	// the duration of the test
	db.SetMaxOpenConns(1)

	t.Cleanup(func() { db.Close() })

	require.NoError(t, uptask.Migrate(db))

	return db
}

type sentMail struct {
	Email string
	Name  string
	Code  string
}

// stubMailer records outgoing mail instead of delivering it.
type stubMailer struct {
	mu            sync.Mutex
	confirmations []sentMail
	resets        []sentMail
}

func (m *stubMailer) SendAccountConfirmation(ctx context.Context, email, name, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations = append(m.confirmations, sentMail{Email: email, Name: name, Code: code})
	return nil
}

func (m *stubMailer) SendPasswordReset(ctx context.Context, email, name, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, sentMail{Email: email, Name: name, Code: code})
	return nil
}

func (m *stubMailer) lastConfirmation(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.confirmations, "expected a confirmation email")
	return m.confirmations[len(m.confirmations)-1]
}

func (m *stubMailer) lastReset(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.resets, "expected a reset email")
	return m.resets[len(m.resets)-1]
}
