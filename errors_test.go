package uptask_test

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-uptask"
)

func TestErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *goerrors.Error
		code int
	}{
		{"email taken is a conflict", uptask.ErrEmailTaken, 409},
		{"user not found", uptask.ErrUserNotFound, 404},
		{"already confirmed is forbidden", uptask.ErrAlreadyConfirmed, 403},
		{"not confirmed is unauthorized", uptask.ErrAccountNotConfirmed, 401},
		{"unknown code", uptask.ErrCodeNotFound, 404},
		{"expired code", uptask.ErrCodeExpired, 400},
		{"bad credentials", uptask.ErrMismatchedHashAndPassword, 401},
		{"missing header", uptask.ErrMissingAuthHeader, 401},
		{"invalid session", uptask.ErrInvalidSession, 401},
		{"guard failure", uptask.ErrInvalidAction, 400},
		{"outsider project read", uptask.ErrNotProjectCollaborator, 404},
		{"foreign note delete", uptask.ErrNotNoteAuthor, 401},
		{"duplicate team member", uptask.ErrAlreadyOnTeam, 409},
		{"missing team member", uptask.ErrNotOnTeam, 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.TextCode)
		})
	}
}

func TestSessionFailuresShareClientMessage(t *testing.T) {
	// expired and malformed tokens must be indistinguishable to clients
	assert.Equal(t, 401, uptask.ErrTokenExpired.Code)
	assert.Equal(t, 401, uptask.ErrTokenMalformed.Code)
	assert.NotEqual(t, uptask.ErrTokenExpired.TextCode, uptask.ErrTokenMalformed.TextCode)
}
