package uptask

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeEmailTaken         = "account_email_taken"
	TextCodeUserNotFound       = "account_user_not_found"
	TextCodeAlreadyConfirmed   = "account_already_confirmed"
	TextCodeNotConfirmed       = "account_not_confirmed"
	TextCodeCodeNotFound       = "account_code_not_found"
	TextCodeCodeExpired        = "account_code_expired"
	TextCodeInvalidCreds       = "auth_invalid_credentials"
	TextCodeWrongPassword      = "auth_wrong_password"
	TextCodeMissingAuthHeader  = "auth_missing_header"
	TextCodeInvalidSession     = "auth_invalid_session"
	TextCodeSessionExpired     = "auth_session_expired"
	TextCodeSessionMalformed   = "auth_session_malformed"
	TextCodeProjectNotFound    = "project_not_found"
	TextCodeTaskNotFound       = "task_not_found"
	TextCodeNoteNotFound       = "note_not_found"
	TextCodeInvalidAction      = "guard_invalid_action"
	TextCodeNotCollaborator    = "guard_not_collaborator"
	TextCodeMemberNotFound     = "team_member_not_found"
	TextCodeAlreadyOnTeam      = "team_member_duplicated"
	TextCodeNotOnTeam          = "team_member_missing"
	TextCodeEmptyPassword      = "validation_empty_password"
)

// ErrEmailTaken is returned when registering or updating a profile with an
// email that belongs to another account.
var ErrEmailTaken = errors.New("user is already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrUserNotFound is returned when no account matches the given email.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrAlreadyConfirmed is returned when requesting a confirmation code for an
// account that no longer needs one.
var ErrAlreadyConfirmed = errors.New("user is already confirmed", errors.CategoryAuthz).
	WithTextCode(TextCodeAlreadyConfirmed).
	WithCode(errors.CodeForbidden)

// ErrAccountNotConfirmed is returned on login for unconfirmed accounts. A new
// confirmation code is issued as a side effect.
var ErrAccountNotConfirmed = errors.New("account not confirmed, we sent you a confirmation email", errors.CategoryAuth).
	WithTextCode(TextCodeNotConfirmed).
	WithCode(errors.CodeUnauthorized)

// ErrCodeNotFound is returned when a confirmation or reset code does not
// resolve to a stored token. Consumed tokens resolve here too.
var ErrCodeNotFound = errors.New("token is not valid", errors.CategoryNotFound).
	WithTextCode(TextCodeCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrCodeExpired is returned when a confirmation code matched but is past its
// expiry. The matched token is still consumed.
var ErrCodeExpired = errors.New("token has expired, request a new one", errors.CategoryValidation).
	WithTextCode(TextCodeCodeExpired).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the uniform bad-credentials error.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrCurrentPasswordInvalid is returned by password changes when the current
// password check fails.
var ErrCurrentPasswordInvalid = errors.New("current password is incorrect", errors.CategoryAuth).
	WithTextCode(TextCodeWrongPassword).
	WithCode(errors.CodeUnauthorized)

// ErrMissingAuthHeader is returned before any token parsing happens.
var ErrMissingAuthHeader = errors.New("not authorized", errors.CategoryAuth).
	WithTextCode(TextCodeMissingAuthHeader).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidSession is the uniform client-facing failure for malformed,
// expired, tampered, or stale bearer tokens. Callers must not surface which.
var ErrInvalidSession = errors.New("token is not valid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidSession).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired reports an expired session credential. Internal use; the
// request authenticator collapses it into ErrInvalidSession.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeSessionExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed reports an undecodable session credential. Internal use;
// the request authenticator collapses it into ErrInvalidSession.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeSessionMalformed).
	WithCode(errors.CodeUnauthorized)

var ErrProjectNotFound = errors.New("project not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProjectNotFound).
	WithCode(errors.CodeNotFound)

var ErrTaskNotFound = errors.New("task not found", errors.CategoryNotFound).
	WithTextCode(TextCodeTaskNotFound).
	WithCode(errors.CodeNotFound)

var ErrNoteNotFound = errors.New("note not found", errors.CategoryNotFound).
	WithTextCode(TextCodeNoteNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidAction is the uniform guard failure: cross-project task paths and
// non-manager mutations both map here.
var ErrInvalidAction = errors.New("invalid action", errors.CategoryAuthz).
	WithTextCode(TextCodeInvalidAction).
	WithCode(errors.CodeBadRequest)

// ErrNotProjectCollaborator hides project detail from users who neither
// manage the project nor sit on its team. A 404 keeps outsiders from
// probing which project ids exist.
var ErrNotProjectCollaborator = errors.New("invalid action", errors.CategoryAuthz).
	WithTextCode(TextCodeNotCollaborator).
	WithCode(errors.CodeNotFound)

// ErrNotNoteAuthor is returned when deleting a note authored by someone else.
var ErrNotNoteAuthor = errors.New("invalid action", errors.CategoryAuthz).
	WithTextCode(TextCodeInvalidAction).
	WithCode(errors.CodeUnauthorized)

// ErrMemberNotFound mirrors the team lookup contract: the caller expected the
// user to exist, so a miss is a conflict rather than a plain not-found.
var ErrMemberNotFound = errors.New("user not found", errors.CategoryConflict).
	WithTextCode(TextCodeMemberNotFound).
	WithCode(errors.CodeConflict)

var ErrAlreadyOnTeam = errors.New("user is already on the project team", errors.CategoryConflict).
	WithTextCode(TextCodeAlreadyOnTeam).
	WithCode(errors.CodeConflict)

var ErrNotOnTeam = errors.New("user is not on the project team", errors.CategoryConflict).
	WithTextCode(TextCodeNotOnTeam).
	WithCode(errors.CodeConflict)

// ErrNoEmptyString guards hashing empty passwords.
var ErrNoEmptyString = errors.New("value should not be an empty string", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)
