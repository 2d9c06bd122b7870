package uptask

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Mailer delivers account lifecycle email. Implementations live in the
// mailer subpackage; tests swap in a recording stub.
type Mailer interface {
	SendAccountConfirmation(ctx context.Context, email, name, code string) error
	SendPasswordReset(ctx context.Context, email, name, code string) error
}

// DefaultCodeTTL is how long confirmation and reset codes stay valid.
var DefaultCodeTTL = 10 * time.Minute

// AccountManager drives the account lifecycle: registration, confirmation,
// login, password recovery, and profile maintenance. It owns no HTTP
// concerns; controllers translate its errors at the edge.
type AccountManager struct {
	repo    RepositoryManager
	tokens  TokenService
	mailer  Mailer
	logger  Logger
	codeTTL time.Duration
}

type AccountManagerOption func(*AccountManager)

func WithLogger(logger Logger) AccountManagerOption {
	return func(m *AccountManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithCodeTTL(ttl time.Duration) AccountManagerOption {
	return func(m *AccountManager) {
		if ttl > 0 {
			m.codeTTL = ttl
		}
	}
}

func NewAccountManager(repo RepositoryManager, tokens TokenService, mailer Mailer, opts ...AccountManagerOption) *AccountManager {
	m := &AccountManager{
		repo:    repo,
		tokens:  tokens,
		mailer:  mailer,
		logger:  &defLogger{},
		codeTTL: DefaultCodeTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Register creates the unconfirmed account and its first confirmation code
// in one transaction. The confirmation email goes out after commit; a
// delivery failure is logged, never surfaced, since the user can always
// request a fresh code.
func (m *AccountManager) Register(ctx context.Context, name, email, password string) (*User, error) {
	if _, err := m.repo.Users().GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	var token *ConfirmationToken
	err = m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := m.repo.Users().RegisterTx(ctx, tx, user)
		if err != nil {
			return err
		}
		user = created

		token, err = m.repo.ConfirmationTokens().IssueTx(ctx, tx, user.ID, m.codeTTL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := m.mailer.SendAccountConfirmation(ctx, user.Email, user.Name, token.Token); err != nil {
		m.logger.Error("failed to send confirmation email", "email", user.Email, "error", err)
	}

	return user, nil
}

// ConfirmAccount consumes the code and flips the account to confirmed. The
// matched token row is deleted whether or not it already expired, so a code
// never gets a second chance.
func (m *AccountManager) ConfirmAccount(ctx context.Context, code string) error {
	token, err := m.repo.ConfirmationTokens().GetByCode(ctx, code)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrCodeNotFound
		}
		return err
	}

	expired := token.Expired()

	err = m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := m.repo.ConfirmationTokens().DeleteByIDTx(ctx, tx, token.ID); err != nil {
			return err
		}
		if expired {
			return nil
		}
		return m.repo.Users().ConfirmTx(ctx, tx, token.UserID)
	})
	if err != nil {
		return err
	}

	if expired {
		return ErrCodeExpired
	}
	return nil
}

// Login verifies credentials and mints a session token. Unconfirmed
// accounts get a fresh confirmation code and email instead of a session.
func (m *AccountManager) Login(ctx context.Context, email, password string) (string, error) {
	user, err := m.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if !user.Confirmed {
		if err := m.issueAndMail(ctx, user, m.mailer.SendAccountConfirmation); err != nil {
			return "", err
		}
		return "", ErrAccountNotConfirmed
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return "", err
	}

	return m.tokens.Generate(user.ID)
}

// ResendConfirmation issues a new code for an unconfirmed account.
func (m *AccountManager) ResendConfirmation(ctx context.Context, email string) error {
	user, err := m.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Confirmed {
		return ErrAlreadyConfirmed
	}

	return m.issueAndMail(ctx, user, m.mailer.SendAccountConfirmation)
}

// ForgotPassword starts the reset flow by mailing a reset code.
func (m *AccountManager) ForgotPassword(ctx context.Context, email string) error {
	user, err := m.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	return m.issueAndMail(ctx, user, m.mailer.SendPasswordReset)
}

// ValidateResetToken checks a reset code without consuming it, so the
// client can collect the new password before committing.
func (m *AccountManager) ValidateResetToken(ctx context.Context, code string) error {
	_, err := m.repo.ConfirmationTokens().GetByCode(ctx, code)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrCodeNotFound
		}
		return err
	}
	return nil
}

// ResetPassword consumes the reset code and stores the new hash
// atomically. Expired codes are consumed without changing the password.
func (m *AccountManager) ResetPassword(ctx context.Context, code, password string) error {
	token, err := m.repo.ConfirmationTokens().GetByCode(ctx, code)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrCodeNotFound
		}
		return err
	}

	expired := token.Expired()

	var hash string
	if !expired {
		if hash, err = HashPassword(password); err != nil {
			return err
		}
	}

	err = m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := m.repo.ConfirmationTokens().DeleteByIDTx(ctx, tx, token.ID); err != nil {
			return err
		}
		if expired {
			return nil
		}
		return m.repo.Users().ResetPasswordTx(ctx, tx, token.UserID, hash)
	})
	if err != nil {
		return err
	}

	if expired {
		return ErrCodeExpired
	}
	return nil
}

// UpdateProfile changes name and email. Moving to an email that belongs to
// a different account is a conflict.
func (m *AccountManager) UpdateProfile(ctx context.Context, user *User, name, email string) (*User, error) {
	email = NormalizeEmail(email)

	if email != user.Email {
		owner, err := m.repo.Users().GetByEmail(ctx, email)
		if err != nil && !repository.IsRecordNotFound(err) {
			return nil, err
		}
		if err == nil && owner.ID != user.ID {
			return nil, ErrEmailTaken
		}
	}

	return m.repo.Users().UpdateProfile(ctx, user.ID, name, email)
}

// ChangePassword verifies the current password before storing a new hash.
func (m *AccountManager) ChangePassword(ctx context.Context, user *User, current, password string) error {
	if err := ComparePasswordAndHash(current, user.PasswordHash); err != nil {
		return ErrCurrentPasswordInvalid
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	return m.repo.Users().ResetPassword(ctx, user.ID, hash)
}

// CheckPassword re-verifies the session owner's password, used before
// destructive operations like project deletion.
func (m *AccountManager) CheckPassword(ctx context.Context, user *User, password string) error {
	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return ErrCurrentPasswordInvalid
	}
	return nil
}

type sendFunc func(ctx context.Context, email, name, code string) error

func (m *AccountManager) issueAndMail(ctx context.Context, user *User, send sendFunc) error {
	token, err := m.repo.ConfirmationTokens().Issue(ctx, user.ID, m.codeTTL)
	if err != nil {
		return err
	}

	if err := send(ctx, user.Email, user.Name, token.Token); err != nil {
		m.logger.Error("failed to send account email", "email", user.Email, "error", err)
	}

	return nil
}
