package uptask

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ConfirmationTokens interface {
	repository.Repository[*ConfirmationToken]

	GetByCode(ctx context.Context, code string) (*ConfirmationToken, error)
	GetByCodeTx(ctx context.Context, tx bun.IDB, code string) (*ConfirmationToken, error)

	Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*ConfirmationToken, error)
	IssueTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, ttl time.Duration) (*ConfirmationToken, error)

	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type tokens struct {
	repository.Repository[*ConfirmationToken]
	db *bun.DB
}

var (
	_ ConfirmationTokens                        = (*tokens)(nil)
	_ repository.Repository[*ConfirmationToken] = (*tokens)(nil)
)

func NewConfirmationTokensRepository(db *bun.DB) ConfirmationTokens {
	repo := repository.NewRepository[*ConfirmationToken](db, repository.ModelHandlers[*ConfirmationToken]{
		NewRecord: func() *ConfirmationToken { return &ConfirmationToken{} },
		GetID: func(t *ConfirmationToken) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *ConfirmationToken, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &tokens{
		Repository: repo,
		db:         db,
	}
}

func (a *tokens) GetByCode(ctx context.Context, code string) (*ConfirmationToken, error) {
	return a.GetByCodeTx(ctx, a.db, code)
}

func (a *tokens) GetByCodeTx(ctx context.Context, tx bun.IDB, code string) (*ConfirmationToken, error) {
	record := &ConfirmationToken{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", code).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"token": code,
				})
		}
		return nil, err
	}
	return record, nil
}

func (a *tokens) Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*ConfirmationToken, error) {
	return a.IssueTx(ctx, a.db, userID, ttl)
}

// IssueTx mints a fresh code for the user. Outstanding codes stay valid
// until they expire or get consumed.
func (a *tokens) IssueTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, ttl time.Duration) (*ConfirmationToken, error) {
	code, err := NewConfirmationCode()
	if err != nil {
		return nil, err
	}

	record := &ConfirmationToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     code,
		ExpiresAt: time.Now().Add(ttl),
	}

	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *tokens) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return a.DeleteByIDTx(ctx, a.db, id)
}

func (a *tokens) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*ConfirmationToken)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)
	return err
}
