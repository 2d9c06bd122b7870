package uptask

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Notes interface {
	repository.Repository[*Note]

	ListForTask(ctx context.Context, taskID uuid.UUID) ([]*Note, error)
	ListForTaskTx(ctx context.Context, tx bun.IDB, taskID uuid.UUID) ([]*Note, error)

	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type notes struct {
	repository.Repository[*Note]
	db *bun.DB
}

var (
	_ Notes                        = (*notes)(nil)
	_ repository.Repository[*Note] = (*notes)(nil)
)

func NewNotesRepository(db *bun.DB) Notes {
	repo := repository.NewRepository[*Note](db, repository.ModelHandlers[*Note]{
		NewRecord: func() *Note { return &Note{} },
		GetID: func(n *Note) uuid.UUID {
			if n == nil {
				return uuid.Nil
			}
			return n.ID
		},
		SetID: func(n *Note, id uuid.UUID) {
			if n != nil {
				n.ID = id
			}
		},
	})

	return &notes{
		Repository: repo,
		db:         db,
	}
}

func (a *notes) ListForTask(ctx context.Context, taskID uuid.UUID) ([]*Note, error) {
	return a.ListForTaskTx(ctx, a.db, taskID)
}

func (a *notes) ListForTaskTx(ctx context.Context, tx bun.IDB, taskID uuid.UUID) ([]*Note, error) {
	records := []*Note{}
	err := tx.NewSelect().
		Model(&records).
		Relation("User", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name", "email")
		}).
		Where("?TableAlias.task_id = ?", taskID.String()).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *notes) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return a.DeleteByIDTx(ctx, a.db, id)
}

func (a *notes) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*Note)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)
	return err
}
