package uptask

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var UpdateTaskDetailsSQL = `UPDATE "tasks" AS "tsk"
SET
	"name" = ?,
	"description" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"tsk"."id" = ?
RETURNING *;`

var UpdateTaskStatusSQL = `UPDATE "tasks" AS "tsk"
SET
	"status" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"tsk"."id" = ?
RETURNING *;`

type Tasks interface {
	repository.Repository[*Task]

	ListForProject(ctx context.Context, projectID uuid.UUID) ([]*Task, error)
	ListForProjectTx(ctx context.Context, tx bun.IDB, projectID uuid.UUID) ([]*Task, error)

	GetWithDetail(ctx context.Context, id uuid.UUID) (*Task, error)
	GetWithDetailTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Task, error)

	UpdateDetails(ctx context.Context, id uuid.UUID, name, description string) (*Task, error)
	UpdateDetailsTx(ctx context.Context, tx bun.IDB, id uuid.UUID, name, description string) (*Task, error)

	UpdateStatus(ctx context.Context, taskID, userID uuid.UUID, status TaskStatus) (*Task, error)

	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type tasks struct {
	repository.Repository[*Task]
	db *bun.DB
}

var (
	_ Tasks                        = (*tasks)(nil)
	_ repository.Repository[*Task] = (*tasks)(nil)
)

func NewTasksRepository(db *bun.DB) Tasks {
	repo := repository.NewRepository[*Task](db, repository.ModelHandlers[*Task]{
		NewRecord: func() *Task { return &Task{} },
		GetID: func(t *Task) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Task, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
	})

	return &tasks{
		Repository: repo,
		db:         db,
	}
}

func (a *tasks) ListForProject(ctx context.Context, projectID uuid.UUID) ([]*Task, error) {
	return a.ListForProjectTx(ctx, a.db, projectID)
}

func (a *tasks) ListForProjectTx(ctx context.Context, tx bun.IDB, projectID uuid.UUID) ([]*Task, error) {
	records := []*Task{}
	err := tx.NewSelect().
		Model(&records).
		Where("?TableAlias.project_id = ?", projectID.String()).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetWithDetail loads the task plus its full status trail and notes, each
// joined with the acting user's public profile.
func (a *tasks) GetWithDetail(ctx context.Context, id uuid.UUID) (*Task, error) {
	return a.GetWithDetailTx(ctx, a.db, id)
}

func (a *tasks) GetWithDetailTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Task, error) {
	record := &Task{}
	err := tx.NewSelect().
		Model(record).
		Relation("StatusHistory", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_at ASC")
		}).
		Relation("StatusHistory.User", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name", "email")
		}).
		Relation("Notes", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_at ASC")
		}).
		Relation("Notes.User", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name", "email")
		}).
		Where("?TableAlias.id = ?", id.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}
	return record, nil
}

func (a *tasks) UpdateDetails(ctx context.Context, id uuid.UUID, name, description string) (*Task, error) {
	return a.UpdateDetailsTx(ctx, a.db, id, name, description)
}

// UpdateDetailsTx writes the editable fields through explicit columns so
// the workflow status and project assignment stay untouched.
func (a *tasks) UpdateDetailsTx(ctx context.Context, tx bun.IDB, id uuid.UUID, name, description string) (*Task, error) {
	res, err := a.Repository.RawTx(ctx, tx, UpdateTaskDetailsSQL, name, description, id.String())
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return res[0], nil
}

// UpdateStatus persists the new state and appends the history row in one
// transaction so the trail never drifts from the task itself.
func (a *tasks) UpdateStatus(ctx context.Context, taskID, userID uuid.UUID, status TaskStatus) (*Task, error) {
	var record *Task
	err := a.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := a.Repository.RawTx(ctx, tx, UpdateTaskStatusSQL, status, taskID.String())
		if err != nil {
			return err
		}

		if len(res) == 0 {
			return repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": taskID.String(),
				})
		}

		entry := &TaskStatusHistory{
			ID:     uuid.New(),
			TaskID: taskID,
			UserID: userID,
			Status: status,
		}
		if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
			return err
		}

		record = res[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (a *tasks) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return a.DeleteByIDTx(ctx, a.db, id)
}

func (a *tasks) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*Task)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)
	return err
}
