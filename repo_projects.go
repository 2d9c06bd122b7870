package uptask

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var UpdateProjectDetailsSQL = `UPDATE "projects" AS "prj"
SET
	"project_name" = ?,
	"client_name" = ?,
	"description" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"prj"."id" = ?
RETURNING *;`

type Projects interface {
	repository.Repository[*Project]

	GetWithRelations(ctx context.Context, id uuid.UUID) (*Project, error)
	GetWithRelationsTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Project, error)

	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Project, error)
	ListForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]*Project, error)

	UpdateDetails(ctx context.Context, id uuid.UUID, projectName, clientName, description string) (*Project, error)
	UpdateDetailsTx(ctx context.Context, tx bun.IDB, id uuid.UUID, projectName, clientName, description string) (*Project, error)

	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type projects struct {
	repository.Repository[*Project]
	db *bun.DB
}

var (
	_ Projects                        = (*projects)(nil)
	_ repository.Repository[*Project] = (*projects)(nil)
)

func NewProjectsRepository(db *bun.DB) Projects {
	repo := repository.NewRepository[*Project](db, repository.ModelHandlers[*Project]{
		NewRecord: func() *Project { return &Project{} },
		GetID: func(p *Project) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Project, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})

	return &projects{
		Repository: repo,
		db:         db,
	}
}

func (a *projects) GetWithRelations(ctx context.Context, id uuid.UUID) (*Project, error) {
	return a.GetWithRelationsTx(ctx, a.db, id)
}

func (a *projects) GetWithRelationsTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Project, error) {
	record := &Project{}
	err := tx.NewSelect().
		Model(record).
		Relation("Tasks").
		Relation("Team").
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

// ListForUser returns every project the user manages plus every project
// where the user sits on the team.
func (a *projects) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Project, error) {
	return a.ListForUserTx(ctx, a.db, userID)
}

func (a *projects) ListForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]*Project, error) {
	records := []*Project{}
	err := tx.NewSelect().
		Model(&records).
		Where("?TableAlias.manager_id = ?", userID.String()).
		WhereOr("?TableAlias.id IN (SELECT project_id FROM team_members WHERE user_id = ?)", userID.String()).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *projects) UpdateDetails(ctx context.Context, id uuid.UUID, projectName, clientName, description string) (*Project, error) {
	return a.UpdateDetailsTx(ctx, a.db, id, projectName, clientName, description)
}

// UpdateDetailsTx writes the editable fields through explicit columns so
// the manager assignment can never be clobbered.
func (a *projects) UpdateDetailsTx(ctx context.Context, tx bun.IDB, id uuid.UUID, projectName, clientName, description string) (*Project, error) {
	res, err := a.Repository.RawTx(ctx, tx, UpdateProjectDetailsSQL, projectName, clientName, description, id.String())
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

func (a *projects) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return a.DeleteByIDTx(ctx, a.db, id)
}

func (a *projects) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*Project)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)
	return err
}
