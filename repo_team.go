package uptask

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type TeamMembers interface {
	repository.Repository[*TeamMember]

	ListForProject(ctx context.Context, projectID uuid.UUID) ([]*TeamMember, error)
	ListForProjectTx(ctx context.Context, tx bun.IDB, projectID uuid.UUID) ([]*TeamMember, error)

	IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	IsMemberTx(ctx context.Context, tx bun.IDB, projectID, userID uuid.UUID) (bool, error)

	Add(ctx context.Context, projectID, userID uuid.UUID) (*TeamMember, error)
	AddTx(ctx context.Context, tx bun.IDB, projectID, userID uuid.UUID) (*TeamMember, error)

	Remove(ctx context.Context, projectID, userID uuid.UUID) error
	RemoveTx(ctx context.Context, tx bun.IDB, projectID, userID uuid.UUID) error
}

type teamMembers struct {
	repository.Repository[*TeamMember]
	db *bun.DB
}

var (
	_ TeamMembers                        = (*teamMembers)(nil)
	_ repository.Repository[*TeamMember] = (*teamMembers)(nil)
)

func NewTeamMembersRepository(db *bun.DB) TeamMembers {
	repo := repository.NewRepository[*TeamMember](db, repository.ModelHandlers[*TeamMember]{
		NewRecord: func() *TeamMember { return &TeamMember{} },
		GetID: func(m *TeamMember) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID: func(m *TeamMember, id uuid.UUID) {
			if m != nil {
				m.ID = id
			}
		},
	})

	return &teamMembers{
		Repository: repo,
		db:         db,
	}
}

// ListForProject loads the roster with each member's public profile
// fields. Password hashes never leave the users table here.
func (a *teamMembers) ListForProject(ctx context.Context, projectID uuid.UUID) ([]*TeamMember, error) {
	return a.ListForProjectTx(ctx, a.db, projectID)
}

func (a *teamMembers) ListForProjectTx(ctx context.Context, tx bun.IDB, projectID uuid.UUID) ([]*TeamMember, error) {
	records := []*TeamMember{}
	err := tx.NewSelect().
		Model(&records).
		Relation("User", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name", "email")
		}).
		Where("?TableAlias.project_id = ?", projectID.String()).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *teamMembers) IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	return a.IsMemberTx(ctx, a.db, projectID, userID)
}

func (a *teamMembers) IsMemberTx(ctx context.Context, tx bun.IDB, projectID, userID uuid.UUID) (bool, error) {
	return tx.NewSelect().
		Model((*TeamMember)(nil)).
		Where("?TableAlias.project_id = ?", projectID.String()).
		Where("?TableAlias.user_id = ?", userID.String()).
		Exists(ctx)
}

func (a *teamMembers) Add(ctx context.Context, projectID, userID uuid.UUID) (*TeamMember, error) {
	return a.AddTx(ctx, a.db, projectID, userID)
}

func (a *teamMembers) AddTx(ctx context.Context, tx bun.IDB, projectID, userID uuid.UUID) (*TeamMember, error) {
	record := &TeamMember{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
	}
	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *teamMembers) Remove(ctx context.Context, projectID, userID uuid.UUID) error {
	return a.RemoveTx(ctx, a.db, projectID, userID)
}

func (a *teamMembers) RemoveTx(ctx context.Context, tx bun.IDB, projectID, userID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*TeamMember)(nil)).
		Where("?TableAlias.project_id = ?", projectID.String()).
		Where("?TableAlias.user_id = ?", userID.String()).
		Exec(ctx)
	return err
}
