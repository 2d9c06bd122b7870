package uptask

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TaskStatus is the workflow state of a task
type TaskStatus = string

const (
	TaskStatusPending     TaskStatus = "pending"
	TaskStatusOnHold      TaskStatus = "onHold"
	TaskStatusInProgress  TaskStatus = "inProgress"
	TaskStatusUnderReview TaskStatus = "underReview"
	TaskStatusCompleted   TaskStatus = "completed"
)

// TaskStatuses lists every valid workflow state, used by payload validation.
var TaskStatuses = []any{
	TaskStatusPending,
	TaskStatusOnHold,
	TaskStatusInProgress,
	TaskStatusUnderReview,
	TaskStatusCompleted,
}

// User is the user model. Accounts start unconfirmed and flip to confirmed
// exactly once, through a valid confirmation code.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Confirmed     bool       `bun:"confirmed,notnull" json:"confirmed"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// ConfirmationToken is a short lived one-time code used both for account
// confirmation and password resets. A user may hold several live tokens;
// issuing a new one does not invalidate the others.
type ConfirmationToken struct {
	bun.BaseModel `bun:"table:confirmation_tokens,alias:tok"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Token         string     `bun:"token,notnull" json:"token,omitempty"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Expired reports whether the code is past its expiry. Expiry is evaluated
// lazily at lookup time; nothing sweeps stale rows proactively.
func (t *ConfirmationToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Project is the unit of collaboration. The manager is the only identity
// allowed to mutate the project or its tasks; team members collaborate with
// read access plus task-status and note operations.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:prj"`
	ID            uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ProjectName   string        `bun:"project_name,notnull" json:"project_name,omitempty"`
	ClientName    string        `bun:"client_name,notnull" json:"client_name,omitempty"`
	Description   string        `bun:"description,notnull" json:"description,omitempty"`
	ManagerID     uuid.UUID     `bun:"manager_id,notnull,type:uuid" json:"manager,omitempty"`
	Tasks         []*Task       `bun:"rel:has-many,join:id=project_id" json:"tasks,omitempty"`
	Team          []*TeamMember `bun:"rel:has-many,join:id=project_id" json:"team,omitempty"`
	CreatedAt     *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasMember reports whether the given user collaborates on the project.
// Requires the Team relation to be loaded.
func (p *Project) HasMember(userID uuid.UUID) bool {
	for _, m := range p.Team {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// TeamMember associates a collaborator with a project.
type TeamMember struct {
	bun.BaseModel `bun:"table:team_members,alias:tm"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ProjectID     uuid.UUID  `bun:"project_id,notnull,type:uuid" json:"project_id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Task belongs to exactly one project. Status transitions append to
// StatusHistory, one row per change, recording who changed it and when.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:tsk"`
	ID            uuid.UUID            `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ProjectID     uuid.UUID            `bun:"project_id,notnull,type:uuid" json:"project_id,omitempty"`
	Name          string               `bun:"name,notnull" json:"name,omitempty"`
	Description   string               `bun:"description,notnull" json:"description,omitempty"`
	Status        TaskStatus           `bun:"status,notnull,default:'pending'" json:"status,omitempty"`
	StatusHistory []*TaskStatusHistory `bun:"rel:has-many,join:id=task_id" json:"status_history,omitempty"`
	Notes         []*Note              `bun:"rel:has-many,join:id=task_id" json:"notes,omitempty"`
	CreatedAt     *time.Time           `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time           `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// TaskStatusHistory is append only.
type TaskStatusHistory struct {
	bun.BaseModel `bun:"table:task_status_history,alias:tsh"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	TaskID        uuid.UUID  `bun:"task_id,notnull,type:uuid" json:"task_id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Status        TaskStatus `bun:"status,notnull" json:"status,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Note belongs to one task and one authoring user. Only the author may
// delete it.
type Note struct {
	bun.BaseModel `bun:"table:notes,alias:nte"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	TaskID        uuid.UUID  `bun:"task_id,notnull,type:uuid" json:"task_id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Content       string     `bun:"content,notnull" json:"content,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
