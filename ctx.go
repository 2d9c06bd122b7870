package uptask

import (
	"context"
)

var userCtxKey = &contextKey{"user"}
var projectCtxKey = &contextKey{"project"}
var taskCtxKey = &contextKey{"task"}

type contextKey struct {
	name string
}

// WithUser sets the authenticated User in the given context
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext finds the authenticated user from the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// WithProject sets the resolved Project in the given context
func WithProject(ctx context.Context, project *Project) context.Context {
	return context.WithValue(ctx, projectCtxKey, project)
}

// ProjectFromContext finds the resolved project from the context.
func ProjectFromContext(ctx context.Context) (*Project, bool) {
	raw, ok := ctx.Value(projectCtxKey).(*Project)
	return raw, ok
}

// WithTask sets the resolved Task in the given context
func WithTask(ctx context.Context, task *Task) context.Context {
	return context.WithValue(ctx, taskCtxKey, task)
}

// TaskFromContext finds the resolved task from the context.
func TaskFromContext(ctx context.Context) (*Task, bool) {
	raw, ok := ctx.Value(taskCtxKey).(*Task)
	return raw, ok
}
