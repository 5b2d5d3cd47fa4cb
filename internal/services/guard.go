package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskvault/taskvault-api/internal/models"
	"github.com/taskvault/taskvault-api/internal/store"
)

// Guard resolves bearer tokens to users and decides whether a user may touch
// a given task.
type Guard struct {
	tokens TokenDecoder
	users  UserRepository
	tasks  TaskRepository
}

// NewGuard wires a Guard
func NewGuard(tokens TokenDecoder, users UserRepository, tasks TaskRepository) *Guard {
	return &Guard{tokens: tokens, users: users, tasks: tasks}
}

// Authenticate returns the user a token was issued for. An invalid or
// expired token, or one whose subject no longer exists, is
// ErrUnauthenticated.
func (g *Guard) Authenticate(ctx context.Context, token string) (models.User, error) {
	email, err := g.tokens.Decode(token)
	if err != nil {
		return models.User{}, ErrUnauthenticated
	}
	user, err := g.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrUnauthenticated
	}
	if err != nil {
		return models.User{}, fmt.Errorf("resolve token subject: %w", err)
	}
	return user, nil
}

// OwnedTask loads a task for user. A missing id is ErrNotFound; a task that
// exists but belongs to someone else is ErrForbidden. The two are kept
// distinct on purpose.
func (g *Guard) OwnedTask(ctx context.Context, user models.User, taskID int64) (models.Task, error) {
	task, err := g.tasks.Get(ctx, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Task{}, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("load task %d: %w", taskID, err)
	}
	if task.UserID != user.ID {
		return models.Task{}, fmt.Errorf("task %d: %w", taskID, ErrForbidden)
	}
	return task, nil
}
