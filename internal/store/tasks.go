package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taskvault/taskvault-api/internal/models"
)

const taskColumns = `id, title, description, status, priority, user_id, created_at, updated_at`

// TaskStore persists tasks. It does no ownership checks of its own; callers
// go through the access guard.
type TaskStore struct {
	db DB
}

// NewTaskStore creates a TaskStore over db
func NewTaskStore(db DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create inserts a task bound to ownerID. id and timestamps come from the
// database.
func (s *TaskStore) Create(ctx context.Context, ownerID int64, t models.NewTask) (models.Task, error) {
	return s.queryOne(ctx,
		`INSERT INTO tasks (title, description, status, priority, user_id)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING `+taskColumns,
		t.Title, t.Description, t.Status, t.Priority, ownerID)
}

// ListByOwner returns the owner's tasks, newest id first
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID int64) ([]models.Task, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Task])
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	return tasks, nil
}

// Get returns a task by id regardless of owner
func (s *TaskStore) Get(ctx context.Context, id int64) (models.Task, error) {
	return s.queryOne(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
}

// Update applies the patch in a single statement and refreshes updated_at.
// Columns the patch leaves nil are not part of the SET list.
func (s *TaskStore) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}

	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.ClearDescription {
		add("description", nil)
	} else if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	set = append(set, "updated_at = now()")
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), taskColumns)
	return s.queryOne(ctx, q, args...)
}

// Delete removes a task by id
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TaskStore) queryOne(ctx context.Context, sql string, args ...any) (models.Task, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return models.Task{}, fmt.Errorf("tasks: %w", err)
	}
	task, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Task])
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("tasks: %w", err)
	}
	return task, nil
}
