package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/taskvault/taskvault-api/internal/dto"
	"github.com/taskvault/taskvault-api/internal/models"
	"github.com/taskvault/taskvault-api/internal/store"
)

const (
	maxTitleChars = 200
	maxLabelChars = 20
)

// TaskService runs task operations on behalf of an authenticated user. Every
// single-task operation is resolved through the guard exactly once before
// anything is changed.
type TaskService struct {
	tasks TaskRepository
	guard *Guard
}

// NewTaskService wires a TaskService
func NewTaskService(tasks TaskRepository, guard *Guard) *TaskService {
	return &TaskService{tasks: tasks, guard: guard}
}

// Create stores a new task owned by user
func (s *TaskService) Create(ctx context.Context, user models.User, req dto.CreateTaskRequest) (models.Task, error) {
	t := models.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.DefaultTaskStatus,
		Priority:    models.DefaultTaskPriority,
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}

	if err := validateTitle(t.Title); err != nil {
		return models.Task{}, err
	}
	if err := validateLabel("status", t.Status); err != nil {
		return models.Task{}, err
	}
	if err := validateLabel("priority", t.Priority); err != nil {
		return models.Task{}, err
	}

	task, err := s.tasks.Create(ctx, user.ID, t)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns the user's tasks, newest id first. The query is scoped to
// the owner, so no per-row check is needed.
func (s *TaskService) List(ctx context.Context, user models.User) ([]models.Task, error) {
	tasks, err := s.tasks.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns one of the user's tasks
func (s *TaskService) Get(ctx context.Context, user models.User, id int64) (models.Task, error) {
	return s.guard.OwnedTask(ctx, user, id)
}

// Update applies the keys present in req. Absent keys keep their value;
// null clears description and is rejected for the other fields. An empty
// body returns the task unchanged.
func (s *TaskService) Update(ctx context.Context, user models.User, id int64, req dto.UpdateTaskRequest) (models.Task, error) {
	patch, err := buildPatch(req)
	if err != nil {
		return models.Task{}, err
	}

	current, err := s.guard.OwnedTask(ctx, user, id)
	if err != nil {
		return models.Task{}, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	task, err := s.tasks.Update(ctx, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted between the guard check and the update.
		return models.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes one of the user's tasks
func (s *TaskService) Delete(ctx context.Context, user models.User, id int64) error {
	if _, err := s.guard.OwnedTask(ctx, user, id); err != nil {
		return err
	}
	err := s.tasks.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func buildPatch(req dto.UpdateTaskRequest) (models.TaskPatch, error) {
	var patch models.TaskPatch

	if req.Title.Set {
		if req.Title.Null {
			return patch, invalid("title", "may not be null")
		}
		if err := validateTitle(req.Title.Value); err != nil {
			return patch, err
		}
		patch.Title = &req.Title.Value
	}
	if req.Description.Set {
		if req.Description.Null {
			patch.ClearDescription = true
		} else {
			patch.Description = &req.Description.Value
		}
	}
	for _, f := range []struct {
		name string
		opt  dto.Optional[string]
		dst  **string
	}{
		{"status", req.Status, &patch.Status},
		{"priority", req.Priority, &patch.Priority},
	} {
		if !f.opt.Set {
			continue
		}
		if f.opt.Null {
			return patch, invalid(f.name, "may not be null")
		}
		if err := validateLabel(f.name, f.opt.Value); err != nil {
			return patch, err
		}
		v := f.opt.Value
		*f.dst = &v
	}
	return patch, nil
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < 1 || n > maxTitleChars {
		return invalid("title", "must be between 1 and %d characters", maxTitleChars)
	}
	return nil
}

// Status and priority are free-form; only the column width is enforced.
func validateLabel(field, value string) error {
	if utf8.RuneCountInString(value) > maxLabelChars {
		return invalid(field, "must be at most %d characters", maxLabelChars)
	}
	return nil
}
