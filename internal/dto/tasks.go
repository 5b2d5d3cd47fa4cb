package dto

import (
	"encoding/json"
	"time"

	"github.com/taskvault/taskvault-api/internal/models"
)

// Optional records whether a JSON key was present at all, and if so whether
// it was null. Used by PATCH bodies where presence decides what changes.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON is only invoked for keys present in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// CreateTaskRequest represents the payload to create a task
type CreateTaskRequest struct {
	Title       string  `json:"title" example:"T"`
	Description *string `json:"description"`
	Status      *string `json:"status" example:"todo"`     // default "todo"
	Priority    *string `json:"priority" example:"medium"` // default "medium"
}

// UpdateTaskRequest represents fields allowed to update a task.
// Only keys present in the body are applied.
type UpdateTaskRequest struct {
	Title       Optional[string] `json:"title" swaggertype:"string"`
	Description Optional[string] `json:"description" swaggertype:"string"`
	Status      Optional[string] `json:"status" swaggertype:"string"`
	Priority    Optional[string] `json:"priority" swaggertype:"string"`
}

// TaskResponse represents a task object in responses
type TaskResponse struct {
	ID          int64   `json:"id" example:"1"`
	Title       string  `json:"title" example:"T"`
	Description *string `json:"description"`
	Status      string  `json:"status" example:"todo"`
	Priority    string  `json:"priority" example:"medium"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// NewTaskResponse converts a stored task into its response shape
func NewTaskResponse(t models.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// NewTaskListResponse converts tasks preserving order; never nil so an
// empty list encodes as [].
func NewTaskListResponse(tasks []models.Task) []TaskResponse {
	items := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, NewTaskResponse(t))
	}
	return items
}
