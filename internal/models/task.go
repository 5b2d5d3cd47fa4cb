package models

import "time"

// Defaults applied when a task is created without status or priority
const (
	DefaultTaskStatus   = "todo"
	DefaultTaskPriority = "medium"
)

// Task represents a unit of work owned by exactly one user
type Task struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	Priority    string    `json:"priority" db:"priority"`
	UserID      int64     `json:"user_id" db:"user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewTask carries the validated fields of a task about to be inserted.
type NewTask struct {
	Title       string
	Description *string
	Status      string
	Priority    string
}

// TaskPatch lists the columns a partial update touches. A nil pointer leaves
// the column alone. ClearDescription sets description to NULL and wins over
// Description.
type TaskPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *string
	Priority         *string
}

// IsEmpty reports whether the patch would change nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && !p.ClearDescription && p.Status == nil && p.Priority == nil
}

// Apply returns a copy of t with the patch applied. Timestamps are left to
// the store.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.ClearDescription {
		t.Description = nil
	} else if p.Description != nil {
		d := *p.Description
		t.Description = &d
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}
