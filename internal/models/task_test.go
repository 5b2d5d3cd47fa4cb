package models

import "testing"

func strPtr(s string) *string { return &s }

func TestTaskPatch_ApplyOnlyTouchesPresentFields(t *testing.T) {
	base := Task{
		ID:          7,
		Title:       "write report",
		Description: strPtr("quarterly"),
		Status:      "todo",
		Priority:    "medium",
		UserID:      3,
	}

	tests := []struct {
		name  string
		patch TaskPatch
		want  Task
	}{
		{
			name:  "empty",
			patch: TaskPatch{},
			want:  base,
		},
		{
			name:  "status only",
			patch: TaskPatch{Status: strPtr("done")},
			want:  Task{ID: 7, Title: "write report", Description: strPtr("quarterly"), Status: "done", Priority: "medium", UserID: 3},
		},
		{
			name:  "clear description",
			patch: TaskPatch{ClearDescription: true, Description: strPtr("ignored")},
			want:  Task{ID: 7, Title: "write report", Status: "todo", Priority: "medium", UserID: 3},
		},
		{
			name:  "title and priority",
			patch: TaskPatch{Title: strPtr("ship report"), Priority: strPtr("high")},
			want:  Task{ID: 7, Title: "ship report", Description: strPtr("quarterly"), Status: "todo", Priority: "high", UserID: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.patch.Apply(base)
			if got.Title != tt.want.Title || got.Status != tt.want.Status || got.Priority != tt.want.Priority ||
				got.ID != tt.want.ID || got.UserID != tt.want.UserID {
				t.Errorf("Apply = %+v, want %+v", got, tt.want)
			}
			switch {
			case got.Description == nil && tt.want.Description != nil,
				got.Description != nil && tt.want.Description == nil:
				t.Errorf("Description = %v, want %v", got.Description, tt.want.Description)
			case got.Description != nil && *got.Description != *tt.want.Description:
				t.Errorf("Description = %q, want %q", *got.Description, *tt.want.Description)
			}
			if tt.patch.IsEmpty() != (tt.name == "empty") {
				t.Errorf("IsEmpty = %v", tt.patch.IsEmpty())
			}
		})
	}

	if *base.Description != "quarterly" {
		t.Error("Apply mutated the original task")
	}
}
