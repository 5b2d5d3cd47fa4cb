package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/taskvault/taskvault-api/internal/models"
)

func TestUpdateTaskRequest_Presence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string][2]bool // field -> {Set, Null}
	}{
		{
			name: "empty object",
			body: `{}`,
			want: map[string][2]bool{"title": {false, false}, "description": {false, false}, "status": {false, false}, "priority": {false, false}},
		},
		{
			name: "status only",
			body: `{"status":"done"}`,
			want: map[string][2]bool{"title": {false, false}, "description": {false, false}, "status": {true, false}, "priority": {false, false}},
		},
		{
			name: "explicit null description",
			body: `{"description":null,"title":"x"}`,
			want: map[string][2]bool{"title": {true, false}, "description": {true, true}, "status": {false, false}, "priority": {false, false}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateTaskRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			got := map[string][2]bool{
				"title":       {req.Title.Set, req.Title.Null},
				"description": {req.Description.Set, req.Description.Null},
				"status":      {req.Status.Set, req.Status.Null},
				"priority":    {req.Priority.Set, req.Priority.Null},
			}
			for field, want := range tt.want {
				if got[field] != want {
					t.Errorf("%s {Set,Null} = %v, want %v", field, got[field], want)
				}
			}
		})
	}
}

func TestUpdateTaskRequest_WrongType(t *testing.T) {
	var req UpdateTaskRequest
	if err := json.Unmarshal([]byte(`{"title":42}`), &req); err == nil {
		t.Fatal("expected error for numeric title")
	}
}

func TestNewTaskListResponse_EmptyIsNotNil(t *testing.T) {
	items := NewTaskListResponse(nil)
	data, err := json.Marshal(items)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("encoded = %s, want []", data)
	}
}

func TestNewTaskResponse(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	resp := NewTaskResponse(models.Task{ID: 1, Title: "T", Status: "todo", Priority: "medium", CreatedAt: ts, UpdatedAt: ts})
	if resp.CreatedAt != "2026-03-01T10:00:00Z" {
		t.Errorf("CreatedAt = %q", resp.CreatedAt)
	}
	if resp.Description != nil {
		t.Errorf("Description = %v, want nil", resp.Description)
	}
}
