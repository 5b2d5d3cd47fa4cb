package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/taskvault/taskvault-api/internal/dto"
	"github.com/taskvault/taskvault-api/internal/models"
)

func createReq(title string) dto.CreateTaskRequest {
	return dto.CreateTaskRequest{Title: title}
}

func patchReq(t *testing.T, body string) dto.UpdateTaskRequest {
	t.Helper()
	var req dto.UpdateTaskRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal %s: %v", body, err)
	}
	return req
}

func TestTaskService_CreateDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.com")

	task, err := f.tasks.Create(ctx, user, createReq("T"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.ID != 1 || task.Status != "todo" || task.Priority != "medium" || task.UserID != user.ID {
		t.Errorf("task = %+v", task)
	}

	fetched, err := f.tasks.Get(ctx, user, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched.Title != task.Title || fetched.Status != task.Status || fetched.Priority != task.Priority ||
		fetched.Description != nil || !fetched.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("round trip: got %+v, created %+v", fetched, task)
	}
}

func TestTaskService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.CreateTaskRequest
		field string
	}{
		{name: "missing title", req: dto.CreateTaskRequest{}, field: "title"},
		{name: "long title", req: createReq(strings.Repeat("t", 201)), field: "title"},
		{name: "long status", req: dto.CreateTaskRequest{Title: "T", Status: ptr(strings.Repeat("s", 21))}, field: "status"},
		{name: "long priority", req: dto.CreateTaskRequest{Title: "T", Priority: ptr(strings.Repeat("p", 21))}, field: "priority"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			user := f.register(t, "a@x.com")
			_, err := f.tasks.Create(context.Background(), user, tt.req)
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tt.field {
				t.Errorf("error = %v, want validation error on %s", err, tt.field)
			}
		})
	}

	f := newFixture(t)
	user := f.register(t, "a@x.com")
	if _, err := f.tasks.Create(context.Background(), user, createReq(strings.Repeat("é", 200))); err != nil {
		t.Errorf("200-character multibyte title rejected: %v", err)
	}
}

func TestTaskService_ListScopedAndDescending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")
	b := f.register(t, "b@x.com")

	for i := 0; i < 4; i++ {
		if _, err := f.tasks.Create(ctx, a, createReq("a")); err != nil {
			t.Fatal(err)
		}
		if _, err := f.tasks.Create(ctx, b, createReq("b")); err != nil {
			t.Fatal(err)
		}
	}

	list, err := f.tasks.List(ctx, a)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 4 {
		t.Fatalf("len = %d, want 4", len(list))
	}
	for i, task := range list {
		if task.UserID != a.ID {
			t.Errorf("foreign task %d listed", task.ID)
		}
		if i > 0 && list[i-1].ID <= task.ID {
			t.Errorf("not descending at %d", i)
		}
	}

	c := f.register(t, "c@x.com")
	if list, _ := f.tasks.List(ctx, c); len(list) != 0 {
		t.Errorf("new user sees %d tasks", len(list))
	}
}

func TestTaskService_UpdateIsPresenceBased(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.com")
	task, err := f.tasks.Create(ctx, user, dto.CreateTaskRequest{Title: "T", Description: ptr("d"), Priority: ptr("high")})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := f.tasks.Update(ctx, user, task.ID, patchReq(t, `{"status":"done"}`))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != "done" || updated.Title != "T" || updated.Priority != "high" ||
		updated.Description == nil || *updated.Description != "d" {
		t.Errorf("after status patch: %+v", updated)
	}

	cleared, err := f.tasks.Update(ctx, user, task.ID, patchReq(t, `{"description":null}`))
	if err != nil {
		t.Fatalf("Update(null description): %v", err)
	}
	if cleared.Description != nil || cleared.Status != "done" {
		t.Errorf("after clearing description: %+v", cleared)
	}

	unchanged, err := f.tasks.Update(ctx, user, task.ID, patchReq(t, `{}`))
	if err != nil {
		t.Fatalf("Update({}): %v", err)
	}
	if !unchanged.UpdatedAt.Equal(cleared.UpdatedAt) || unchanged.Status != "done" {
		t.Errorf("empty patch changed the task: %+v", unchanged)
	}
}

func TestTaskService_UpdateRejectsBadValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.com")
	task, _ := f.tasks.Create(ctx, user, createReq("T"))

	for _, body := range []string{`{"title":null}`, `{"title":""}`, `{"status":null}`, `{"priority":null}`} {
		var vErr *ValidationError
		if _, err := f.tasks.Update(ctx, user, task.ID, patchReq(t, body)); !errors.As(err, &vErr) {
			t.Errorf("%s: error = %v, want validation error", body, err)
		}
	}
	current, _ := f.db.Tasks().Get(ctx, task.ID)
	if current.Title != "T" || current.Status != "todo" {
		t.Errorf("rejected patch mutated the task: %+v", current)
	}
}

func TestTaskService_ForeignAccessNeverMutates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@x.com")
	intruder := f.register(t, "b@x.com")
	task, _ := f.tasks.Create(ctx, owner, createReq("A task"))

	if _, err := f.tasks.Get(ctx, intruder, task.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Get error = %v, want ErrForbidden", err)
	}
	if _, err := f.tasks.Update(ctx, intruder, task.ID, patchReq(t, `{"title":"Hacked"}`)); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update error = %v, want ErrForbidden", err)
	}
	if err := f.tasks.Delete(ctx, intruder, task.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete error = %v, want ErrForbidden", err)
	}

	current, err := f.db.Tasks().Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("task gone after foreign delete: %v", err)
	}
	if current.Title != "A task" || !current.UpdatedAt.Equal(task.UpdatedAt) {
		t.Errorf("task mutated by foreign user: %+v", current)
	}
}

func TestTaskService_MissingIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.com")

	if _, err := f.tasks.Get(ctx, user, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v", err)
	}
	if _, err := f.tasks.Update(ctx, user, 999, patchReq(t, `{"title":"x"}`)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update error = %v", err)
	}
	if err := f.tasks.Delete(ctx, user, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete error = %v", err)
	}
}

func TestTaskService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.com")
	task, _ := f.tasks.Create(ctx, user, createReq("T"))

	if err := f.tasks.Delete(ctx, user, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.tasks.Get(ctx, user, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
}

type failingTasks struct{ TaskRepository }

func (failingTasks) Get(context.Context, int64) (models.Task, error) {
	return models.Task{}, errors.New("connection reset")
}

func TestTaskService_StorageErrorsAreNotTaxonomyErrors(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "a@x.com")
	guard := NewGuard(f.tokens, f.db.Users(), failingTasks{f.db.Tasks()})
	svc := NewTaskService(f.db.Tasks(), guard)

	_, err := svc.Get(context.Background(), user, 1)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, sentinel := range []error{ErrNotFound, ErrForbidden, ErrUnauthenticated, ErrConflict} {
		if errors.Is(err, sentinel) {
			t.Errorf("storage failure reported as %v", sentinel)
		}
	}
}
