// Package memstore is an in-memory stand-in for the PostgreSQL stores, used
// by tests. It enforces the same unique email rule, owner cascade and id
// ordering as the real schema.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskvault/taskvault-api/internal/models"
	"github.com/taskvault/taskvault-api/internal/store"
)

// DB holds users and tasks behind one mutex.
type DB struct {
	mu         sync.Mutex
	users      map[int64]models.User
	tasks      map[int64]models.Task
	nextUserID int64
	nextTaskID int64
	now        func() time.Time
}

// New returns an empty DB
func New() *DB {
	return &DB{
		users: make(map[int64]models.User),
		tasks: make(map[int64]models.Task),
		now:   time.Now,
	}
}

// Users returns the credential-store view of db
func (db *DB) Users() *Users { return &Users{db: db} }

// Tasks returns the task-store view of db
func (db *DB) Tasks() *Tasks { return &Tasks{db: db} }

// Users implements services.UserRepository
type Users struct{ db *DB }

func (u *Users) Create(_ context.Context, email, passwordHash string) (models.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	for _, existing := range u.db.users {
		if existing.Email == email {
			return models.User{}, store.ErrDuplicateEmail
		}
	}
	u.db.nextUserID++
	user := models.User{ID: u.db.nextUserID, Email: email, PasswordHash: passwordHash, CreatedAt: u.db.now()}
	u.db.users[user.ID] = user
	return user, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (models.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	for _, user := range u.db.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (u *Users) GetByID(_ context.Context, id int64) (models.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	user, ok := u.db.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (u *Users) Delete(_ context.Context, id int64) error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	if _, ok := u.db.users[id]; !ok {
		return store.ErrNotFound
	}
	for taskID, task := range u.db.tasks {
		if task.UserID == id {
			delete(u.db.tasks, taskID)
		}
	}
	delete(u.db.users, id)
	return nil
}

// Tasks implements services.TaskRepository
type Tasks struct{ db *DB }

func (t *Tasks) Create(_ context.Context, ownerID int64, nt models.NewTask) (models.Task, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if _, ok := t.db.users[ownerID]; !ok {
		return models.Task{}, store.ErrNotFound
	}
	t.db.nextTaskID++
	now := t.db.now()
	task := models.Task{
		ID:          t.db.nextTaskID,
		Title:       nt.Title,
		Description: copyString(nt.Description),
		Status:      nt.Status,
		Priority:    nt.Priority,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.db.tasks[task.ID] = task
	return cloneTask(task), nil
}

func (t *Tasks) ListByOwner(_ context.Context, ownerID int64) ([]models.Task, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	var out []models.Task
	for _, task := range t.db.tasks {
		if task.UserID == ownerID {
			out = append(out, cloneTask(task))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (t *Tasks) Get(_ context.Context, id int64) (models.Task, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	task, ok := t.db.tasks[id]
	if !ok {
		return models.Task{}, store.ErrNotFound
	}
	return cloneTask(task), nil
}

func (t *Tasks) Update(_ context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	task, ok := t.db.tasks[id]
	if !ok {
		return models.Task{}, store.ErrNotFound
	}
	if patch.IsEmpty() {
		return cloneTask(task), nil
	}
	task = patch.Apply(task)
	task.UpdatedAt = t.db.now()
	t.db.tasks[id] = task
	return cloneTask(task), nil
}

func (t *Tasks) Delete(_ context.Context, id int64) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if _, ok := t.db.tasks[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.db.tasks, id)
	return nil
}

func cloneTask(t models.Task) models.Task {
	t.Description = copyString(t.Description)
	return t
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
