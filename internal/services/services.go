// Package services holds the registration and login flow, the access guard
// and the task operations. Storage and token signing are reached through the
// small interfaces below.
package services

import (
	"context"

	"github.com/taskvault/taskvault-api/internal/models"
)

// UserRepository is the credential store. Create must report a duplicate
// email with store.ErrDuplicateEmail and missing rows with store.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	Delete(ctx context.Context, id int64) error
}

// TaskRepository is the task store. Missing rows are store.ErrNotFound.
type TaskRepository interface {
	Create(ctx context.Context, ownerID int64, t models.NewTask) (models.Task, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id int64) error
}

// PasswordHasher hashes and checks passwords
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
	VerifyDummy(plaintext string)
	RandomDigest() (string, error)
}

// TokenIssuer signs access tokens for a subject
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// TokenDecoder returns the subject of a valid token
type TokenDecoder interface {
	Decode(token string) (string, error)
}
