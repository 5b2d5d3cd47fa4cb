package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskvault/taskvault-api/internal/config"
	"github.com/taskvault/taskvault-api/internal/middleware"
	"github.com/taskvault/taskvault-api/internal/models"
	"github.com/taskvault/taskvault-api/internal/security"
	"github.com/taskvault/taskvault-api/internal/store/memstore"
)

type fixture struct {
	db     *memstore.DB
	tokens *middleware.TokenService
	auth   *AuthService
	guard  *Guard
	tasks  *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memstore.New()
	tokens := middleware.NewTokenService(&config.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "taskvault",
		AccessTokenTTL: 60 * time.Minute,
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	guard := NewGuard(tokens, db.Users(), db.Tasks())
	return &fixture{
		db:     db,
		tokens: tokens,
		auth:   NewAuthService(db.Users(), security.NewHasher(bcrypt.MinCost), tokens, logger),
		guard:  guard,
		tasks:  NewTaskService(db.Tasks(), guard),
	}
}

func (f *fixture) register(t *testing.T, email string) models.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), email, "Password123!")
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return user
}

func ptr[T any](v T) *T { return &v }
