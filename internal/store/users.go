package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taskvault/taskvault-api/internal/models"
)

const userColumns = `id, email, password_hash, created_at`

// UserStore is the credential store.
type UserStore struct {
	db DB
}

// NewUserStore creates a UserStore over db
func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user. Uniqueness is left to the users_email_key
// constraint; a violation comes back as ErrDuplicateEmail.
func (s *UserStore) Create(ctx context.Context, email, passwordHash string) (models.User, error) {
	rows, err := s.db.Query(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING `+userColumns,
		email, passwordHash)
	if err != nil {
		return models.User{}, translateUserErr(err)
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return models.User{}, translateUserErr(err)
	}
	return user, nil
}

// GetByEmail looks a user up by exact email match
func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByID looks a user up by id
func (s *UserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *UserStore) getOne(ctx context.Context, sql string, arg any) (models.User, error) {
	rows, err := s.db.Query(ctx, sql, arg)
	if err != nil {
		return models.User{}, fmt.Errorf("query user: %w", err)
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return models.User{}, translateUserErr(err)
	}
	return user, nil
}

// Delete removes a user and every task they own in one transaction. The
// tasks are deleted explicitly rather than through the foreign key cascade.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete owned tasks: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete user: %w", err)
	}
	return nil
}

func translateUserErr(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case isUniqueViolation(err, usersEmailConstraint):
		return ErrDuplicateEmail
	default:
		return fmt.Errorf("users: %w", err)
	}
}
