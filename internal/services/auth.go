package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/taskvault/taskvault-api/internal/models"
	"github.com/taskvault/taskvault-api/internal/security"
	"github.com/taskvault/taskvault-api/internal/store"
)

const (
	minPasswordChars = 8
	maxPasswordChars = 64
	maxEmailChars    = 320

	// TokenType is returned alongside every access token
	TokenType = "bearer"
)

// AuthService implements registration, login and account removal
type AuthService struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
}

// NewAuthService wires an AuthService
func NewAuthService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

// Register validates the credentials, hashes the password and inserts the
// user. There is no existence pre-check: the unique constraint decides and a
// violation becomes ErrConflict.
func (s *AuthService) Register(ctx context.Context, email, password string) (models.User, error) {
	if err := validateEmail(email); err != nil {
		return models.User{}, err
	}
	if n := utf8.RuneCountInString(password); n < minPasswordChars || n > maxPasswordChars {
		return models.User{}, invalid("password", "must be between %d and %d characters", minPasswordChars, maxPasswordChars)
	}
	if n := len(password); n > security.MaxPasswordBytes {
		return models.User{}, invalid("password", "password too long (%d bytes; limit is %d bytes)", n, security.MaxPasswordBytes)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	user, err := s.users.Create(ctx, email, digest)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return models.User{}, fmt.Errorf("email already registered: %w", ErrConflict)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and issues an access token. An unknown email
// and a wrong password both return ErrUnauthenticated and cost one bcrypt
// comparison each.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.hasher.VerifyDummy(password)
		return "", ErrUnauthenticated
	case err != nil:
		return "", fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrUnauthenticated
	}
	return s.issue(user)
}

// SignInVerifiedEmail signs in the account for an email an external
// identity provider has verified, creating the account on first use. The
// created account gets a random password digest, so it can only sign in
// through the provider until a password is set.
func (s *AuthService) SignInVerifiedEmail(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		user, err = s.createExternal(ctx, email)
	}
	if err != nil {
		return "", fmt.Errorf("external sign-in: %w", err)
	}
	return s.issue(user)
}

func (s *AuthService) createExternal(ctx context.Context, email string) (models.User, error) {
	if err := validateEmail(email); err != nil {
		return models.User{}, err
	}
	digest, err := s.hasher.RandomDigest()
	if err != nil {
		return models.User{}, err
	}
	user, err := s.users.Create(ctx, email, digest)
	if errors.Is(err, store.ErrDuplicateEmail) {
		// Lost a race with a concurrent first sign-in; the winner's row is fine.
		return s.users.GetByEmail(ctx, email)
	}
	if err == nil {
		s.logger.InfoContext(ctx, "user registered via identity provider", "user_id", user.ID)
	}
	return user, err
}

// DeleteAccount removes the user and all of their tasks. Tokens already
// issued stop resolving because the subject no longer exists.
func (s *AuthService) DeleteAccount(ctx context.Context, user models.User) error {
	err := s.users.Delete(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", user.ID)
	return nil
}

func (s *AuthService) issue(user models.User) (string, error) {
	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "is required")
	}
	if utf8.RuneCountInString(email) > maxEmailChars {
		return invalid("email", "must be at most %d characters", maxEmailChars)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return invalid("email", "is not a valid email address")
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return invalid("email", "is not a valid email address")
	}
	return nil
}
