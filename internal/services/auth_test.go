package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegister_Success(t *testing.T) {
	f := newFixture(t)

	user, err := f.auth.Register(context.Background(), "a@x.com", "Password123!")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID != 1 || user.Email != "a@x.com" {
		t.Errorf("user = %+v", user)
	}
	if user.PasswordHash == "" || user.PasswordHash == "Password123!" {
		t.Errorf("password stored as %q", user.PasswordHash)
	}
}

func TestRegister_DuplicateEmailIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com")

	_, err := f.auth.Register(ctx, "a@x.com", "AnotherPass1")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second Register error = %v, want ErrConflict", err)
	}
	// Case is preserved, so a differently cased email is a different account.
	if _, err := f.auth.Register(ctx, "A@x.com", "Password123!"); err != nil {
		t.Errorf("Register(A@x.com): %v", err)
	}
	if _, err := f.db.Users().GetByID(ctx, 3); err == nil {
		t.Error("a third user row exists")
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		field    string
		detail   string
	}{
		{name: "empty email", email: "", password: "Password123!", field: "email"},
		{name: "no at sign", email: "ax.com", password: "Password123!", field: "email"},
		{name: "display name form", email: "A <a@x.com>", password: "Password123!", field: "email"},
		{name: "no domain dot", email: "a@localhost", password: "Password123!", field: "email"},
		{name: "too long email", email: strings.Repeat("a", 315) + "@x.com", password: "Password123!", field: "email"},
		{name: "short password", email: "a@x.com", password: "short", field: "password"},
		{name: "65 characters", email: "a@x.com", password: strings.Repeat("p", 65), field: "password"},
		{name: "over 72 bytes", email: "a@x.com", password: strings.Repeat("€", 25), field: "password", detail: "75 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.auth.Register(context.Background(), tt.email, tt.password)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
			if !strings.Contains(vErr.Message, tt.detail) {
				t.Errorf("Message = %q, want it to contain %q", vErr.Message, tt.detail)
			}
			if _, err := f.db.Users().GetByID(context.Background(), 1); err == nil {
				t.Error("a user row was created")
			}
		})
	}
}

func TestRegister_MultibyteWithinLimits(t *testing.T) {
	f := newFixture(t)
	// 24 characters, exactly 72 bytes.
	if _, err := f.auth.Register(context.Background(), "a@x.com", strings.Repeat("€", 24)); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com")

	token, err := f.auth.Login(ctx, "a@x.com", "Password123!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	subject, err := f.tokens.Decode(token)
	if err != nil || subject != "a@x.com" {
		t.Errorf("Decode = %q, %v; want a@x.com", subject, err)
	}

	_, wrongPassword := f.auth.Login(ctx, "a@x.com", "WRONGPASSWORD")
	_, unknownUser := f.auth.Login(ctx, "nouser@x.com", "Password123!")
	if !errors.Is(wrongPassword, ErrUnauthenticated) || !errors.Is(unknownUser, ErrUnauthenticated) {
		t.Fatalf("errors = %v / %v, want ErrUnauthenticated", wrongPassword, unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Errorf("failure cases are distinguishable: %q vs %q", wrongPassword, unknownUser)
	}

	if _, err := f.auth.Login(ctx, "A@X.COM", "Password123!"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("login with different case error = %v, want ErrUnauthenticated", err)
	}
}

func TestSignInVerifiedEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.auth.SignInVerifiedEmail(ctx, "g@x.com")
	if err != nil {
		t.Fatalf("first sign-in: %v", err)
	}
	if subject, _ := f.tokens.Decode(token); subject != "g@x.com" {
		t.Errorf("subject = %q", subject)
	}
	created, err := f.db.Users().GetByEmail(ctx, "g@x.com")
	if err != nil {
		t.Fatalf("account not created: %v", err)
	}

	if _, err := f.auth.SignInVerifiedEmail(ctx, "g@x.com"); err != nil {
		t.Fatalf("second sign-in: %v", err)
	}
	again, _ := f.db.Users().GetByEmail(ctx, "g@x.com")
	if again.ID != created.ID {
		t.Errorf("second sign-in created a new account")
	}

	// The random digest must not admit any guessable password.
	if _, err := f.auth.Login(ctx, "g@x.com", ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("password login error = %v, want ErrUnauthenticated", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.com")
	task, err := f.tasks.Create(ctx, user, createReq("T"))
	if err != nil {
		t.Fatal(err)
	}
	token, _ := f.auth.Login(ctx, "a@x.com", "Password123!")

	if err := f.auth.DeleteAccount(ctx, user); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if _, err := f.db.Tasks().Get(ctx, task.ID); err == nil {
		t.Error("task survived account deletion")
	}
	if _, err := f.guard.Authenticate(ctx, token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Authenticate after delete error = %v, want ErrUnauthenticated", err)
	}
	if err := f.auth.DeleteAccount(ctx, user); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteAccount error = %v, want ErrNotFound", err)
	}
}
