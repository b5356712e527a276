package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"coinpulse/internal/apperr"
	"coinpulse/internal/testinfra"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountService(testinfra.NewSQLite(t))

	user, err := accounts.Register(ctx, " Ann ", "Ann@Example.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Register returned an empty id")
	}
	if user.Email != "ann@example.com" || user.Name != "Ann" {
		t.Errorf("stored user = %+v", user)
	}
	if user.PasswordHash == "secret1" {
		t.Error("password stored in plain text")
	}

	got, err := accounts.Authenticate(ctx, "ANN@example.com ", "secret1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Authenticate id = %q, want %q", got.ID, user.ID)
	}

	found, err := accounts.FindByID(ctx, user.ID)
	if err != nil || found.Email != user.Email {
		t.Errorf("FindByID = %+v, %v", found, err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountService(testinfra.NewSQLite(t))

	if _, err := accounts.Register(ctx, "Ann", "ann@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := accounts.Register(ctx, "Other Ann", "ANN@example.com", "another")
	if !errors.Is(err, apperr.ErrEmailTaken) {
		t.Errorf("second Register = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	accounts := NewAccountService(testinfra.NewSQLite(t))
	tests := []struct {
		name, user, email, password, field string
	}{
		{"missing name", "", "a@b.co", "secret1", "name"},
		{"missing email", "Ann", "", "secret1", "email"},
		{"malformed email", "Ann", "ann-at-example", "secret1", "email"},
		{"short password", "Ann", "a@b.co", "12345", "password"},
		{"password over bcrypt limit", "Ann", "a@b.co", strings.Repeat("a", 80), "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accounts.Register(context.Background(), tt.user, tt.email, tt.password)
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Register = %v, want validation error", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountService(testinfra.NewSQLite(t))
	if _, err := accounts.Register(ctx, "Ann", "ann@example.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := accounts.Authenticate(ctx, "bob@example.com", "secret1"); !errors.Is(err, apperr.ErrUnknownEmail) {
		t.Errorf("unknown email: got %v", err)
	}
	if _, err := accounts.Authenticate(ctx, "ann@example.com", "wrong-password"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := accounts.FindByID(ctx, "no-such-id"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("FindByID unknown: got %v", err)
	}
}
