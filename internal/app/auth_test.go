package app_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"survey-service/internal/app"
	"survey-service/internal/domain"
	"survey-service/internal/infra/memory"
)

func TestLogin(t *testing.T) {
	users := memory.NewUserStore()
	hash := func(p string) (string, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
		return string(h), err
	}
	if err := users.Seed(domain.DefaultUsers(), hash); err != nil {
		t.Fatalf("seed: %v", err)
	}
	auth := app.NewAuthenticator(users)

	user, err := auth.Login(context.Background(), "admin", "password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "admin" {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := auth.Login(context.Background(), "admin", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := auth.Login(context.Background(), "ghost", "x"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}
