package memory

import (
	"context"
	"errors"
	"testing"

	"survey-service/internal/domain"
)

func TestUserStoreSeedAndFind(t *testing.T) {
	store := NewUserStore()
	hash := func(p string) (string, error) { return "hashed:" + p, nil }
	if err := store.Seed(domain.DefaultUsers(), hash); err != nil {
		t.Fatalf("seed: %v", err)
	}

	user, err := store.FindByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if user.PasswordHash != "hashed:password" {
		t.Fatalf("unexpected hash %q", user.PasswordHash)
	}

	if _, err := store.FindByUsername(context.Background(), "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
