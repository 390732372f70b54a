package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"survey-service/internal/domain"
)

// UserStore looks up seeded accounts.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}

// Authenticator performs the plain username/password check used by the login page.
type Authenticator struct {
	users UserStore
}

func NewAuthenticator(users UserStore) *Authenticator {
	return &Authenticator{users: users}
}

// Login returns the matching user or domain.ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, username, password string) (domain.User, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

// HashPassword hashes a seed password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}
