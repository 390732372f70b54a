package memory

import (
	"context"
	"sync"

	"survey-service/internal/domain"
)

// UserStore keeps seeded accounts in memory.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

// Seed stores users when the store is empty. hash turns a plain password into a stored hash.
func (s *UserStore) Seed(seeds []domain.SeedUser, hash func(string) (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.users) > 0 {
		return nil
	}
	for i, seed := range seeds {
		h, err := hash(seed.Password)
		if err != nil {
			return err
		}
		s.users[seed.Username] = domain.User{ID: int64(i + 1), Username: seed.Username, PasswordHash: h}
	}
	return nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}
