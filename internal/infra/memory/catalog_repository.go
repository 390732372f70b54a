package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"survey-service/internal/domain"
)

// CatalogLoader fetches catalog questions from a backing store.
type CatalogLoader interface {
	LoadQuestions(ctx context.Context, limit int) ([]domain.Question, error)
}

// CatalogRepository caches catalog prefixes with TTL to avoid repeated store hits.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[int]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int]cachedQuestions),
	}
}

func (r *CatalogRepository) ListQuestions(ctx context.Context, limit int) ([]domain.Question, error) {
	if questions, ok := r.lookup(limit); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(strconv.Itoa(limit), func() (interface{}, error) {
		if questions, ok := r.lookup(limit); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, limit)
		if err != nil {
			return nil, err
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			r.mu.Lock()
			r.cache[limit] = cachedQuestions{
				questions: questions,
				expiresAt: r.clock().Add(ttl),
			}
			r.mu.Unlock()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneQuestions(result.([]domain.Question)), nil
}

func (r *CatalogRepository) lookup(limit int) ([]domain.Question, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[limit]; ok && entry.expiresAt.After(now) {
		return cloneQuestions(entry.questions), true
	}
	return nil, false
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// CatalogStore is an in-memory question table (useful for tests/demos and database-less runs).
type CatalogStore struct {
	mu        sync.RWMutex
	questions []domain.Question
}

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{}
}

// Seed inserts seeds with ids 1..n when the store is empty and returns how many were inserted.
func (s *CatalogStore) Seed(seeds []domain.SeedQuestion) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) > 0 {
		return 0
	}
	for i, seed := range seeds {
		s.questions = append(s.questions, domain.Question{
			ID:      int64(i + 1),
			Text:    seed.Text,
			Type:    seed.Type,
			Options: append([]string(nil), seed.Options...),
		})
	}
	return len(seeds)
}

// Count reports the number of stored questions.
func (s *CatalogStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions)
}

func (s *CatalogStore) LoadQuestions(_ context.Context, limit int) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit > len(s.questions) {
		limit = len(s.questions)
	}
	if limit < 0 {
		limit = 0
	}
	return cloneQuestions(s.questions[:limit]), nil
}

func cloneQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	for i, q := range in {
		out[i] = q
		if q.Options != nil {
			out[i].Options = append([]string(nil), q.Options...)
		}
	}
	return out
}
