package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"survey-service/internal/domain"
)

// CatalogLoader fetches catalog questions from a backing store.
type CatalogLoader interface {
	LoadQuestions(ctx context.Context, limit int) ([]domain.Question, error)
}

// CatalogRepository caches catalog prefixes in Redis and falls back to a loader on cache miss.
// Each prefix is stored as a JSON array: SET survey:catalog:{limit} [...]
// Redis errors are treated as misses so the catalog stays readable when the cache is down.
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	log    *zap.Logger
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration, log *zap.Logger) *CatalogRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) ListQuestions(ctx context.Context, limit int) ([]domain.Question, error) {
	key := r.catalogKey(limit)
	if questions, ok := r.fromCache(ctx, key); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := r.fromCache(ctx, key); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, limit)
		if err != nil {
			return nil, err
		}

		ttl := r.ttlWithJitter()
		if ttl <= 0 {
			return questions, nil
		}
		payload, err := json.Marshal(questions)
		if err == nil {
			if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
				r.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *CatalogRepository) fromCache(ctx context.Context, key string) ([]domain.Question, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, false
	}
	return questions, true
}

func (r *CatalogRepository) catalogKey(limit int) string {
	return "survey:catalog:" + strconv.Itoa(limit)
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
