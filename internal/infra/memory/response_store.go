package memory

import (
	"context"
	"sync"
	"time"

	"survey-service/internal/domain"
)

// ResponseStore is an append-only in-memory response log.
type ResponseStore struct {
	mu     sync.Mutex
	now    func() time.Time
	nextID int64
	rows   []domain.Response
}

func NewResponseStore() *ResponseStore {
	return &ResponseStore{now: time.Now, nextID: 1}
}

func (s *ResponseStore) AppendBatch(_ context.Context, rows []domain.Response) ([]domain.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	written := make([]domain.Response, 0, len(rows))
	for _, row := range rows {
		row.ID = s.nextID
		row.CreatedAt = s.now()
		s.nextID++
		s.rows = append(s.rows, row)
		written = append(written, row)
	}
	return written, nil
}

func (s *ResponseStore) Recent(_ context.Context, limit int) ([]domain.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit > len(s.rows) {
		limit = len(s.rows)
	}
	out := make([]domain.Response, 0, limit)
	for i := len(s.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.rows[i])
	}
	return out, nil
}

// All returns every stored response in insertion order.
func (s *ResponseStore) All() []domain.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Response(nil), s.rows...)
}
