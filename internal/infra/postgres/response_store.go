package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"survey-service/internal/domain"
)

const (
	insertResponseStmt = "insert_response"
	insertResponseSQL  = `INSERT INTO responses (question_id, answer) VALUES ($1, $2) RETURNING id, created_at`
)

// ResponseStore appends responses to Postgres.
//
// A batch runs on one connection through a prepared statement, one autocommitted row at a
// time. Rows written before a failing row stay committed; there is no batch rollback.
type ResponseStore struct {
	pool *pgxpool.Pool
}

func NewResponseStore(pool *pgxpool.Pool) *ResponseStore {
	return &ResponseStore{pool: pool}
}

func (s *ResponseStore) AppendBatch(ctx context.Context, rows []domain.Response) ([]domain.Response, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire connection: %v", domain.ErrStorageUnavailable, err)
	}
	defer conn.Release()

	if _, err := conn.Conn().Prepare(ctx, insertResponseStmt, insertResponseSQL); err != nil {
		return nil, fmt.Errorf("%w: prepare insert: %v", domain.ErrStorageWriteFailed, err)
	}

	written := make([]domain.Response, 0, len(rows))
	for _, row := range rows {
		if err := conn.QueryRow(ctx, insertResponseStmt, row.QuestionID, row.Answer).Scan(&row.ID, &row.CreatedAt); err != nil {
			return written, fmt.Errorf("%w: insert response: %v", domain.ErrStorageWriteFailed, err)
		}
		written = append(written, row)
	}
	return written, nil
}

func (s *ResponseStore) Recent(ctx context.Context, limit int) ([]domain.Response, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, question_id, answer, created_at
		FROM responses
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: load responses: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	responses := []domain.Response{}
	for rows.Next() {
		var r domain.Response
		if err := rows.Scan(&r.ID, &r.QuestionID, &r.Answer, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan response: %v", domain.ErrStorageUnavailable, err)
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read responses: %v", domain.ErrStorageUnavailable, err)
	}
	return responses, nil
}
