package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"survey-service/internal/domain"
)

// CatalogLoader reads catalog prefixes from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadQuestions(ctx context.Context, limit int) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, question_text, question_type, options
		FROM questions
		ORDER BY id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: load questions: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		var (
			q       domain.Question
			qType   string
			options *string
		)
		if err := rows.Scan(&q.ID, &q.Text, &qType, &options); err != nil {
			return nil, fmt.Errorf("%w: scan question: %v", domain.ErrStorageUnavailable, err)
		}
		q.Type = domain.QuestionType(qType)
		if options != nil {
			if err := json.Unmarshal([]byte(*options), &q.Options); err != nil {
				return nil, fmt.Errorf("decode options for question %d: %w", q.ID, err)
			}
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read questions: %v", domain.ErrStorageUnavailable, err)
	}
	return questions, nil
}
