package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"

	"survey-service/internal/domain"
)

// seedLockKey serializes seeding across processes sharing a database.
const seedLockKey = 0x5e5eed

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID      int64   `bun:"id,pk,autoincrement"`
	Text    string  `bun:"question_text,notnull"`
	Type    string  `bun:"question_type,notnull"`
	Options *string `bun:"options"`
}

type userRow struct {
	bun.BaseModel `bun:"table:users"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Username string `bun:"username,notnull,unique"`
	Password string `bun:"password,notnull"`
}

// SeedResult reports how many rows a seeding run inserted.
type SeedResult struct {
	Questions int
	Users     int
}

// Seeder inserts the initial catalog and accounts.
type Seeder struct {
	db   *bun.DB
	hash func(string) (string, error)
}

func NewSeeder(db *bun.DB, hash func(string) (string, error)) *Seeder {
	return &Seeder{db: db, hash: hash}
}

// Seed fills empty tables. It holds a transaction-scoped advisory lock and inserts with
// ON CONFLICT DO NOTHING, so repeated or concurrent runs never duplicate rows.
func (s *Seeder) Seed(ctx context.Context, questions []domain.SeedQuestion, users []domain.SeedUser) (SeedResult, error) {
	var res SeedResult
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(?)", seedLockKey); err != nil {
			return fmt.Errorf("acquire seed lock: %w", err)
		}

		n, err := s.seedQuestions(ctx, tx, questions)
		if err != nil {
			return err
		}
		res.Questions = n

		n, err = s.seedUsers(ctx, tx, users)
		if err != nil {
			return err
		}
		res.Users = n
		return nil
	})
	return res, err
}

func (s *Seeder) seedQuestions(ctx context.Context, tx bun.Tx, seeds []domain.SeedQuestion) (int, error) {
	count, err := tx.NewSelect().Model((*questionRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if count > 0 || len(seeds) == 0 {
		return 0, nil
	}

	rows := make([]questionRow, 0, len(seeds))
	for _, seed := range seeds {
		row := questionRow{Text: seed.Text, Type: string(seed.Type)}
		if seed.Type == domain.QuestionTypeMultipleChoice {
			encoded, err := json.Marshal(seed.Options)
			if err != nil {
				return 0, fmt.Errorf("encode options: %w", err)
			}
			options := string(encoded)
			row.Options = &options
		}
		rows = append(rows, row)
	}

	result, err := tx.NewInsert().
		Model(&rows).
		On("CONFLICT (question_text) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("insert questions: %w", err)
	}
	return affected(result), nil
}

func (s *Seeder) seedUsers(ctx context.Context, tx bun.Tx, seeds []domain.SeedUser) (int, error) {
	count, err := tx.NewSelect().Model((*userRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if count > 0 || len(seeds) == 0 {
		return 0, nil
	}

	rows := make([]userRow, 0, len(seeds))
	for _, seed := range seeds {
		hash, err := s.hash(seed.Password)
		if err != nil {
			return 0, fmt.Errorf("hash password for %s: %w", seed.Username, err)
		}
		rows = append(rows, userRow{Username: seed.Username, Password: hash})
	}

	result, err := tx.NewInsert().
		Model(&rows).
		On("CONFLICT (username) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("insert users: %w", err)
	}
	return affected(result), nil
}

func affected(result sql.Result) int {
	n, err := result.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}
