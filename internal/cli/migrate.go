package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"survey-service/internal/app"
	"survey-service/internal/config"
	"survey-service/internal/domain"
	"survey-service/internal/infra/postgres"
)

var errNoDatabase = errors.New("postgres url not configured")

// NewMigrateCmd applies database migrations and seeds the default catalog and accounts.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed initial data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			return prepareDatabase(cmd.Context(), cfg, log)
		},
	}
}

// prepareDatabase migrates the schema and seeds empty tables.
func prepareDatabase(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if cfg.Postgres.URL == "" {
		return errNoDatabase
	}

	db := postgres.OpenBun(cfg.Postgres.URL)
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("migrations applied")

	res, err := postgres.NewSeeder(db, app.HashPassword).Seed(ctx, domain.DefaultCatalog(), domain.DefaultUsers())
	if err != nil {
		return err
	}
	log.Info("seed complete", zap.Int("questions", res.Questions), zap.Int("users", res.Users))
	return nil
}
