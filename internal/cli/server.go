package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"survey-service/internal/app"
	"survey-service/internal/config"
	"survey-service/internal/domain"
	"survey-service/internal/infra/memory"
	"survey-service/internal/infra/postgres"
	rediscache "survey-service/internal/infra/redis"
	"survey-service/internal/logger"
	"survey-service/internal/metrics"
	transport "survey-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the survey server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
}

// stores bundles the persistence backends chosen from config.
type stores struct {
	loader    memory.CatalogLoader
	responses app.ResponseStore
	users     app.UserStore
	close     func()
}

func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (stores, error) {
	if cfg.Postgres.URL == "" {
		log.Warn("postgres url not configured, using in-memory storage")
		catalog := memory.NewCatalogStore()
		catalog.Seed(domain.DefaultCatalog())
		users := memory.NewUserStore()
		if err := users.Seed(domain.DefaultUsers(), app.HashPassword); err != nil {
			return stores{}, err
		}
		return stores{
			loader:    catalog,
			responses: memory.NewResponseStore(),
			users:     users,
			close:     func() {},
		}, nil
	}

	if err := prepareDatabase(ctx, cfg, log); err != nil {
		return stores{}, err
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return stores{}, err
	}
	return stores{
		loader:    postgres.NewCatalogLoader(pool),
		responses: postgres.NewResponseStore(pool),
		users:     postgres.NewUserStore(pool),
		close:     pool.Close,
	}, nil
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("storage unavailable", zap.Error(err))
		return err
	}
	defer st.close()

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalog app.CatalogRepository
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		catalog = rediscache.NewCatalogRepository(client, st.loader, catalogTTL, log.Named("catalog"))
	} else {
		catalog = memory.NewCatalogRepository(st.loader, catalogTTL)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	feed := app.NewFeed()
	profile := cfg.Profile()
	service := app.NewSurveyService(catalog, st.responses,
		app.WithProfile(profile),
		app.WithLogger(log.Named("survey")),
		app.WithMetrics(m),
		app.WithFeed(feed),
	)

	mux := transport.NewRouter(transport.Deps{
		Service:   service,
		Auth:      app.NewAuthenticator(st.users),
		Feed:      feed,
		Log:       log.Named("http"),
		Metrics:   m,
		Gatherer:  reg,
		StaticDir: cfg.Server.StaticDir,
	})

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting survey service",
			zap.String("addr", server.Addr),
			zap.Bool("custom_mode", profile.SupportsCustomMode),
			zap.Bool("typed_questions", profile.SupportsTypedQuestions))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
