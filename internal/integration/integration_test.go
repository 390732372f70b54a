package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"survey-service/internal/app"
	"survey-service/internal/domain"
	"survey-service/internal/infra/postgres"
	infraredis "survey-service/internal/infra/redis"
)

func TestSurveyEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	prepare(t, ctx, pgURL)
	// A second run must not duplicate the seed data.
	prepare(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	var questionCount, userCount int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM questions`).Scan(&questionCount); err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&userCount); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if questionCount != 10 || userCount != 2 {
		t.Fatalf("expected 10 questions and 2 users after two seed runs, got %d and %d", questionCount, userCount)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	catalog := infraredis.NewCatalogRepository(redisClient, postgres.NewCatalogLoader(pool), 5*time.Minute, nil)
	store := postgres.NewResponseStore(pool)
	service := app.NewSurveyService(catalog, store)

	variant, questions, err := service.QuestionsForVariant(ctx, domain.VariantDetails)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if variant.Limit != 10 || len(questions) != 10 {
		t.Fatalf("expected 10 detail questions, got %d", len(questions))
	}
	if questions[0].ID != 1 || questions[0].Type != domain.QuestionTypeMultipleChoice || len(questions[0].Options) != 5 {
		t.Fatalf("unexpected first question %+v", questions[0])
	}
	if questions[9].Type != domain.QuestionTypeText || questions[9].Options != nil {
		t.Fatalf("expected last question to be free text, got %+v", questions[9])
	}

	qid := questions[0].ID
	res, err := service.SubmitBatch(ctx, []domain.Entry{
		{QuestionID: &qid, Answer: "Satisfied"},
		{QuestionID: &qid, Answer: "  "},
	}, false)
	if err != nil {
		t.Fatalf("submit catalog batch: %v", err)
	}
	if res.Accepted != 1 || res.Skipped != 1 {
		t.Fatalf("unexpected result %+v", res)
	}

	if _, err := service.SubmitBatch(ctx, []domain.Entry{
		{QuestionText: "Favorite color?", Answer: "Blue"},
	}, true); err != nil {
		t.Fatalf("submit custom batch: %v", err)
	}

	recent, err := service.RecentResponses(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 stored rows, got %d", len(recent))
	}
	if recent[0].QuestionID != domain.CustomQuestionID || recent[0].Answer != "Custom: Favorite color? - Blue" {
		t.Fatalf("unexpected custom row %+v", recent[0])
	}
	if recent[1].QuestionID != qid || recent[1].Answer != "Satisfied" {
		t.Fatalf("unexpected catalog row %+v", recent[1])
	}
}

func TestConcurrentSubmissionsGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	prepare(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	store := postgres.NewResponseStore(pool)
	var (
		g       errgroup.Group
		batches [2][]domain.Response
	)
	for i := range batches {
		i := i
		g.Go(func() error {
			rows := make([]domain.Response, 5)
			for j := range rows {
				rows[j] = domain.Response{QuestionID: int64(j + 1), Answer: fmt.Sprintf("client %d answer %d", i, j)}
			}
			stored, err := store.AppendBatch(ctx, rows)
			batches[i] = stored
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("append: %v", err)
	}

	seen := map[int64]bool{}
	for _, batch := range batches {
		for _, r := range batch {
			if seen[r.ID] {
				t.Fatalf("duplicate id %d", r.ID)
			}
			seen[r.ID] = true
		}
	}
	if len(seen) != 10 {
		t.Fatalf("expected 10 unique ids, got %d", len(seen))
	}
}

func TestLoginAgainstSeededUsers(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	prepare(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	auth := app.NewAuthenticator(postgres.NewUserStore(pool))
	user, err := auth.Login(ctx, "admin", "password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "admin" || user.ID == 0 {
		t.Fatalf("unexpected user %+v", user)
	}
	if _, err := auth.Login(ctx, "admin", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := auth.Login(ctx, "ghost", "password"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func prepare(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	db := postgres.OpenBun(dsn)
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	hash := func(p string) (string, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
		return string(h), err
	}
	if _, err := postgres.NewSeeder(db, hash).Seed(ctx, domain.DefaultCatalog(), domain.DefaultUsers()); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "survey", "POSTGRES_PASSWORD": "surveypass", "POSTGRES_DB": "surveydb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://survey:surveypass@%s:%s/surveydb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
