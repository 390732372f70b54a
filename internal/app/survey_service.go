package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"survey-service/internal/domain"
	"survey-service/internal/metrics"
)

const (
	quickLimit   = 3
	detailsLimit = 10
)

// CatalogRepository serves catalog questions (from cache or backing store).
type CatalogRepository interface {
	ListQuestions(ctx context.Context, limit int) ([]domain.Question, error)
}

// ResponseStore is the append-only response log.
type ResponseStore interface {
	// AppendBatch writes rows in order and returns them with ids and timestamps assigned.
	// On failure the returned slice holds the rows committed before the failing one.
	AppendBatch(ctx context.Context, rows []domain.Response) ([]domain.Response, error)
	// Recent returns up to limit responses, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Response, error)
}

// SurveyService contains the survey delivery and response collection use cases.
type SurveyService struct {
	catalog   CatalogRepository
	responses ResponseStore
	profile   domain.Profile
	feed      *Feed
	log       *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option customizes a SurveyService.
type Option func(*SurveyService)

// WithProfile sets the deployment profile.
func WithProfile(p domain.Profile) Option {
	return func(s *SurveyService) { s.profile = p }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *SurveyService) { s.log = l }
}

// WithMetrics records accepted and skipped entries.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SurveyService) { s.metrics = m }
}

// WithFeed publishes every stored batch to f.
func WithFeed(f *Feed) Option {
	return func(s *SurveyService) { s.feed = f }
}

// WithClock is test-only for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SurveyService) { s.now = now }
}

func NewSurveyService(catalog CatalogRepository, responses ResponseStore, opts ...Option) *SurveyService {
	s := &SurveyService{
		catalog:   catalog,
		responses: responses,
		profile:   domain.DefaultProfile(),
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the deployment profile the service was built with.
func (s *SurveyService) Profile() domain.Profile {
	return s.profile
}

// ResolveVariant maps a requested survey type to its question policy.
// Unknown or empty names fall back to the quick variant.
func (s *SurveyService) ResolveVariant(requested string) domain.Variant {
	switch requested {
	case domain.VariantDetails:
		return domain.Variant{Mode: domain.ModeCatalog, Limit: detailsLimit}
	case domain.VariantCustom:
		if s.profile.SupportsCustomMode {
			return domain.Variant{Mode: domain.ModeCustom}
		}
	}
	return domain.Variant{Mode: domain.ModeCatalog, Limit: quickLimit}
}

// ListQuestions returns the first limit catalog questions in ascending id order.
func (s *SurveyService) ListQuestions(ctx context.Context, limit int) ([]domain.Question, error) {
	if limit <= 0 {
		return []domain.Question{}, nil
	}
	questions, err := s.catalog.ListQuestions(ctx, limit)
	if err != nil {
		if !errors.Is(err, domain.ErrStorageUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		return nil, err
	}
	if len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

// QuestionsForVariant resolves requested and lists its questions. Custom mode yields none.
func (s *SurveyService) QuestionsForVariant(ctx context.Context, requested string) (domain.Variant, []domain.Question, error) {
	variant := s.ResolveVariant(requested)
	if variant.Mode == domain.ModeCustom {
		return variant, []domain.Question{}, nil
	}
	questions, err := s.ListQuestions(ctx, variant.Limit)
	return variant, questions, err
}

// AdaptCustom turns an ad-hoc question/answer pair into a non-catalog response.
func AdaptCustom(entry domain.Entry) domain.Response {
	return domain.Response{
		QuestionID: domain.CustomQuestionID,
		Answer:     domain.EncodeCustomAnswer(entry.QuestionText, entry.Answer),
	}
}

// SubmitBatch validates entries and appends the valid ones to the response store in order.
// A nil entries slice means the request carried no responses array. Invalid entries are
// skipped. Rows written before a storage failure stay committed and are counted in the result.
func (s *SurveyService) SubmitBatch(ctx context.Context, entries []domain.Entry, isCustom bool) (domain.BatchResult, error) {
	if entries == nil {
		return domain.BatchResult{}, domain.ErrInvalidFormat
	}
	custom := isCustom && s.profile.SupportsCustomMode
	mode := string(domain.ModeCatalog)
	if custom {
		mode = string(domain.ModeCustom)
	}

	rows := make([]domain.Response, 0, len(entries))
	for i, entry := range entries {
		if strings.TrimSpace(entry.Answer) == "" {
			s.log.Debug("skipping entry with empty answer", zap.Int("index", i))
			continue
		}
		if custom {
			rows = append(rows, AdaptCustom(entry))
			continue
		}
		if entry.QuestionID == nil {
			s.log.Debug("skipping entry without question_id", zap.Int("index", i))
			continue
		}
		rows = append(rows, domain.Response{QuestionID: *entry.QuestionID, Answer: entry.Answer})
	}

	result := domain.BatchResult{Skipped: len(entries) - len(rows), Custom: custom, At: s.now()}
	s.metrics.ObserveSkipped(mode, result.Skipped)
	if len(rows) == 0 {
		return result, nil
	}

	written, err := s.responses.AppendBatch(ctx, rows)
	result.Accepted = len(written)
	s.metrics.ObserveAccepted(mode, result.Accepted)
	if err != nil {
		if !errors.Is(err, domain.ErrStorageWriteFailed) && !errors.Is(err, domain.ErrStorageUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrStorageWriteFailed, err)
		}
		s.log.Error("response batch write failed",
			zap.Int("written", result.Accepted),
			zap.Int("attempted", len(rows)),
			zap.Error(err))
		return result, err
	}

	s.log.Info("responses saved",
		zap.Int("accepted", result.Accepted),
		zap.Int("skipped", result.Skipped),
		zap.Bool("custom", custom))
	if s.feed != nil {
		s.feed.Publish(result)
	}
	return result, nil
}

// RecentResponses lists up to limit stored responses, newest first.
func (s *SurveyService) RecentResponses(ctx context.Context, limit int) ([]domain.Response, error) {
	rows, err := s.responses.Recent(ctx, limit)
	if err != nil {
		if !errors.Is(err, domain.ErrStorageUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		return nil, err
	}
	return rows, nil
}
