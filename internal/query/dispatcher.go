// Package query validates user questions, sends them with the raw CSV to the
// model API, and reports typed failures.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/bird-observations-service/internal/domain"
	"github.com/couchcryptid/bird-observations-service/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/semaphore"
)

// Completer sends one chat completion request.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error)
}

// CSVProvider returns the cached raw CSV, reporting false until it is loaded.
type CSVProvider interface {
	RawCSV() (string, bool)
}

// AuditSink records dispatched questions. Failures are logged, never surfaced.
type AuditSink interface {
	PublishAudit(ctx context.Context, audit domain.QueryAudit) error
}

// Outcome labels used in metrics and audit records.
const (
	OutcomeAnswered     = "answered"
	OutcomeInvalidKey   = "invalid_key"
	OutcomeEmptyQuery   = "empty_query"
	OutcomeCSVNotLoaded = "csv_not_loaded"
	OutcomeAPIError     = "api_error"
	OutcomeBadResponse  = "bad_response"
	OutcomeNetworkError = "network_error"
)

// Request is a question as submitted by the user.
type Request struct {
	APIKey string
	Query  string
}

// Result is a successful answer.
type Result struct {
	ID     string
	Answer string
	Model  string
}

// Config holds dispatcher settings.
type Config struct {
	Model         string // recorded in audits
	DefaultAPIKey string // used when the request carries no key
	MaxInFlight   int
}

// Dispatcher sends questions to the model API. Overlapping questions are
// allowed up to MaxInFlight; further callers wait for a slot.
type Dispatcher struct {
	csv       CSVProvider
	completer Completer
	audit     AuditSink
	cfg       Config
	sem       *semaphore.Weighted
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
}

// New creates a Dispatcher. audit and clock may be nil.
func New(csv CSVProvider, completer Completer, audit AuditSink, cfg Config, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Dispatcher {
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Dispatcher{
		csv:       csv,
		completer: completer,
		audit:     audit,
		cfg:       cfg,
		sem:       semaphore.NewWeighted(int64(cfg.MaxInFlight)),
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
	}
}

// Ask validates the request and sends a single completion request. Errors are
// domain.ErrInvalidAPIKey, domain.ErrEmptyQuery, domain.ErrCSVNotLoaded,
// *domain.APIError, domain.ErrUnexpectedResponse, or a wrapped transport error.
func (d *Dispatcher) Ask(ctx context.Context, req Request) (Result, error) {
	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = d.cfg.DefaultAPIKey
	}
	q := strings.TrimSpace(req.Query)

	if err := domain.ValidateQuery(apiKey, q); err != nil {
		d.metrics.Queries.WithLabelValues(Outcome(err)).Inc()
		return Result{}, err
	}

	rawCSV, ok := d.csv.RawCSV()
	if !ok {
		d.metrics.Queries.WithLabelValues(OutcomeCSVNotLoaded).Inc()
		return Result{}, domain.ErrCSVNotLoaded
	}

	if err := d.sem.Acquire(ctx, 1); err != nil {
		return Result{}, fmt.Errorf("wait for query slot: %w", err)
	}
	defer d.sem.Release(1)

	d.metrics.QueriesInFlight.Inc()
	defer d.metrics.QueriesInFlight.Dec()

	id := uuid.NewString()
	askedAt := d.clock.Now()

	completion, err := d.completer.Complete(ctx, domain.CompletionRequest{
		APIKey: apiKey,
		System: domain.SystemPrompt,
		Prompt: domain.BuildPrompt(rawCSV, q),
	})
	elapsed := d.clock.Since(askedAt)
	d.metrics.LLMDuration.Observe(elapsed.Seconds())

	outcome := Outcome(err)
	d.metrics.Queries.WithLabelValues(outcome).Inc()

	audit := domain.QueryAudit{
		ID:          id,
		Query:       q,
		Model:       d.cfg.Model,
		Outcome:     outcome,
		AnswerChars: utf8.RuneCountInString(completion.Answer),
		Duration:    elapsed,
		AskedAt:     askedAt,
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		audit.StatusCode = apiErr.StatusCode
	}
	d.publishAudit(ctx, audit)

	if err != nil {
		d.logger.Warn("query failed", "query_id", id, "outcome", outcome, "error", err)
		return Result{}, err
	}

	d.logger.Info("query answered", "query_id", id, "answer_chars", audit.AnswerChars, "duration", elapsed)
	model := completion.Model
	if model == "" {
		model = d.cfg.Model
	}
	return Result{ID: id, Answer: completion.Answer, Model: model}, nil
}

func (d *Dispatcher) publishAudit(ctx context.Context, audit domain.QueryAudit) {
	if d.audit == nil {
		return
	}
	if err := d.audit.PublishAudit(context.WithoutCancel(ctx), audit); err != nil {
		d.metrics.AuditFailures.Inc()
		d.logger.Warn("publish query audit failed", "query_id", audit.ID, "error", err)
	}
}

// Outcome maps an Ask error to its metric and audit label.
func Outcome(err error) string {
	var apiErr *domain.APIError
	switch {
	case err == nil:
		return OutcomeAnswered
	case errors.Is(err, domain.ErrInvalidAPIKey):
		return OutcomeInvalidKey
	case errors.Is(err, domain.ErrEmptyQuery):
		return OutcomeEmptyQuery
	case errors.Is(err, domain.ErrCSVNotLoaded):
		return OutcomeCSVNotLoaded
	case errors.As(err, &apiErr):
		return OutcomeAPIError
	case errors.Is(err, domain.ErrUnexpectedResponse):
		return OutcomeBadResponse
	default:
		return OutcomeNetworkError
	}
}
