// Package catalog loads the observation CSV once and holds the parsed result
// for the page renderer and the query dispatcher.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/bird-observations-service/internal/adapter/csvparse"
	"github.com/couchcryptid/bird-observations-service/internal/domain"
	"github.com/couchcryptid/bird-observations-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Fetcher returns the raw CSV bytes.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// ErrAlreadyLoaded is returned by Load once a snapshot has been stored.
var ErrAlreadyLoaded = errors.New("catalog already loaded")

// Stage names the step of a load that failed.
type Stage string

const (
	StageFetch Stage = "fetch"
	StageParse Stage = "parse"
)

// LoadError is a failed load. Its Message is safe to show to users.
type LoadError struct {
	Stage Stage
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s csv: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Message is the static text shown in place of the table.
func (e *LoadError) Message() string {
	if e.Stage == StageParse {
		return "Error parsing bird observations."
	}
	return "Error loading bird observations. Ensure hk_birds.csv is accessible."
}

// Snapshot is the immutable result of a successful load.
type Snapshot struct {
	RawCSV   string
	Rows     []domain.DisplayRow
	Stats    domain.MapStats
	LoadedAt time.Time
}

// Catalog holds at most one Snapshot for the lifetime of the process.
type Catalog struct {
	fetcher Fetcher
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock

	raw     atomic.Pointer[string]
	snap    atomic.Pointer[Snapshot]
	loadErr atomic.Pointer[LoadError]
}

// New creates an empty Catalog. Pass nil clock to use real time.
func New(f Fetcher, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Catalog {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Catalog{
		fetcher: f,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Load fetches, parses and maps the CSV, then stores the snapshot. It makes a
// single attempt; failures are recorded for Err and returned as *LoadError.
// The raw text is available to RawCSV as soon as the fetch succeeds.
func (c *Catalog) Load(ctx context.Context) error {
	if c.snap.Load() != nil {
		return ErrAlreadyLoaded
	}

	start := c.clock.Now()

	data, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return c.fail(StageFetch, err)
	}

	// The fetched text is cached even if parsing fails below.
	if len(data) > 0 {
		text := string(data)
		c.raw.CompareAndSwap(nil, &text)
	}

	records, err := csvparse.Parse(bytes.NewReader(data), csvparse.Options{})
	if err != nil {
		return c.fail(StageParse, err)
	}

	rows, stats := domain.MapRowsWithStats(records)
	snap := &Snapshot{
		RawCSV:   string(data),
		Rows:     rows,
		Stats:    stats,
		LoadedAt: c.clock.Now(),
	}

	if !c.snap.CompareAndSwap(nil, snap) {
		return ErrAlreadyLoaded
	}
	c.loadErr.Store(nil)

	c.metrics.CatalogLoads.WithLabelValues("success").Inc()
	c.metrics.RowsLoaded.Set(float64(stats.Rows))
	c.metrics.RemarksSkipped.Add(float64(stats.RemarksSkipped))
	c.metrics.RawDates.Add(float64(stats.RawDates))

	c.logger.Info("catalog loaded",
		"records", stats.Records,
		"rows", stats.Rows,
		"remarks_skipped", stats.RemarksSkipped,
		"raw_dates", stats.RawDates,
		"bytes", len(data),
		"duration", c.clock.Since(start),
	)
	return nil
}

func (c *Catalog) fail(stage Stage, err error) error {
	loadErr := &LoadError{Stage: stage, Err: err}
	c.loadErr.Store(loadErr)
	c.metrics.CatalogLoads.WithLabelValues(string(stage) + "_error").Inc()
	c.logger.Error("catalog load failed", "stage", stage, "error", err)
	return loadErr
}

// Snapshot returns the loaded data, or nil before a successful load.
func (c *Catalog) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Err returns the failure of the last load attempt, or nil.
func (c *Catalog) Err() *LoadError {
	return c.loadErr.Load()
}

// RawCSV returns the CSV text exactly as fetched. It reports false until a
// fetch has returned non-empty data.
func (c *Catalog) RawCSV() (string, bool) {
	raw := c.raw.Load()
	if raw == nil {
		return "", false
	}
	return *raw, true
}

// CheckReadiness returns nil once the CSV is loaded.
func (c *Catalog) CheckReadiness(_ context.Context) error {
	if c.snap.Load() != nil {
		return nil
	}
	if err := c.loadErr.Load(); err != nil {
		return err
	}
	return errors.New("catalog has not been loaded yet")
}
