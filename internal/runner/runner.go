// Package runner drives a daily analysis pass: discover fixtures, analyze
// them, record each prediction in the ledger and forward it to sync sinks.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/Alias1177/matchforecast/internal/export"
	"github.com/Alias1177/matchforecast/internal/metrics"
	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of fixtures analyzed at once
const DefaultConcurrency = 4

// Scanner lists fixtures for a date
type Scanner interface {
	Scan(ctx context.Context, date time.Time) ([]model.Fixture, error)
}

// Analyzer predicts a single fixture
type Analyzer interface {
	AnalyzeFixture(ctx context.Context, fixture model.Fixture) (*model.Analysis, error)
}

// Ledger persists predictions
type Ledger interface {
	InsertLog(ctx context.Context, entry *model.LogEntry) error
}

// Runner executes analysis passes
type Runner struct {
	scanner     Scanner
	analyzer    Analyzer
	ledger      Ledger
	sinks       []export.Sink
	concurrency int
	logger      zerolog.Logger
}

// Options configures a Runner
type Options struct {
	Concurrency int
	Sinks       []export.Sink
}

// New creates a Runner
func New(scanner Scanner, analyzer Analyzer, ledger Ledger, opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Runner{
		scanner:     scanner,
		analyzer:    analyzer,
		ledger:      ledger,
		sinks:       opts.Sinks,
		concurrency: opts.Concurrency,
		logger:      log.With().Str("component", "runner").Logger(),
	}
}

// Result describes one pass
type Result struct {
	RunID        string
	Date         string
	Analyses     []*model.Analysis
	Entries      []model.LogEntry // entries written to the ledger
	Skipped      []string         // fixtures that could not be analyzed or stored
	SyncFailures int
}

// RunDaily analyzes every fixture scheduled on date. Fixtures are analyzed
// concurrently; ledger writes and sync happen afterwards in discovery order.
// Only a discovery failure or cancellation aborts the pass.
func (r *Runner) RunDaily(ctx context.Context, date time.Time) (*Result, error) {
	start := time.Now()
	defer func() {
		metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	res := &Result{
		RunID: uuid.NewString(),
		Date:  date.Format(model.DateLayout),
	}
	logger := r.logger.With().Str("run_id", res.RunID).Str("date", res.Date).Logger()

	fixtures, err := r.scanner.Scan(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("discovering fixtures: %w", err)
	}
	logger.Info().Int("fixtures", len(fixtures)).Msg("Starting analysis run")

	analyses := make([]*model.Analysis, len(fixtures))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, fixture := range fixtures {
		i, fixture := i, fixture
		g.Go(func() error {
			analysis, err := r.analyzer.AnalyzeFixture(gctx, fixture)
			if err != nil {
				logger.Error().Err(err).Str("match", fixture.Identifier).Msg("Skipping fixture")
				return nil
			}
			analyses[i] = analysis
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, analysis := range analyses {
		if analysis == nil {
			res.Skipped = append(res.Skipped, fixtures[i].Identifier)
			continue
		}
		res.Analyses = append(res.Analyses, analysis)

		entry := analysis.LogEntry(date)
		entry.RunID = res.RunID
		if err := r.ledger.InsertLog(ctx, &entry); err != nil {
			metrics.LedgerWriteFailures.Inc()
			logger.Error().Err(err).Str("match", entry.Match).Msg("Ledger write failed")
			res.Skipped = append(res.Skipped, entry.Match)
			continue
		}
		res.Entries = append(res.Entries, entry)

		logger.Info().
			Str("match", analysis.Match).
			Str("prediction", string(analysis.Result.Label)).
			Str("confidence", string(analysis.Result.Confidence)).
			Str("score", analysis.Result.Scoreline).
			Msg("Prediction recorded")

		for _, outcome := range export.Forward(ctx, logger, r.sinks, entry) {
			if !outcome.OK() {
				res.SyncFailures++
			}
		}
	}

	logger.Info().
		Int("recorded", len(res.Entries)).
		Int("skipped", len(res.Skipped)).
		Int("sync_failures", res.SyncFailures).
		Dur("elapsed", time.Since(start)).
		Msg("Analysis run finished")

	return res, nil
}

// Schedule runs a pass immediately and then every interval until ctx is
// cancelled. A failed pass is logged and the schedule continues.
func (r *Runner) Schedule(ctx context.Context, interval time.Duration, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunDaily(ctx, now()); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Error().Err(err).Msg("Scheduled run failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
