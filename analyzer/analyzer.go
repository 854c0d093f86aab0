// Package analyzer implements the batched, paced, retried bulk URL
// classification pipeline: a category's URLs are split into bounded
// batches, each batch is submitted under a shared pacing clock with
// per-batch retry, and the outcomes are folded into a coverage summary.
// Batches run strictly sequentially; one lookup call is in flight at any
// instant, by construction rather than by locking.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/zscaler-hero/catscan/report"
	"github.com/zscaler-hero/catscan/urlutil"
	"github.com/zscaler-hero/catscan/zia"
)

// Defaults for the zero-value Config fields.
const (
	DefaultMaxBatchSize    = zia.MaxBatchSize
	DefaultMinCallInterval = 2 * time.Second
)

// Source provides the two vendor operations the pipeline consumes:
// loading a category's member URLs and classifying one batch of URLs in a
// single attempt.
type Source interface {
	Category(ctx context.Context, id string) (zia.Category, error)
	Lookup(ctx context.Context, urls []string) ([]report.Record, error)
}

// Config holds pipeline configuration.
type Config struct {
	MaxBatchSize    int           // URLs per lookup call (endpoint cap 100)
	MinCallInterval time.Duration // pacing floor between lookup calls
	Retry           RetryPolicy
}

// Analyzer runs the classification pipeline for one or more categories.
type Analyzer struct {
	cfg    Config
	source Source
	pacer  Pacer
	events chan<- Event
}

// New creates an Analyzer with the given configuration. Zero-value fields
// fall back to defaults. The events channel is optional; pass nil to
// disable progress events. The pacer is created once here and shared by
// every batch of the run.
func New(cfg Config, source Source, events chan<- Event) *Analyzer {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}
	if cfg.MinCallInterval == 0 {
		cfg.MinCallInterval = DefaultMinCallInterval
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryPolicy()
	}
	return &Analyzer{
		cfg:    cfg,
		source: source,
		pacer:  NewIntervalPacer(cfg.MinCallInterval),
		events: events,
	}
}

// Run analyzes the given category IDs one after another and returns a
// report per category that completed. A category that cannot be loaded is
// reported on the events channel and skipped; it never aborts the rest of
// the run. Pacing persists across category boundaries.
func (a *Analyzer) Run(ctx context.Context, ids []string) ([]*report.CategoryReport, error) {
	reports := make([]*report.CategoryReport, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		cat, err := a.source.Category(ctx, id)
		if err != nil {
			a.emit(Event{Kind: EventCategoryError, Category: id, Err: err.Error()})
			continue
		}
		rep, err := a.AnalyzeCategory(ctx, cat)
		if err != nil {
			a.emit(Event{Kind: EventCategoryError, Category: cat.DisplayName(), Err: err.Error()})
			continue
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// AnalyzeCategory runs the pipeline for one loaded category: normalize and
// dedupe its member URLs, split them into batches, submit each batch under
// pacing and retry, and fold the outcomes. Batch failures are folded into
// the summary's failure counters, never returned as errors. The returned
// report carries the summary, every record produced in submission order,
// and the URLs of batches that failed.
//
// An empty category produces a report with all counters zero and makes no
// lookup calls.
func (a *Analyzer) AnalyzeCategory(ctx context.Context, cat zia.Category) (*report.CategoryReport, error) {
	name := cat.DisplayName()
	urls := prepareURLs(cat.MemberURLs())

	batches, err := SplitBatches(urls, a.cfg.MaxBatchSize)
	if err != nil {
		return nil, err
	}

	a.emit(Event{Kind: EventCategoryStart, Category: name, BatchCount: len(batches), Total: len(urls)})

	summary := NewSummary(name, len(urls))
	records := make([]report.Record, 0, len(urls))
	var failedURLs []string
	lookedUp := 0

	for _, batch := range batches {
		outcome := a.cfg.Retry.Execute(ctx, batch, a.attempt)
		summary = Fold(summary, outcome)
		if outcome.Success() {
			records = append(records, outcome.Records...)
		} else {
			failedURLs = append(failedURLs, batch.URLs...)
		}
		lookedUp += len(batch.URLs)

		evt := Event{
			Kind:       EventBatch,
			Category:   name,
			BatchIndex: batch.Index + 1,
			BatchCount: len(batches),
			LookedUp:   lookedUp,
			Total:      len(urls),
			Failed:     summary.FailedURLs,
			Attempts:   outcome.Attempts,
		}
		if outcome.Err != nil {
			evt.Err = outcome.Err.Error()
		}
		a.emit(evt)
	}

	if got := summary.Classified + summary.Uncategorized + summary.FailedURLs; got != summary.TotalURLs {
		return nil, fmt.Errorf("accounting mismatch for %s: %d URLs submitted, %d accounted for", name, summary.TotalURLs, got)
	}

	a.emit(Event{Kind: EventCategoryDone, Category: name, LookedUp: lookedUp, Total: len(urls), Failed: summary.FailedURLs})

	return &report.CategoryReport{Summary: summary, Records: records, FailedURLs: failedURLs}, nil
}

// attempt is one paced lookup call for a batch: wait on the shared pacer,
// then a single classification attempt.
func (a *Analyzer) attempt(ctx context.Context, batch Batch) ([]report.Record, error) {
	if err := a.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("pacing wait: %w", err)
	}
	return a.source.Lookup(ctx, batch.URLs)
}

func (a *Analyzer) emit(evt Event) {
	if a.events != nil {
		a.events <- evt
	}
}

// prepareURLs canonicalizes category entries for lookup and drops
// post-normalization duplicates. Entries with no usable host (blank lines,
// bare dots) cannot be looked up and are dropped before the total is
// fixed.
func prepareURLs(raw []string) []string {
	prepared := make([]string, 0, len(raw))
	for _, entry := range raw {
		normalized, err := urlutil.Normalize(entry)
		if err != nil {
			continue
		}
		prepared = append(prepared, normalized)
	}
	return urlutil.Dedupe(prepared)
}
