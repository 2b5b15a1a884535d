// package tasks implements bulk operations against the insight API.
//
// The core abstraction is PrefetchEngine, which warms the local insight cache
// for many subjects ahead of browsing. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/services"
	"github.com/opencouncil/finsight/internal/shared"
	"golang.org/x/time/rate"
)

// InsightCache is the cache layer the engine warms.
type InsightCache interface {
	GetFresh(subject models.SubjectKey, now time.Time) ([]models.Insight, bool, error)
	Put(subject models.SubjectKey, insights []models.Insight) error
}

// PrefetchOpts configures a cache warm run.
type PrefetchOpts struct {
	Councils   []string // council slugs or names
	Counters   []string // counter slugs or names
	Years      []string // financial years, e.g. "2023-24"
	NumWorkers int      // concurrent fetchers (default 4, capped at 8)
	RateLimit  float64  // requests per second (default 4)
	Refresh    bool     // refetch subjects that are already fresh in the cache
}

// SubjectResult records the outcome of warming one subject.
type SubjectResult struct {
	Subject  models.SubjectKey
	Insights int   // insights cached
	Skipped  bool  // already fresh, not refetched
	Error    error // fetch or cache failure
}

// PrefetchResult summarizes a whole warm run.
type PrefetchResult struct {
	TotalSubjects int
	Warmed        int
	Skipped       int
	Failed        int
	Results       []SubjectResult
}

// PrefetchEngine warms the insight cache for council × counter × year
// combinations with rate-limited concurrent fetches.
type PrefetchEngine struct {
	source services.InsightAPI
	cache  InsightCache
	clock  func() time.Time
}

// NewPrefetchEngine creates an engine over the given source and cache.
func NewPrefetchEngine(source services.InsightAPI, cache InsightCache) *PrefetchEngine {
	return &PrefetchEngine{
		source: source,
		cache:  cache,
		clock:  time.Now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls the warm run.
func (e *PrefetchEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Warm fetches and caches insights for every valid subject in the cross
// product of opts. Already-fresh subjects are skipped unless Refresh is set.
// Individual failures are recorded, not fatal; the run only aborts on
// context cancellation.
func (e *PrefetchEngine) Warm(ctx context.Context, progress chan<- ProgressUpdate, opts PrefetchOpts) (*PrefetchResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: insight service not initialized", shared.ErrServiceUnavailable)
	}
	if e.cache == nil {
		return nil, fmt.Errorf("%w: insight cache not initialized", shared.ErrServiceUnavailable)
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 4.0
	}

	subjects := enumerateSubjects(opts)
	if len(subjects) == 0 {
		return nil, fmt.Errorf("%w: no subjects to warm", shared.ErrMissingArgument)
	}

	total := len(subjects)
	e.sendProgress(progress, enumeratedUpdate(total))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan models.SubjectKey, total)
	results := make(chan SubjectResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.warmWorker(ctx, &wg, limiter, jobs, results, opts.Refresh)
	}

	for _, subject := range subjects {
		jobs <- subject
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	result := &PrefetchResult{
		TotalSubjects: total,
		Results:       make([]SubjectResult, 0, total),
	}

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		switch {
		case res.Error != nil:
			result.Failed++
			e.sendProgress(progress, warmFailedUpdate(completed, total, res.Subject, res.Error))
		case res.Skipped:
			result.Skipped++
			e.sendProgress(progress, warmSkippedUpdate(completed, total, res.Subject))
		default:
			result.Warmed++
			e.sendProgress(progress, warmedUpdate(completed, total, res.Subject, res.Insights))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (e *PrefetchEngine) warmWorker(ctx context.Context, wg *sync.WaitGroup, limiter *rate.Limiter, jobs <-chan models.SubjectKey, results chan<- SubjectResult, refresh bool) {
	defer wg.Done()

	for subject := range jobs {
		if ctx.Err() != nil {
			return
		}

		if !refresh {
			if _, ok, err := e.cache.GetFresh(subject, e.clock()); err == nil && ok {
				results <- SubjectResult{Subject: subject, Skipped: true}
				continue
			}
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		set, err := e.source.Fetch(ctx, subject)
		if err != nil {
			results <- SubjectResult{Subject: subject, Error: err}
			continue
		}
		if set.Empty || len(set.Insights) == 0 || set.ShowRetry || set.Fallback {
			// Nothing worth caching; an empty or degraded set would only
			// mask fresher data on the next real fetch.
			results <- SubjectResult{Subject: subject}
			continue
		}

		if err := e.cache.Put(subject, set.Insights); err != nil {
			results <- SubjectResult{Subject: subject, Error: err}
			continue
		}
		results <- SubjectResult{Subject: subject, Insights: len(set.Insights)}
	}
}

// enumerateSubjects builds the cross product, dropping combinations that do
// not form a valid subject.
func enumerateSubjects(opts PrefetchOpts) []models.SubjectKey {
	var subjects []models.SubjectKey
	for _, council := range opts.Councils {
		for _, counter := range opts.Counters {
			for _, year := range opts.Years {
				subject := models.NewSubjectKey(council, counter, year)
				if err := subject.Validate(); err != nil {
					continue
				}
				subjects = append(subjects, subject)
			}
		}
	}
	return subjects
}
