package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/opencouncil/finsight/internal/repositories"
	"github.com/opencouncil/finsight/internal/shared"
	"github.com/opencouncil/finsight/internal/tasks"
	"github.com/urfave/cli/v3"
)

// openCache opens the configured cache database.
func (r *Runner) openCache() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Cache.MaxOpenConns, r.config.Cache.MaxIdleConns)
	return db, nil
}

// CacheWarm prefetches insight sets for council × counter × year combinations.
func (r *Runner) CacheWarm(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewInsightCacheRepository(db, r.config.Cache.TTL())
	engine := tasks.NewPrefetchEngine(r.insights, repo)

	opts := tasks.PrefetchOpts{
		Councils:   cmd.StringSlice("council"),
		Counters:   cmd.StringSlice("counter"),
		Years:      cmd.StringSlice("year"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
		Refresh:    cmd.Bool("refresh"),
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = r.config.API.RateLimit
	}

	r.logger.Info("warming cache", "councils", len(opts.Councils), "counters", len(opts.Counters), "years", len(opts.Years))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.EnumerateSubjects:
				r.writePlain("🔥 %s\n", update.Message)
			case tasks.WarmCache:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Warm(ctx, progressCh, opts)
	close(progressCh)
	// The summary shares the drain goroutine's writer; wait for the
	// remaining buffered updates before printing it.
	<-drained

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Warm Complete!")
	r.writePlain("Subjects: %d\n", result.TotalSubjects)
	r.writePlain("Warmed: %d\n", result.Warmed)
	r.writePlain("Skipped (fresh): %d\n", result.Skipped)
	if result.Failed > 0 {
		r.writePlain("Failed: %d\n", result.Failed)
		for _, sr := range result.Results {
			if sr.Error != nil {
				r.writePlain("  - %s: %v\n", sr.Subject.Path(), sr.Error)
			}
		}
	}
	return nil
}

// CacheDump lists every cached insight set.
func (r *Runner) CacheDump(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewInsightCacheRepository(db, r.config.Cache.TTL())
	sets, err := repo.All()
	if err != nil {
		return err
	}

	entries := make([]map[string]any, 0, len(sets))
	for _, set := range sets {
		insights, err := set.Insights()
		if err != nil {
			r.logger.Warn("skipping unreadable cached set", "subject", set.Subject(), "error", err)
			continue
		}
		entries = append(entries, map[string]any{
			"subject":   set.Subject(),
			"insights":  len(insights),
			"cached_at": set.Timestamp(),
			"expired":   set.Expired(time.Now(), r.config.Cache.TTL()),
		})
	}

	return r.writeJSON(map[string]any{"sets": entries, "count": len(entries)}, cmd.Bool("pretty"))
}

// CachePurge deletes cached sets older than the configured TTL.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewInsightCacheRepository(db, r.config.Cache.TTL())
	purged, err := repo.PurgeExpired(time.Now())
	if err != nil {
		return err
	}
	return r.writePlain("✓ Purged %d expired sets\n", purged)
}

// CacheClear deletes every cached insight set after confirmation.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		ok, err := r.confirm("Delete every cached insight set?")
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlain("Aborted.\n")
		}
	}

	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewInsightCacheRepository(db, r.config.Cache.TTL())
	if err := repo.Clear(); err != nil {
		return err
	}
	return r.writePlain("✓ Cache cleared\n")
}
