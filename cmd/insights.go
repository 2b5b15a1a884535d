package main

import (
	"context"
	"fmt"

	"github.com/opencouncil/finsight/internal/formatter"
	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/repositories"
	"github.com/opencouncil/finsight/internal/retry"
	"github.com/opencouncil/finsight/internal/services"
	"github.com/opencouncil/finsight/internal/shared"
	"github.com/urfave/cli/v3"
)

// subjectFromCmd builds and validates the subject a command targets.
func subjectFromCmd(cmd *cli.Command) (models.SubjectKey, error) {
	var subject models.SubjectKey
	if cmd.Bool("site") {
		subject = models.SiteWide(cmd.String("counter"))
	} else {
		subject = models.NewSubjectKey(cmd.String("council"), cmd.String("counter"), cmd.String("year"))
	}

	if err := subject.Validate(); err != nil {
		return models.SubjectKey{}, err
	}
	return subject, nil
}

// fetchInsights performs one retried fetch using the configured policy.
func (r *Runner) fetchInsights(ctx context.Context, subject models.SubjectKey) (*services.InsightSet, error) {
	policy := retry.Policy{
		MaxAttempts: r.config.Playlist.RetryAttempts,
		Delay:       retry.Backoff(r.config.Playlist.RetryBaseDelay()),
	}

	var set *services.InsightSet
	err := retry.Do(ctx, policy, nil, func(ctx context.Context) error {
		fetched, err := r.insights.Fetch(ctx, subject)
		if err != nil {
			return err
		}
		set = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// InsightsShow fetches and prints the insight sequence for a subject.
func (r *Runner) InsightsShow(ctx context.Context, cmd *cli.Command) error {
	subject, err := subjectFromCmd(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("fetching insights", "subject", subject.Path())

	set, err := r.fetchInsights(ctx, subject)
	if err != nil {
		return err
	}

	if set.Empty {
		if set.Message != "" {
			return r.writePlain("No insights: %s\n", set.Message)
		}
		return r.writePlain("No insights available for %s\n", subject.Path())
	}

	if cmd.Bool("save") {
		if err := r.saveToCache(subject, set.Insights); err != nil {
			r.logger.Warn("failed to cache insight set", "error", err)
		} else {
			r.logger.Info("insight set cached", "subject", subject.Path())
		}
	}

	if cmd.Bool("json") {
		data, err := formatter.ExportToJSON(subject, set.Insights)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	r.writePlainHeader(subject.String())
	for i, insight := range set.Insights {
		r.writePlain("%d. %s %s\n", i+1, insight.Emoji, insight.Text)
	}
	if set.Fallback {
		r.writePlain("\n(saved insights; the server could not generate fresh ones)\n")
	}
	if set.ShowRetry {
		r.writePlain("(the server suggests retrying shortly)\n")
	}
	return nil
}

// InsightsExport fetches a sequence and writes it in the requested format.
func (r *Runner) InsightsExport(ctx context.Context, cmd *cli.Command) error {
	subject, err := subjectFromCmd(cmd)
	if err != nil {
		return err
	}
	format := cmd.String("format")
	outputPath := cmd.String("output")

	r.logger.Info("exporting insights", "subject", subject.Path(), "format", format)

	set, err := r.fetchInsights(ctx, subject)
	if err != nil {
		return err
	}
	if set.Empty || len(set.Insights) == 0 {
		return fmt.Errorf("%w: nothing to export for %s", shared.ErrNoInsights, subject.Path())
	}

	if outputPath == "" {
		data, err := formatter.Export(subject, set.Insights, format)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := formatter.WriteExport(subject, set.Insights, format, outputPath); err != nil {
		return err
	}
	r.writePlain("✓ Exported %d insights to %s\n", len(set.Insights), outputPath)
	return nil
}

// saveToCache stores a fetched set in the local cache database.
func (r *Runner) saveToCache(subject models.SubjectKey, insights []models.Insight) error {
	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewInsightCacheRepository(db, r.config.Cache.TTL())
	return repo.Put(subject, insights)
}
