package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/opencouncil/finsight/internal/edit"
	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/playlist"
	"github.com/opencouncil/finsight/internal/repositories"
	"github.com/opencouncil/finsight/internal/retry"
	"github.com/opencouncil/finsight/internal/shared"
	"github.com/opencouncil/finsight/internal/ui"
	"github.com/urfave/cli/v3"
)

// sheetFields is the default editable field set for a council. Temporal
// fields are only included when the session has a year to attach.
func sheetFields(year string) []models.Field {
	fields := []models.Field{
		{Key: "council-website", Name: "Website", Kind: models.KindURL},
		{Key: "council-type", Name: "Council type", Kind: models.KindList},
	}
	if year == "" {
		return fields
	}
	return append([]models.Field{
		{Key: "total-debt", Name: "Total debt", Kind: models.KindMonetary, Temporal: true},
		{Key: "interest-paid", Name: "Interest paid", Kind: models.KindMonetary, Temporal: true},
		{Key: "current-liabilities", Name: "Current liabilities", Kind: models.KindMonetary, Temporal: true},
		{Key: "long-term-liabilities", Name: "Long-term liabilities", Kind: models.KindMonetary, Temporal: true},
		{Key: "population", Name: "Population", Kind: models.KindInteger, Temporal: true},
	}, fields...)
}

// TUI launches the interactive insight carousel and edit sheet.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	subject, err := subjectFromCmd(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/finsight-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	year := cmd.String("year")
	cells := []*edit.Cell{}
	for _, field := range sheetFields(year) {
		cell, err := edit.NewCell(field, year, "", r.contributions, r.fields, r.thresholds())
		if err != nil {
			return err
		}
		cells = append(cells, cell)
	}
	sheet, err := edit.NewSheet(cells)
	if err != nil {
		return err
	}

	opts := playlist.Options{
		Subject:         subject,
		DefaultDuration: r.config.Playlist.DefaultDuration(),
		Retry: retry.Policy{
			MaxAttempts: r.config.Playlist.RetryAttempts,
			Delay:       retry.Backoff(r.config.Playlist.RetryBaseDelay()),
		},
		Cache:     repositories.NewInsightCacheRepository(db, r.config.Cache.TTL()),
		Snapshots: repositories.NewSnapshotRepository(db),
		Logger:    fileLogger,
	}

	siteURL := r.config.API.BaseURL
	if !cmd.Bool("site") {
		siteURL = fmt.Sprintf("%s/councils/%s/", siteURL, subject.Council)
	}

	model, err := ui.NewModel(ctx, r.insights, sheet, opts, siteURL)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
