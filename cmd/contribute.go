package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/opencouncil/finsight/internal/edit"
	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/repositories"
	"github.com/opencouncil/finsight/internal/services"
	"github.com/opencouncil/finsight/internal/shared"
	"github.com/urfave/cli/v3"
)

// ContributeSubmit submits one field value, pausing for magnitude
// disambiguation when a monetary value looks like it was entered in the
// wrong unit.
func (r *Runner) ContributeSubmit(ctx context.Context, cmd *cli.Command) error {
	fieldKey := cmd.String("field")
	value := cmd.String("value")
	year := cmd.String("year")

	kind, err := models.ParseFieldKind(cmd.String("kind"))
	if err != nil {
		return err
	}

	if cmd.Bool("force-entered") && cmd.Bool("force-suggested") {
		return fmt.Errorf("%w: cannot combine --force-entered and --force-suggested", shared.ErrInvalidFlag)
	}

	if kind == models.KindMonetary && !cmd.Bool("force-entered") {
		if d := edit.MagnitudeCheck(value, r.thresholds()); d != nil {
			resolved, err := r.resolveMagnitude(cmd, d)
			if err != nil {
				return err
			}
			value = resolved
		}
	}

	r.logger.Info("submitting contribution", "field", fieldKey, "value", value, "year", year)

	result, err := r.contributions.Submit(ctx, services.Contribution{
		Field:  fieldKey,
		Value:  value,
		Year:   year,
		Source: cmd.String("source"),
	})
	if err != nil {
		return err
	}

	r.journalContribution(fieldKey, year, value, result)

	if !result.Accepted {
		if result.Message != "" {
			return r.writePlain("✗ Rejected: %s\n", result.Message)
		}
		return r.writePlain("✗ Rejected\n")
	}

	r.writePlain("✓ Saved %s", result.StoredValue)
	if result.PointsAwarded > 0 {
		r.writePlain(" (+%d points)", result.PointsAwarded)
	}
	r.writePlain("\n")
	if result.Message != "" {
		r.writePlain("%s\n", result.Message)
	}
	return nil
}

// resolveMagnitude picks between the entered and suggested value, either
// from the force flags or by prompting on the runner's input.
func (r *Runner) resolveMagnitude(cmd *cli.Command, d *edit.Disambiguation) (string, error) {
	if cmd.Bool("force-suggested") {
		r.logger.Info("using magnitude suggestion", "entered", d.Entered, "suggested", d.Suggested)
		return d.Suggested, nil
	}

	r.writePlain("Council figures are usually in the millions.\n")
	r.writePlain("  entered:   %s%s\n", d.Entered, moneyHint(d.Entered))
	r.writePlain("  suggested: %s%s\n", d.Suggested, moneyHint(d.Suggested))
	r.writePlain("Keep as entered, use suggestion, or cancel? [k/s/C]: ")

	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("%w: could not read confirmation (use --force-entered or --force-suggested): %v", shared.ErrSuspectValue, err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "k", "keep":
		return d.Entered, nil
	case "s", "suggested", "suggestion":
		return d.Suggested, nil
	default:
		return "", fmt.Errorf("%w: submission cancelled", shared.ErrSuspectValue)
	}
}

// moneyHint renders a plain numeric value as an abbreviated amount.
func moneyHint(value string) string {
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("  (%s)", shared.FormatMoney(amount))
}

// journalContribution records the submission in the local journal, best effort.
func (r *Runner) journalContribution(field, year, entered string, result *models.ContributionResult) {
	db, err := r.openCache()
	if err != nil {
		r.logger.Warn("journal unavailable", "error", err)
		return
	}
	defer db.Close()

	journal := repositories.NewContributionJournal(db)
	if err := journal.Record(models.NewContributionRecord(field, year, entered, *result)); err != nil {
		r.logger.Warn("failed to journal contribution", "error", err)
	}
}

// ContributeHistory lists recent submissions from the local journal.
func (r *Runner) ContributeHistory(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	journal := repositories.NewContributionJournal(db)
	records, err := journal.Recent(int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	points, err := journal.PointsTotal()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		entries := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			entries = append(entries, map[string]any{
				"field":    rec.Field(),
				"year":     rec.Year(),
				"entered":  rec.EnteredValue(),
				"stored":   rec.StoredValue(),
				"points":   rec.PointsAwarded(),
				"accepted": rec.Accepted(),
				"at":       rec.CreatedAt(),
			})
		}
		return r.writeJSON(map[string]any{"total_points": points, "contributions": entries}, true)
	}

	if len(records) == 0 {
		return r.writePlain("No contributions recorded yet.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Contributions (%d points)", points))
	for _, rec := range records {
		mark := "✓"
		if !rec.Accepted() {
			mark = "✗"
		}
		label := rec.Field()
		if rec.Year() != "" {
			label = fmt.Sprintf("%s %s", label, rec.Year())
		}
		r.writePlain("%s %s = %s", mark, label, rec.StoredValue())
		if rec.PointsAwarded() > 0 {
			r.writePlain(" (+%d)", rec.PointsAwarded())
		}
		r.writePlain("\n")
	}
	return nil
}
