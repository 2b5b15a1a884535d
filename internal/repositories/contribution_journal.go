package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/shared"
)

// ContributionJournal records every contribution attempt and the server's
// verdict, purely for local auditing.
type ContributionJournal struct {
	db *sql.DB
}

// NewContributionJournal creates a journal on the given database.
func NewContributionJournal(db *sql.DB) *ContributionJournal {
	return &ContributionJournal{db: db}
}

// Record inserts a journal entry with generated ID and sequence.
func (j *ContributionJournal) Record(record *models.ContributionRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(j.db, "contributions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	record.SetID(shared.GenerateID())
	record.SetSequence(sequence)

	query := `
		INSERT INTO contributions (
			id, sequence, field, year, entered_value, stored_value,
			points_awarded, accepted, message, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var year any = record.Year()
	if record.Year() == "" {
		year = nil
	}

	_, err = j.db.Exec(query,
		record.ID(),
		record.Sequence(),
		record.Field(),
		year,
		record.EnteredValue(),
		record.StoredValue(),
		record.PointsAwarded(),
		record.Accepted(),
		record.Message(),
		record.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert contribution record: %w", err)
	}

	return nil
}

// Recent returns up to limit journal entries, newest first.
func (j *ContributionJournal) Recent(limit int) ([]*models.ContributionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, sequence, field, year, entered_value, stored_value,
		       points_awarded, accepted, message, created_at
		FROM contributions
		ORDER BY sequence DESC
		LIMIT ?
	`

	rows, err := j.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contribution records: %w", err)
	}
	defer rows.Close()

	var records []*models.ContributionRecord
	for rows.Next() {
		var id, field, enteredValue, storedValue, message string
		var year sql.NullString
		var sequence, points int
		var accepted bool
		var createdAt time.Time

		err := rows.Scan(&id, &sequence, &field, &year, &enteredValue, &storedValue, &points, &accepted, &message, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution record: %w", err)
		}

		records = append(records, models.RestoreContributionRecord(
			id, sequence, field, year.String, enteredValue, storedValue,
			points, accepted, message, createdAt,
		))
	}

	return records, rows.Err()
}

// PointsTotal sums points awarded across accepted contributions.
func (j *ContributionJournal) PointsTotal() (int, error) {
	var total sql.NullInt64
	err := j.db.QueryRow("SELECT SUM(points_awarded) FROM contributions WHERE accepted = 1").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum points: %w", err)
	}
	return int(total.Int64), nil
}
