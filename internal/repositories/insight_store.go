package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/shared"
)

// insightSetStore is the shared implementation behind the cache and snapshot
// repositories, which differ only in table and expiry policy.
type insightSetStore struct {
	db    *sql.DB
	table string
}

func (s *insightSetStore) put(subject models.SubjectKey, insights []models.Insight) error {
	set, err := models.NewCachedInsightSet(subject, insights)
	if err != nil {
		return err
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.bySubject(subject.String())
	if err != nil {
		return err
	}

	if existing != nil {
		query := fmt.Sprintf("UPDATE %s SET value = ?, timestamp = ?, updated_at = ? WHERE subject = ?", s.table)
		if _, err := s.db.Exec(query, set.Value(), set.Timestamp(), time.Now(), subject.String()); err != nil {
			return fmt.Errorf("failed to update insight set: %w", err)
		}
		return nil
	}

	sequence, err := NextSequence(s.db, s.table)
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	set.SetID(shared.GenerateID())
	set.SetSequence(sequence)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, sequence, subject, value, timestamp, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.table)

	_, err = s.db.Exec(query,
		set.ID(),
		set.Sequence(),
		set.Subject(),
		set.Value(),
		set.Timestamp(),
		set.CreatedAt(),
		set.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert insight set: %w", err)
	}

	return nil
}

func (s *insightSetStore) bySubject(subject string) (*models.CachedInsightSet, error) {
	query := fmt.Sprintf(`
		SELECT id, sequence, subject, value, timestamp, created_at, updated_at
		FROM %s
		WHERE subject = ?
	`, s.table)

	return s.scanOne(s.db.QueryRow(query, subject))
}

func (s *insightSetStore) scanOne(row *sql.Row) (*models.CachedInsightSet, error) {
	var id, subject, value string
	var sequence int
	var timestamp, createdAt, updatedAt time.Time

	err := row.Scan(&id, &sequence, &subject, &value, &timestamp, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan insight set: %w", err)
	}

	return models.RestoreCachedInsightSet(id, sequence, subject, value, timestamp, createdAt, updatedAt), nil
}

func (s *insightSetStore) deleteSubject(subject string) error {
	_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE subject = ?", s.table), subject)
	if err != nil {
		return fmt.Errorf("failed to delete insight set: %w", err)
	}
	return nil
}

func (s *insightSetStore) clear() error {
	if _, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", s.table)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", s.table, err)
	}
	return nil
}

func (s *insightSetStore) all() ([]*models.CachedInsightSet, error) {
	query := fmt.Sprintf(`
		SELECT id, sequence, subject, value, timestamp, created_at, updated_at
		FROM %s
		ORDER BY sequence
	`, s.table)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list insight sets: %w", err)
	}
	defer rows.Close()

	var sets []*models.CachedInsightSet
	for rows.Next() {
		var id, subject, value string
		var sequence int
		var timestamp, createdAt, updatedAt time.Time

		if err := rows.Scan(&id, &sequence, &subject, &value, &timestamp, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan insight set: %w", err)
		}
		sets = append(sets, models.RestoreCachedInsightSet(id, sequence, subject, value, timestamp, createdAt, updatedAt))
	}

	return sets, rows.Err()
}

// InsightCacheRepository is a TTL-bounded read-through cache of insight sets,
// read and written only by the playlist load path.
type InsightCacheRepository struct {
	store insightSetStore
	ttl   time.Duration
}

// NewInsightCacheRepository creates a cache repository with the given expiry.
func NewInsightCacheRepository(db *sql.DB, ttl time.Duration) *InsightCacheRepository {
	return &InsightCacheRepository{store: insightSetStore{db: db, table: "insight_cache"}, ttl: ttl}
}

// Put stores the insight sequence for the subject, stamping it with now.
func (r *InsightCacheRepository) Put(subject models.SubjectKey, insights []models.Insight) error {
	return r.store.put(subject, insights)
}

// GetFresh returns the cached insights for the subject when the envelope
// timestamp is within the TTL. Expired or missing entries return ok false.
func (r *InsightCacheRepository) GetFresh(subject models.SubjectKey, now time.Time) ([]models.Insight, bool, error) {
	set, err := r.store.bySubject(subject.String())
	if err != nil || set == nil {
		return nil, false, err
	}

	if set.Expired(now, r.ttl) {
		return nil, false, nil
	}

	insights, err := set.Insights()
	if err != nil {
		// A corrupt envelope is treated as a miss, not a failure.
		return nil, false, nil
	}

	return insights, true, nil
}

// PurgeExpired removes entries whose envelope timestamp is past the TTL.
func (r *InsightCacheRepository) PurgeExpired(now time.Time) (int64, error) {
	cutoff := now.Add(-r.ttl)
	result, err := r.store.db.Exec("DELETE FROM insight_cache WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cache entries: %w", err)
	}
	return result.RowsAffected()
}

// Clear empties the cache.
func (r *InsightCacheRepository) Clear() error {
	return r.store.clear()
}

// All returns every envelope in the cache for inspection.
func (r *InsightCacheRepository) All() ([]*models.CachedInsightSet, error) {
	return r.store.all()
}

// SnapshotRepository stores the last-known-good insight set per subject.
// Written on every successful fetch; read only after retries are exhausted.
type SnapshotRepository struct {
	store insightSetStore
}

// NewSnapshotRepository creates a snapshot repository on the given database.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{store: insightSetStore{db: db, table: "snapshots"}}
}

// Put records the insight sequence as the subject's last-known-good set.
func (r *SnapshotRepository) Put(subject models.SubjectKey, insights []models.Insight) error {
	return r.store.put(subject, insights)
}

// Get returns the snapshot for the subject regardless of age.
func (r *SnapshotRepository) Get(subject models.SubjectKey) ([]models.Insight, bool, error) {
	set, err := r.store.bySubject(subject.String())
	if err != nil || set == nil {
		return nil, false, err
	}

	insights, err := set.Insights()
	if err != nil {
		return nil, false, nil
	}

	return insights, true, nil
}

// Delete removes the snapshot for the subject.
func (r *SnapshotRepository) Delete(subject models.SubjectKey) error {
	return r.store.deleteSubject(subject.String())
}
