package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/opencouncil/finsight/internal/shared"
)

// insightEnvelope is the stored JSON shape for a cached insight set.
type insightEnvelope struct {
	Insights []storedInsight `json:"insights"`
}

type storedInsight struct {
	Text       string `json:"text"`
	Emoji      string `json:"emoji"`
	Color      string `json:"color"`
	Type       string `json:"insight_type"`
	DurationMS int    `json:"animation_duration"`
}

// CachedInsightSet is a persisted insight sequence under a {value, timestamp}
// envelope, keyed by subject. Used both for the TTL cache and for last-known-good
// snapshots.
type CachedInsightSet struct {
	id        string
	sequence  int
	subject   string
	value     string
	timestamp time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewCachedInsightSet serializes the given insights for the subject, stamped
// with the current time.
func NewCachedInsightSet(subject SubjectKey, insights []Insight) (*CachedInsightSet, error) {
	envelope := insightEnvelope{Insights: make([]storedInsight, 0, len(insights))}
	for _, in := range insights {
		envelope.Insights = append(envelope.Insights, storedInsight{
			Text:       in.Text,
			Emoji:      in.Emoji,
			Color:      string(in.Color),
			Type:       string(in.Type),
			DurationMS: int(in.Duration / time.Millisecond),
		})
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize insights: %w", err)
	}

	now := time.Now()
	return &CachedInsightSet{
		subject:   subject.String(),
		value:     string(value),
		timestamp: now,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// RestoreCachedInsightSet rebuilds a CachedInsightSet from database columns.
func RestoreCachedInsightSet(id string, sequence int, subject, value string, timestamp, createdAt, updatedAt time.Time) *CachedInsightSet {
	return &CachedInsightSet{
		id:        id,
		sequence:  sequence,
		subject:   subject,
		value:     value,
		timestamp: timestamp,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c *CachedInsightSet) ID() string           { return c.id }
func (c *CachedInsightSet) Sequence() int        { return c.sequence }
func (c *CachedInsightSet) Subject() string      { return c.subject }
func (c *CachedInsightSet) Value() string        { return c.value }
func (c *CachedInsightSet) Timestamp() time.Time { return c.timestamp }
func (c *CachedInsightSet) CreatedAt() time.Time { return c.createdAt }
func (c *CachedInsightSet) UpdatedAt() time.Time { return c.updatedAt }

func (c *CachedInsightSet) SetID(id string)          { c.id = id }
func (c *CachedInsightSet) SetSequence(seq int)      { c.sequence = seq }
func (c *CachedInsightSet) SetUpdatedAt(t time.Time) { c.updatedAt = t }
func (c *CachedInsightSet) SetTimestamp(t time.Time) { c.timestamp = t }

// Validate checks that the set has a subject and a parseable value payload.
func (c *CachedInsightSet) Validate() error {
	if c.subject == "" {
		return fmt.Errorf("%w: cached set missing subject", shared.ErrInvalidInput)
	}
	var envelope insightEnvelope
	if err := json.Unmarshal([]byte(c.value), &envelope); err != nil {
		return fmt.Errorf("%w: cached set value is not valid JSON: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

// Expired reports whether the envelope timestamp is older than ttl at the
// given instant.
func (c *CachedInsightSet) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.timestamp) > ttl
}

// Insights deserializes the stored payload back into insight values.
func (c *CachedInsightSet) Insights() ([]Insight, error) {
	var envelope insightEnvelope
	if err := json.Unmarshal([]byte(c.value), &envelope); err != nil {
		return nil, fmt.Errorf("failed to deserialize insights: %w", err)
	}

	insights := make([]Insight, 0, len(envelope.Insights))
	for _, s := range envelope.Insights {
		insights = append(insights, Insight{
			Text:     s.Text,
			Emoji:    s.Emoji,
			Color:    ParseColorTag(s.Color),
			Type:     ParseInsightType(s.Type),
			Duration: time.Duration(s.DurationMS) * time.Millisecond,
		})
	}
	return insights, nil
}

// ContributionRecord is a local journal entry for one contribution attempt.
type ContributionRecord struct {
	id            string
	sequence      int
	field         string
	year          string
	enteredValue  string
	storedValue   string
	pointsAwarded int
	accepted      bool
	message       string
	createdAt     time.Time
}

// NewContributionRecord creates a journal entry for a submission attempt and
// its server verdict.
func NewContributionRecord(field, year, entered string, result ContributionResult) *ContributionRecord {
	return &ContributionRecord{
		field:         field,
		year:          year,
		enteredValue:  entered,
		storedValue:   result.StoredValue,
		pointsAwarded: result.PointsAwarded,
		accepted:      result.Accepted,
		message:       result.Message,
		createdAt:     time.Now(),
	}
}

// RestoreContributionRecord rebuilds a ContributionRecord from database columns.
func RestoreContributionRecord(id string, sequence int, field, year, entered, stored string, points int, accepted bool, message string, createdAt time.Time) *ContributionRecord {
	return &ContributionRecord{
		id:            id,
		sequence:      sequence,
		field:         field,
		year:          year,
		enteredValue:  entered,
		storedValue:   stored,
		pointsAwarded: points,
		accepted:      accepted,
		message:       message,
		createdAt:     createdAt,
	}
}

func (r *ContributionRecord) ID() string           { return r.id }
func (r *ContributionRecord) Sequence() int        { return r.sequence }
func (r *ContributionRecord) Field() string        { return r.field }
func (r *ContributionRecord) Year() string         { return r.year }
func (r *ContributionRecord) EnteredValue() string { return r.enteredValue }
func (r *ContributionRecord) StoredValue() string  { return r.storedValue }
func (r *ContributionRecord) PointsAwarded() int   { return r.pointsAwarded }
func (r *ContributionRecord) Accepted() bool       { return r.accepted }
func (r *ContributionRecord) Message() string      { return r.message }
func (r *ContributionRecord) CreatedAt() time.Time { return r.createdAt }
func (r *ContributionRecord) UpdatedAt() time.Time { return r.createdAt }

func (r *ContributionRecord) SetID(id string)     { r.id = id }
func (r *ContributionRecord) SetSequence(seq int) { r.sequence = seq }

// Validate checks the journal entry for required fields.
func (r *ContributionRecord) Validate() error {
	if r.field == "" {
		return fmt.Errorf("%w: contribution record missing field", shared.ErrInvalidInput)
	}
	if r.enteredValue == "" {
		return fmt.Errorf("%w: contribution record missing entered value", shared.ErrInvalidInput)
	}
	return nil
}
