package services

import (
	"context"

	"github.com/opencouncil/finsight/internal/models"
)

// InsightAPI fetches insight sequences for a subject.
type InsightAPI interface {
	// Fetch retrieves the current insight sequence for the subject.
	// A degraded-but-usable server response (fallback insight with a retry
	// affordance) is returned as a valid set, not an error.
	Fetch(ctx context.Context, subject models.SubjectKey) (*InsightSet, error)
}

// InsightSet is the deserialized result of one insight fetch.
type InsightSet struct {
	Insights    []models.Insight
	Empty       bool   // the server explicitly reported no insights (not an error)
	Message     string // optional server-supplied status message
	RateLimited bool   // the server throttled generation
	Fallback    bool   // the server served a stale/fallback set
	ShowRetry   bool   // the caller should render a manual retry affordance
}

// Contribution is one value submission for an editable field.
type Contribution struct {
	Field  string
	Value  string
	Year   string // required for temporal fields
	Source string // optional citation URL
}

// ContributionAPI submits field values to the server.
type ContributionAPI interface {
	// Submit posts the contribution and returns the server's verdict.
	// The returned StoredValue is canonical; callers re-render from it.
	Submit(ctx context.Context, c Contribution) (*models.ContributionResult, error)
}

// Option is one entry in a list-kind field's option set.
type Option struct {
	Value string
	Label string
}

// FieldOptions describes how a list-kind field should be edited.
// Select false means the field degrades to free text input.
type FieldOptions struct {
	Select      bool
	Options     []Option
	Placeholder string
}

// FieldAPI loads the option list for a field.
type FieldAPI interface {
	// Options fetches the option set for fieldKey. A missing or malformed
	// option set degrades to free text, never to an error.
	Options(ctx context.Context, fieldKey string) (*FieldOptions, error)
}

// ModerationAPI performs moderation actions on pending contributions.
type ModerationAPI interface {
	Approve(ctx context.Context, contributionID string) error
	Reject(ctx context.Context, contributionID, reason string) error
	Delete(ctx context.Context, contributionID string) error
}
