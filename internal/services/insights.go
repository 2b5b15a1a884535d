// Insight endpoint implementation of [InsightAPI].
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/opencouncil/finsight/internal/models"
)

// wireFactoid is one factoid as the API serializes it.
type wireFactoid struct {
	Text              string `json:"text"`
	Emoji             string `json:"emoji"`
	Color             string `json:"color"`
	InsightType       string `json:"insight_type"`
	AnimationDuration int    `json:"animation_duration"` // milliseconds
	ShowRetry         bool   `json:"show_retry"`
}

// insightResponse is the insight endpoint's payload.
type insightResponse struct {
	Success     bool          `json:"success"`
	Factoids    []wireFactoid `json:"factoids"`
	NoFactoids  bool          `json:"no_factoids"`
	Message     string        `json:"message"`
	RateLimited bool          `json:"rate_limited"`
	Fallback    bool          `json:"fallback"`
	ShowRetry   bool          `json:"show_retry"`
}

// InsightService implements [InsightAPI] against the live backend.
type InsightService struct {
	client *Client
}

// NewInsightService creates an InsightService on the given client.
func NewInsightService(client *Client) *InsightService {
	return &InsightService{client: client}
}

// Fetch retrieves the insight sequence for the subject.
//
// A 503 that still carries a populated factoid array is a degraded-but-usable
// response (a synthetic "unavailable" insight with a retry affordance) and is
// returned as a valid set rather than an error.
func (s *InsightService) Fetch(ctx context.Context, subject models.SubjectKey) (*InsightSet, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}

	status, body, err := s.client.getRaw(ctx, "/insights/"+subject.Path())
	if err != nil {
		return nil, err
	}

	var resp insightResponse
	decodeErr := json.Unmarshal(body, &resp)

	if status == http.StatusServiceUnavailable && decodeErr == nil && len(resp.Factoids) > 0 {
		set := mapInsightSet(resp)
		set.ShowRetry = true
		return set, nil
	}

	if status < 200 || status >= 300 {
		return nil, serverError(status, body)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode insight response: %w", decodeErr)
	}

	return mapInsightSet(resp), nil
}

func mapInsightSet(resp insightResponse) *InsightSet {
	set := &InsightSet{
		Message:     resp.Message,
		RateLimited: resp.RateLimited,
		Fallback:    resp.Fallback,
		ShowRetry:   resp.ShowRetry,
	}

	for _, f := range resp.Factoids {
		set.Insights = append(set.Insights, models.Insight{
			Text:     f.Text,
			Emoji:    f.Emoji,
			Color:    models.ParseColorTag(f.Color),
			Type:     models.ParseInsightType(f.InsightType),
			Duration: time.Duration(f.AnimationDuration) * time.Millisecond,
		})
		if f.ShowRetry {
			set.ShowRetry = true
		}
	}

	set.Empty = resp.NoFactoids || len(set.Insights) == 0

	return set
}
