// Contribution endpoint implementation of [ContributionAPI].
package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/shared"
)

// contributionResponse is the contribute endpoint's payload.
type contributionResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Value         string `json:"value"` // canonical stored value after server normalization
	PointsAwarded int    `json:"points_awarded"`
	Error         string `json:"error"`
}

// ContributionService implements [ContributionAPI] against the live backend.
type ContributionService struct {
	client *Client
}

// NewContributionService creates a ContributionService on the given client.
func NewContributionService(client *Client) *ContributionService {
	return &ContributionService{client: client}
}

// Submit posts the contribution. Write failures are never retried; a
// well-formed rejection comes back as [ServerError] so the caller can surface
// the message verbatim and keep the edit recoverable.
func (s *ContributionService) Submit(ctx context.Context, c Contribution) (*models.ContributionResult, error) {
	if c.Field == "" {
		return nil, fmt.Errorf("%w: field is required", shared.ErrMissingArgument)
	}
	if c.Value == "" {
		return nil, fmt.Errorf("%w: value is required", shared.ErrMissingArgument)
	}

	form := url.Values{}
	form.Set("field", c.Field)
	form.Set("value", c.Value)
	if c.Year != "" {
		form.Set("year", c.Year)
	}
	if c.Source != "" {
		form.Set("source", c.Source)
	}

	var resp contributionResponse
	if err := s.client.PostForm(ctx, "/contribute", form, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		if msg == "" {
			msg = "contribution rejected"
		}
		return nil, &ServerError{StatusCode: 200, Message: msg}
	}

	// When the server omits the normalized value, the submitted value is the
	// stored one.
	stored := resp.Value
	if stored == "" {
		stored = c.Value
	}

	return &models.ContributionResult{
		Accepted:      true,
		StoredValue:   stored,
		PointsAwarded: resp.PointsAwarded,
		Message:       resp.Message,
	}, nil
}
