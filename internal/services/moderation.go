// Moderation endpoint implementation of [ModerationAPI].
package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/opencouncil/finsight/internal/shared"
)

type moderationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ModerationService implements [ModerationAPI] against the live backend.
type ModerationService struct {
	client *Client
}

// NewModerationService creates a ModerationService on the given client.
func NewModerationService(client *Client) *ModerationService {
	return &ModerationService{client: client}
}

func (s *ModerationService) act(ctx context.Context, action, contributionID string, form url.Values) error {
	if contributionID == "" {
		return fmt.Errorf("%w: contribution ID is required", shared.ErrMissingArgument)
	}
	if form == nil {
		form = url.Values{}
	}

	var resp moderationResponse
	path := fmt.Sprintf("/moderate/%s/%s", action, contributionID)
	if err := s.client.PostForm(ctx, path, form, &resp); err != nil {
		return err
	}

	if resp.Status != "success" {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("moderation %s failed", action)
		}
		return &ServerError{StatusCode: 200, Message: msg}
	}

	return nil
}

// Approve marks a pending contribution as accepted.
func (s *ModerationService) Approve(ctx context.Context, contributionID string) error {
	return s.act(ctx, "approve", contributionID, nil)
}

// Reject declines a pending contribution with an optional reason.
func (s *ModerationService) Reject(ctx context.Context, contributionID, reason string) error {
	form := url.Values{}
	if reason != "" {
		form.Set("reason", reason)
	}
	return s.act(ctx, "reject", contributionID, form)
}

// Delete removes a contribution entirely. Destructive; callers confirm first.
func (s *ModerationService) Delete(ctx context.Context, contributionID string) error {
	return s.act(ctx, "delete", contributionID, nil)
}
