// Field options endpoint implementation of [FieldAPI].
package services

import (
	"context"
	"encoding/json"
	"net/http"
)

// wireOption accepts both key sets the API uses ({id, name} and {value, label}).
type wireOption struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

type fieldOptionsResponse struct {
	FieldType   string       `json:"field_type"`
	Options     []wireOption `json:"options"`
	Placeholder string       `json:"placeholder"`
}

// FieldService implements [FieldAPI] against the live backend.
type FieldService struct {
	client *Client
}

// NewFieldService creates a FieldService on the given client.
func NewFieldService(client *Client) *FieldService {
	return &FieldService{client: client}
}

// freeText is the degraded result: a plain text input, never a broken control.
func freeText() *FieldOptions {
	return &FieldOptions{Select: false}
}

// Options fetches the option set for fieldKey. A 404 or malformed payload
// degrades to free text.
func (s *FieldService) Options(ctx context.Context, fieldKey string) (*FieldOptions, error) {
	status, body, err := s.client.getRaw(ctx, "/fields/"+fieldKey+"/options")
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return freeText(), nil
	}
	if status < 200 || status >= 300 {
		return nil, serverError(status, body)
	}

	var resp fieldOptionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return freeText(), nil
	}

	if resp.FieldType != "select" || len(resp.Options) == 0 {
		return &FieldOptions{Select: false, Placeholder: resp.Placeholder}, nil
	}

	opts := &FieldOptions{Select: true, Placeholder: resp.Placeholder}
	for _, o := range resp.Options {
		value := o.Value
		if value == "" {
			value = o.ID
		}
		label := o.Label
		if label == "" {
			label = o.Name
		}
		if value == "" && label == "" {
			continue
		}
		if label == "" {
			label = value
		}
		opts.Options = append(opts.Options, Option{Value: value, Label: label})
	}

	if len(opts.Options) == 0 {
		return &FieldOptions{Select: false, Placeholder: resp.Placeholder}, nil
	}

	return opts, nil
}
