package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/opencouncil/finsight/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "http://localhost:8000"

// ServerError is a well-formed error payload from the API. Its message is
// surfaced to the user verbatim.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Client performs HTTP requests against the council-finance backend.
//
// Reads go through Get; state-mutating requests go through PostForm, which
// refuses to submit without a discoverable CSRF token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       *shared.AuthHeaders
	limiter    *rate.Limiter
}

// NewClient creates a client for the given base URL. A nil http.Client uses
// [http.DefaultClient].
func NewClient(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// SetAuth attaches session headers parsed from a saved browser request.
func (c *Client) SetAuth(auth *shared.AuthHeaders) {
	c.auth = auth
}

// SetRateLimit caps outgoing requests at rps per second.
func (c *Client) SetRateLimit(rps float64) {
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// Authenticated reports whether session headers are attached.
func (c *Client) Authenticated() bool {
	return c.auth != nil
}

// CSRFToken returns the discoverable anti-forgery token, or empty.
func (c *Client) CSRFToken() string {
	if c.auth == nil {
		return ""
	}
	return c.auth.CSRFToken()
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return 0, nil, err
		}
	}

	if c.auth != nil {
		for key, value := range c.auth.Headers {
			req.Header.Set(key, value)
		}
		if c.auth.Cookie != "" {
			req.Header.Set("Cookie", c.auth.Cookie)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", shared.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// errorBody is the common error payload shape across endpoints.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// serverError parses a JSON error body before falling back to a generic
// status-code message.
func serverError(status int, body []byte) *ServerError {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, msg := range []string{parsed.Error, parsed.Message, parsed.Detail} {
			if msg != "" {
				return &ServerError{StatusCode: status, Message: msg}
			}
		}
	}
	return &ServerError{StatusCode: status}
}

// Get performs a GET and decodes a 2xx JSON response into result.
// Non-2xx responses are returned as [ServerError].
func (c *Client) Get(ctx context.Context, path string, result any) error {
	status, body, err := c.getRaw(ctx, path)
	if err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		return serverError(status, body)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// getRaw performs a GET and returns the status and body without interpreting
// the status code. Callers that treat some non-2xx responses as usable (the
// insight endpoint's degraded 503) use this directly.
func (c *Client) getRaw(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

// PostForm submits a CSRF-signed form-encoded POST and decodes a 2xx JSON
// response into result. Fails closed with [shared.ErrMissingCSRFToken] when no
// token is discoverable.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, result any) error {
	token := c.CSRFToken()
	if token == "" {
		return fmt.Errorf("%w: refusing to submit", shared.ErrMissingCSRFToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CSRFToken", token)

	status, body, err := c.do(req)
	if err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		return serverError(status, body)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Ping verifies the session by hitting an authenticated endpoint.
func (c *Client) Ping(ctx context.Context) error {
	status, body, err := c.getRaw(ctx, "/api/whoami")
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return serverError(status, body)
	}
	return nil
}
