package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/opencouncil/finsight/internal/shared"
)

func testAuth() *shared.AuthHeaders {
	return &shared.AuthHeaders{
		Headers: map[string]string{"X-CSRFToken": "testtoken"},
		Cookie:  "sessionid=abc; csrftoken=testtoken",
	}
}

func TestClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Empty BaseURL", func(t *testing.T) {
			c := NewClient("", nil)
			if c.baseURL != defaultBaseURL {
				t.Errorf("expected default base URL, got %s", c.baseURL)
			}
			if c.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("Trims Trailing Slash", func(t *testing.T) {
			c := NewClient("http://example.com/", nil)
			if c.baseURL != "http://example.com" {
				t.Errorf("expected trimmed base URL, got %s", c.baseURL)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Attaches Session Headers", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Cookie") != "sessionid=abc; csrftoken=testtoken" {
					t.Errorf("expected session cookie, got %q", r.Header.Get("Cookie"))
				}
				if r.Header.Get("X-CSRFToken") != "testtoken" {
					t.Errorf("expected CSRF header, got %q", r.Header.Get("X-CSRFToken"))
				}
				w.Write([]byte(`{"ok": true}`))
			}))
			defer server.Close()

			c := NewClient(server.URL, nil)
			c.SetAuth(testAuth())

			var result struct {
				OK bool `json:"ok"`
			}
			if err := c.Get(context.Background(), "/test", &result); err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !result.OK {
				t.Error("expected decoded result")
			}
		})

		t.Run("Parses JSON Error Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error": "year is not open for contributions"}`))
			}))
			defer server.Close()

			c := NewClient(server.URL, nil)
			err := c.Get(context.Background(), "/test", nil)

			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("expected ServerError, got %v", err)
			}
			if serverErr.Message != "year is not open for contributions" {
				t.Errorf("expected verbatim server message, got %q", serverErr.Message)
			}
		})

		t.Run("Falls Back To Status Code Message", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("<html>oops</html>"))
			}))
			defer server.Close()

			c := NewClient(server.URL, nil)
			err := c.Get(context.Background(), "/test", nil)

			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("expected ServerError, got %v", err)
			}
			if serverErr.StatusCode != http.StatusInternalServerError {
				t.Errorf("expected status 500, got %d", serverErr.StatusCode)
			}
		})

		t.Run("Connection Failure", func(t *testing.T) {
			c := NewClient("http://127.0.0.1:1", nil)
			err := c.Get(context.Background(), "/test", nil)
			if !errors.Is(err, shared.ErrRequestFailed) {
				t.Errorf("expected ErrRequestFailed, got %v", err)
			}
		})
	})

	t.Run("PostForm", func(t *testing.T) {
		t.Run("Fails Closed Without CSRF Token", func(t *testing.T) {
			called := false
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			defer server.Close()

			c := NewClient(server.URL, nil)
			err := c.PostForm(context.Background(), "/contribute", url.Values{}, nil)

			if !errors.Is(err, shared.ErrMissingCSRFToken) {
				t.Errorf("expected ErrMissingCSRFToken, got %v", err)
			}
			if called {
				t.Error("no request should be issued without a CSRF token")
			}
		})

		t.Run("Sends Form With CSRF Header", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.Header.Get("X-CSRFToken") != "testtoken" {
					t.Errorf("expected CSRF header, got %q", r.Header.Get("X-CSRFToken"))
				}
				if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
					t.Errorf("expected form content type, got %q", r.Header.Get("Content-Type"))
				}
				r.ParseForm()
				if r.PostForm.Get("field") != "total-debt" {
					t.Errorf("expected form field, got %q", r.PostForm.Get("field"))
				}
				w.Write([]byte(`{"success": true}`))
			}))
			defer server.Close()

			c := NewClient(server.URL, nil)
			c.SetAuth(testAuth())

			form := url.Values{}
			form.Set("field", "total-debt")
			if err := c.PostForm(context.Background(), "/contribute", form, nil); err != nil {
				t.Fatalf("expected success, got %v", err)
			}
		})
	})

	t.Run("SetRateLimit", func(t *testing.T) {
		c := NewClient("", nil)
		if c.limiter != nil {
			t.Error("expected no limiter by default")
		}

		c.SetRateLimit(4)
		if c.limiter == nil {
			t.Error("expected limiter after SetRateLimit")
		}

		c2 := NewClient("", nil)
		c2.SetRateLimit(0)
		if c2.limiter != nil {
			t.Error("zero rate should not install a limiter")
		}
	})
}
