package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opencouncil/finsight/internal/shared"
)

func TestModerationService(t *testing.T) {
	t.Run("Approve Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/moderate/approve/abc-123" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.Header.Get("X-CSRFToken") == "" {
				t.Error("expected CSRF header on moderation action")
			}
			w.Write([]byte(`{"status": "success"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		client.SetAuth(testAuth())
		svc := NewModerationService(client)

		if err := svc.Approve(context.Background(), "abc-123"); err != nil {
			t.Errorf("expected success, got %v", err)
		}
	})

	t.Run("Reject Sends Reason", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.ParseForm()
			if r.PostForm.Get("reason") != "duplicate entry" {
				t.Errorf("expected reason, got %q", r.PostForm.Get("reason"))
			}
			w.Write([]byte(`{"status": "success"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		client.SetAuth(testAuth())
		svc := NewModerationService(client)

		if err := svc.Reject(context.Background(), "abc-123", "duplicate entry"); err != nil {
			t.Errorf("expected success, got %v", err)
		}
	})

	t.Run("Non-Success Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "denied", "error": "insufficient permissions"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, nil)
		client.SetAuth(testAuth())
		svc := NewModerationService(client)

		err := svc.Delete(context.Background(), "abc-123")

		var serverErr *ServerError
		if !errors.As(err, &serverErr) {
			t.Fatalf("expected ServerError, got %v", err)
		}
		if serverErr.Message != "insufficient permissions" {
			t.Errorf("expected verbatim error, got %q", serverErr.Message)
		}
	})

	t.Run("Missing ID", func(t *testing.T) {
		client := NewClient("http://example.com", nil)
		client.SetAuth(testAuth())
		svc := NewModerationService(client)

		if err := svc.Approve(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("No CSRF Token Fails Closed", func(t *testing.T) {
		svc := NewModerationService(NewClient("http://example.com", nil))
		if err := svc.Approve(context.Background(), "abc-123"); !errors.Is(err, shared.ErrMissingCSRFToken) {
			t.Errorf("expected ErrMissingCSRFToken, got %v", err)
		}
	})
}
