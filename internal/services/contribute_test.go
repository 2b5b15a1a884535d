package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opencouncil/finsight/internal/shared"
)

func TestContributionService(t *testing.T) {
	t.Run("Submit", func(t *testing.T) {
		t.Run("Success Returns Canonical Value", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				r.ParseForm()
				if r.PostForm.Get("field") != "total-debt" {
					t.Errorf("expected field, got %q", r.PostForm.Get("field"))
				}
				if r.PostForm.Get("value") != "1500000" {
					t.Errorf("expected value, got %q", r.PostForm.Get("value"))
				}
				if r.PostForm.Get("year") != "2023-24" {
					t.Errorf("expected year, got %q", r.PostForm.Get("year"))
				}
				w.Write([]byte(`{"success": true, "value": "1500000.00", "points_awarded": 3, "message": "thanks!"}`))
			}))
			defer server.Close()

			client := NewClient(server.URL, nil)
			client.SetAuth(testAuth())
			svc := NewContributionService(client)

			result, err := svc.Submit(context.Background(), Contribution{
				Field: "total-debt",
				Value: "1500000",
				Year:  "2023-24",
			})
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}

			if result.StoredValue != "1500000.00" {
				t.Errorf("expected canonical stored value, got %q", result.StoredValue)
			}
			if result.PointsAwarded != 3 {
				t.Errorf("expected 3 points, got %d", result.PointsAwarded)
			}
		})

		t.Run("Missing Canonical Value Falls Back To Submitted", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success": true}`))
			}))
			defer server.Close()

			client := NewClient(server.URL, nil)
			client.SetAuth(testAuth())
			svc := NewContributionService(client)

			result, err := svc.Submit(context.Background(), Contribution{Field: "website", Value: "https://example.org"})
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if result.StoredValue != "https://example.org" {
				t.Errorf("expected submitted value as fallback, got %q", result.StoredValue)
			}
		})

		t.Run("Well-Formed Rejection Surfaces Message", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success": false, "error": "value must be numeric"}`))
			}))
			defer server.Close()

			client := NewClient(server.URL, nil)
			client.SetAuth(testAuth())
			svc := NewContributionService(client)

			_, err := svc.Submit(context.Background(), Contribution{Field: "total-debt", Value: "abc"})

			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("expected ServerError, got %v", err)
			}
			if serverErr.Message != "value must be numeric" {
				t.Errorf("expected verbatim rejection, got %q", serverErr.Message)
			}
		})

		t.Run("Non-2xx With Error Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error": "moderation required"}`))
			}))
			defer server.Close()

			client := NewClient(server.URL, nil)
			client.SetAuth(testAuth())
			svc := NewContributionService(client)

			_, err := svc.Submit(context.Background(), Contribution{Field: "total-debt", Value: "5"})

			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("expected ServerError, got %v", err)
			}
			if serverErr.Message != "moderation required" {
				t.Errorf("expected parsed error body, got %q", serverErr.Message)
			}
		})

		t.Run("No CSRF Token Fails Closed", func(t *testing.T) {
			svc := NewContributionService(NewClient("http://example.com", nil))
			_, err := svc.Submit(context.Background(), Contribution{Field: "total-debt", Value: "5"})

			if !errors.Is(err, shared.ErrMissingCSRFToken) {
				t.Errorf("expected ErrMissingCSRFToken, got %v", err)
			}
		})

		t.Run("Missing Field", func(t *testing.T) {
			svc := NewContributionService(NewClient("http://example.com", nil))
			_, err := svc.Submit(context.Background(), Contribution{Value: "5"})

			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})
}
