package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opencouncil/finsight/internal/models"
	"github.com/opencouncil/finsight/internal/shared"
)

func testSubject() models.SubjectKey {
	return models.NewSubjectKey("Birmingham City Council", "Total Debt", "2023-24")
}

func TestInsightService(t *testing.T) {
	t.Run("Fetch", func(t *testing.T) {
		t.Run("Maps Wire Payload", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/insights/birmingham-city-council/total-debt/2023-24" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Write([]byte(`{
					"success": true,
					"factoids": [
						{"text": "Debt rose 12% since last year", "emoji": "📈", "color": "red", "insight_type": "trend", "animation_duration": 6000},
						{"text": "Third highest per resident", "emoji": "🏛️", "color": "unknown-color", "insight_type": "ranking", "animation_duration": 0}
					]
				}`))
			}))
			defer server.Close()

			svc := NewInsightService(NewClient(server.URL, nil))
			set, err := svc.Fetch(context.Background(), testSubject())
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}

			if len(set.Insights) != 2 {
				t.Fatalf("expected 2 insights, got %d", len(set.Insights))
			}
			if set.Empty {
				t.Error("non-empty set should not be flagged empty")
			}
			if set.Insights[0].Duration != 6*time.Second {
				t.Errorf("expected 6s duration, got %s", set.Insights[0].Duration)
			}
			if set.Insights[0].Type != models.TypeTrend {
				t.Errorf("expected trend type, got %s", set.Insights[0].Type)
			}
			if set.Insights[1].Color != models.ColorGray {
				t.Errorf("unknown color should map to gray, got %s", set.Insights[1].Color)
			}
			if set.Insights[1].Duration != 0 {
				t.Errorf("zero wire duration should stay zero for the default fallback, got %s", set.Insights[1].Duration)
			}
		})

		t.Run("Explicitly Empty Is Not An Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success": true, "factoids": [], "no_factoids": true, "message": "no insights yet"}`))
			}))
			defer server.Close()

			svc := NewInsightService(NewClient(server.URL, nil))
			set, err := svc.Fetch(context.Background(), testSubject())
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !set.Empty {
				t.Error("expected empty set")
			}
			if set.Message != "no insights yet" {
				t.Errorf("expected message, got %q", set.Message)
			}
		})

		t.Run("Degraded 503 With Factoids", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{
					"success": false,
					"factoids": [{"text": "Insights temporarily unavailable", "emoji": "⏳", "color": "gray", "insight_type": "system", "show_retry": true}]
				}`))
			}))
			defer server.Close()

			svc := NewInsightService(NewClient(server.URL, nil))
			set, err := svc.Fetch(context.Background(), testSubject())
			if err != nil {
				t.Fatalf("degraded 503 with factoids should not be an error, got %v", err)
			}
			if !set.ShowRetry {
				t.Error("expected retry affordance")
			}
			if len(set.Insights) != 1 {
				t.Fatalf("expected the synthetic insight, got %d", len(set.Insights))
			}
			if set.Insights[0].Type != models.TypeSystem {
				t.Errorf("expected system type, got %s", set.Insights[0].Type)
			}
		})

		t.Run("Bare 503 Is An Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"error": "insight generation offline"}`))
			}))
			defer server.Close()

			svc := NewInsightService(NewClient(server.URL, nil))
			_, err := svc.Fetch(context.Background(), testSubject())

			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("expected ServerError, got %v", err)
			}
			if serverErr.Message != "insight generation offline" {
				t.Errorf("expected verbatim message, got %q", serverErr.Message)
			}
		})

		t.Run("Malformed Payload", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"factoids": "not an array"`))
			}))
			defer server.Close()

			svc := NewInsightService(NewClient(server.URL, nil))
			if _, err := svc.Fetch(context.Background(), testSubject()); err == nil {
				t.Error("expected error for malformed payload")
			}
		})

		t.Run("Incomplete Subject Issues No Request", func(t *testing.T) {
			called := false
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			defer server.Close()

			svc := NewInsightService(NewClient(server.URL, nil))
			_, err := svc.Fetch(context.Background(), models.SubjectKey{Council: "leeds"})

			if !errors.Is(err, shared.ErrMissingSubject) {
				t.Errorf("expected ErrMissingSubject, got %v", err)
			}
			if called {
				t.Error("no network call should be made for an incomplete subject")
			}
		})

		t.Run("Rate Limited Flag Passes Through", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success": true, "factoids": [{"text": "cached insight", "color": "blue", "insight_type": "basic"}], "rate_limited": true, "fallback": true}`))
			}))
			defer server.Close()

			svc := NewInsightService(NewClient(server.URL, nil))
			set, err := svc.Fetch(context.Background(), testSubject())
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !set.RateLimited || !set.Fallback {
				t.Error("expected rate_limited and fallback flags to pass through")
			}
		})
	})
}
