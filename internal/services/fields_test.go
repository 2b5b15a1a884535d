package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFieldService(t *testing.T) {
	t.Run("Options", func(t *testing.T) {
		t.Run("Select Field With Both Key Styles", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/fields/political-control/options" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Write([]byte(`{
					"field_type": "select",
					"options": [
						{"id": "1", "name": "Labour"},
						{"value": "2", "label": "Conservative"},
						{"id": "3"}
					],
					"placeholder": "Choose a party"
				}`))
			}))
			defer server.Close()

			svc := NewFieldService(NewClient(server.URL, nil))
			opts, err := svc.Options(context.Background(), "political-control")
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}

			if !opts.Select {
				t.Fatal("expected select field")
			}
			if len(opts.Options) != 3 {
				t.Fatalf("expected 3 options, got %d", len(opts.Options))
			}
			if opts.Options[0].Value != "1" || opts.Options[0].Label != "Labour" {
				t.Errorf("unexpected id/name option: %+v", opts.Options[0])
			}
			if opts.Options[1].Value != "2" || opts.Options[1].Label != "Conservative" {
				t.Errorf("unexpected value/label option: %+v", opts.Options[1])
			}
			if opts.Options[2].Label != "3" {
				t.Errorf("label should fall back to value, got %+v", opts.Options[2])
			}
			if opts.Placeholder != "Choose a party" {
				t.Errorf("expected placeholder, got %q", opts.Placeholder)
			}
		})

		t.Run("404 Degrades To Free Text", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			svc := NewFieldService(NewClient(server.URL, nil))
			opts, err := svc.Options(context.Background(), "missing-field")
			if err != nil {
				t.Fatalf("404 should degrade, not error: %v", err)
			}
			if opts.Select {
				t.Error("expected free text degradation")
			}
		})

		t.Run("Malformed Payload Degrades To Free Text", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>not json</html>`))
			}))
			defer server.Close()

			svc := NewFieldService(NewClient(server.URL, nil))
			opts, err := svc.Options(context.Background(), "some-field")
			if err != nil {
				t.Fatalf("malformed payload should degrade, not error: %v", err)
			}
			if opts.Select {
				t.Error("expected free text degradation")
			}
		})

		t.Run("Non-Select Type", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"field_type": "text", "placeholder": "Enter a URL"}`))
			}))
			defer server.Close()

			svc := NewFieldService(NewClient(server.URL, nil))
			opts, err := svc.Options(context.Background(), "website")
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if opts.Select {
				t.Error("expected non-select field")
			}
			if opts.Placeholder != "Enter a URL" {
				t.Errorf("expected placeholder, got %q", opts.Placeholder)
			}
		})

		t.Run("Empty Option List Degrades", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"field_type": "select", "options": []}`))
			}))
			defer server.Close()

			svc := NewFieldService(NewClient(server.URL, nil))
			opts, err := svc.Options(context.Background(), "empty-list")
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if opts.Select {
				t.Error("select with no options should degrade to free text")
			}
		})
	})
}
