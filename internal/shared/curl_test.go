package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	t.Run("Extracts Headers And Cookie", func(t *testing.T) {
		cmd := `curl 'https://counters.opencouncil.uk/contribute' \
  -H 'Accept: application/json' \
  -H 'X-CSRFToken: abc123token' \
  -H 'Cookie: sessionid=xyz; csrftoken=abc123token'`

		auth, err := ParseCurlCommand([]byte(cmd))
		if err != nil {
			t.Fatalf("failed to parse curl command: %v", err)
		}

		if auth.Headers["Accept"] != "application/json" {
			t.Errorf("expected Accept header, got %q", auth.Headers["Accept"])
		}
		if !strings.Contains(auth.Cookie, "sessionid=xyz") {
			t.Errorf("expected session cookie, got %q", auth.Cookie)
		}
		if _, ok := auth.Headers["Cookie"]; ok {
			t.Error("cookie should not appear in the header map")
		}
	})

	t.Run("Double Quoted Headers", func(t *testing.T) {
		cmd := `curl "https://example.com" -H "X-CSRFToken: tok" -H "Referer: https://example.com/"`

		auth, err := ParseCurlCommand([]byte(cmd))
		if err != nil {
			t.Fatalf("failed to parse curl command: %v", err)
		}

		if auth.Headers["X-CSRFToken"] != "tok" {
			t.Errorf("expected X-CSRFToken tok, got %q", auth.Headers["X-CSRFToken"])
		}
	})

	t.Run("Cookie Flag", func(t *testing.T) {
		cmd := `curl 'https://example.com' -b 'sessionid=abc; csrftoken=fromcookie'`

		auth, err := ParseCurlCommand([]byte(cmd))
		if err != nil {
			t.Fatalf("failed to parse curl command: %v", err)
		}

		if !strings.Contains(auth.Cookie, "sessionid=abc") {
			t.Errorf("expected cookie from -b flag, got %q", auth.Cookie)
		}
	})

	t.Run("No Headers", func(t *testing.T) {
		if _, err := ParseCurlCommand([]byte("curl https://example.com")); err == nil {
			t.Error("expected error for curl command without headers")
		}
	})
}

func TestCSRFToken(t *testing.T) {
	t.Run("From Header", func(t *testing.T) {
		auth := &AuthHeaders{
			Headers: map[string]string{"x-csrftoken": "headertoken"},
			Cookie:  "csrftoken=cookietoken",
		}

		if got := auth.CSRFToken(); got != "headertoken" {
			t.Errorf("expected header token to win, got %q", got)
		}
	})

	t.Run("From Cookie", func(t *testing.T) {
		auth := &AuthHeaders{
			Headers: map[string]string{"Accept": "application/json"},
			Cookie:  "sessionid=abc; csrftoken=cookietoken",
		}

		if got := auth.CSRFToken(); got != "cookietoken" {
			t.Errorf("expected cookie token, got %q", got)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		auth := &AuthHeaders{Headers: map[string]string{}, Cookie: "sessionid=abc"}

		if got := auth.CSRFToken(); got != "" {
			t.Errorf("expected empty token, got %q", got)
		}
	})
}

func TestParseCurlFile(t *testing.T) {
	t.Run("Reads File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "auth.sh")
		cmd := `curl 'https://example.com' -H 'X-CSRFToken: filetoken'`
		if err := os.WriteFile(path, []byte(cmd), 0644); err != nil {
			t.Fatalf("failed to write auth file: %v", err)
		}

		auth, err := ParseCurlFile(path)
		if err != nil {
			t.Fatalf("failed to parse curl file: %v", err)
		}
		if auth.CSRFToken() != "filetoken" {
			t.Errorf("expected filetoken, got %q", auth.CSRFToken())
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := ParseCurlFile("/nonexistent/auth.sh"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
