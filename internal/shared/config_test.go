package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Cache.Path != "./finsight.db" {
			t.Errorf("expected cache path ./finsight.db, got %s", config.Cache.Path)
		}

		if config.Cache.TTL() != 15*time.Minute {
			t.Errorf("expected cache TTL 15m, got %s", config.Cache.TTL())
		}

		if config.Playlist.DefaultDuration() != 8*time.Second {
			t.Errorf("expected default duration 8s, got %s", config.Playlist.DefaultDuration())
		}

		if config.Playlist.RetryAttempts != 3 {
			t.Errorf("expected 3 retry attempts, got %d", config.Playlist.RetryAttempts)
		}

		if config.Edit.SuspectMinDigits != 3 || config.Edit.SuspectMaxDigits != 6 {
			t.Errorf("expected suspect band 3-6, got %d-%d", config.Edit.SuspectMinDigits, config.Edit.SuspectMaxDigits)
		}

		if config.Edit.RejectOverDigits != 10 {
			t.Errorf("expected reject band over 10 digits, got %d", config.Edit.RejectOverDigits)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Cache.Path != defaultConfig.Cache.Path {
			t.Errorf("created config cache path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "http://localhost:8000"
timeout_seconds = 5
rate_limit = 2.0
auth_file = "/tmp/auth.sh"

[cache]
path = "/custom/path.db"
ttl_minutes = 30
max_open_conns = 20
max_idle_conns = 10

[playlist]
default_duration_ms = 4000
retry_attempts = 5
retry_base_delay_ms = 250

[edit]
suspect_min_digits = 4
suspect_max_digits = 7
reject_over_digits = 12
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "http://localhost:8000" {
			t.Errorf("expected base URL http://localhost:8000, got %s", config.API.BaseURL)
		}

		if config.Cache.TTL() != 30*time.Minute {
			t.Errorf("expected cache TTL 30m, got %s", config.Cache.TTL())
		}

		if config.Playlist.RetryBaseDelay() != 250*time.Millisecond {
			t.Errorf("expected retry base delay 250ms, got %s", config.Playlist.RetryBaseDelay())
		}

		if config.Edit.SuspectMinDigits != 4 {
			t.Errorf("expected suspect_min_digits 4, got %d", config.Edit.SuspectMinDigits)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
