package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Cache    CacheConfig    `toml:"cache"`
	Playlist PlaylistConfig `toml:"playlist"`
	Edit     EditConfig     `toml:"edit"`
}

// APIConfig contains settings for the council-finance backend.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"` // requests per second
	AuthFile       string  `toml:"auth_file"`  // saved browser cURL command
}

// CacheConfig contains settings for the local insight cache database.
type CacheConfig struct {
	Path         string `toml:"path"`
	TTLMinutes   int    `toml:"ttl_minutes"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// TTL returns the cache expiry as a [time.Duration].
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// PlaylistConfig contains rotation settings for the insight playlist.
type PlaylistConfig struct {
	DefaultDurationMS int `toml:"default_duration_ms"`
	RetryAttempts     int `toml:"retry_attempts"`
	RetryBaseDelayMS  int `toml:"retry_base_delay_ms"`
}

// DefaultDuration returns the fallback display duration for insights that
// do not carry their own.
func (p PlaylistConfig) DefaultDuration() time.Duration {
	return time.Duration(p.DefaultDurationMS) * time.Millisecond
}

// RetryBaseDelay returns the initial backoff delay for insight fetches.
func (p PlaylistConfig) RetryBaseDelay() time.Duration {
	return time.Duration(p.RetryBaseDelayMS) * time.Millisecond
}

// EditConfig contains the monetary sanity-check bands.
//
// Council figures are almost always in the millions-to-billions range, so a
// parsed magnitude of 3-6 digits (or an implausible >10 digits) pauses
// submission for disambiguation. The bands are configuration rather than
// constants: they are a property of the data set, not of the currency.
type EditConfig struct {
	SuspectMinDigits int `toml:"suspect_min_digits"`
	SuspectMaxDigits int `toml:"suspect_max_digits"`
	RejectOverDigits int `toml:"reject_over_digits"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
