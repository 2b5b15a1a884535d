// package shared defines shared helpers
package shared

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// NewFileLogger creates a [log.Logger] that writes to the given file path,
// creating parent directories as needed. Used while the TUI owns the terminal.
func NewFileLogger(path string) (*log.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewLogger(f), nil
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// NormalizeSlug lowercases and hyphenates a council or counter name so it can
// be used as a URL path segment and as a cache key component.
func NormalizeSlug(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(fields, "-")
}

// FormatMoney renders a monetary magnitude the way the web app does:
// £1.5b, £2.3m, £950k, with small values in plain pounds.
func FormatMoney(amount float64) string {
	neg := ""
	if amount < 0 {
		neg = "-"
		amount = -amount
	}

	switch {
	case amount >= 1e9:
		return fmt.Sprintf("%s£%.1fb", neg, amount/1e9)
	case amount >= 1e6:
		return fmt.Sprintf("%s£%.1fm", neg, amount/1e6)
	case amount >= 1e3:
		return fmt.Sprintf("%s£%.0fk", neg, amount/1e3)
	default:
		return fmt.Sprintf("%s£%.0f", neg, amount)
	}
}
