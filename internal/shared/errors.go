package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig    = fmt.Errorf("configuration not found")
	ErrInvalidConfig    = fmt.Errorf("invalid configuration")
	ErrMissingSubject   = fmt.Errorf("subject key incomplete")
	ErrMissingAuth      = fmt.Errorf("missing session credentials")
	ErrMissingCSRFToken = fmt.Errorf("missing CSRF token")

	// Network errors
	ErrRequestFailed      = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrRateLimited        = fmt.Errorf("rate limited")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Validation errors
	ErrSuspectValue    = fmt.Errorf("value magnitude needs confirmation")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Controller state errors
	ErrSubmissionInFlight  = fmt.Errorf("submission already in flight")
	ErrControllerDestroyed = fmt.Errorf("controller destroyed")
	ErrNoInsights          = fmt.Errorf("no insights available")
)
