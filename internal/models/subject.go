package models

import (
	"fmt"
	"strings"

	"github.com/opencouncil/finsight/internal/shared"
)

// siteWideCouncil is the council slug used for site-wide insight subjects.
const siteWideCouncil = "all-councils"

// SubjectKey identifies which insights to fetch: a council/counter pair,
// optionally scoped to a single financial year.
type SubjectKey struct {
	Council string
	Counter string
	Year    string
}

// NewSubjectKey builds a SubjectKey from display names, normalizing each part
// into a URL-safe slug.
func NewSubjectKey(council, counter, year string) SubjectKey {
	return SubjectKey{
		Council: shared.NormalizeSlug(council),
		Counter: shared.NormalizeSlug(counter),
		Year:    strings.TrimSpace(year),
	}
}

// SiteWide returns a subject covering all councils for the given counter.
func SiteWide(counter string) SubjectKey {
	return SubjectKey{Council: siteWideCouncil, Counter: shared.NormalizeSlug(counter)}
}

// Validate checks that all required parts of the subject are present.
// Year is optional only for site-wide subjects.
func (s SubjectKey) Validate() error {
	if s.Council == "" {
		return fmt.Errorf("%w: council is required", shared.ErrMissingSubject)
	}
	if s.Counter == "" {
		return fmt.Errorf("%w: counter is required", shared.ErrMissingSubject)
	}
	if s.Year == "" && s.Council != siteWideCouncil {
		return fmt.Errorf("%w: year is required for council subjects", shared.ErrMissingSubject)
	}
	return nil
}

// Path returns the API path segment for this subject.
func (s SubjectKey) Path() string {
	if s.Year == "" {
		return fmt.Sprintf("%s/%s", s.Council, s.Counter)
	}
	return fmt.Sprintf("%s/%s/%s", s.Council, s.Counter, s.Year)
}

// String returns the cache key for this subject.
func (s SubjectKey) String() string {
	return strings.ReplaceAll(s.Path(), "/", ":")
}
