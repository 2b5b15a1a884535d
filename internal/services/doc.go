// Package services defines typed clients for the council-finance REST API.
//
// Interfaces:
//   - [InsightAPI] : Fetches insight sequences for a subject
//   - [ContributionAPI] : Submits field values (CSRF-signed writes)
//   - [FieldAPI] : Loads option lists for list-kind fields
//   - [ModerationAPI] : Approve/reject/delete moderation actions
//
// All implementations share [Client], which owns the base URL, the session
// headers parsed from a saved browser request, and a request rate limiter.
// Write requests fail closed when no CSRF token is discoverable.
package services
