// Package models defines the data model for the council-finance client.
//
// Core types:
//   - [SubjectKey] : The council/counter/year tuple that scopes an insight fetch
//   - [Insight] : A server-generated financial observation with display metadata
//   - [Field] / [FieldKind] : Editable data fields and their input representations
//   - [ContributionResult] : The server's verdict on a submitted value
//
// Persisted types (stored in the local SQLite cache):
//   - [CachedInsightSet] : Insight sets under a {value, timestamp} envelope
//   - [ContributionRecord] : Local journal of contribution attempts
//
// All persisted types implement [Model] and are managed through [Repository]
// implementations in the repositories package.
package models
