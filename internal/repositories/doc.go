// Package repositories provides the local SQLite persistence layer.
//
// Stores:
//   - [InsightCacheRepository] : TTL-bounded insight cache ({value, timestamp}
//     envelopes keyed by subject), consulted before hitting the network and
//     never treated as a source of truth
//   - [SnapshotRepository] : last-known-good insight set per subject, the
//     fallback once fetch retries are exhausted
//   - [ContributionJournal] : local audit of contribution attempts and the
//     server's verdict on each
//
// Sequence numbers provide human-readable ordering for rows. They are not
// exposed in CLI output but used internally for sorting and debugging.
package repositories
