// Package store provides SQLite-backed durable storage for the records the
// engine evaluates.
//
// Tables:
//   - goals: objectives, archived in place and never deleted
//   - alignment_events: append-only log, several rows per day allowed
//   - journal_sessions: append-only reflection log
//   - tracked_interests: level and the seven-score trailing window
//   - unlocked_milestones: terminal unlocks, written once per milestone
//
// # Idempotency
//
// Every insert uses ON CONFLICT DO NOTHING. Re-sending the same record
// (same ID, or for alignment events the same content fingerprint) is a
// silent no-op, so hosts may retry writes and persist the same unlock set
// twice without duplicates.
//
// # Deterministic Reads
//
// Every query orders by its timestamp column and then by
// id COLLATE BINARY, so Snapshot returns identical slices for identical
// databases and the engine's input hash is stable.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: journal sessions must reference a known interest
//
// Timestamps are stored as fixed-width RFC 3339 UTC text. List
// columns (goal IDs, weekly scores) are stored as canonical JSON arrays.
package store
