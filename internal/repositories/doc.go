// Package repositories implements SQLite persistence for the action journal.
//
// The journal records every remote mutation the engine attempts, successful or not. Best-effort loops such as
// batch delete never surface individual failures to the user, so the journal is where they can be found later.
//
// Key Implementations:
//   - [JournalRepository] : models.Repository[*models.JournalEntry] with soft deletes and failure queries
//   - [Recorder] : adapts the repository to the Journal interfaces of the engine packages
//
// Sequence numbers provide stable, human-readable ordering (e.g., journal entry #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
