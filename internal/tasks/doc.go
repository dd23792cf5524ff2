// Package tasks runs bulk actions over the gallery selection with real-time progress reporting.
//
// # Core Operations
//
// [BatchCoordinator] exposes the toolbar actions:
//
//  1. [BatchCoordinator.Download] : one archive request for the selected photos
//     - No-op when nothing is selected
//     - The archive is handed to an [ArchiveSink] under a generated name
//     - Failures notify the user and re-enable the controls; nothing is retried
//
//  2. [BatchCoordinator.Delete] : confirm, then delete photos and albums one by one
//     - Strictly sequential and best-effort: failures are logged and the loop continues
//     - The selection is cleared and the folder refreshed regardless of outcome
//
//  3. [BatchCoordinator.Move] : one request moving the selected photos to a folder
//     - Refresh on success, notify on failure, no local rollback
//
// [BulkExport] writes album manifests for many albums with a worker pool and a rate limiter.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Journal
//
// Every remote mutation attempt is passed to the optional [Journal] so failures swallowed by best-effort loops
// can still be inspected later (repositories.Recorder).
package tasks
