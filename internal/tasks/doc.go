// Package tasks orchestrates the playlist conversion pipeline with
// real-time progress reporting.
//
// # Core Operations
//
// The [ConversionEngine] drives a run end to end:
//
//  1. [ConversionEngine.Run] : Full YouTube → Spotify conversion
//     - Fetches the source playlist and its items
//     - Parses each video title and resolves it against Spotify search
//     - Optionally creates a destination playlist with the matched tracks
//     - Optionally exports a report through a caller-supplied hook
//
//  2. [ConversionEngine.Convert] : The matching loop alone
//     - Sequential per item: parse, resolve, record
//     - Per-item failures downgrade to unmatched records, never abort
//     - Polls the context between items and returns partial results as
//       COMPLETED on cancellation
//
// # Progress Reporting
//
// All operations send [ProgressUpdate] values on a caller-owned channel.
// Updates use select with default so reporting never blocks execution.
//
// # Fatal Preconditions
//
// A run refuses to start with [shared.ErrEmptySource] when the source list
// is empty and [shared.ErrMissingCredentials] when no searcher is wired.
// Both surface before any network call.
package tasks
