// Package models defines domain entities for the playlist conversion pipeline.
//
// The package contains two categories of types:
//
// 1. Source-side types describing what was fetched and parsed:
//   - [SourcePlaylist] : YouTube playlist metadata
//   - [SourceItem] : One video entry from the source playlist
//   - [ParsedGuess] : Artist/title guess extracted from a video title
//
// 2. Destination-side types describing search and match outcomes:
//   - [CandidateTrack] : One Spotify search result under consideration
//   - [MatchResult] : Final per-item verdict with confidence and reason
//   - [ConversionRecord] : Append-only output unit pairing source, guess, and verdict
//   - [ConversionState] : Run lifecycle (status, counts) owned by the caller
//   - [ConversionSummary] : Aggregate outcome of a full run
//   - [CachedSearch] : Persisted search result set for TTL-based reuse
package models
