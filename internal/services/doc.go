// Package services implements the external provider clients for the
// conversion pipeline.
//
// # Provider Interfaces
//
// Three narrow capabilities cover everything the pipeline needs:
//   - [SourceCatalog] : list a source playlist's metadata and items
//   - [MusicSearcher] : search the destination catalog for candidates
//   - [PlaylistWriter] : create and populate a destination playlist
//
// # YouTube Implementation
//
// [YouTubeService] talks to the YouTube Data API v3 with an API key. It
// extracts playlist IDs from the common URL shapes, paginates playlistItems
// fifty at a time, skips deleted and private entries, and strips the
// " - Topic" suffix auto-generated music channels carry.
//
// # Spotify Implementation
//
// [SpotifyService] holds two credentials: an [oauth2] client-credentials
// token for search, and an optional user bearer token for playlist
// mutation. Search honors Retry-After on 429 responses with bounded
// exponential backoff. Track additions are batched at the API's limit of
// one hundred URIs per request.
//
// # Error Handling
//
// Provider failures map to sentinel errors from the shared package so
// callers can branch with errors.Is:
//   - [shared.ErrQuotaExceeded] : YouTube daily quota exhausted
//   - [shared.ErrPlaylistNotFound] : playlist missing or deleted
//   - [shared.ErrAccessDenied] : playlist private or key rejected
//   - [shared.ErrAuthRequired] : missing or expired Spotify credential
//   - [shared.ErrRateLimited] : Spotify 429 after retries
package services
