// package services defines provider interfaces for the conversion pipeline
//
// YouTube Data API v3 (source), Spotify Web API (destination)
package services

import (
	"context"

	"github.com/desertthunder/youtify/internal/models"
)

// SourceCatalog lists the contents of a source playlist.
type SourceCatalog interface {
	// PlaylistInfo retrieves playlist metadata by ID.
	PlaylistInfo(ctx context.Context, playlistID string) (*models.SourcePlaylist, error)

	// ListItems retrieves every item in the playlist, paginating as needed.
	// onProgress, when non-nil, is invoked with (processed, total) after
	// each page.
	ListItems(ctx context.Context, playlistID string, onProgress func(processed, total int)) ([]models.SourceItem, error)
}

// MusicSearcher searches the destination catalog for candidate tracks.
// An empty result slice means no matches and is not an error.
type MusicSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.CandidateTrack, error)
}

// PlaylistWriter creates and populates playlists on the destination
// service. Requires a user-delegated credential distinct from the search
// credential.
type PlaylistWriter interface {
	// CreatePlaylist creates an empty playlist owned by the configured user.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.CreatedPlaylist, error)

	// AddTracks appends track URIs to a playlist, batched internally at the
	// provider's documented maximum. onProgress, when non-nil, reports
	// (added, total) after each batch.
	AddTracks(ctx context.Context, playlistID string, uris []string, onProgress func(added, total int)) error
}
