package tasks

import (
	"fmt"

	"github.com/desertthunder/youtify/internal/models"
)

// ProgressUpdate represents a progress event during a conversion run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	ParseTitles
	SearchTracks
	CreatePlaylist
	ExportReport
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case ParseTitles:
		return "parse_titles"
	case SearchTracks:
		return "search_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case ExportReport:
		return "export_report"
	default:
		return ""
	}
}

func fetchingSourceUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist %s from YouTube...", playlistID),
	}
}

func fetchSourcePageUpdate(processed, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    processed,
		Total:   total,
		Message: fmt.Sprintf("Fetched %d of %d playlist items...", processed, total),
	}
}

func foundPlaylistUpdate(playlist *models.SourcePlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (%d items)", playlist.Title, playlist.ItemCount),
		Data:    playlist,
	}
}

func searchTrackUpdate(step, total int, item models.SourceItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, item.RawTitle),
	}
}

func matchResultUpdate(step, total int, record models.ConversionRecord) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, record.Source.RawTitle, record.Match.Reason)
	if record.Match.Matched {
		msg = fmt.Sprintf("[%d/%d] ✓ %s - %s (%.2f)", step, total,
			record.Match.Track.ArtistLine(), record.Match.Track.Title, record.Match.Confidence)
	}
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    record,
	}
}

func creatingPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q on Spotify...", name),
	}
}

func createdPlaylistUpdate(playlist *models.CreatedPlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", playlist.Name, playlist.ID),
		Data:    playlist,
	}
}

func addTracksUpdate(added, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    added,
		Total:   total,
		Message: fmt.Sprintf("Added %d of %d tracks...", added, total),
	}
}

func exportReportUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportReport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Report written to %s", path),
	}
}
