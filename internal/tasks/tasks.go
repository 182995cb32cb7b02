// package tasks implements the YouTube → Spotify conversion pipeline.
//
// The core abstraction is ConversionEngine, which orchestrates fetching,
// matching, playlist creation, and report export. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/youtify/internal/match"
	"github.com/desertthunder/youtify/internal/models"
	"github.com/desertthunder/youtify/internal/services"
	"github.com/desertthunder/youtify/internal/shared"
)

// Options tunes the matching loop.
type Options struct {
	ConfidenceFloor float64       // Minimum similarity accepted as a match
	SearchLimit     int           // Candidates scored per query
	PacingDelay     time.Duration // Sleep between items
}

// CreateOptions describes the destination playlist to create after
// matching. A nil CreateOptions skips playlist creation.
type CreateOptions struct {
	Name        string
	Description string
	Public      bool
}

// RunOptions configures a full conversion run.
type RunOptions struct {
	Options
	Create *CreateOptions
	// Export, when non-nil, is invoked with the finished summary during
	// the report phase. Export failures are returned to the caller after
	// the summary is complete.
	Export func(summary *models.ConversionSummary) (string, error)
}

// ConversionEngine performs conversions using a source catalog, a music
// searcher, and an optional playlist writer.
type ConversionEngine struct {
	catalog  services.SourceCatalog
	searcher services.MusicSearcher
	writer   services.PlaylistWriter
	logger   *log.Logger
}

// NewConversionEngine creates an engine. The writer may be nil when
// playlist creation is not needed.
func NewConversionEngine(catalog services.SourceCatalog, searcher services.MusicSearcher, writer services.PlaylistWriter, logger *log.Logger) *ConversionEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ConversionEngine{
		catalog:  catalog,
		searcher: searcher,
		writer:   writer,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ConversionEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Convert runs the matching loop over the source items: parse each title,
// resolve it against the searcher, and append a record. Per-item failures
// become unmatched records with a reason and never abort the loop.
// Cancellation between items returns the records produced so far with the
// state marked COMPLETED.
func (e *ConversionEngine) Convert(ctx context.Context, items []models.SourceItem, opts Options, progress chan<- ProgressUpdate) ([]models.ConversionRecord, models.ConversionState, error) {
	state := models.ConversionState{
		RunID:     shared.GenerateID(),
		Status:    models.StatusNotStarted,
		Total:     len(items),
		StartedAt: time.Now(),
	}

	if len(items) == 0 {
		state.Status = models.StatusFailed
		return nil, state, shared.ErrEmptySource
	}
	if e.searcher == nil {
		state.Status = models.StatusFailed
		return nil, state, fmt.Errorf("%w: no search credential", shared.ErrMissingCredentials)
	}

	resolver := match.NewResolver(e.searcher.Search, opts.ConfidenceFloor, opts.SearchLimit, e.logger)
	state.Status = models.StatusRunning

	records := make([]models.ConversionRecord, 0, len(items))
	total := len(items)

	for i, item := range items {
		if ctx.Err() != nil {
			e.logger.Warn("conversion cancelled", "processed", state.Processed, "total", total)
			break
		}

		e.sendProgress(progress, searchTrackUpdate(i+1, total, item))

		guess := match.Parse(item.RawTitle)
		result := resolver.Resolve(ctx, guess)

		record := models.ConversionRecord{
			Index:  i,
			Source: item,
			Guess:  guess,
			Match:  result,
		}
		records = append(records, record)

		state.Processed++
		if result.Matched {
			state.Matched++
		}

		e.sendProgress(progress, matchResultUpdate(i+1, total, record))

		if opts.PacingDelay > 0 && i < total-1 {
			if err := sleepCtx(ctx, opts.PacingDelay); err != nil {
				break
			}
		}
	}

	state.Status = models.StatusCompleted
	return records, state, nil
}

// Run performs a full conversion: fetch the source playlist, match every
// item, optionally create a populated destination playlist, and optionally
// export a report. The summary is returned even when a late phase fails so
// collected records are never lost.
func (e *ConversionEngine) Run(ctx context.Context, playlistID string, opts RunOptions, progress chan<- ProgressUpdate) (*models.ConversionSummary, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: no source catalog", shared.ErrMissingCredentials)
	}

	e.sendProgress(progress, fetchingSourceUpdate(playlistID))

	info, err := e.catalog.PlaylistInfo(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, foundPlaylistUpdate(info))

	items, err := e.catalog.ListItems(ctx, playlistID, func(processed, total int) {
		e.sendProgress(progress, fetchSourcePageUpdate(processed, total))
	})
	if err != nil {
		return nil, err
	}

	records, state, err := e.Convert(ctx, items, opts.Options, progress)
	if err != nil {
		return nil, err
	}

	summary := models.Summarize(state, *info, records)
	summary.Elapsed = time.Since(state.StartedAt)

	if opts.Create != nil {
		playlist, err := e.createPlaylist(ctx, opts.Create, records, progress)
		if err != nil {
			return &summary, err
		}
		summary.Playlist = playlist
	}

	if opts.Export != nil {
		path, err := opts.Export(&summary)
		if err != nil {
			return &summary, fmt.Errorf("failed to export report: %w", err)
		}
		e.sendProgress(progress, exportReportUpdate(path))
	}

	return &summary, nil
}

// createPlaylist creates the destination playlist and adds all matched
// track URIs in the provider's batch size.
func (e *ConversionEngine) createPlaylist(ctx context.Context, opts *CreateOptions, records []models.ConversionRecord, progress chan<- ProgressUpdate) (*models.CreatedPlaylist, error) {
	if e.writer == nil {
		return nil, fmt.Errorf("%w: playlist creation needs a user token", shared.ErrAuthRequired)
	}

	var uris []string
	for _, record := range records {
		if record.Match.Matched {
			uris = append(uris, record.Match.Track.URI)
		}
	}
	if len(uris) == 0 {
		return nil, fmt.Errorf("no tracks were matched, refusing to create an empty playlist")
	}

	e.sendProgress(progress, creatingPlaylistUpdate(opts.Name))

	playlist, err := e.writer.CreatePlaylist(ctx, opts.Name, opts.Description, opts.Public)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, createdPlaylistUpdate(playlist))

	err = e.writer.AddTracks(ctx, playlist.ID, uris, func(added, total int) {
		e.sendProgress(progress, addTracksUpdate(added, total))
	})
	if err != nil {
		return playlist, err
	}

	return playlist, nil
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
