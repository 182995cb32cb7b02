package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/desertthunder/youtify/internal/models"
	"github.com/desertthunder/youtify/internal/shared"
)

// mockSearcher returns candidates whose title matches the query substring.
type mockSearcher struct {
	tracks  []models.CandidateTrack
	err     error
	onCall  func(call int)
	calls   int
	noMatch bool
}

func (m *mockSearcher) Search(_ context.Context, query string, _ int) ([]models.CandidateTrack, error) {
	m.calls++
	if m.onCall != nil {
		m.onCall(m.calls)
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.noMatch {
		return nil, nil
	}

	var out []models.CandidateTrack
	for _, track := range m.tracks {
		if strings.Contains(strings.ToLower(query), strings.ToLower(track.Title)) {
			out = append(out, track)
		}
	}
	return out, nil
}

type mockCatalog struct {
	info  *models.SourcePlaylist
	items []models.SourceItem
	err   error
}

func (m *mockCatalog) PlaylistInfo(context.Context, string) (*models.SourcePlaylist, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.info, nil
}

func (m *mockCatalog) ListItems(_ context.Context, _ string, onProgress func(int, int)) ([]models.SourceItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	if onProgress != nil {
		onProgress(len(m.items), len(m.items))
	}
	return m.items, nil
}

type mockWriter struct {
	playlist *models.CreatedPlaylist
	added    []string
	err      error
}

func (m *mockWriter) CreatePlaylist(_ context.Context, name, _ string, public bool) (*models.CreatedPlaylist, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.playlist = &models.CreatedPlaylist{ID: "pl1", Name: name, Public: public, URL: "https://open.spotify.com/playlist/pl1"}
	return m.playlist, nil
}

func (m *mockWriter) AddTracks(_ context.Context, _ string, uris []string, onProgress func(int, int)) error {
	m.added = append(m.added, uris...)
	if onProgress != nil {
		onProgress(len(uris), len(uris))
	}
	return nil
}

func sourceItems() []models.SourceItem {
	return []models.SourceItem{
		{RawTitle: "Daft Punk - One More Time", ChannelName: "Daft Punk", ExternalID: "v1"},
		{RawTitle: "Radiohead - Karma Police", ChannelName: "Radiohead", ExternalID: "v2"},
	}
}

func catalogTracks() []models.CandidateTrack {
	return []models.CandidateTrack{
		{TrackID: "t1", URI: "spotify:track:t1", Title: "One More Time", ArtistNames: []string{"Daft Punk"}},
		{TrackID: "t2", URI: "spotify:track:t2", Title: "Karma Police", ArtistNames: []string{"Radiohead"}},
	}
}

func TestConvert(t *testing.T) {
	ctx := context.Background()

	t.Run("empty source is fatal", func(t *testing.T) {
		engine := NewConversionEngine(nil, &mockSearcher{}, nil, nil)
		_, state, err := engine.Convert(ctx, nil, Options{}, nil)

		if !errors.Is(err, shared.ErrEmptySource) {
			t.Errorf("Convert() error = %v, want ErrEmptySource", err)
		}
		if state.Status != models.StatusFailed {
			t.Errorf("state.Status = %v, want FAILED", state.Status)
		}
	})

	t.Run("missing searcher is fatal", func(t *testing.T) {
		engine := NewConversionEngine(nil, nil, nil, nil)
		_, state, err := engine.Convert(ctx, sourceItems(), Options{}, nil)

		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("Convert() error = %v, want ErrMissingCredentials", err)
		}
		if state.Status != models.StatusFailed {
			t.Errorf("state.Status = %v, want FAILED", state.Status)
		}
	})

	t.Run("matches every item", func(t *testing.T) {
		searcher := &mockSearcher{tracks: catalogTracks()}
		engine := NewConversionEngine(nil, searcher, nil, nil)

		records, state, err := engine.Convert(ctx, sourceItems(), Options{}, nil)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}

		if len(records) != 2 {
			t.Fatalf("Convert() produced %d records, want 2", len(records))
		}
		for i, record := range records {
			if record.Index != i {
				t.Errorf("record %d index = %d", i, record.Index)
			}
			if !record.Match.Matched {
				t.Errorf("record %d unmatched: %s", i, record.Match.Reason)
			}
		}
		if state.Status != models.StatusCompleted || state.Matched != 2 || state.Processed != 2 {
			t.Errorf("state = %+v", state)
		}
	})

	t.Run("search errors downgrade items and continue", func(t *testing.T) {
		searcher := &mockSearcher{err: fmt.Errorf("%w: slow down", shared.ErrRateLimited)}
		engine := NewConversionEngine(nil, searcher, nil, nil)

		records, state, err := engine.Convert(ctx, sourceItems(), Options{}, nil)
		if err != nil {
			t.Fatalf("Convert() error = %v, want per-item downgrade", err)
		}

		if len(records) != 2 {
			t.Fatalf("Convert() produced %d records, want 2", len(records))
		}
		for i, record := range records {
			if record.Match.Matched {
				t.Errorf("record %d matched despite searcher error", i)
			}
			if record.Match.Reason == "" {
				t.Errorf("record %d has no reason", i)
			}
		}
		if state.Status != models.StatusCompleted {
			t.Errorf("state.Status = %v, want COMPLETED", state.Status)
		}
	})

	t.Run("no results yields no match found", func(t *testing.T) {
		searcher := &mockSearcher{noMatch: true}
		engine := NewConversionEngine(nil, searcher, nil, nil)

		records, _, err := engine.Convert(ctx, sourceItems()[:1], Options{}, nil)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if records[0].Match.Matched {
			t.Error("record matched with no search results")
		}
		if records[0].Match.Reason != "No match found" {
			t.Errorf("reason = %q, want No match found", records[0].Match.Reason)
		}
	})

	t.Run("cancellation returns partial results as completed", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		searcher := &mockSearcher{tracks: catalogTracks()}
		// Cancel while the first item is resolving; the poll before the
		// second item sees it.
		searcher.onCall = func(int) { cancel() }

		engine := NewConversionEngine(nil, searcher, nil, nil)
		records, state, err := engine.Convert(cancelCtx, sourceItems(), Options{}, nil)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}

		if len(records) != 1 {
			t.Fatalf("Convert() produced %d records, want 1 partial", len(records))
		}
		if state.Status != models.StatusCompleted {
			t.Errorf("state.Status = %v, want COMPLETED for partial run", state.Status)
		}
	})

	t.Run("progress never blocks", func(t *testing.T) {
		searcher := &mockSearcher{tracks: catalogTracks()}
		engine := NewConversionEngine(nil, searcher, nil, nil)

		// Nobody reads from this channel; Convert must still finish.
		progress := make(chan ProgressUpdate)
		records, _, err := engine.Convert(ctx, sourceItems(), Options{}, progress)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if len(records) != 2 {
			t.Errorf("Convert() produced %d records, want 2", len(records))
		}
	})

	t.Run("progress updates arrive in order", func(t *testing.T) {
		searcher := &mockSearcher{tracks: catalogTracks()}
		engine := NewConversionEngine(nil, searcher, nil, nil)

		progress := make(chan ProgressUpdate, 64)
		_, _, err := engine.Convert(ctx, sourceItems(), Options{}, progress)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		if len(phases) != 4 {
			t.Fatalf("received %d updates, want 4", len(phases))
		}
		for _, phase := range phases {
			if phase != SearchTracks {
				t.Errorf("unexpected phase %v", phase)
			}
		}
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	catalog := func() *mockCatalog {
		return &mockCatalog{
			info:  &models.SourcePlaylist{ID: "PL1", Title: "Road Trip", ItemCount: 2},
			items: sourceItems(),
		}
	}

	t.Run("match only", func(t *testing.T) {
		engine := NewConversionEngine(catalog(), &mockSearcher{tracks: catalogTracks()}, nil, nil)

		summary, err := engine.Run(ctx, "PL1", RunOptions{}, nil)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if summary.State.Matched != 2 || summary.NotFound != 0 {
			t.Errorf("summary = %+v", summary)
		}
		if summary.High != 2 {
			t.Errorf("high confidence = %d, want 2", summary.High)
		}
		if summary.Playlist != nil {
			t.Error("playlist created without create options")
		}
	})

	t.Run("creates playlist with matched URIs", func(t *testing.T) {
		writer := &mockWriter{}
		engine := NewConversionEngine(catalog(), &mockSearcher{tracks: catalogTracks()}, writer, nil)

		summary, err := engine.Run(ctx, "PL1", RunOptions{
			Create: &CreateOptions{Name: "Road Trip", Public: false},
		}, nil)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if summary.Playlist == nil || summary.Playlist.ID != "pl1" {
			t.Fatalf("summary.Playlist = %+v", summary.Playlist)
		}
		if len(writer.added) != 2 {
			t.Errorf("added %d URIs, want 2", len(writer.added))
		}
	})

	t.Run("refuses to create empty playlist", func(t *testing.T) {
		writer := &mockWriter{}
		engine := NewConversionEngine(catalog(), &mockSearcher{noMatch: true}, writer, nil)

		summary, err := engine.Run(ctx, "PL1", RunOptions{
			Create: &CreateOptions{Name: "Road Trip"},
		}, nil)
		if err == nil {
			t.Fatal("Run() expected error for zero matches")
		}
		if summary == nil {
			t.Fatal("Run() should return the summary alongside the error")
		}
		if writer.playlist != nil {
			t.Error("playlist was created despite zero matches")
		}
	})

	t.Run("export hook runs", func(t *testing.T) {
		engine := NewConversionEngine(catalog(), &mockSearcher{tracks: catalogTracks()}, nil, nil)

		exported := false
		_, err := engine.Run(ctx, "PL1", RunOptions{
			Export: func(summary *models.ConversionSummary) (string, error) {
				exported = true
				if len(summary.Records) != 2 {
					t.Errorf("export saw %d records, want 2", len(summary.Records))
				}
				return "report.csv", nil
			},
		}, nil)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !exported {
			t.Error("export hook never ran")
		}
	})

	t.Run("catalog errors surface", func(t *testing.T) {
		engine := NewConversionEngine(&mockCatalog{err: shared.ErrPlaylistNotFound}, &mockSearcher{}, nil, nil)
		_, err := engine.Run(ctx, "PLmissing", RunOptions{}, nil)
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("Run() error = %v, want ErrPlaylistNotFound", err)
		}
	})
}
