package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/youtify/internal/models"
	"github.com/desertthunder/youtify/internal/services"
	"github.com/desertthunder/youtify/internal/shared"
	tu "github.com/desertthunder/youtify/internal/testing"
	"github.com/urfave/cli/v3"
)

type stubCatalog struct {
	info  models.SourcePlaylist
	items []models.SourceItem
}

func (c *stubCatalog) PlaylistInfo(ctx context.Context, playlistID string) (*models.SourcePlaylist, error) {
	info := c.info
	return &info, nil
}

func (c *stubCatalog) ListItems(ctx context.Context, playlistID string, onProgress func(processed, total int)) ([]models.SourceItem, error) {
	if onProgress != nil {
		onProgress(len(c.items), len(c.items))
	}
	return c.items, nil
}

type stubSearcher struct {
	tracks []models.CandidateTrack
}

func (s *stubSearcher) Search(ctx context.Context, query string, limit int) ([]models.CandidateTrack, error) {
	return s.tracks, nil
}

func newTestApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:     "youtify",
		Commands: runner.register(),
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := &stubCatalog{}
			searcher := &stubSearcher{}

			runner := NewRunner(RunnerOpts{
				Config:   config,
				Logger:   logger,
				Output:   output,
				Catalog:  catalog,
				Searcher: searcher,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("resolvePlaylistID", func(t *testing.T) {
		t.Run("delegates to the YouTube catalog", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Catalog: services.NewYouTubeService("key", ""),
			})

			id, err := runner.resolvePlaylistID("https://www.youtube.com/playlist?list=PLabcdef1234567")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if id != "PLabcdef1234567" {
				t.Errorf("expected extracted ID, got %q", id)
			}
		})

		t.Run("passes through for other catalogs", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Catalog: &stubCatalog{}})

			id, err := runner.resolvePlaylistID("anything")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if id != "anything" {
				t.Errorf("expected passthrough, got %q", id)
			}
		})
	})
}

func TestCommands(t *testing.T) {
	t.Run("parse prints guess and cascade", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})
		app := newTestApp(runner)

		err := app.Run(context.Background(), []string{"youtify", "parse", "Daft Punk - One More Time (Official Video)"})
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Artist: Daft Punk") {
			t.Errorf("expected parsed artist, got %s", result)
		}
		if !strings.Contains(result, "Title: One More Time") {
			t.Errorf("expected parsed title, got %s", result)
		}
		if !strings.Contains(result, `artist:"Daft Punk" track:"One More Time"`) {
			t.Errorf("expected field-filtered query, got %s", result)
		}
	})

	t.Run("parse without a title fails", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		app := newTestApp(runner)

		err := app.Run(context.Background(), []string{"youtify", "parse"})
		if err == nil {
			t.Fatal("expected error for missing title")
		}
	})

	t.Run("convert runs the pipeline end to end", func(t *testing.T) {
		catalog := &stubCatalog{
			info: models.SourcePlaylist{ID: "PL1", Title: "Mix", Channel: "chan", ItemCount: 2},
			items: []models.SourceItem{
				{RawTitle: "Daft Punk - One More Time", ChannelName: "chan", ExternalID: "v1"},
				{RawTitle: "unfindable obscure video", ChannelName: "chan", ExternalID: "v2"},
			},
		}
		searcher := &stubSearcher{
			tracks: []models.CandidateTrack{
				{TrackID: "t1", URI: "spotify:track:t1", Title: "One More Time", ArtistNames: []string{"Daft Punk"}},
			},
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Catalog:  catalog,
			Searcher: searcher,
			Output:   output,
		})
		app := newTestApp(runner)

		err := app.Run(context.Background(), []string{"youtify", "convert", "--url", "PL1", "--no-report"})
		if err != nil {
			t.Fatalf("convert failed: %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Conversion Complete") {
			t.Errorf("expected summary header, got %s", result)
		}
		if !strings.Contains(result, "Source: Mix (2 items)") {
			t.Errorf("expected source line, got %s", result)
		}
		if !strings.Contains(result, "Matched: 1/2") {
			t.Errorf("expected match count, got %s", result)
		}
		if !strings.Contains(result, "unfindable obscure video") {
			t.Errorf("expected unmatched listing, got %s", result)
		}
	})

	t.Run("convert without spotify credentials fails fast", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{
			Catalog: &stubCatalog{},
			Output:  &bytes.Buffer{},
		})
		app := newTestApp(runner)

		err := app.Run(context.Background(), []string{"youtify", "convert", "--url", "PL1"})
		if err == nil {
			t.Fatal("expected error without a searcher")
		}
		if !strings.Contains(err.Error(), "client_id") {
			t.Errorf("expected credentials error, got %v", err)
		}
	})
}
