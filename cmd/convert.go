package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/youtify/internal/formatter"
	"github.com/desertthunder/youtify/internal/models"
	"github.com/desertthunder/youtify/internal/shared"
	"github.com/desertthunder/youtify/internal/tasks"
	"github.com/desertthunder/youtify/internal/ui"
	"github.com/urfave/cli/v3"
)

// Convert runs the full YouTube → Spotify pipeline with plain progress output.
func (r *Runner) Convert(ctx context.Context, cmd *cli.Command) error {
	rawURL := cmd.String("url")
	playlistID, err := r.resolvePlaylistID(rawURL)
	if err != nil {
		return err
	}

	if r.searcher == nil {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	opts := r.runOptions(cmd)

	r.logger.Info("starting conversion", "playlist", playlistID)
	r.writePlain("Converting playlist %s...\n\n", playlistID)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchSource:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SearchTracks:
				if _, ok := update.Data.(models.ConversionRecord); ok {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.CreatePlaylist:
				r.writePlain("\n📝 %s\n", update.Message)
			case tasks.ExportReport:
				r.writePlain("\n💾 %s\n", update.Message)
			}
		}
	}()

	summary, runErr := r.engine.Run(ctx, playlistID, opts, progressCh)
	close(progressCh)
	<-done

	if summary == nil {
		return runErr
	}

	r.printSummary(summary)

	if r.history != nil {
		if err := r.history.Save(rawURL, summary); err != nil {
			r.logger.Warn("failed to save conversion history", "error", err)
		}
	}

	return runErr
}

// ConvertUI launches the interactive terminal UI for playlist conversion.
func (r *Runner) ConvertUI(ctx context.Context, cmd *cli.Command) error {
	rawURL := cmd.String("url")
	playlistID, err := r.resolvePlaylistID(rawURL)
	if err != nil {
		return err
	}

	if r.searcher == nil {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/youtify-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.catalog, r.engine, playlistID, r.runOptions(cmd))
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// runOptions assembles engine options from flags with config defaults.
func (r *Runner) runOptions(cmd *cli.Command) tasks.RunOptions {
	floor := r.config.Matching.ConfidenceFloor
	if cmd.IsSet("floor") {
		floor = cmd.Float("floor")
	}

	opts := tasks.RunOptions{
		Options: tasks.Options{
			ConfidenceFloor: floor,
			SearchLimit:     r.config.Matching.SearchLimit,
			PacingDelay:     time.Duration(r.config.Matching.PacingDelayMS) * time.Millisecond,
		},
	}

	if cmd.Bool("create") {
		name := cmd.String("name")
		if name == "" {
			name = fmt.Sprintf("Converted %s", time.Now().Format("2006-01-02"))
		}
		opts.Create = &tasks.CreateOptions{
			Name:        name,
			Description: cmd.String("description"),
			Public:      cmd.Bool("public"),
		}
	}

	if !cmd.Bool("no-report") {
		format := cmd.String("report")
		output := cmd.String("output")
		opts.Export = func(summary *models.ConversionSummary) (string, error) {
			return formatter.WriteExport(summary, format, output)
		}
	}

	return opts
}

// printSummary writes the post-run report to the runner's output.
func (r *Runner) printSummary(summary *models.ConversionSummary) {
	state := summary.State

	r.writePlain("\n")
	r.writePlainHeader("Conversion Complete")
	r.writePlain("Source: %s (%d items)\n", summary.Source.Title, state.Total)
	r.writePlain("Matched: %d/%d (%.0f%%)\n", state.Matched, state.Processed, state.MatchRate()*100)
	r.writePlain("Confidence: %d high / %d medium / %d low / %d not found\n", summary.High, summary.Medium, summary.Low, summary.NotFound)
	r.writePlain("Elapsed: %s\n", summary.Elapsed.Round(time.Millisecond))

	if summary.Playlist != nil {
		r.writePlain("Playlist: %s\n", summary.Playlist.URL)
	}

	if summary.NotFound > 0 {
		r.writePlain("\nUnmatched items:\n")
		for _, rec := range summary.Records {
			if !rec.Match.Matched {
				r.writePlain("  %d. %s", rec.Index+1, rec.Source.RawTitle)
				if rec.Match.Reason != "" {
					r.writePlain(" (%s)", rec.Match.Reason)
				}
				r.writePlain("\n")
			}
		}
	}
}

// convertCommand handles playlist conversion operations
func convertCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "url",
			Aliases:  []string{"u"},
			Usage:    "YouTube playlist URL or ID",
			Required: true,
		},
		&cli.FloatFlag{
			Name:  "floor",
			Usage: "Minimum confidence accepted as a match",
		},
		&cli.BoolFlag{
			Name:  "create",
			Usage: "Create a Spotify playlist from matched tracks",
		},
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "Name for the created playlist",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Description for the created playlist",
		},
		&cli.BoolFlag{
			Name:  "public",
			Usage: "Make the created playlist public",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Report format (csv, markdown, text, json)",
			Value: "csv",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Report output path (base path for csv)",
		},
		&cli.BoolFlag{
			Name:  "no-report",
			Usage: "Skip writing the conversion report",
		},
	}

	return &cli.Command{
		Name:    "convert",
		Aliases: []string{"c"},
		Usage:   "Convert a YouTube playlist to Spotify",
		Flags:   flags,
		Action:  r.Convert,
		Commands: []*cli.Command{
			{
				Name:   "ui",
				Usage:  "Interactive TUI for playlist conversion",
				Flags:  flags,
				Action: r.ConvertUI,
			},
		},
	}
}
