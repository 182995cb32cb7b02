package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/youtify/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists past conversion runs recorded in the database.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if r.history == nil {
		return fmt.Errorf("%w: history is not configured, run 'youtify setup' first", shared.ErrMissingConfig)
	}

	limit := cmd.Int("limit")

	runs, err := r.history.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list conversions: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, true)
	}

	if len(runs) == 0 {
		r.writePlain("No conversions recorded yet.\n")
		return nil
	}

	r.writePlain("Found %d conversions:\n\n", len(runs))
	for i, run := range runs {
		r.writePlain("%d. %s\n", i+1, run.SourceTitle)
		r.writePlain("   Matched: %d/%d\n", run.MatchedItems, run.TotalItems)
		r.writePlain("   Status: %s\n", run.Status)
		if run.PlaylistURL != "" {
			r.writePlain("   Playlist: %s\n", run.PlaylistURL)
		}
		r.writePlain("   Date: %s\n\n", run.CreatedAt.Format(time.RFC3339))
	}

	return nil
}

// historyCommand lists recorded conversion runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List past conversion runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}
