package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/youtify/internal/match"
	"github.com/desertthunder/youtify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Parse debugs a single video title: the parsed guess and the query cascade.
func (r *Runner) Parse(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: a video title is required", shared.ErrMissingArgument)
	}

	guess := match.Parse(title)
	queries := match.BuildQueries(guess)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"raw_title": title,
			"guess":     guess,
			"queries":   queries,
		}, cmd.Bool("pretty"))
	}

	r.writePlain("Raw title: %s\n", title)
	if guess.HasArtist() {
		r.writePlain("Artist: %s\n", guess.Artist)
	} else {
		r.writePlain("Artist: (none)\n")
	}
	r.writePlain("Title: %s\n\n", guess.Title)

	r.writePlain("Query cascade:\n")
	for i, q := range queries {
		r.writePlain("  %d. %s\n", i+1, q)
	}

	return nil
}

// parseCommand handles title parsing diagnostics
func parseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "parse",
		Usage: "Parse a video title into an artist/title guess",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "title",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Parse,
	}
}
