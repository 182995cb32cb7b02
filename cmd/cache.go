package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/youtify/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheClear removes all cached search results.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: cache is not configured, run 'youtify setup' first", shared.ErrMissingConfig)
	}

	removed, err := r.cache.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Infof("cleared %d cached searches", removed)
	r.writePlain("✓ Removed %d cached searches\n", removed)
	return nil
}

// CachePrune removes only expired cache entries.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: cache is not configured, run 'youtify setup' first", shared.ErrMissingConfig)
	}

	removed, err := r.cache.Prune()
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}

	r.writePlain("✓ Removed %d expired entries\n", removed)
	return nil
}

// CacheStats prints cache entry counts and age.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: cache is not configured, run 'youtify setup' first", shared.ErrMissingConfig)
	}

	stats, err := r.cache.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlain("Cached searches: %d\n", stats.Entries)
	r.writePlain("Expired: %d\n", stats.Expired)
	if !stats.Oldest.IsZero() {
		r.writePlain("Oldest entry: %s\n", stats.Oldest.Format(time.RFC3339))
	}

	return nil
}

// cacheCommand handles search cache maintenance
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the search result cache",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Remove all cached search results",
				Action: r.CacheClear,
			},
			{
				Name:   "prune",
				Usage:  "Remove expired cache entries",
				Action: r.CachePrune,
			},
			{
				Name:  "stats",
				Usage: "Show cache statistics",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheStats,
			},
		},
	}
}
