package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/desertthunder/youtify/internal/repositories"
	"github.com/desertthunder/youtify/internal/services"
	"github.com/desertthunder/youtify/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	youtube := services.NewYouTubeService(config.Credentials.YouTube.APIKey, "")

	var searcher services.MusicSearcher
	var writer services.PlaylistWriter
	if spotify, err := services.NewSpotifyService(config.Credentials.Spotify, ""); err == nil {
		if err := spotify.Authenticate(context.Background()); err == nil {
			searcher = spotify
			writer = spotify
		} else {
			logger.Warn("spotify authentication failed", "error", err)
		}
	}

	var db *sql.DB
	var cache *repositories.SearchCacheRepository
	var history *repositories.ConversionRepository
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err = shared.NewDatabase(config.Database.Path); err != nil {
			logger.Warn("failed to open database, caching disabled", "error", err)
		} else {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			history = repositories.NewConversionRepository(db)
			if config.Cache.Enabled {
				ttl := time.Duration(config.Cache.TTLHours) * time.Hour
				cache = repositories.NewSearchCacheRepository(db, ttl)
			}
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Catalog:    youtube,
		Searcher:   searcher,
		Writer:     writer,
		Cache:      cache,
		History:    history,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "youtify",
		Usage:    "Convert YouTube playlists to Spotify",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}

	if db != nil {
		db.Close()
	}
}
