// submodule cmd wires command definitions to the conversion engine
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/youtify/internal/models"
	"github.com/desertthunder/youtify/internal/repositories"
	"github.com/desertthunder/youtify/internal/services"
	"github.com/desertthunder/youtify/internal/shared"
	"github.com/desertthunder/youtify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// searchFunc adapts a [match.CandidateSearchFn]-shaped closure to the
// [services.MusicSearcher] interface, so the caching decorator can stand
// in for the live Spotify client.
type searchFunc func(ctx context.Context, query string, limit int) ([]models.CandidateTrack, error)

func (f searchFunc) Search(ctx context.Context, query string, limit int) ([]models.CandidateTrack, error) {
	return f(ctx, query, limit)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.SourceCatalog
	searcher   services.MusicSearcher
	writer     services.PlaylistWriter
	cache      *repositories.SearchCacheRepository
	history    *repositories.ConversionRepository
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.ConversionEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.SourceCatalog
	Searcher   services.MusicSearcher
	Writer     services.PlaylistWriter
	Cache      *repositories.SearchCacheRepository
	History    *repositories.ConversionRepository
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	searcher := opts.Searcher
	if opts.Cache != nil && searcher != nil {
		searcher = searchFunc(repositories.CachingSearch(opts.Cache, searcher.Search, opts.Logger))
	}

	engine := tasks.NewConversionEngine(opts.Catalog, searcher, opts.Writer, opts.Logger)

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		searcher:   searcher,
		writer:     opts.Writer,
		cache:      opts.Cache,
		history:    opts.History,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     engine,
	}
}

// SetLogger replaces the runner and engine logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, convertCommand, parseCommand, spotifyCommand, cacheCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolvePlaylistID extracts a playlist ID from a URL or bare ID using the
// source catalog's URL scheme when it has one.
func (r *Runner) resolvePlaylistID(raw string) (string, error) {
	if yt, ok := r.catalog.(*services.YouTubeService); ok {
		return yt.PlaylistID(raw)
	}
	return raw, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
