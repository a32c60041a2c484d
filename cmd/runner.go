package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/repositories"
	"github.com/desertthunder/moodmix/internal/server"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
	"github.com/desertthunder/moodmix/internal/vision"
	"github.com/desertthunder/moodmix/internal/vision/opencv"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Collaborators left nil in [RunnerOpts] are built from the loaded configuration on first use.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	tokens     services.TokenProvider
	catalog    services.PlaylistFetcher
	analyzer   server.EmotionAnalyzer
	cleanup    []func()
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Tokens     services.TokenProvider
	Catalog    services.PlaylistFetcher
	Analyzer   server.EmotionAnalyzer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		tokens:     opts.Tokens,
		catalog:    opts.Catalog,
		analyzer:   opts.Analyzer,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, detectCommand, recommendCommand, historyCommand, exportCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by every collaborator built afterwards.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Load reads the configuration named by the root --config flag.
//
// A missing file is not an error; defaults from the embedded example apply. Environment overrides and the log level
// are applied either way. A config passed through [RunnerOpts] is kept as is.
func (r *Runner) Load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		if path := cmd.String("config"); path != "" {
			r.configPath = path
		}
		config, err := r.readConfig()
		if err != nil {
			return ctx, err
		}
		config.ApplyEnv(os.Getenv)
		r.config = config
	}

	shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Log.Level))
	return ctx, nil
}

func (r *Runner) readConfig() (*shared.Config, error) {
	if r.configPath == "" {
		return shared.DefaultConfig(), nil
	}
	if _, err := os.Stat(r.configPath); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		return shared.DefaultConfig(), nil
	}
	return shared.LoadConfig(r.configPath)
}

// Close runs cleanup registered while building collaborators, newest first.
func (r *Runner) Close() {
	for i := len(r.cleanup) - 1; i >= 0; i-- {
		r.cleanup[i]()
	}
	r.cleanup = nil
}

func (r *Runner) conf() *shared.Config {
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

// client returns the outbound HTTP client with retries, rate limiting and the configured timeout.
func (r *Runner) client() *http.Client {
	if r.httpClient == nil {
		r.httpClient = services.NewHTTPClient(r.conf().Catalog, nil, shared.WithLogger(r.logger, "component", "transport"))
	}
	return r.httpClient
}

// recommender builds the catalog pipeline: token provider, playlist fetcher and the optional Redis cache.
func (r *Runner) recommender(ctx context.Context) (*tasks.Recommender, error) {
	config := r.conf()

	if r.tokens == nil {
		creds, err := services.NewClientCredentials(
			config.Credentials.Spotify,
			config.Catalog.TokenURL,
			r.client(),
			shared.WithLogger(r.logger, "component", "token"),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: set CLIENT_ID and CLIENT_SECRET or credentials.spotify in config", err)
		}
		if config.Catalog.CacheToken {
			r.tokens = services.NewCachedToken(creds)
		} else {
			r.tokens = creds
		}
	}

	if r.catalog == nil {
		var catalog services.PlaylistFetcher = services.NewSpotifyCatalog(
			config.Catalog.BaseURL,
			r.client(),
			shared.WithLogger(r.logger, "component", "catalog"),
		)
		if config.Cache.RedisURL != "" {
			cache, err := services.NewRedisCache(ctx, config.Cache.RedisURL)
			if err != nil {
				r.logger.Warn("redis unavailable, caching disabled", "error", err)
			} else {
				r.cleanup = append(r.cleanup, func() { cache.Close() })
				catalog = services.NewCachedCatalog(catalog, cache, config.Cache.TTL, shared.WithLogger(r.logger, "component", "cache"))
			}
		}
		r.catalog = catalog
	}

	return tasks.NewRecommender(r.tokens, r.catalog, config.Playlists, shared.WithLogger(r.logger, "component", "recommender")), nil
}

// emotionAnalyzer loads the detector and classifier once; the engine is closed by [Runner.Close].
func (r *Runner) emotionAnalyzer() (server.EmotionAnalyzer, error) {
	if r.analyzer != nil {
		return r.analyzer, nil
	}

	engine, err := opencv.NewEngine(r.conf().Vision, shared.WithLogger(r.logger, "component", "vision"))
	if err != nil {
		return nil, err
	}
	r.cleanup = append(r.cleanup, engine.Close)
	r.analyzer = vision.NewAnalyzer(engine, engine, shared.WithLogger(r.logger, "component", "analyzer"))
	return r.analyzer, nil
}

// history opens the database, applies pending migrations and returns the recommendation repository.
func (r *Runner) history() (*repositories.RecommendationRepository, error) {
	config := r.conf()

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, config.Database)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	r.cleanup = append(r.cleanup, func() { db.Close() })
	return repositories.NewRecommendationRepository(db), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
