package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/scoreboard/internal/config"
	"github.com/mcoot/scoreboard/internal/dependencies/clock"
	"github.com/mcoot/scoreboard/internal/dependencies/random"
	"github.com/mcoot/scoreboard/internal/metrics"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/board"
	"github.com/mcoot/scoreboard/internal/services/draft"
	"github.com/mcoot/scoreboard/internal/services/roster"
	"github.com/mcoot/scoreboard/internal/services/stopwatch"
	"github.com/mcoot/scoreboard/internal/storage"
	"github.com/mcoot/scoreboard/internal/storage/memory"
	"github.com/mcoot/scoreboard/internal/web/sse"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock   clock.Clock
	Random  random.Random
	Metrics *metrics.Manager
	Logger  *slog.Logger

	// Services
	BoardController  *board.Controller
	RosterController *roster.Controller
	StopwatchService *stopwatch.Service
	DraftService     *draft.Service

	// Push
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster
	Runners     *stopwatch.RunnerManager
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Metrics receives domain metrics (optional)
	Metrics *metrics.Manager
	// TickInterval is how often running stopwatches advance.
	// If zero, stopwatch.DefaultTickInterval is used
	TickInterval time.Duration
	// AllowBlankNames accepts whitespace-only player names
	AllowBlankNames bool
	// SeedPlayers is the roster new boards start with.
	// If nil, board.DefaultSeedPlayers() is used
	SeedPlayers []board.SeedPlayer
	// Events receives every event alongside the SSE broadcaster (optional)
	Events model.EventSink
}

// FromConfig builds the factory config from the process config
func FromConfig(c *config.Config, logger *slog.Logger, m *metrics.Manager) Config {
	seed := make([]board.SeedPlayer, 0, len(c.SeedPlayers))
	for _, sp := range c.SeedPlayers {
		seed = append(seed, board.SeedPlayer{Name: sp.Name, Score: sp.Score})
	}
	return Config{
		Logger:          logger,
		Metrics:         m,
		TickInterval:    c.TickInterval,
		AllowBlankNames: c.AllowBlankNames,
		SeedPlayers:     seed,
	}
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	return newWithDependencies(memory.New(), clock.New(), random.New(), cfg), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config) *App {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	seed := cfg.SeedPlayers
	if seed == nil {
		seed = board.DefaultSeedPlayers()
	}
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = stopwatch.DefaultTickInterval
	}

	// A board's stopwatch runner lives exactly as long as its SSE hub
	var runners *stopwatch.RunnerManager
	hubManager := sse.NewHubManager(logger,
		sse.WithHubMetrics(cfg.Metrics),
		sse.WithLifecycle(
			func(code model.BoardCode) { runners.Mount(code) },
			func(code model.BoardCode) { runners.Unmount(code) },
		),
	)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	var events model.EventSink = broadcaster
	if cfg.Events != nil {
		events = sse.Fanout{cfg.Events, broadcaster}
	}

	// Create services
	boardController := board.NewController(store, clk, rnd, logger,
		board.WithSeedPlayers(seed),
		board.WithEventSink(events),
		board.WithMetrics(cfg.Metrics),
	)
	rosterController := roster.NewController(store, boardController, clk, rnd, logger,
		roster.WithAllowBlankNames(cfg.AllowBlankNames),
		roster.WithEventSink(events),
		roster.WithMetrics(cfg.Metrics),
	)
	stopwatchService := stopwatch.New(store, boardController, clk, logger,
		stopwatch.WithEventSink(events),
		stopwatch.WithMetrics(cfg.Metrics),
	)
	draftService := draft.New(store, logger)
	runners = stopwatch.NewRunnerManager(stopwatchService, clk, interval, cfg.Metrics, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		Metrics:          cfg.Metrics,
		Logger:           logger,
		BoardController:  boardController,
		RosterController: rosterController,
		StopwatchService: stopwatchService,
		DraftService:     draftService,
		HubManager:       hubManager,
		Broadcaster:      broadcaster,
		Runners:          runners,
	}
}

// Close disconnects every viewer and stops every stopwatch runner
func (a *App) Close() {
	a.HubManager.CloseAll()
	a.Runners.UnmountAll()
}
