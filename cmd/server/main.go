package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mcoot/scoreboard/internal/api"
	"github.com/mcoot/scoreboard/internal/config"
	"github.com/mcoot/scoreboard/internal/factory"
	"github.com/mcoot/scoreboard/internal/metrics"
	"github.com/mcoot/scoreboard/internal/middleware"
	"github.com/mcoot/scoreboard/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	m := metrics.NewManager()

	// Create application factory
	app, err := factory.New(factory.FromConfig(cfg, logger, m))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	// Find static files directory
	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findStaticDir()
	}

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		BoardController:  app.BoardController,
		RosterController: app.RosterController,
		StopwatchService: app.StopwatchService,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:           logger,
		Random:           app.Random,
		BoardController:  app.BoardController,
		RosterController: app.RosterController,
		StopwatchService: app.StopwatchService,
		DraftService:     app.DraftService,
		HubManager:       app.HubManager,
		StaticDir:        staticDir,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/", webRouter)

	// Create server
	server := api.NewServer(middleware.Metrics(m)(mux), api.ServerConfigFrom(cfg), logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Remove idle boards and empty hubs in the background
	go app.RunJanitor(ctx, cfg.JanitorInterval, cfg.BoardIdleTimeout)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.Duration("tick_interval", cfg.TickInterval),
		slog.Duration("board_idle_timeout", cfg.BoardIdleTimeout),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			cancel()
			app.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			app.Close()
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	// Try common locations
	candidates := []string{
		"internal/web/static",
		"./internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	// Default to relative path
	return "internal/web/static"
}
