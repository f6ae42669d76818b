package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/scoreboard/internal/api/handler"
	"github.com/mcoot/scoreboard/internal/api/middleware"
	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/services/board"
	"github.com/mcoot/scoreboard/internal/services/roster"
	"github.com/mcoot/scoreboard/internal/services/stopwatch"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	BoardController  *board.Controller
	RosterController *roster.Controller
	StopwatchService *stopwatch.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	boardHandler := handler.NewBoardHandler(cfg.BoardController, cfg.RosterController, cfg.StopwatchService)
	playerHandler := handler.NewPlayerHandler(cfg.RosterController)
	stopwatchHandler := handler.NewStopwatchHandler(cfg.StopwatchService)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Board routes
	api.HandleFunc("/boards", boardHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/boards", boardHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/boards/{code}", boardHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/boards/{code}", boardHandler.Delete).Methods(http.MethodDelete)

	// Roster routes
	api.HandleFunc("/boards/{code}/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/boards/{code}/players", playerHandler.Add).Methods(http.MethodPost)
	api.HandleFunc("/boards/{code}/players/{id}/score", playerHandler.ChangeScore).Methods(http.MethodPost)
	api.HandleFunc("/boards/{code}/players/{id}", playerHandler.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/boards/{code}/positions/{index}/score", playerHandler.ChangeScoreAt).Methods(http.MethodPost)
	api.HandleFunc("/boards/{code}/positions/{index}", playerHandler.RemoveAt).Methods(http.MethodDelete)
	api.HandleFunc("/boards/{code}/stats", playerHandler.Stats).Methods(http.MethodGet)

	// Stopwatch routes
	api.HandleFunc("/boards/{code}/stopwatch", stopwatchHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/boards/{code}/stopwatch/start", stopwatchHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/boards/{code}/stopwatch/stop", stopwatchHandler.Stop).Methods(http.MethodPost)
	api.HandleFunc("/boards/{code}/stopwatch/reset", stopwatchHandler.Reset).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler(cfg.BoardController)).Methods(http.MethodGet)

	return r
}

func healthHandler(boards *board.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := boards.ListBoards(r.Context())
		if err != nil {
			handler.WriteError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, response.Health{Status: "ok", Boards: len(list)})
	}
}
