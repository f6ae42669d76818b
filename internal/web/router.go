package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/scoreboard/internal/dependencies/random"
	"github.com/mcoot/scoreboard/internal/services/board"
	"github.com/mcoot/scoreboard/internal/services/draft"
	"github.com/mcoot/scoreboard/internal/services/roster"
	"github.com/mcoot/scoreboard/internal/services/stopwatch"
	"github.com/mcoot/scoreboard/internal/web/handler"
	"github.com/mcoot/scoreboard/internal/web/middleware"
	"github.com/mcoot/scoreboard/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger           *slog.Logger
	Random           random.Random
	BoardController  *board.Controller
	RosterController *roster.Controller
	StopwatchService *stopwatch.Service
	DraftService     *draft.Service
	HubManager       *sse.HubManager
	StaticDir        string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	viewerMiddleware := middleware.Viewer(cfg.Random)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create SSE hub manager if not provided
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	// Create handlers
	homeHandler := handler.NewHomeHandler()
	boardHandler := handler.NewBoardHandler(
		cfg.BoardController,
		cfg.RosterController,
		cfg.StopwatchService,
		cfg.DraftService,
		hubManager,
		cfg.Logger,
	)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	pages := r.NewRoute().Subrouter()
	pages.Use(flashMiddleware)
	pages.Use(viewerMiddleware)
	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	// Board routes
	pages.HandleFunc("/board", boardHandler.Create).Methods(http.MethodPost)
	pages.HandleFunc("/board/join", boardHandler.JoinByForm).Methods(http.MethodPost)
	pages.HandleFunc("/board/{code}", boardHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/board/{code}/events", boardHandler.Events).Methods(http.MethodGet)
	pages.HandleFunc("/board/{code}/qr", boardHandler.QR).Methods(http.MethodGet)

	// Roster routes
	pages.HandleFunc("/board/{code}/players", boardHandler.AddPlayer).Methods(http.MethodPost)
	pages.HandleFunc("/board/{code}/draft", boardHandler.UpdateDraft).Methods(http.MethodPost)
	pages.HandleFunc("/board/{code}/players/{id}/score", boardHandler.ChangeScore).Methods(http.MethodPost)
	pages.HandleFunc("/board/{code}/players/{id}/remove", boardHandler.RemovePlayer).Methods(http.MethodPost)

	// Stopwatch routes
	pages.HandleFunc("/board/{code}/stopwatch/start", boardHandler.StartStopwatch).Methods(http.MethodPost)
	pages.HandleFunc("/board/{code}/stopwatch/stop", boardHandler.StopStopwatch).Methods(http.MethodPost)
	pages.HandleFunc("/board/{code}/stopwatch/reset", boardHandler.ResetStopwatch).Methods(http.MethodPost)

	return r
}
