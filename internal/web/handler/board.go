package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/board"
	"github.com/mcoot/scoreboard/internal/services/draft"
	"github.com/mcoot/scoreboard/internal/services/roster"
	"github.com/mcoot/scoreboard/internal/services/stopwatch"
	"github.com/mcoot/scoreboard/internal/web/middleware"
	"github.com/mcoot/scoreboard/internal/web/sse"
	"github.com/mcoot/scoreboard/internal/web/templates/components"
	"github.com/mcoot/scoreboard/internal/web/templates/layout"
	"github.com/mcoot/scoreboard/internal/web/templates/pages"
)

const qrSize = 320

// BoardHandler handles the scoreboard page and every action on it
type BoardHandler struct {
	boards     *board.Controller
	roster     *roster.Controller
	stopwatch  *stopwatch.Service
	drafts     *draft.Service
	hubManager *sse.HubManager
	renderer   *sse.Renderer
	logger     *slog.Logger
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(
	boards *board.Controller,
	rosterController *roster.Controller,
	stopwatchService *stopwatch.Service,
	drafts *draft.Service,
	hubManager *sse.HubManager,
	logger *slog.Logger,
) *BoardHandler {
	return &BoardHandler{
		boards:     boards,
		roster:     rosterController,
		stopwatch:  stopwatchService,
		drafts:     drafts,
		hubManager: hubManager,
		renderer:   sse.NewRenderer(),
		logger:     logger.With(slog.String("component", "web")),
	}
}

// Create handles board creation
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	b, err := h.boards.CreateBoard(r.Context())
	if err != nil {
		h.logger.Error("failed to create board", slog.Any("error", err))
		middleware.SetFlash(w, "error", "Failed to create scoreboard")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, components.BoardPath(b.Code), http.StatusSeeOther)
}

// JoinByForm handles joining a board by typing its code
func (h *BoardHandler) JoinByForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	code := model.BoardCode(strings.ToUpper(strings.TrimSpace(r.FormValue("code"))))
	if code == "" {
		middleware.SetFlash(w, "error", "Board code is required")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	exists, err := h.boards.Exists(r.Context(), code)
	if err != nil || !exists {
		middleware.SetFlash(w, "error", "Board not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, components.BoardPath(code), http.StatusSeeOther)
}

// View renders the scoreboard page
func (h *BoardHandler) View(w http.ResponseWriter, r *http.Request) {
	code := boardCode(r)
	viewer := middleware.GetViewer(r.Context())

	rost, err := h.roster.Roster(r.Context(), code)
	if err != nil {
		h.boardGone(w, r, err)
		return
	}
	sw, err := h.stopwatch.Get(r.Context(), code)
	if err != nil {
		h.boardGone(w, r, err)
		return
	}
	d, err := h.drafts.Get(r.Context(), code, viewer)
	if err != nil {
		h.boardGone(w, r, err)
		return
	}

	data := pages.BoardData{
		PageData: layout.PageData{
			Title: "Board " + string(code),
			Flash: middleware.GetFlash(r.Context()),
		},
		Code: code,
		View: components.NewScoreboardView(rost, sw, d.Name),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Board(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Events handles the SSE event stream for a board
func (h *BoardHandler) Events(w http.ResponseWriter, r *http.Request) {
	code := boardCode(r)

	exists, err := h.boards.Exists(r.Context(), code)
	if err != nil || !exists {
		http.Error(w, "Board not found", http.StatusNotFound)
		return
	}

	sse.ServeSSE(w, r, h.hubManager, code, middleware.GetViewer(r.Context()))
}

// QR serves a PNG QR code of the board's URL for sharing
func (h *BoardHandler) QR(w http.ResponseWriter, r *http.Request) {
	code := boardCode(r)

	exists, err := h.boards.Exists(r.Context(), code)
	if err != nil || !exists {
		http.Error(w, "Board not found", http.StatusNotFound)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	url := scheme + "://" + r.Host + components.BoardPath(code)

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		h.logger.Error("qr generation failed", slog.String("board", string(code)), slog.Any("error", err))
		http.Error(w, "QR generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}

// boardGone sends the viewer home when the board no longer exists
func (h *BoardHandler) boardGone(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, model.ErrBoardNotFound) {
		h.logger.Error("failed to load board", slog.String("board", string(boardCode(r))), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	middleware.SetFlash(w, "error", "Board not found")
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func boardCode(r *http.Request) model.BoardCode {
	return model.BoardCode(strings.ToUpper(mux.Vars(r)["code"]))
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
