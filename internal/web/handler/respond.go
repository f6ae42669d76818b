package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/web/middleware"
	"github.com/mcoot/scoreboard/internal/web/templates/components"
	"github.com/mcoot/scoreboard/internal/web/templates/layout"
)

// fragmentFunc renders one out-of-band fragment for an htmx response
type fragmentFunc func(r *http.Request) (string, error)

// respond finishes an action. htmx requests get the given out-of-band
// fragments, with any previous flash cleared; plain form posts are
// redirected back to the board.
func (h *BoardHandler) respond(w http.ResponseWriter, r *http.Request, fragments ...fragmentFunc) {
	h.respondWithFlash(w, r, nil, fragments...)
}

func (h *BoardHandler) respondWithFlash(w http.ResponseWriter, r *http.Request, flash *layout.FlashMessage, fragments ...fragmentFunc) {
	code := boardCode(r)
	if !isHTMX(r) {
		if flash != nil {
			middleware.SetFlash(w, flash.Type, flash.Message)
		}
		http.Redirect(w, r, components.BoardPath(code), http.StatusSeeOther)
		return
	}

	var b strings.Builder
	fragments = append(fragments, func(r *http.Request) (string, error) {
		return h.renderer.RenderFlash(r.Context(), flash)
	})
	for _, f := range fragments {
		html, err := f(r)
		if err != nil {
			h.logger.Error("failed to render fragment", slog.String("board", string(code)), slog.Any("error", err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		b.WriteString(html)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

// rosterFragment renders the board's current player list and stats
func (h *BoardHandler) rosterFragment(r *http.Request) (string, error) {
	code := boardCode(r)
	rost, err := h.roster.Roster(r.Context(), code)
	if err != nil {
		return "", err
	}
	return h.renderer.RenderRoster(r.Context(), code, rost)
}

// stopwatchFragment renders the given stopwatch
func (h *BoardHandler) stopwatchFragment(sw model.Stopwatch) fragmentFunc {
	return func(r *http.Request) (string, error) {
		return h.renderer.RenderStopwatch(r.Context(), boardCode(r), sw)
	}
}

// formFragment renders the add-player form with the given text
func (h *BoardHandler) formFragment(text string) fragmentFunc {
	return func(r *http.Request) (string, error) {
		return h.renderer.RenderAddPlayerForm(r.Context(), boardCode(r), text)
	}
}

// actionFailed reports a rejected action back to the viewer
func (h *BoardHandler) actionFailed(w http.ResponseWriter, r *http.Request, action string, err error) {
	code := boardCode(r)
	switch {
	case errors.Is(err, model.ErrBoardNotFound):
		h.boardGone(w, r, err)

	case errors.Is(err, model.ErrPlayerNotFound), errors.Is(err, model.ErrIndexOutOfRange):
		// The page was rendered from an older roster
		h.logger.Warn("action on stale player",
			slog.String("board", string(code)),
			slog.String("action", action),
			slog.String("player_id", routeVar(r, "id")),
		)
		h.respondWithFlash(w, r, &layout.FlashMessage{Type: "error", Message: "That player is no longer on the board"}, h.rosterFragment)

	case errors.Is(err, model.ErrBlankName):
		h.respondWithFlash(w, r, &layout.FlashMessage{Type: "error", Message: "Player name is required"}, h.formFragment(""))

	case errors.Is(err, model.ErrInvalidDelta):
		http.Error(w, "Invalid score change", http.StatusBadRequest)

	default:
		h.logger.Error("action failed",
			slog.String("board", string(code)),
			slog.String("action", action),
			slog.Any("error", err),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
