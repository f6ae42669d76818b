package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/scoreboard/internal/model"
)

// StartStopwatch starts the board's stopwatch
func (h *BoardHandler) StartStopwatch(w http.ResponseWriter, r *http.Request) {
	h.stopwatchAction(w, r, "start_stopwatch", h.stopwatch.Start)
}

// StopStopwatch stops the board's stopwatch
func (h *BoardHandler) StopStopwatch(w http.ResponseWriter, r *http.Request) {
	h.stopwatchAction(w, r, "stop_stopwatch", h.stopwatch.Stop)
}

// ResetStopwatch zeroes the board's stopwatch
func (h *BoardHandler) ResetStopwatch(w http.ResponseWriter, r *http.Request) {
	h.stopwatchAction(w, r, "reset_stopwatch", h.stopwatch.Reset)
}

func (h *BoardHandler) stopwatchAction(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	apply func(context.Context, model.BoardCode) (model.Stopwatch, error),
) {
	sw, err := apply(r.Context(), boardCode(r))
	if err != nil {
		h.actionFailed(w, r, action, err)
		return
	}
	h.respond(w, r, h.stopwatchFragment(sw))
}
