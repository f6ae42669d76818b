package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/stopwatch"
)

// StopwatchHandler handles stopwatch endpoints
type StopwatchHandler struct {
	stopwatch *stopwatch.Service
}

// NewStopwatchHandler creates a new stopwatch handler
func NewStopwatchHandler(stopwatchService *stopwatch.Service) *StopwatchHandler {
	return &StopwatchHandler{stopwatch: stopwatchService}
}

// Get handles GET /api/v1/boards/{code}/stopwatch
func (h *StopwatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, h.stopwatch.Get)
}

// Start handles POST /api/v1/boards/{code}/stopwatch/start
func (h *StopwatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, h.stopwatch.Start)
}

// Stop handles POST /api/v1/boards/{code}/stopwatch/stop
func (h *StopwatchHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, h.stopwatch.Stop)
}

// Reset handles POST /api/v1/boards/{code}/stopwatch/reset
func (h *StopwatchHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, h.stopwatch.Reset)
}

func (h *StopwatchHandler) do(w http.ResponseWriter, r *http.Request, op func(context.Context, model.BoardCode) (model.Stopwatch, error)) {
	sw, err := op(r.Context(), boardCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.StopwatchFromModel(sw))
}
