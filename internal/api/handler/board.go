package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/board"
	"github.com/mcoot/scoreboard/internal/services/roster"
	"github.com/mcoot/scoreboard/internal/services/stopwatch"
)

// BoardHandler handles board endpoints
type BoardHandler struct {
	boards    *board.Controller
	roster    *roster.Controller
	stopwatch *stopwatch.Service
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boards *board.Controller, rosterController *roster.Controller, stopwatchService *stopwatch.Service) *BoardHandler {
	return &BoardHandler{
		boards:    boards,
		roster:    rosterController,
		stopwatch: stopwatchService,
	}
}

// Create handles POST /api/v1/boards
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	b, err := h.boards.CreateBoard(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeBoard(w, r, b, http.StatusCreated)
}

// List handles GET /api/v1/boards
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boards.ListBoards(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.BoardList{Boards: make([]response.BoardSummary, 0, len(boards))}
	for _, b := range boards {
		resp.Boards = append(resp.Boards, response.BoardSummaryFromModel(b))
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/boards/{code}
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.boards.GetBoard(r.Context(), boardCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeBoard(w, r, b, http.StatusOK)
}

// Delete handles DELETE /api/v1/boards/{code}
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.boards.DeleteBoard(r.Context(), boardCode(r)); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *BoardHandler) writeBoard(w http.ResponseWriter, r *http.Request, b *model.Board, status int) {
	rost, err := h.roster.Roster(r.Context(), b.Code)
	if err != nil {
		WriteError(w, err)
		return
	}
	sw, err := h.stopwatch.Get(r.Context(), b.Code)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.BoardFromModel(b, rost, sw))
}

func boardCode(r *http.Request) model.BoardCode {
	return model.BoardCode(strings.ToUpper(mux.Vars(r)["code"]))
}
