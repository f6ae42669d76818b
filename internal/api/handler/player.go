package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/scoreboard/internal/api/request"
	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/roster"
)

// PlayerHandler handles roster endpoints
type PlayerHandler struct {
	roster *roster.Controller
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(rosterController *roster.Controller) *PlayerHandler {
	return &PlayerHandler{roster: rosterController}
}

// List handles GET /api/v1/boards/{code}/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	rost, err := h.roster.Roster(r.Context(), boardCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RosterFromModel(rost))
}

// Stats handles GET /api/v1/boards/{code}/stats
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.roster.Stats(r.Context(), boardCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// Add handles POST /api/v1/boards/{code}/players
func (h *PlayerHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req request.AddPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	player, err := h.roster.AddPlayer(r.Context(), boardCode(r), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// ChangeScore handles POST /api/v1/boards/{code}/players/{id}/score
func (h *PlayerHandler) ChangeScore(w http.ResponseWriter, r *http.Request) {
	delta, ok := decodeDelta(w, r)
	if !ok {
		return
	}

	player, err := h.roster.ChangeScore(r.Context(), boardCode(r), playerID(r), delta)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Remove handles DELETE /api/v1/boards/{code}/players/{id}
func (h *PlayerHandler) Remove(w http.ResponseWriter, r *http.Request) {
	player, err := h.roster.RemovePlayer(r.Context(), boardCode(r), playerID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// ChangeScoreAt handles POST /api/v1/boards/{code}/positions/{index}/score
func (h *PlayerHandler) ChangeScoreAt(w http.ResponseWriter, r *http.Request) {
	index, ok := positionIndex(w, r)
	if !ok {
		return
	}
	delta, ok := decodeDelta(w, r)
	if !ok {
		return
	}

	player, err := h.roster.ChangeScoreAt(r.Context(), boardCode(r), index, delta)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// RemoveAt handles DELETE /api/v1/boards/{code}/positions/{index}
func (h *PlayerHandler) RemoveAt(w http.ResponseWriter, r *http.Request) {
	index, ok := positionIndex(w, r)
	if !ok {
		return
	}

	player, err := h.roster.RemoveAt(r.Context(), boardCode(r), index)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

func decodeDelta(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req request.ChangeScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return 0, false
	}
	return req.Delta, true
}

func positionIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("Position must be an integer"))
		return 0, false
	}
	return index, true
}

func playerID(r *http.Request) model.PlayerID {
	return model.PlayerID(mux.Vars(r)["id"])
}
