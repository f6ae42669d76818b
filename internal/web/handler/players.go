package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/web/middleware"
)

// AddPlayer submits the viewer's draft as a new player. The draft is
// cleared either way, so the form is always re-rendered empty.
func (h *BoardHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	code := boardCode(r)
	viewer := middleware.GetViewer(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	// The submitted field is authoritative over a draft that may not have
	// caught up with the last keystrokes
	if name, ok := r.PostForm["name"]; ok && len(name) > 0 {
		if _, err := h.drafts.UpdateName(r.Context(), code, viewer, name[0]); err != nil {
			h.actionFailed(w, r, "add_player", err)
			return
		}
	}

	if _, err := h.drafts.Submit(r.Context(), code, viewer, h.roster); err != nil {
		h.actionFailed(w, r, "add_player", err)
		return
	}

	h.respond(w, r, h.rosterFragment, h.formFragment(""))
}

// UpdateDraft records the text currently in the viewer's name input
func (h *BoardHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	code := boardCode(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	if _, err := h.drafts.UpdateName(r.Context(), code, middleware.GetViewer(r.Context()), r.FormValue("name")); err != nil {
		h.actionFailed(w, r, "update_draft", err)
		return
	}

	// Nothing to swap; re-rendering would fight the viewer's typing
	w.WriteHeader(http.StatusNoContent)
}

// ChangeScore applies the delta from the counter button to one player
func (h *BoardHandler) ChangeScore(w http.ResponseWriter, r *http.Request) {
	code := boardCode(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	delta, err := strconv.Atoi(r.FormValue("delta"))
	if err != nil {
		http.Error(w, "Invalid score change", http.StatusBadRequest)
		return
	}

	if _, err := h.roster.ChangeScore(r.Context(), code, model.PlayerID(routeVar(r, "id")), delta); err != nil {
		h.actionFailed(w, r, "change_score", err)
		return
	}

	h.respond(w, r, h.rosterFragment)
}

// RemovePlayer removes one player from the board
func (h *BoardHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	code := boardCode(r)

	if _, err := h.roster.RemovePlayer(r.Context(), code, model.PlayerID(routeVar(r, "id"))); err != nil {
		h.actionFailed(w, r, "remove_player", err)
		return
	}

	h.respond(w, r, h.rosterFragment)
}

func routeVar(r *http.Request, key string) string {
	return mux.Vars(r)[key]
}
