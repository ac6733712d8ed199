package api

import (
	"net/http"
)

// PlayerHandler serves player leaderboards, search and profiles.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// HandleAverageRank handles GET /v1/players/average-rank.
func (h *PlayerHandler) HandleAverageRank(w http.ResponseWriter, r *http.Request) error {
	f, n, err := listParams(r)
	if err != nil {
		return err
	}
	out, err := h.deps.AverageRank(r.Context(), f, n)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

// HandleTopK handles GET /v1/players/top-k.
func (h *PlayerHandler) HandleTopK(w http.ResponseWriter, r *http.Request) error {
	f, n, err := listParams(r)
	if err != nil {
		return err
	}
	k, err := rankParam(r, "k", defaultK, 1)
	if err != nil {
		return err
	}
	out, err := h.deps.TopK(r.Context(), f, n, k)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

// HandleSearch handles GET /v1/players/search.
func (h *PlayerHandler) HandleSearch(w http.ResponseWriter, r *http.Request) error {
	limit, err := intParam(r, "limit", defaultN)
	if err != nil {
		return err
	}
	out, err := h.deps.SearchPlayers(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

// HandleRows handles GET /v1/players/{id}/rows.
func (h *PlayerHandler) HandleRows(w http.ResponseWriter, r *http.Request) error {
	id, err := playerIDParam(r)
	if err != nil {
		return err
	}
	maxRanking, err := rankParam(r, "max_ranking", 0, 0)
	if err != nil {
		return err
	}
	out, err := h.deps.PlayerRows(r.Context(), id, maxRanking)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}
