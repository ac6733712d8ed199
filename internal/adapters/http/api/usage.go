package api

import (
	"net/http"
)

// UsageHandler serves skill and set usage charts.
type UsageHandler struct {
	deps UsageDependencies
}

// NewUsageHandler creates a new usage handler.
func NewUsageHandler(deps UsageDependencies) *UsageHandler {
	return &UsageHandler{deps: deps}
}

// HandleTopSkills handles GET /v1/skills/top.
func (h *UsageHandler) HandleTopSkills(w http.ResponseWriter, r *http.Request) error {
	f, n, err := listParams(r)
	if err != nil {
		return err
	}
	normalised, err := boolParam(r, "normalised")
	if err != nil {
		return err
	}
	out, err := h.deps.TopSkills(r.Context(), f, n, normalised)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

// HandleTopSets handles GET /v1/sets/top.
func (h *UsageHandler) HandleTopSets(w http.ResponseWriter, r *http.Request) error {
	f, n, err := listParams(r)
	if err != nil {
		return err
	}
	normalised, err := boolParam(r, "normalised")
	if err != nil {
		return err
	}
	out, err := h.deps.TopSets(r.Context(), f, n, normalised)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

// HandleSkillPrevalence handles GET /v1/skills/prevalence.
func (h *UsageHandler) HandleSkillPrevalence(w http.ResponseWriter, r *http.Request) error {
	f, n, err := listParams(r)
	if err != nil {
		return err
	}
	out, err := h.deps.SkillPrevalence(r.Context(), f, n)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

// HandleSetPrevalence handles GET /v1/sets/prevalence.
func (h *UsageHandler) HandleSetPrevalence(w http.ResponseWriter, r *http.Request) error {
	f, n, err := listParams(r)
	if err != nil {
		return err
	}
	out, err := h.deps.SetPrevalence(r.Context(), f, n)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}
