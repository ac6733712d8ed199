package api

import (
	"net/http"
)

// SnapshotHandler describes and reloads the loaded snapshot.
type SnapshotHandler struct {
	deps SnapshotDependencies
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(deps SnapshotDependencies) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

// HandlePartitions handles GET /v1/partitions.
func (h *SnapshotHandler) HandlePartitions(w http.ResponseWriter, r *http.Request) error {
	out, err := h.deps.Partitions(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

// HandleReload handles POST /v1/snapshot/reload.
func (h *SnapshotHandler) HandleReload(w http.ResponseWriter, r *http.Request) error {
	out, err := h.deps.Reload(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}
