package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/okian/raidstats/internal/domain/model"
)

// Query parameter defaults.
const (
	defaultN = 10
	defaultK = 1
)

func partitionsParam(r *http.Request) (model.PartitionFilter, error) {
	f, err := model.ParsePartitionFilter(r.URL.Query().Get("partitions"))
	if err != nil {
		return model.PartitionFilter{}, fmt.Errorf("%w: partitions: %v", ErrBadRequest, err)
	}
	return f, nil
}

// intParam parses a non-negative integer parameter, returning def when absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrBadRequest, name)
	}
	return v, nil
}

// rankParam parses a ranking bound in [lo, 255].
func rankParam(r *http.Request, name string, def, lo int) (uint8, error) {
	v, err := intParam(r, name, def)
	if err != nil {
		return 0, err
	}
	if v < lo || v > 255 {
		return 0, fmt.Errorf("%w: %s must be between %d and 255", ErrBadRequest, name, lo)
	}
	return uint8(v), nil
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrBadRequest, name)
	}
	return v, nil
}

func playerIDParam(r *http.Request) (uint32, error) {
	v, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: invalid player id", ErrBadRequest)
	}
	return uint32(v), nil
}

// listParams reads the partitions and n parameters shared by every list route.
func listParams(r *http.Request) (model.PartitionFilter, int, error) {
	f, err := partitionsParam(r)
	if err != nil {
		return f, 0, err
	}
	n, err := intParam(r, "n", defaultN)
	return f, n, err
}
