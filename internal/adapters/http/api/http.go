// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/okian/raidstats/internal/domain/model"
	"github.com/okian/raidstats/internal/domain/types"
	"github.com/okian/raidstats/pkg/logger"
)

// UsageDependencies answers skill and set usage queries.
type UsageDependencies interface {
	TopSkills(ctx context.Context, f model.PartitionFilter, n int, normalised bool) ([]types.SkillCount, error)
	TopSets(ctx context.Context, f model.PartitionFilter, n int, normalised bool) ([]types.SetCount, error)
	SkillPrevalence(ctx context.Context, f model.PartitionFilter, n int) ([]types.Share, error)
	SetPrevalence(ctx context.Context, f model.PartitionFilter, n int) ([]types.Share, error)
}

// PlayerDependencies answers leaderboard and player queries.
type PlayerDependencies interface {
	AverageRank(ctx context.Context, f model.PartitionFilter, n int) ([]types.AverageEntry, error)
	TopK(ctx context.Context, f model.PartitionFilter, n int, k uint8) ([]types.TopKEntry, error)
	SearchPlayers(ctx context.Context, q string, limit int) ([]types.PlayerMatch, error)
	PlayerRows(ctx context.Context, playerID uint32, maxRanking uint8) ([]types.PlayerRow, error)
}

// SnapshotDependencies describes and replaces the loaded snapshot.
type SnapshotDependencies interface {
	Partitions(ctx context.Context) ([]types.Partition, error)
	Reload(ctx context.Context) (types.Reload, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	UsageDependencies
	PlayerDependencies
	SnapshotDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	usageHandler    *UsageHandler
	playerHandler   *PlayerHandler
	snapshotHandler *SnapshotHandler

	limiter *rate.Limiter
	logger  logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
		}
	}
}

// WithLogger sets the logger used for request errors.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		usageHandler:    NewUsageHandler(deps),
		playerHandler:   NewPlayerHandler(deps),
		snapshotHandler: NewSnapshotHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	r.Use(RequestIDMiddleware, MetricsMiddleware, RateLimitMiddleware(s.limiter))

	r.HandleFunc("/healthz", s.healthHandler.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.statsHandler.HandleStats).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/skills/top", s.wrap(s.usageHandler.HandleTopSkills)).Methods(http.MethodGet)
	v1.HandleFunc("/sets/top", s.wrap(s.usageHandler.HandleTopSets)).Methods(http.MethodGet)
	v1.HandleFunc("/skills/prevalence", s.wrap(s.usageHandler.HandleSkillPrevalence)).Methods(http.MethodGet)
	v1.HandleFunc("/sets/prevalence", s.wrap(s.usageHandler.HandleSetPrevalence)).Methods(http.MethodGet)

	v1.HandleFunc("/players/average-rank", s.wrap(s.playerHandler.HandleAverageRank)).Methods(http.MethodGet)
	v1.HandleFunc("/players/top-k", s.wrap(s.playerHandler.HandleTopK)).Methods(http.MethodGet)
	v1.HandleFunc("/players/search", s.wrap(s.playerHandler.HandleSearch)).Methods(http.MethodGet)
	v1.HandleFunc("/players/{id:[0-9]+}/rows", s.wrap(s.playerHandler.HandleRows)).Methods(http.MethodGet)

	v1.HandleFunc("/partitions", s.wrap(s.snapshotHandler.HandlePartitions)).Methods(http.MethodGet)
	v1.HandleFunc("/snapshot/reload", s.wrap(s.snapshotHandler.HandleReload)).Methods(http.MethodPost)
}

// NewRouter returns a router with every API route registered.
func (s *Server) NewRouter(ctx context.Context) *mux.Router {
	r := mux.NewRouter()
	s.Register(ctx, r)
	return r
}

// handlerFunc is a handler whose failure is rendered by wrap.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		status, code := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error(r.Context(), "request failed",
				logger.String("path", r.URL.Path),
				logger.String("request_id", RequestID(r.Context())),
				logger.Error(err))
		}
		writeError(w, status, code, err)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
