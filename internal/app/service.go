// Package service answers leaderboard queries against the published
// snapshot and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/raidstats/internal/adapters/cache"
	"github.com/okian/raidstats/internal/adapters/mq/queue"
	"github.com/okian/raidstats/internal/adapters/mq/worker"
	"github.com/okian/raidstats/internal/adapters/repository"
	"github.com/okian/raidstats/internal/domain/model"
	"github.com/okian/raidstats/internal/domain/ranking"
	"github.com/okian/raidstats/internal/domain/types"
	"github.com/okian/raidstats/pkg/logger"
	"github.com/okian/raidstats/pkg/metrics"
)

// ErrNotStarted is returned by queries issued before Start or after Stop.
var ErrNotStarted = errors.New("service not started")

// Default configuration.
const (
	defaultQueueSize   = 1024
	defaultCacheSize   = 4096
	defaultMaxLimit    = 100
	defaultWarmupLimit = 10
)

// Service implements the API dependencies for the leaderboard engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       *repository.SnapshotStore
	cache       cache.Cache
	warmupQueue *queue.InMemoryQueue
	workerPool  *worker.Pool

	// Configuration
	loader            repository.Loader
	reloadSchedule    string
	workerCount       int
	queueSize         int
	cacheSize         int
	maxLimit          int
	minAverageSamples int
	warmupLimit       int

	// State
	started bool

	logger logger.Logger
	tracer trace.Tracer
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:       runtime.NumCPU(),
		queueSize:         defaultQueueSize,
		cacheSize:         defaultCacheSize,
		maxLimit:          defaultMaxLimit,
		minAverageSamples: ranking.MinAverageSamples,
		warmupLimit:       defaultWarmupLimit,
		tracer:            otel.Tracer("raidstats-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the components, starts the warm-up workers and, when a
// loader is configured, publishes the first snapshot.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting query service...")

	s.cache = cache.New(cache.WithMaxSize(s.cacheSize))
	s.warmupQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.workerPool = worker.NewPool(s.workerCount, s.warmupQueue, s)

	storeOpts := []repository.Option{
		repository.WithOnPublish(s.onPublish),
		repository.WithLogger(s.logger.Named("snapshot")),
	}
	if s.loader != nil {
		storeOpts = append(storeOpts, repository.WithLoader(s.loader), repository.WithReloadSchedule(s.reloadSchedule))
	}
	store, err := repository.NewSnapshotStore(storeOpts...)
	if err != nil {
		_ = s.warmupQueue.Close()
		return fmt.Errorf("snapshot store: %w", err)
	}
	s.store = store
	s.workerPool.Start(ctx)

	if s.loader != nil {
		if _, err := s.store.Reload(ctx); err != nil {
			s.shutdown(ctx)
			return fmt.Errorf("initial snapshot: %w", err)
		}
	}

	s.started = true
	s.logger.Info(ctx, "query service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("cacheSize", s.cacheSize),
		logger.String("reloadSchedule", s.reloadSchedule),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping query service...")
	s.shutdown(ctx)
	s.started = false
	s.logger.Info(ctx, "query service stopped")
}

func (s *Service) shutdown(ctx context.Context) {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.workerPool != nil {
		if err := s.workerPool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "warm-up pool shutdown", logger.Error(err))
		}
	}
}

// snapshot returns the current snapshot, or an error mapping to 503.
func (s *Service) snapshot(ctx context.Context) (*repository.Snapshot, error) {
	s.mu.RLock()
	store := s.store
	started := s.started
	s.mu.RUnlock()
	if !started || store == nil {
		return nil, ErrNotStarted
	}
	return store.Current(ctx)
}

// Publish makes t the current snapshot.
func (s *Service) Publish(ctx context.Context, t *model.MasterTable, source string) (types.Reload, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return types.Reload{}, ErrNotStarted
	}
	snap, err := store.Publish(ctx, t, source)
	if err != nil {
		return types.Reload{}, err
	}
	return types.Reload{Generation: snap.Generation, Rows: len(snap.Table.Rows)}, nil
}

// Reload reloads the snapshot from the configured loader.
func (s *Service) Reload(ctx context.Context) (types.Reload, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Reload")
	defer span.End()

	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return types.Reload{}, ErrNotStarted
	}
	snap, err := store.Reload(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return types.Reload{}, err
	}
	span.SetAttributes(
		attribute.Int64("snapshot.generation", int64(snap.Generation)),
		attribute.Int("snapshot.rows", len(snap.Table.Rows)),
	)
	return types.Reload{Generation: snap.Generation, Rows: len(snap.Table.Rows)}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"cacheSize":   s.cacheSize,
		"maxLimit":    s.maxLimit,
	}
	if !s.started {
		return stats
	}

	stats["warmupQueueLength"] = s.warmupQueue.Len(ctx)
	stats["cacheEntries"] = s.cache.Size()

	snap, err := s.store.Current(ctx)
	if err != nil {
		stats["snapshot"] = nil
		return stats
	}
	t := snap.Table
	stats["snapshot"] = map[string]interface{}{
		"generation":       snap.Generation,
		"source":           snap.Source,
		"loadedAt":         snap.LoadedAt.UTC().Format(time.RFC3339),
		"rows":             len(t.Rows),
		"players":          len(t.Players),
		"skills":           len(t.Skills),
		"sets":             len(t.Sets),
		"canonicalSets":    snap.Resolver.Groups(),
		"partitions":       len(t.Partitions()),
		"skillOccurrences": s.totalSkills(snap),
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.HeapAlloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	return stats
}
