package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/raidstats/internal/domain/canon"
	"github.com/okian/raidstats/internal/domain/model"
	"github.com/okian/raidstats/pkg/logger"
	"github.com/okian/raidstats/pkg/metrics"
)

// reloadTimeout bounds a scheduled reload.
const reloadTimeout = 2 * time.Minute

// SnapshotStore publishes tables through an atomic pointer. Readers never
// lock; a reload builds the next snapshot off to the side and swaps it in,
// so callers holding the previous one finish undisturbed.
type SnapshotStore struct {
	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64

	// reloadMu serializes Publish and Reload.
	reloadMu  sync.Mutex
	loader    Loader
	schedule  string
	onPublish []func(*Snapshot)
	log       logger.Logger

	cron      *cron.Cron
	closeOnce sync.Once
	closed    atomic.Bool
}

// NewSnapshotStore constructs a store and starts the reload schedule when
// one is configured. The store starts empty.
func NewSnapshotStore(opts ...Option) (*SnapshotStore, error) {
	s := &SnapshotStore{}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("snapshot")
	}
	if s.schedule != "" {
		if s.loader == nil {
			return nil, fmt.Errorf("reload schedule %q needs a loader", s.schedule)
		}
		if err := s.startSchedule(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *SnapshotStore) startSchedule() error {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	cl := cronLogger{log: s.log}
	s.cron = cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		if _, err := s.Reload(ctx); err != nil {
			s.log.Error(ctx, "scheduled reload failed", logger.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("reload schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.log.Info(context.Background(), "reload schedule started", logger.String("schedule", s.schedule))
	return nil
}

// Current implements Store.
func (s *SnapshotStore) Current(_ context.Context) (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Publish implements Store.
func (s *SnapshotStore) Publish(ctx context.Context, t *model.MasterTable, source string) (*Snapshot, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", ErrInvalidSnapshot)
	}
	if err := t.Validate(); err != nil {
		metrics.RecordSnapshotReload("invalid")
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	s.reloadMu.Lock()
	snap := s.publishLocked(t, source)
	s.reloadMu.Unlock()

	s.notify(snap)
	s.log.Info(ctx, "snapshot published",
		logger.Uint64("generation", snap.Generation),
		logger.Int("rows", len(t.Rows)),
		logger.Int("players", len(t.Players)),
		logger.String("source", source))
	return snap, nil
}

func (s *SnapshotStore) publishLocked(t *model.MasterTable, source string) *Snapshot {
	t = t.Indexed()
	snap := &Snapshot{
		Table:      t,
		Resolver:   canon.New(t.Sets),
		Generation: s.generation.Add(1),
		LoadedAt:   time.Now(),
		Source:     source,
	}
	s.current.Store(snap)
	metrics.UpdateSnapshot(snap.Generation, len(t.Rows), len(t.Players), float64(snap.LoadedAt.Unix()))
	return snap
}

// Reload implements Store.
func (s *SnapshotStore) Reload(ctx context.Context) (*Snapshot, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if s.loader == nil {
		return nil, errors.New("snapshot store has no loader")
	}
	start := time.Now()
	defer func() {
		metrics.RecordSnapshotReloadDuration(float64(time.Since(start).Milliseconds()))
	}()

	s.reloadMu.Lock()
	t, source, err := s.loader.Load(ctx)
	switch {
	case err != nil:
	case t == nil:
		err = fmt.Errorf("%w: loader returned no table", ErrInvalidSnapshot)
	default:
		if verr := t.Validate(); verr != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidSnapshot, verr)
		}
	}
	if err != nil {
		s.reloadMu.Unlock()
		metrics.RecordSnapshotReload("error")
		metrics.RecordError("repository", "reload")
		s.log.Warn(ctx, "reload failed, keeping current snapshot", logger.String("source", source), logger.Error(err))
		return nil, fmt.Errorf("reload %s: %w", source, err)
	}
	snap := s.publishLocked(t, source)
	s.reloadMu.Unlock()

	metrics.RecordSnapshotReload("ok")
	s.notify(snap)
	s.log.Info(ctx, "snapshot reloaded",
		logger.Uint64("generation", snap.Generation),
		logger.Int("rows", len(t.Rows)),
		logger.Duration("took", time.Since(start)),
		logger.String("source", source))
	return snap, nil
}

func (s *SnapshotStore) notify(snap *Snapshot) {
	for _, fn := range s.onPublish {
		fn(snap)
	}
}

// Close stops the reload schedule and waits for a running reload.
func (s *SnapshotStore) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if s.cron != nil {
			<-s.cron.Stop().Done()
		}
	})
	return nil
}

// cronLogger routes scheduler messages to the store logger.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug(context.Background(), msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error(context.Background(), msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(kv []any) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, logger.Any(key, kv[i+1]))
	}
	return fields
}
