package service

import (
	"context"
	"errors"

	"github.com/okian/raidstats/internal/adapters/cache"
	"github.com/okian/raidstats/internal/adapters/mq/queue"
	"github.com/okian/raidstats/internal/adapters/mq/worker"
	"github.com/okian/raidstats/internal/adapters/repository"
	"github.com/okian/raidstats/internal/domain/model"
	"github.com/okian/raidstats/internal/domain/query"
	"github.com/okian/raidstats/pkg/logger"
)

// Warm implements worker.Runner. It computes job into the memo cache
// unless a newer snapshot has been published since the job was queued.
//
// Warm runs on pool goroutines that Stop waits for, so it reads the
// components set up by Start without taking s.mu.
func (s *Service) Warm(ctx context.Context, job queue.Job) error {
	snap, err := s.store.Current(ctx)
	if err != nil {
		return err
	}
	if snap.Generation != job.Generation {
		return worker.ErrStale
	}
	_, _, err = s.cache.Do(ctx, cache.Key{Generation: snap.Generation, Query: job.Key.String()}, func() (any, error) {
		return s.compute(snap, job.Key), nil
	})
	return err
}

// onPublish drops results of older snapshots and queues the default views
// of the new one.
func (s *Service) onPublish(snap *repository.Snapshot) {
	ctx := context.Background()
	s.cache.DropBefore(ctx, snap.Generation)

	jobs := warmupKeys(snap.Table.Partitions(), s.warmupLimit)
	queued := 0
	for _, key := range jobs {
		err := s.warmupQueue.Enqueue(ctx, queue.Job{Generation: snap.Generation, Key: key})
		if err != nil {
			if !errors.Is(err, queue.ErrQueueFull) && !errors.Is(err, queue.ErrQueueClosed) {
				s.logger.Warn(ctx, "warm-up enqueue failed", logger.Error(err))
			}
			break
		}
		queued++
	}
	s.logger.Debug(ctx, "warm-up queued",
		logger.Uint64("generation", snap.Generation),
		logger.Int("jobs", queued),
		logger.Int("planned", len(jobs)),
	)
}

// warmupKeys lists the views precomputed after a publish: top skills and
// sets per partition, then the overall views and top-1 leaderboard.
func warmupKeys(partitions []uint8, n int) []query.Key {
	if n <= 0 {
		return nil
	}
	keys := make([]query.Key, 0, 2*len(partitions)+4)
	all := model.NewPartitionFilter()
	keys = append(keys,
		query.Key{Kind: query.TopSkills, Filter: all, N: n},
		query.Key{Kind: query.TopSets, Filter: all, N: n},
		query.Key{Kind: query.TopK, Filter: all, N: n, K: 1},
		query.Key{Kind: query.AverageRank, Filter: all, N: n},
	)
	for _, p := range partitions {
		f := model.NewPartitionFilter(p)
		keys = append(keys,
			query.Key{Kind: query.TopSkills, Filter: f, N: n},
			query.Key{Kind: query.TopSets, Filter: f, N: n},
		)
	}
	return keys
}
