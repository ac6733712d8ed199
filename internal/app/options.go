package service

import (
	"github.com/okian/raidstats/internal/adapters/repository"
	"github.com/okian/raidstats/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of warm-up workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the warm-up queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithCacheSize bounds the memo cache. Zero or less means unbounded.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		s.cacheSize = size
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader sets the source used by Start and Reload.
func WithLoader(l repository.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithSnapshotPath loads snapshots from a JSON file, gzipped when it ends in .gz.
func WithSnapshotPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.loader = repository.FileLoader{Path: path}
		}
	}
}

// WithReloadSchedule reloads the snapshot on a cron schedule.
func WithReloadSchedule(spec string) Option {
	return func(s *Service) {
		s.reloadSchedule = spec
	}
}

// WithMaxLimit caps n for every query.
func WithMaxLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithMinAverageSamples sets the row count a player needs to appear on the
// average rank leaderboard.
func WithMinAverageSamples(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minAverageSamples = n
		}
	}
}

// WithWarmupLimit sets n for the views precomputed after a publish.
// Zero disables warm-up.
func WithWarmupLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.warmupLimit = n
		}
	}
}
