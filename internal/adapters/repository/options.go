package repository

import (
	"github.com/okian/raidstats/pkg/logger"
)

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithLoader sets the source used by Reload.
func WithLoader(l Loader) Option {
	return func(s *SnapshotStore) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithReloadSchedule reloads on a cron schedule. An empty spec disables it.
// Specs take five fields or six with leading seconds.
func WithReloadSchedule(spec string) Option {
	return func(s *SnapshotStore) {
		s.schedule = spec
	}
}

// WithOnPublish registers a callback run after every publish.
func WithOnPublish(fn func(*Snapshot)) Option {
	return func(s *SnapshotStore) {
		if fn != nil {
			s.onPublish = append(s.onPublish, fn)
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *SnapshotStore) {
		if l != nil {
			s.log = l
		}
	}
}
