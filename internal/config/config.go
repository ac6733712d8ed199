// Package config defines service configuration and its loading.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// SnapshotPath is the master table JSON file, gzipped when it ends in .gz.
	// Empty starts the service without a snapshot.
	SnapshotPath string `koanf:"snapshot_path"`

	// ReloadSchedule is a cron spec with optional seconds, e.g. "@every 10m".
	// Empty disables scheduled reloads.
	ReloadSchedule string `koanf:"reload_schedule" validate:"excluded_without=SnapshotPath"`

	// CacheSize bounds the memo cache; 0 means unbounded.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// WarmupWorkers sets the number of warm-up workers; 0 uses one per CPU.
	WarmupWorkers int `koanf:"warmup_workers" validate:"gte=0"`

	// WarmupQueueSize bounds the warm-up queue.
	WarmupQueueSize int `koanf:"warmup_queue_size" validate:"gt=0"`

	// WarmupLimit is n for the views precomputed after a reload; 0 disables warm-up.
	WarmupLimit int `koanf:"warmup_limit" validate:"gte=0,ltefield=MaxLimit"`

	// MaxLimit caps n on every query.
	MaxLimit int `koanf:"max_limit" validate:"gt=0,lte=10000"`

	// RateLimitRPS is the per-process request rate; 0 disables limiting.
	RateLimitRPS float64 `koanf:"rate_limit_rps" validate:"gte=0"`
	// RateLimitBurst is the limiter bucket size.
	RateLimitBurst int `koanf:"rate_limit_burst" validate:"gte=0"`

	// MinAverageSamples is the row count a player needs on the average rank board.
	MinAverageSamples int `koanf:"min_average_samples" validate:"gt=0"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		CacheSize:         4096,
		WarmupWorkers:     runtime.NumCPU(),
		WarmupQueueSize:   1024,
		WarmupLimit:       10,
		MaxLimit:          100,
		RateLimitRPS:      0,
		RateLimitBurst:    50,
		MinAverageSamples: 20,
	}
}
