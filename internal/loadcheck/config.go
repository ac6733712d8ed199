// Package loadcheck generates synthetic leaderboard snapshots and checks a
// running service against the aggregation invariants.
package loadcheck

import (
	"errors"
	"time"
)

// Sentinel errors.
var (
	ErrInvalidConfig = errors.New("invalid load check config")
	ErrViolations    = errors.New("invariant violations found")
)

// Config holds configuration for a load check run.
type Config struct {
	BaseURL string        // Base URL of the service
	Workers int           // Concurrent requests during verify
	Timeout time.Duration // HTTP request timeout
	TopN    int           // n used by the queries
	MaxK    int           // Largest k walked by the top-k check

	Output     string // Snapshot file written by generate
	Seed       uint64 // Generator seed; equal seeds give equal tables
	Players    int    // Distinct accounts
	Partitions int    // Partitions; partition p holds p times the base row count
	BaseRows   int    // Rows in the smallest partition
}

// DefaultConfig returns the flag defaults of cmd/loadcheck.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:9080",
		Workers:    8,
		Timeout:    10 * time.Second,
		TopN:       10,
		MaxK:       10,
		Output:     "master.json.gz",
		Seed:       1,
		Players:    200,
		Partitions: 4,
		BaseRows:   250,
	}
}

// Report summarises a verify run.
type Report struct {
	RunID      string
	Checks     int
	Requests   int64
	Violations []string
	Duration   time.Duration
}
