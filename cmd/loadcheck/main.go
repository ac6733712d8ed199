package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/raidstats/internal/loadcheck"
	"github.com/okian/raidstats/pkg/logger"
)

// defaultRunTimeout bounds a whole run.
const defaultRunTimeout = 10 * time.Minute

func main() {
	def := loadcheck.DefaultConfig()
	var (
		mode       = flag.String("mode", loadcheck.ModeVerify, "generate or verify")
		baseURL    = flag.String("url", def.BaseURL, "Base URL of the service (verify)")
		workers    = flag.Int("workers", def.Workers, "Concurrent requests (verify)")
		timeout    = flag.Duration("timeout", def.Timeout, "HTTP request timeout (verify)")
		topN       = flag.Int("top", def.TopN, "n used by the queries (verify)")
		maxK       = flag.Int("max-k", def.MaxK, "Largest k for the top-k check (verify)")
		output     = flag.String("output", def.Output, "Snapshot file to write (generate)")
		seed       = flag.Uint64("seed", def.Seed, "Generator seed (generate)")
		players    = flag.Int("players", def.Players, "Distinct accounts (generate)")
		partitions = flag.Int("partitions", def.Partitions, "Number of partitions (generate)")
		baseRows   = flag.Int("rows", def.BaseRows, "Rows in the smallest partition (generate)")
		logFormat  = flag.String("log-format", "text", "Log format: text or json")
	)
	flag.Parse()

	if err := logger.InitWith(os.Stderr, logger.Format(*logFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &loadcheck.Config{
		BaseURL:    *baseURL,
		Workers:    *workers,
		Timeout:    *timeout,
		TopN:       *topN,
		MaxK:       *maxK,
		Output:     *output,
		Seed:       *seed,
		Players:    *players,
		Partitions: *partitions,
		BaseRows:   *baseRows,
	}
	if err := loadcheck.Run(ctx, *mode, cfg); err != nil {
		logger.Get().Error(ctx, "load check failed", logger.String("mode", *mode), logger.Error(err))
		os.Exit(1)
	}
}
