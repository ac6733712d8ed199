package loadcheck

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/raidstats/internal/domain/model"
	"github.com/okian/raidstats/internal/domain/types"
	"github.com/okian/raidstats/pkg/logger"
)

// statsResponse is the subset of /stats read by the checks.
type statsResponse struct {
	MaxLimit int `json:"maxLimit"`
	Snapshot *struct {
		Generation       uint64 `json:"generation"`
		SkillOccurrences uint64 `json:"skillOccurrences"`
	} `json:"snapshot"`
}

// verifier runs checks and collects violations.
type verifier struct {
	cfg    *Config
	client *client
	log    logger.Logger

	mu         sync.Mutex
	checks     int
	violations []string
}

func (v *verifier) fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	v.mu.Lock()
	v.violations = append(v.violations, msg)
	v.mu.Unlock()
	v.log.Warn(context.Background(), "invariant violated", logger.String("detail", msg))
}

func (v *verifier) done() {
	v.mu.Lock()
	v.checks++
	v.mu.Unlock()
}

// Verify queries a running service and checks the aggregation invariants.
// The report lists every violation; the error wraps ErrViolations when
// there is at least one, or reports a request failure.
func Verify(ctx context.Context, cfg *Config) (*Report, error) {
	if cfg.Workers <= 0 || cfg.TopN <= 0 || cfg.MaxK <= 0 || cfg.MaxK > 255 {
		return nil, fmt.Errorf("%w: workers, n and k (1..255) must be positive", ErrInvalidConfig)
	}
	start := time.Now()
	runID := uuid.NewString()
	v := &verifier{
		cfg:    cfg,
		client: newClient(cfg.BaseURL, cfg.Timeout),
		log:    logger.Get().Named("loadcheck").With(logger.String("run_id", runID)),
	}

	var stats statsResponse
	if err := v.client.get(ctx, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	if stats.Snapshot == nil {
		return nil, fmt.Errorf("service has no snapshot loaded")
	}
	var partitions []types.Partition
	if err := v.client.get(ctx, "/v1/partitions", nil, &partitions); err != nil {
		return nil, err
	}
	v.log.Info(ctx, "verifying service",
		logger.String("baseURL", cfg.BaseURL),
		logger.Uint64("generation", stats.Snapshot.Generation),
		logger.Int("partitions", len(partitions)),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for _, n := range []int{1, 3, cfg.TopN, stats.MaxLimit} {
		// The service clamps n; the Other check needs the effective value.
		if stats.MaxLimit > 0 {
			n = min(n, stats.MaxLimit)
		}
		g.Go(func() error { return v.checkConservation(gctx, n, stats.Snapshot.SkillOccurrences) })
		g.Go(func() error { return v.checkOther(gctx, "/v1/skills/top", n) })
		g.Go(func() error { return v.checkOther(gctx, "/v1/sets/top", n) })
	}
	for _, path := range []string{"/v1/skills/prevalence", "/v1/sets/prevalence"} {
		g.Go(func() error { return v.checkPercentages(gctx, path, "") })
		for _, p := range partitions {
			g.Go(func() error { return v.checkPercentages(gctx, path, strconv.Itoa(int(p.ID))) })
		}
	}
	for _, p := range partitions {
		for _, path := range []string{"/v1/skills/top", "/v1/sets/top"} {
			g.Go(func() error { return v.checkSinglePartition(gctx, path, p.ID) })
		}
	}
	g.Go(func() error { return v.checkTopKMonotonic(gctx) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:      runID,
		Checks:     v.checks,
		Requests:   v.client.requests.Load(),
		Violations: v.violations,
		Duration:   time.Since(start),
	}
	slices.Sort(report.Violations)
	v.log.Info(ctx, "verification finished",
		logger.Int("checks", report.Checks),
		logger.Int("violations", len(report.Violations)),
		logger.Duration("duration", report.Duration),
	)
	if len(report.Violations) > 0 {
		return report, fmt.Errorf("%w: %d", ErrViolations, len(report.Violations))
	}
	return report, nil
}

func listQuery(n int, partitions string, extra ...string) url.Values {
	q := url.Values{"n": {strconv.Itoa(n)}}
	if partitions != "" {
		q.Set("partitions", partitions)
	}
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	return q
}

// checkConservation: raw skill counts plus Other sum to every occurrence.
func (v *verifier) checkConservation(ctx context.Context, n int, total uint64) error {
	var got []types.SkillCount
	if err := v.client.get(ctx, "/v1/skills/top", listQuery(n, ""), &got); err != nil {
		return err
	}
	var sum uint64
	for _, c := range got {
		sum += uint64(c.Count)
	}
	if sum != total {
		v.fail("conservation n=%d: counts sum to %d, want %d", n, sum, total)
	}
	v.done()
	return nil
}

// checkOther: Other is last, at most once, only after n entries, and the
// entries before it never increase.
func (v *verifier) checkOther(ctx context.Context, path string, n int) error {
	var got []types.SetCount
	if err := v.client.get(ctx, path, listQuery(n, ""), &got); err != nil {
		return err
	}
	for i, c := range got {
		if c.ID == model.OtherID {
			if i != len(got)-1 {
				v.fail("%s n=%d: Other at position %d of %d", path, n, i, len(got))
			}
			if i != n {
				v.fail("%s n=%d: Other follows %d entries", path, n, i)
			}
			continue
		}
		if i > 0 && got[i-1].ID != model.OtherID && got[i-1].Count < c.Count {
			v.fail("%s n=%d: count rises at position %d", path, n, i)
		}
	}
	if len(got) > n+1 {
		v.fail("%s n=%d: %d entries returned", path, n, len(got))
	}
	v.done()
	return nil
}

// checkPercentages: every share is within [0, 100].
func (v *verifier) checkPercentages(ctx context.Context, path, partitions string) error {
	var got []types.Share
	if err := v.client.get(ctx, path, listQuery(v.cfg.TopN, partitions), &got); err != nil {
		return err
	}
	for _, s := range got {
		if s.Percentage < 0 || s.Percentage > 100 {
			v.fail("%s partitions=%q: %s at %.3f%%", path, partitions, s.Name, s.Percentage)
		}
	}
	v.done()
	return nil
}

// checkSinglePartition: normalising a single partition changes nothing.
func (v *verifier) checkSinglePartition(ctx context.Context, path string, p uint8) error {
	part := strconv.Itoa(int(p))
	var raw, norm []types.SetCount
	if err := v.client.get(ctx, path, listQuery(v.cfg.TopN, part), &raw); err != nil {
		return err
	}
	if err := v.client.get(ctx, path, listQuery(v.cfg.TopN, part, "normalised", "true"), &norm); err != nil {
		return err
	}
	if !slices.Equal(raw, norm) {
		v.fail("%s partition %d: normalised %v differs from raw %v", path, p, norm, raw)
	}
	v.done()
	return nil
}

// checkTopKMonotonic: a player's top-k count never drops as k grows.
func (v *verifier) checkTopKMonotonic(ctx context.Context) error {
	prev := make(map[uint32]uint32)
	for k := 1; k <= v.cfg.MaxK; k++ {
		var got []types.TopKEntry
		if err := v.client.get(ctx, "/v1/players/top-k", listQuery(v.cfg.TopN, "", "k", strconv.Itoa(k)), &got); err != nil {
			return err
		}
		for _, e := range got {
			if e.Count < prev[e.PlayerID] {
				v.fail("top-k: player %d has %d at k=%d after %d", e.PlayerID, e.Count, k, prev[e.PlayerID])
			}
			prev[e.PlayerID] = e.Count
		}
	}
	v.done()
	return nil
}
