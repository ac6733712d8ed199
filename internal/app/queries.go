package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/raidstats/internal/adapters/cache"
	"github.com/okian/raidstats/internal/adapters/repository"
	"github.com/okian/raidstats/internal/domain/frequency"
	"github.com/okian/raidstats/internal/domain/model"
	"github.com/okian/raidstats/internal/domain/prevalence"
	"github.com/okian/raidstats/internal/domain/query"
	"github.com/okian/raidstats/internal/domain/ranking"
	"github.com/okian/raidstats/internal/domain/search"
	"github.com/okian/raidstats/internal/domain/types"
	"github.com/okian/raidstats/pkg/metrics"
)

// Results are shared between callers through the memo cache and must not
// be modified.

// TopSkills returns the n most used skills, weighting partitions equally
// when normalised is set.
func (s *Service) TopSkills(ctx context.Context, f model.PartitionFilter, n int, normalised bool) ([]types.SkillCount, error) {
	kind := query.TopSkills
	if normalised {
		kind = query.TopSkillsNormalised
	}
	v, err := s.run(ctx, query.Key{Kind: kind, Filter: f, N: s.limit(n)})
	if err != nil {
		return nil, err
	}
	return v.([]types.SkillCount), nil
}

// TopSets returns the n most used canonical sets.
func (s *Service) TopSets(ctx context.Context, f model.PartitionFilter, n int, normalised bool) ([]types.SetCount, error) {
	kind := query.TopSets
	if normalised {
		kind = query.TopSetsNormalised
	}
	v, err := s.run(ctx, query.Key{Kind: kind, Filter: f, N: s.limit(n)})
	if err != nil {
		return nil, err
	}
	return v.([]types.SetCount), nil
}

// SkillPrevalence returns the n skills present on the most rows.
func (s *Service) SkillPrevalence(ctx context.Context, f model.PartitionFilter, n int) ([]types.Share, error) {
	v, err := s.run(ctx, query.Key{Kind: query.SkillPrevalence, Filter: f, N: s.limit(n)})
	if err != nil {
		return nil, err
	}
	return v.([]types.Share), nil
}

// SetPrevalence returns the n canonical sets present on the most rows.
func (s *Service) SetPrevalence(ctx context.Context, f model.PartitionFilter, n int) ([]types.Share, error) {
	v, err := s.run(ctx, query.Key{Kind: query.SetPrevalence, Filter: f, N: s.limit(n)})
	if err != nil {
		return nil, err
	}
	return v.([]types.Share), nil
}

// AverageRank returns the n players with the best average placement.
func (s *Service) AverageRank(ctx context.Context, f model.PartitionFilter, n int) ([]types.AverageEntry, error) {
	v, err := s.run(ctx, query.Key{Kind: query.AverageRank, Filter: f, N: s.limit(n)})
	if err != nil {
		return nil, err
	}
	return v.([]types.AverageEntry), nil
}

// TopK returns the n players with the most placements at rank k or better.
func (s *Service) TopK(ctx context.Context, f model.PartitionFilter, n int, k uint8) ([]types.TopKEntry, error) {
	v, err := s.run(ctx, query.Key{Kind: query.TopK, Filter: f, N: s.limit(n), K: k})
	if err != nil {
		return nil, err
	}
	return v.([]types.TopKEntry), nil
}

// SearchPlayers finds players by name.
func (s *Service) SearchPlayers(ctx context.Context, q string, limit int) ([]types.PlayerMatch, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return types.Matches(search.Players(snap.Table, q, s.limit(limit))), nil
}

// PlayerRows returns a player's placements, hiding rankings above
// maxRanking when it is positive.
func (s *Service) PlayerRows(ctx context.Context, playerID uint32, maxRanking uint8) ([]types.PlayerRow, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := snap.Player(playerID); err != nil {
		return nil, fmt.Errorf("player %d: %w", playerID, err)
	}
	return types.PlayerRows(ranking.PlayerRows(snap.Table, playerID, maxRanking)), nil
}

// Partitions lists the partitions present in the snapshot.
func (s *Service) Partitions(ctx context.Context) ([]types.Partition, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return types.Partitions(snap.Table.Partitions()), nil
}

// limit clamps n to the configured maximum. Negative values are left for
// key validation to reject.
func (s *Service) limit(n int) int {
	if n > s.maxLimit {
		return s.maxLimit
	}
	return n
}

// run answers key from the memo cache, computing it on a miss.
func (s *Service) run(ctx context.Context, key query.Key) (any, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Query", trace.WithAttributes(
		attribute.String("query.kind", string(key.Kind)),
		attribute.String("query.key", key.String()),
	))
	defer span.End()

	if err := key.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("snapshot.generation", int64(snap.Generation)))

	v, cached, err := s.cache.Do(ctx, cache.Key{Generation: snap.Generation, Query: key.String()}, func() (any, error) {
		return s.compute(snap, key), nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	source := "computed"
	if cached {
		source = "cache"
	}
	span.SetAttributes(attribute.String("query.source", source))
	metrics.RecordQuery(string(key.Kind), source)
	return v, nil
}

// compute runs key against snap and converts the result to its API shape.
func (s *Service) compute(snap *repository.Snapshot, key query.Key) any {
	start := time.Now()
	defer func() {
		metrics.RecordQueryDuration(string(key.Kind), float64(time.Since(start).Microseconds())/1000)
	}()

	t, f, n := snap.Table, key.Filter, key.N
	switch key.Kind {
	case query.TopSkills:
		return types.SkillCounts(frequency.TopSkills(t, f, n))
	case query.TopSkillsNormalised:
		return types.SkillCounts(frequency.TopSkillsNormalised(t, f, n))
	case query.TopSets:
		return types.SetCounts(frequency.TopSets(t, snap.Resolver, f, n))
	case query.TopSetsNormalised:
		return types.SetCounts(frequency.TopSetsNormalised(t, snap.Resolver, f, n))
	case query.SkillPrevalence:
		return types.SkillShares(prevalence.Skills(t, f), n)
	case query.SetPrevalence:
		return types.SetShares(prevalence.Sets(t, snap.Resolver, f), n)
	case query.AverageRank:
		return types.Averages(ranking.AverageRankMin(t, f, n, s.minAverageSamples))
	case query.TopK:
		return types.TopKs(ranking.TopKCount(t, f, n, key.K))
	}
	panic(fmt.Sprintf("unhandled query kind %q", key.Kind))
}

func (s *Service) totalSkills(snap *repository.Snapshot) uint64 {
	return frequency.Total(snap.Table, model.NewPartitionFilter())
}
