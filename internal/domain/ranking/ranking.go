// Package ranking orders players by leaderboard placement.
package ranking

import (
	"cmp"
	"slices"

	"github.com/okian/raidstats/internal/domain/model"
)

// MinAverageSamples is the fewest included rows a player needs before their
// average rank is reported.
const MinAverageSamples = 20

// Average is a player's mean ranking over the included rows.
type Average struct {
	Player  model.Player
	Average float64
	Rows    uint32
}

// TopK is a player's count of placements at rank k or better.
type TopK struct {
	Player model.Player
	// Count is the number of included rows ranked <= k.
	Count uint32
	// Stricter is the number of rows ranked <= k-1. It is only computed for
	// players tied on Count at the cut and is zero elsewhere.
	Stricter uint32
	// Total is the player's included row count.
	Total uint32
}

// AverageRank returns the n players with the best mean ranking among those
// holding at least MinAverageSamples rows.
func AverageRank(t *model.MasterTable, f model.PartitionFilter, n int) []Average {
	return AverageRankMin(t, f, n, MinAverageSamples)
}

// AverageRankMin is AverageRank with a caller supplied sample floor.
func AverageRankMin(t *model.MasterTable, f model.PartitionFilter, n, minSamples int) []Average {
	type acc struct{ sum, count uint64 }
	agg := make(map[uint32]*acc)
	for i := range t.Rows {
		r := &t.Rows[i]
		if !f.Includes(r.PartitionID) {
			continue
		}
		a, ok := agg[r.PlayerID]
		if !ok {
			a = &acc{}
			agg[r.PlayerID] = a
		}
		a.sum += uint64(r.Ranking)
		a.count++
	}

	out := make([]Average, 0, len(agg))
	for id, a := range agg {
		if a.count < uint64(max(minSamples, 0)) {
			continue
		}
		p, ok := t.PlayerByID(id)
		if !ok || p.Name == "" {
			continue
		}
		out = append(out, Average{
			Player:  p,
			Average: float64(a.sum) / float64(a.count),
			Rows:    uint32(a.count),
		})
	}
	slices.SortFunc(out, func(a, b Average) int {
		if c := cmp.Compare(a.Average, b.Average); c != 0 {
			return c
		}
		return cmp.Compare(a.Player.ID, b.Player.ID)
	})
	return out[:min(max(n, 0), len(out))]
}

// TopKCount returns the n players with the most placements at rank k or
// better. Players tied on that count at the cut are separated by their
// placements at rank k-1 or better, then by total rows, then by id.
func TopKCount(t *model.MasterTable, f model.PartitionFilter, n int, k uint8) []TopK {
	if n <= 0 {
		return []TopK{}
	}

	stats := make(map[uint32]*TopK)
	for i := range t.Rows {
		r := &t.Rows[i]
		if !f.Includes(r.PartitionID) {
			continue
		}
		s, ok := stats[r.PlayerID]
		if !ok {
			s = &TopK{Player: model.Player{ID: r.PlayerID}}
			stats[r.PlayerID] = s
		}
		s.Total++
		if r.Ranking <= k {
			s.Count++
		}
	}

	cands := make([]*TopK, 0, len(stats))
	for _, s := range stats {
		if s.Count > 0 {
			cands = append(cands, s)
		}
	}
	if len(cands) == 0 {
		return []TopK{}
	}
	slices.SortFunc(cands, func(a, b *TopK) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Player.ID, b.Player.ID)
	})

	var cutoff uint32
	if len(cands) >= n {
		cutoff = cands[n-1].Count
	}
	if k > 1 {
		boundary := make(map[uint32]*TopK)
		for _, c := range cands {
			if c.Count == cutoff {
				boundary[c.Player.ID] = c
			}
		}
		if len(boundary) > 0 {
			for i := range t.Rows {
				r := &t.Rows[i]
				if r.Ranking > k-1 || !f.Includes(r.PartitionID) {
					continue
				}
				if c, ok := boundary[r.PlayerID]; ok {
					c.Stricter++
				}
			}
		}
	}

	slices.SortFunc(cands, func(a, b *TopK) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Stricter, a.Stricter); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Player.ID, b.Player.ID)
	})

	out := make([]TopK, 0, min(n, len(cands)))
	for _, c := range cands[:min(n, len(cands))] {
		p, _ := t.PlayerByID(c.Player.ID)
		if p.Name == "" {
			continue
		}
		c.Player = p
		out = append(out, *c)
	}
	return out
}

// PlayerRows returns every row of a player, newest partition first, then by
// ranking and dps. maxRanking > 0 drops rows ranked worse than it.
func PlayerRows(t *model.MasterTable, playerID uint32, maxRanking uint8) []model.Row {
	out := make([]model.Row, 0, 16)
	for i := range t.Rows {
		r := t.Rows[i]
		if r.PlayerID != playerID {
			continue
		}
		if maxRanking > 0 && r.Ranking > maxRanking {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b model.Row) int {
		if c := cmp.Compare(b.PartitionID, a.PartitionID); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Ranking, b.Ranking); c != 0 {
			return c
		}
		return cmp.Compare(b.DPS, a.DPS)
	})
	return out
}
