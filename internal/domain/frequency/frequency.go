// Package frequency counts skill and set usage across leaderboard rows.
//
// Raw counts weigh every included row equally. Normalised counts first scale
// each partition down to the size of the smallest included partition so that
// heavily sampled partitions do not dominate a multi-partition view.
package frequency

import (
	"cmp"
	"math"
	"slices"

	"github.com/okian/raidstats/internal/domain/canon"
	"github.com/okian/raidstats/internal/domain/model"
)

// Count is one ranked entry of a frequency result.
type Count[T any] struct {
	Item  T
	Count uint32
}

type tally struct {
	id    uint16
	count uint32
}

// TopSkills ranks skills by total usage, counting repeats within a row.
func TopSkills(t *model.MasterTable, f model.PartitionFilter, n int) []Count[model.Skill] {
	freq := make(map[uint16]uint32)
	for i := range t.Rows {
		r := &t.Rows[i]
		if !f.Includes(r.PartitionID) {
			continue
		}
		for _, s := range r.Skills {
			freq[s]++
		}
	}
	return truncate(sortTallies(freq), n, t.SkillByID, model.OtherSkill())
}

// TopSets ranks canonical sets by the number of rows that wear them.
func TopSets(t *model.MasterTable, res *canon.Resolver, f model.PartitionFilter, n int) []Count[model.ItemSet] {
	freq := make(map[uint16]uint32)
	var buf []uint16
	for i := range t.Rows {
		r := &t.Rows[i]
		if !f.Includes(r.PartitionID) {
			continue
		}
		buf = res.RowSets(buf[:0], r.Sets)
		for _, s := range buf {
			freq[s]++
		}
	}
	return truncate(sortTallies(freq), n, t.SetByID, model.OtherSet())
}

// TopSkillsNormalised is TopSkills with per-partition weighting.
func TopSkillsNormalised(t *model.MasterTable, f model.PartitionFilter, n int) []Count[model.Skill] {
	parts := newPartitionCounts()
	for i := range t.Rows {
		r := &t.Rows[i]
		if !f.Includes(r.PartitionID) {
			continue
		}
		m := parts.row(r.PartitionID)
		for _, s := range r.Skills {
			m[s]++
		}
	}
	return truncate(parts.normalise(), n, t.SkillByID, model.OtherSkill())
}

// TopSetsNormalised is TopSets with per-partition weighting.
func TopSetsNormalised(t *model.MasterTable, res *canon.Resolver, f model.PartitionFilter, n int) []Count[model.ItemSet] {
	parts := newPartitionCounts()
	var buf []uint16
	for i := range t.Rows {
		r := &t.Rows[i]
		if !f.Includes(r.PartitionID) {
			continue
		}
		m := parts.row(r.PartitionID)
		buf = res.RowSets(buf[:0], r.Sets)
		for _, s := range buf {
			m[s]++
		}
	}
	return truncate(parts.normalise(), n, t.SetByID, model.OtherSet())
}

// Total returns the number of skill occurrences, repeats included, in the
// rows passing f. It equals the sum of any raw TopSkills result.
func Total(t *model.MasterTable, f model.PartitionFilter) uint64 {
	var total uint64
	for i := range t.Rows {
		if f.Includes(t.Rows[i].PartitionID) {
			total += uint64(len(t.Rows[i].Skills))
		}
	}
	return total
}

type partitionCounts struct {
	rows   map[uint8]int
	counts map[uint8]map[uint16]uint32
}

func newPartitionCounts() *partitionCounts {
	return &partitionCounts{
		rows:   make(map[uint8]int),
		counts: make(map[uint8]map[uint16]uint32),
	}
}

// row records one included row of partition p and returns its counter map.
func (pc *partitionCounts) row(p uint8) map[uint16]uint32 {
	pc.rows[p]++
	m, ok := pc.counts[p]
	if !ok {
		m = make(map[uint16]uint32)
		pc.counts[p] = m
	}
	return m
}

func (pc *partitionCounts) normalise() []tally {
	if len(pc.rows) == 0 {
		return nil
	}
	minSize := math.MaxInt
	for _, n := range pc.rows {
		minSize = min(minSize, n)
	}
	if minSize == 0 {
		return nil
	}

	// Sum partitions in ascending order so float accumulation is reproducible.
	ids := make([]uint8, 0, len(pc.rows))
	for p := range pc.rows {
		ids = append(ids, p)
	}
	slices.Sort(ids)

	weighted := make(map[uint16]float64)
	for _, p := range ids {
		w := float64(minSize) / float64(pc.rows[p])
		for id, c := range pc.counts[p] {
			weighted[id] += float64(c) * w
		}
	}

	rounded := make(map[uint16]uint32, len(weighted))
	for id, v := range weighted {
		rv := math.Round(v)
		if rv < 0 {
			rv = 0
		}
		rounded[id] = uint32(rv)
	}
	return sortTallies(rounded)
}

func sortTallies(freq map[uint16]uint32) []tally {
	out := make([]tally, 0, len(freq))
	for id, c := range freq {
		out = append(out, tally{id: id, count: c})
	}
	slices.SortFunc(out, func(a, b tally) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	return out
}

// truncate keeps the first n tallies and folds the rest into other when
// their sum is positive.
func truncate[T any](sorted []tally, n int, lookup func(uint16) T, other T) []Count[T] {
	if len(sorted) == 0 {
		return []Count[T]{}
	}
	n = max(n, 0)
	keep := min(n, len(sorted))
	out := make([]Count[T], 0, keep+1)
	for _, e := range sorted[:keep] {
		out = append(out, Count[T]{Item: lookup(e.id), Count: e.count})
	}
	var rest uint32
	for _, e := range sorted[keep:] {
		rest += e.count
	}
	if rest > 0 {
		out = append(out, Count[T]{Item: other, Count: rest})
	}
	return out
}
