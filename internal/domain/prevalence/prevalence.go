// Package prevalence reports the share of rows that carry each skill or set.
package prevalence

import (
	"cmp"
	"slices"

	"github.com/okian/raidstats/internal/domain/canon"
	"github.com/okian/raidstats/internal/domain/model"
)

// Share is the percentage of qualifying rows containing Item.
type Share[T any] struct {
	Item    T
	Percent float64
}

// Skills returns, for every skill seen, the percentage of rows with at least
// one skill that slot it. Repeats within a row count once.
func Skills(t *model.MasterTable, f model.PartitionFilter) []Share[model.Skill] {
	freq := make(map[uint16]uint32)
	var rows uint32
	var buf []uint16
	for i := range t.Rows {
		r := &t.Rows[i]
		if !f.Includes(r.PartitionID) || len(r.Skills) == 0 {
			continue
		}
		buf = append(buf[:0], r.Skills...)
		slices.Sort(buf)
		buf = slices.Compact(buf)
		rows++
		for _, s := range buf {
			freq[s]++
		}
	}
	return shares(freq, rows, t.SkillByID)
}

// Sets is Skills for canonical sets. Unresolved pieces are ignored, so a row
// wearing only unresolved pieces does not count toward the denominator.
func Sets(t *model.MasterTable, res *canon.Resolver, f model.PartitionFilter) []Share[model.ItemSet] {
	freq := make(map[uint16]uint32)
	var rows uint32
	var buf []uint16
	for i := range t.Rows {
		r := &t.Rows[i]
		if !f.Includes(r.PartitionID) {
			continue
		}
		buf = res.RowSets(buf[:0], r.Sets)
		if len(buf) == 0 {
			continue
		}
		rows++
		for _, s := range buf {
			freq[s]++
		}
	}
	return shares(freq, rows, t.SetByID)
}

type pct struct {
	id      uint16
	percent float64
}

func shares[T any](freq map[uint16]uint32, rows uint32, lookup func(uint16) T) []Share[T] {
	if rows == 0 {
		return []Share[T]{}
	}
	list := make([]pct, 0, len(freq))
	for id, c := range freq {
		list = append(list, pct{id: id, percent: 100 * float64(c) / float64(rows)})
	}
	slices.SortFunc(list, func(a, b pct) int {
		if c := cmp.Compare(b.percent, a.percent); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	out := make([]Share[T], len(list))
	for i, p := range list {
		out[i] = Share[T]{Item: lookup(p.id), Percent: p.percent}
	}
	return out
}
