// Package canon folds gear-set variants that share a base name onto one id.
package canon

import (
	"slices"
	"strings"

	"github.com/okian/raidstats/internal/domain/model"
)

// PerfectedPrefix marks the higher-tier variant of a base set.
const PerfectedPrefix = "Perfected "

// Resolver maps set ids to their canonical id. It is immutable once built.
type Resolver struct {
	canonical map[uint16]uint16
	members   map[uint16][]uint16
}

// BaseName strips the variant prefix from a set name.
func BaseName(name string) string {
	return strings.TrimPrefix(name, PerfectedPrefix)
}

// New groups sets by base name. The canonical id of a group is its
// unprefixed member when there is one, otherwise the lowest id.
func New(sets []model.ItemSet) *Resolver {
	ordered := slices.Clone(sets)
	slices.SortFunc(ordered, func(a, b model.ItemSet) int { return int(a.ID) - int(b.ID) })

	type group struct {
		canonical uint16
		base      bool
		ids       []uint16
	}
	groups := make(map[string]*group, len(ordered))
	names := make([]string, 0, len(ordered))
	for _, s := range ordered {
		if s.ID == 0 {
			continue
		}
		key := BaseName(s.Name)
		isBase := !strings.HasPrefix(s.Name, PerfectedPrefix)
		g, ok := groups[key]
		if !ok {
			groups[key] = &group{canonical: s.ID, base: isBase, ids: []uint16{s.ID}}
			names = append(names, key)
			continue
		}
		g.ids = append(g.ids, s.ID)
		if isBase && !g.base {
			g.canonical = s.ID
			g.base = true
		}
	}

	r := &Resolver{
		canonical: make(map[uint16]uint16, len(ordered)),
		members:   make(map[uint16][]uint16, len(groups)),
	}
	for _, key := range names {
		g := groups[key]
		for _, id := range g.ids {
			r.canonical[id] = g.canonical
		}
		r.members[g.canonical] = g.ids
	}
	return r
}

// Resolve returns the canonical id of id. Zero and unknown ids map to themselves.
func (r *Resolver) Resolve(id uint16) uint16 {
	if c, ok := r.canonical[id]; ok {
		return c
	}
	return id
}

// Members lists the ids folded onto canonical, ascending.
// A non-canonical or unknown id yields nil.
func (r *Resolver) Members(canonical uint16) []uint16 {
	return slices.Clone(r.members[canonical])
}

// Len returns the number of set ids the resolver knows.
func (r *Resolver) Len() int { return len(r.canonical) }

// Groups returns the number of canonical sets.
func (r *Resolver) Groups() int { return len(r.members) }

// RowSets appends the distinct canonical set ids of a row to dst, dropping
// zero pieces, and returns the extended slice in ascending order.
func (r *Resolver) RowSets(dst []uint16, sets []uint16) []uint16 {
	start := len(dst)
	for _, s := range sets {
		if s == 0 {
			continue
		}
		dst = append(dst, r.Resolve(s))
	}
	tail := dst[start:]
	slices.Sort(tail)
	tail = slices.Compact(tail)
	return dst[:start+len(tail)]
}
