package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// PartitionFilter restricts a query to a set of partitions.
// The zero value includes every partition; it never means "include none".
type PartitionFilter struct {
	ids []uint8
}

// NewPartitionFilter builds a filter from ids. Duplicates are dropped.
func NewPartitionFilter(ids ...uint8) PartitionFilter {
	if len(ids) == 0 {
		return PartitionFilter{}
	}
	s := slices.Clone(ids)
	slices.Sort(s)
	return PartitionFilter{ids: slices.Compact(s)}
}

// ParsePartitionFilter parses a comma separated id list such as "25,26".
// Blank input yields the unrestricted filter.
func ParsePartitionFilter(raw string) (PartitionFilter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PartitionFilter{}, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint8, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return PartitionFilter{}, fmt.Errorf("partition %q: %w", p, err)
		}
		ids = append(ids, uint8(v))
	}
	return NewPartitionFilter(ids...), nil
}

// All reports whether the filter is unrestricted.
func (f PartitionFilter) All() bool { return len(f.ids) == 0 }

// Includes reports whether rows of partition p pass the filter.
func (f PartitionFilter) Includes(p uint8) bool {
	if len(f.ids) == 0 {
		return true
	}
	_, ok := slices.BinarySearch(f.ids, p)
	return ok
}

// IDs returns the sorted partition ids (nil when unrestricted).
func (f PartitionFilter) IDs() []uint8 { return slices.Clone(f.ids) }

// String renders the canonical form, e.g. "3,7". Unrestricted is "".
func (f PartitionFilter) String() string {
	var b strings.Builder
	for i, id := range f.ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	return b.String()
}

// Partitions returns the distinct partition ids present in the table, ascending.
func (t *MasterTable) Partitions() []uint8 {
	var seen [256]bool
	for i := range t.Rows {
		seen[t.Rows[i].PartitionID] = true
	}
	out := make([]uint8, 0, 32)
	for id, ok := range seen {
		if ok {
			out = append(out, uint8(id))
		}
	}
	return out
}
