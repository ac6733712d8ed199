package model

import (
	"errors"
	"fmt"
)

// ErrInvalidTable reports a table that breaks its reference invariants.
var ErrInvalidTable = errors.New("invalid master table")

// Validate checks that ids are dense where required and that every row
// references existing players, skills and sets.
func (t *MasterTable) Validate() error {
	for i, p := range t.Players {
		if p.ID != uint32(i+1) {
			return fmt.Errorf("%w: player at index %d has id %d", ErrInvalidTable, i, p.ID)
		}
	}
	for i, s := range t.Skills {
		if s.ID != uint16(i+1) {
			return fmt.Errorf("%w: skill at index %d has id %d", ErrInvalidTable, i, s.ID)
		}
	}
	sets := make(map[uint16]struct{}, len(t.Sets))
	for _, s := range t.Sets {
		if s.ID == 0 {
			return fmt.Errorf("%w: set %q uses reserved id 0", ErrInvalidTable, s.Name)
		}
		if _, dup := sets[s.ID]; dup {
			return fmt.Errorf("%w: duplicate set id %d", ErrInvalidTable, s.ID)
		}
		sets[s.ID] = struct{}{}
	}
	for i := range t.Rows {
		r := &t.Rows[i]
		if r.PlayerID == 0 || int(r.PlayerID) > len(t.Players) {
			return fmt.Errorf("%w: row %d references player %d", ErrInvalidTable, i, r.PlayerID)
		}
		for _, s := range r.Skills {
			if s == 0 || int(s) > len(t.Skills) {
				return fmt.Errorf("%w: row %d references skill %d", ErrInvalidTable, i, s)
			}
		}
		for _, s := range r.Sets {
			if s == 0 {
				continue
			}
			if _, ok := sets[s]; !ok {
				return fmt.Errorf("%w: row %d references set %d", ErrInvalidTable, i, s)
			}
		}
	}
	return nil
}
