// Package model holds the immutable Master Table the query engine reads.
package model

import (
	"fmt"
)

// OtherID is the id given to the synthetic entry that sums everything
// beyond a top-N cut.
const OtherID = 999

// OtherName is the display name of the synthetic remainder entry.
const OtherName = "Other"

// Row is one leaderboard placement.
//
// Ranking is 1-based within its (partition, boss, Boss flag) leaderboard.
// Boss separates the single-target board from the overall board of the same
// encounter; a player can own one row on each and both count.
// Skills may repeat. Sets may hold 0 for an unrecognized piece.
type Row struct {
	BossID      uint8    `json:"boss_id"`
	PartitionID uint8    `json:"partition_id"`
	Ranking     uint8    `json:"ranking"`
	PlayerID    uint32   `json:"player_id"`
	DPS         uint32   `json:"dps"`
	Boss        bool     `json:"boss"`
	Skills      []uint16 `json:"skills"`
	Sets        []uint16 `json:"armour"`
}

// Player is a leaderboard account.
type Player struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
	// Text is the markup-annotated display name; empty means use Name.
	Text string `json:"text"`
}

// Display returns the markup display text when present, otherwise the name.
func (p Player) Display() string {
	if p.Text != "" {
		return p.Text
	}
	return p.Name
}

// Skill is an ability slotted on a bar.
type Skill struct {
	ID          uint16  `json:"id"`
	Name        string  `json:"name"`
	Class       *string `json:"class"`
	Tree        *string `json:"tree"`
	DisplayName *string `json:"display_name"`
}

// Label returns the display name when known, otherwise the raw name.
func (s Skill) Label() string {
	if s.DisplayName != nil && *s.DisplayName != "" {
		return *s.DisplayName
	}
	return s.Name
}

// ItemSet is a gear set. Names may carry the "Perfected " prefix.
type ItemSet struct {
	ID   uint16 `json:"id"`
	Name string `json:"name"`
}

// MasterTable is the loaded snapshot. It must not be mutated after
// construction; every query reads it concurrently without locks.
//
// Players[i].ID == i+1 and Skills[i].ID == i+1. Sets are not required to be
// dense, so they are looked up through an index built by Index.
type MasterTable struct {
	Rows    []Row     `json:"rows"`
	Players []Player  `json:"players"`
	Skills  []Skill   `json:"skills"`
	Sets    []ItemSet `json:"sets"`

	setIndex map[uint16]int
}

// Indexed returns a shallow copy of t with its own lookup indexes. The row,
// player, skill and set slices are shared, t itself is left untouched.
func (t *MasterTable) Indexed() *MasterTable {
	c := *t
	return c.Index()
}

// Index builds lookup indexes. It is called once by whoever constructs the
// table, before the table is shared.
func (t *MasterTable) Index() *MasterTable {
	t.setIndex = make(map[uint16]int, len(t.Sets))
	for i, s := range t.Sets {
		t.setIndex[s.ID] = i
	}
	return t
}

// PlayerByID returns the player or a placeholder when the id is unknown.
func (t *MasterTable) PlayerByID(id uint32) (Player, bool) {
	if id >= 1 && int(id) <= len(t.Players) && t.Players[id-1].ID == id {
		return t.Players[id-1], true
	}
	for _, p := range t.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{ID: id}, false
}

// SkillByID returns the skill or an "Unknown (#id)" placeholder.
func (t *MasterTable) SkillByID(id uint16) Skill {
	if id >= 1 && int(id) <= len(t.Skills) && t.Skills[id-1].ID == id {
		return t.Skills[id-1]
	}
	for _, s := range t.Skills {
		if s.ID == id {
			return s
		}
	}
	return Skill{ID: id, Name: UnknownName(uint32(id))}
}

// SetByID returns the set or an "Unknown (#id)" placeholder.
func (t *MasterTable) SetByID(id uint16) ItemSet {
	if t.setIndex != nil {
		if i, ok := t.setIndex[id]; ok {
			return t.Sets[i]
		}
		return ItemSet{ID: id, Name: UnknownName(uint32(id))}
	}
	for _, s := range t.Sets {
		if s.ID == id {
			return s
		}
	}
	return ItemSet{ID: id, Name: UnknownName(uint32(id))}
}

// UnknownName is the synthetic name of an entity missing from the table.
func UnknownName(id uint32) string {
	return fmt.Sprintf("Unknown (#%d)", id)
}

// OtherSkill is the remainder bucket for skill aggregations.
func OtherSkill() Skill {
	name := OtherName
	return Skill{ID: OtherID, Name: OtherName, DisplayName: &name}
}

// OtherSet is the remainder bucket for set aggregations.
func OtherSet() ItemSet {
	return ItemSet{ID: OtherID, Name: OtherName}
}
