// Package ingest turns parsed leaderboard entries into a Master Table.
package ingest

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/raidstats/internal/domain/intern"
	"github.com/okian/raidstats/internal/domain/model"
)

// Entry is one parsed leaderboard line.
type Entry struct {
	Boss      uint32
	Partition uint32
	// RowID ends with "-<ranking>".
	RowID   string
	Account string
	DPS     float64
	// Talents are icon file names such as "ability_sorcerer_crystal_fragments.png".
	Talents []string
	GearIDs []uint32
}

// SkillMeta describes a skill icon.
type SkillMeta struct {
	Name  string
	Class string
	Tree  string
}

// Builder accumulates entries into a table. It is not safe for concurrent use.
type Builder struct {
	skills   *intern.Table[string]
	players  *intern.Table[string]
	meta     map[string]SkillMeta
	gearSets map[uint32]uint16
	sets     []model.ItemSet
	text     map[string]string
	rows     []model.Row
}

// Option configures a Builder.
type Option func(*Builder)

// WithSkillMeta attaches display metadata keyed by skill name with the
// "ability_" prefix and ".png" suffix removed.
func WithSkillMeta(meta map[string]SkillMeta) Option {
	return func(b *Builder) {
		for k, v := range meta {
			b.meta[SkillName(k)] = v
		}
	}
}

// WithGearSets maps raw gear item ids to set ids. Unmapped gear becomes 0.
func WithGearSets(gear map[uint32]uint16) Option {
	return func(b *Builder) {
		for k, v := range gear {
			b.gearSets[k] = v
		}
	}
}

// WithSets sets the set catalogue copied into the table.
func WithSets(sets []model.ItemSet) Option {
	return func(b *Builder) {
		b.sets = slices.Clone(sets)
	}
}

// WithDisplayText attaches markup display names keyed by account.
func WithDisplayText(text map[string]string) Option {
	return func(b *Builder) {
		for k, v := range text {
			b.text[AccountName(k)] = v
		}
	}
}

// maxSkillID is the largest skill id a row can carry.
const maxSkillID = 0xFFFF

// NewBuilder returns an empty builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		skills:   intern.New[string](256),
		players:  intern.New[string](1024),
		meta:     make(map[string]SkillMeta),
		gearSets: make(map[uint32]uint16),
		text:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SkillName strips the icon file decoration from a talent.
func SkillName(talent string) string {
	talent = strings.TrimSuffix(talent, ".png")
	return strings.TrimPrefix(talent, "ability_")
}

// AccountName strips the leading "@" of an account handle.
func AccountName(account string) string {
	return strings.TrimPrefix(account, "@")
}

// Ranking extracts the ranking suffix of a row id such as "26-12-7".
func Ranking(rowID string) (uint8, error) {
	i := strings.LastIndexByte(rowID, '-')
	if i < 0 {
		return 0, fmt.Errorf("%w: row id %q has no ranking suffix", ErrInvalidEntry, rowID)
	}
	v, err := strconv.ParseUint(rowID[i+1:], 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: ranking of row id %q: %v", ErrInvalidEntry, rowID, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("%w: row id %q has ranking 0", ErrInvalidEntry, rowID)
	}
	return uint8(v), nil
}

// Add appends one entry. boss selects the single-target leaderboard.
func (b *Builder) Add(e Entry, boss bool) error {
	ranking, err := Ranking(e.RowID)
	if err != nil {
		return err
	}
	if e.Boss > 255 || e.Partition > 255 {
		return fmt.Errorf("%w: boss %d or partition %d out of range", ErrInvalidEntry, e.Boss, e.Partition)
	}
	if e.DPS < 0 {
		return fmt.Errorf("%w: negative dps %v", ErrInvalidEntry, e.DPS)
	}
	account := AccountName(e.Account)
	if account == "" {
		return fmt.Errorf("%w: row %q has no account", ErrInvalidEntry, e.RowID)
	}

	fresh := make(map[string]struct{})
	for _, talent := range e.Talents {
		name := SkillName(talent)
		if _, ok := b.skills.Lookup(name); !ok {
			fresh[name] = struct{}{}
		}
	}
	if b.skills.Len()+len(fresh) > maxSkillID {
		return fmt.Errorf("%w: skill id space exhausted", ErrInvalidEntry)
	}

	skills := make([]uint16, 0, len(e.Talents))
	for _, talent := range e.Talents {
		id, _ := b.skills.Intern(SkillName(talent))
		skills = append(skills, uint16(id))
	}
	sets := make([]uint16, 0, len(e.GearIDs))
	for _, g := range e.GearIDs {
		sets = append(sets, b.gearSets[g])
	}
	player, _ := b.players.Intern(account)

	b.rows = append(b.rows, model.Row{
		BossID:      uint8(e.Boss),
		PartitionID: uint8(e.Partition),
		Ranking:     ranking,
		PlayerID:    player,
		DPS:         uint32(e.DPS),
		Boss:        boss,
		Skills:      skills,
		Sets:        sets,
	})
	return nil
}

// AddAll appends entries in order and stops at the first invalid one.
func (b *Builder) AddAll(entries []Entry, boss bool) error {
	for i, e := range entries {
		if err := b.Add(e, boss); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

// Len returns the number of rows added so far.
func (b *Builder) Len() int { return len(b.rows) }

// Build returns the table. The builder must not be used afterwards.
func (b *Builder) Build() *model.MasterTable {
	skills := make([]model.Skill, 0, b.skills.Len())
	for i, name := range b.skills.Keys() {
		s := model.Skill{ID: uint16(i + 1), Name: name}
		if m, ok := b.meta[name]; ok {
			class, tree, display := m.Class, m.Tree, m.Name
			s.Class, s.Tree, s.DisplayName = &class, &tree, &display
		}
		skills = append(skills, s)
	}
	players := make([]model.Player, 0, b.players.Len())
	for i, name := range b.players.Keys() {
		players = append(players, model.Player{ID: uint32(i + 1), Name: name, Text: b.text[name]})
	}
	t := &model.MasterTable{
		Rows:    b.rows,
		Players: players,
		Skills:  skills,
		Sets:    b.sets,
	}
	b.rows = nil
	return t.Index()
}
