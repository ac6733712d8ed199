// Package types contains the JSON result shapes returned by the service.
package types

import (
	"github.com/okian/raidstats/internal/domain/catalog"
	"github.com/okian/raidstats/internal/domain/frequency"
	"github.com/okian/raidstats/internal/domain/model"
	"github.com/okian/raidstats/internal/domain/prevalence"
	"github.com/okian/raidstats/internal/domain/ranking"
)

// SkillCount is one bar of a skill usage chart.
type SkillCount struct {
	ID          uint16 `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Colour      string `json:"colour"`
	Count       uint32 `json:"count"`
}

// SetCount is one bar of a set usage chart.
type SetCount struct {
	ID     uint16 `json:"id"`
	Name   string `json:"name"`
	Colour string `json:"colour"`
	Count  uint32 `json:"count"`
}

// Share is one prevalence entry.
type Share struct {
	ID         uint16  `json:"id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// AverageEntry is a position on the average rank leaderboard.
type AverageEntry struct {
	Position int     `json:"position"`
	PlayerID uint32  `json:"player_id"`
	Player   string  `json:"player"`
	Average  float64 `json:"average"`
	Rows     uint32  `json:"rows"`
}

// TopKEntry is a position on the top-k leaderboard.
type TopKEntry struct {
	Position int    `json:"position"`
	PlayerID uint32 `json:"player_id"`
	Player   string `json:"player"`
	// Display is the player's display name with markup removed.
	Display string `json:"display"`
	Count   uint32 `json:"count"`
}

// PlayerMatch is a search hit.
type PlayerMatch struct {
	ID      uint32 `json:"id"`
	Name    string `json:"name"`
	Display string `json:"display"`
}

// PlayerRow is one placement on a player's profile.
type PlayerRow struct {
	Boss      string `json:"boss"`
	Partition string `json:"partition"`
	Ranking   uint8  `json:"ranking"`
	DPS       uint32 `json:"dps"`
	// Category is "boss" for single-target boards and "total" otherwise.
	Category string `json:"category"`
}

// Partition describes a content era present in the snapshot.
type Partition struct {
	ID     uint8  `json:"id"`
	Name   string `json:"name"`
	Update string `json:"update"`
}

// Reload reports the snapshot published by a reload.
type Reload struct {
	Generation uint64 `json:"generation"`
	Rows       int    `json:"rows"`
}

// SkillCounts converts a frequency result.
func SkillCounts(in []frequency.Count[model.Skill]) []SkillCount {
	out := make([]SkillCount, len(in))
	for i, c := range in {
		out[i] = SkillCount{
			ID:          c.Item.ID,
			Name:        c.Item.Name,
			DisplayName: c.Item.Label(),
			Colour:      catalog.SkillColour(c.Item),
			Count:       c.Count,
		}
	}
	return out
}

// SetCounts converts a frequency result.
func SetCounts(in []frequency.Count[model.ItemSet]) []SetCount {
	out := make([]SetCount, len(in))
	for i, c := range in {
		out[i] = SetCount{ID: c.Item.ID, Name: c.Item.Name, Colour: catalog.SetColour(c.Item), Count: c.Count}
	}
	return out
}

// SkillShares converts a prevalence result, keeping at most n entries.
func SkillShares(in []prevalence.Share[model.Skill], n int) []Share {
	in = in[:min(max(n, 0), len(in))]
	out := make([]Share, len(in))
	for i, s := range in {
		out[i] = Share{ID: s.Item.ID, Name: s.Item.Label(), Percentage: s.Percent}
	}
	return out
}

// SetShares converts a prevalence result, keeping at most n entries.
func SetShares(in []prevalence.Share[model.ItemSet], n int) []Share {
	in = in[:min(max(n, 0), len(in))]
	out := make([]Share, len(in))
	for i, s := range in {
		out[i] = Share{ID: s.Item.ID, Name: s.Item.Name, Percentage: s.Percent}
	}
	return out
}

// Averages converts an average rank result.
func Averages(in []ranking.Average) []AverageEntry {
	out := make([]AverageEntry, len(in))
	for i, a := range in {
		out[i] = AverageEntry{Position: i + 1, PlayerID: a.Player.ID, Player: a.Player.Name, Average: a.Average, Rows: a.Rows}
	}
	return out
}

// TopKs converts a top-k result.
func TopKs(in []ranking.TopK) []TopKEntry {
	out := make([]TopKEntry, len(in))
	for i, e := range in {
		out[i] = TopKEntry{
			Position: i + 1,
			PlayerID: e.Player.ID,
			Player:   e.Player.Name,
			Display:  model.StripMarkup(e.Player.Display()),
			Count:    e.Count,
		}
	}
	return out
}

// Matches converts search hits.
func Matches(in []model.Player) []PlayerMatch {
	out := make([]PlayerMatch, len(in))
	for i, p := range in {
		out[i] = PlayerMatch{ID: p.ID, Name: p.Name, Display: model.StripMarkup(p.Display())}
	}
	return out
}

// PlayerRows converts a player's rows.
func PlayerRows(in []model.Row) []PlayerRow {
	out := make([]PlayerRow, len(in))
	for i, r := range in {
		category := "total"
		if r.Boss {
			category = "boss"
		}
		out[i] = PlayerRow{
			Boss:      catalog.BossName(r.BossID),
			Partition: catalog.PartitionName(r.PartitionID),
			Ranking:   r.Ranking,
			DPS:       r.DPS,
			Category:  category,
		}
	}
	return out
}

// Partitions describes partition ids.
func Partitions(ids []uint8) []Partition {
	out := make([]Partition, len(ids))
	for i, id := range ids {
		p := catalog.Describe(id)
		out[i] = Partition{ID: p.ID, Name: p.Name, Update: p.Update}
	}
	return out
}
