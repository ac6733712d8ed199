// Package search finds players by account name.
package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/okian/raidstats/internal/domain/model"
)

// MinQueryLength is the fewest runes a query needs before it is matched.
const MinQueryLength = 3

// Normalize trims the query, drops the account "@" marker and case folds it.
func Normalize(query string) string {
	q := strings.TrimSpace(query)
	q = strings.Trim(q, "@")
	return cases.Fold().String(q)
}

type match struct {
	player   model.Player
	distance int
}

// Players returns up to limit players whose name contains query, closest
// names first. Queries shorter than MinQueryLength match nothing.
func Players(t *model.MasterTable, query string, limit int) []model.Player {
	q := Normalize(query)
	if utf8.RuneCountInString(q) < MinQueryLength || limit <= 0 {
		return []model.Player{}
	}

	// Casers keep state between calls and must not be shared across goroutines.
	folder := cases.Fold()
	var found []match
	for _, p := range t.Players {
		if p.Name == "" {
			continue
		}
		name := folder.String(p.Name)
		if !strings.Contains(name, q) {
			continue
		}
		found = append(found, match{player: p, distance: levenshtein.ComputeDistance(name, q)})
	}
	slices.SortFunc(found, func(a, b match) int {
		if c := cmp.Compare(a.distance, b.distance); c != 0 {
			return c
		}
		return cmp.Compare(a.player.ID, b.player.ID)
	})

	out := make([]model.Player, 0, min(limit, len(found)))
	for _, m := range found[:min(limit, len(found))] {
		out = append(out, m.player)
	}
	return out
}
