// Package query names the engine's queries and gives each a canonical key.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/raidstats/internal/domain/model"
)

// ErrInvalidQuery reports a key that does not describe a runnable query.
var ErrInvalidQuery = errors.New("invalid query")

// Kind identifies an engine query.
type Kind string

// Query kinds.
const (
	TopSkills           Kind = "top_skills"
	TopSkillsNormalised Kind = "top_skills_normalised"
	TopSets             Kind = "top_sets"
	TopSetsNormalised   Kind = "top_sets_normalised"
	SkillPrevalence     Kind = "skill_prevalence"
	SetPrevalence       Kind = "set_prevalence"
	AverageRank         Kind = "average_rank"
	TopK                Kind = "top_k"
)

// Kinds lists every query kind.
func Kinds() []Kind {
	return []Kind{
		TopSkills, TopSkillsNormalised, TopSets, TopSetsNormalised,
		SkillPrevalence, SetPrevalence, AverageRank, TopK,
	}
}

// Key fully determines a query result for a given table.
type Key struct {
	Kind   Kind                  `validate:"required,oneof=top_skills top_skills_normalised top_sets top_sets_normalised skill_prevalence set_prevalence average_rank top_k"`
	Filter model.PartitionFilter `validate:"-"`
	N      int                   `validate:"gte=0"`
	K      uint8                 `validate:"required_if=Kind top_k"`
}

var validate = validator.New()

// Validate reports whether the key can be executed.
func (k Key) Validate() error {
	if err := validate.Struct(k); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidQuery, k, err)
	}
	return nil
}

// String renders the canonical cache form "kind|p1,p2|n|k". K is rendered
// only for top_k so that unrelated keys do not fragment on it.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(string(k.Kind))
	b.WriteByte('|')
	b.WriteString(k.Filter.String())
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(k.N))
	b.WriteByte('|')
	if k.Kind == TopK {
		b.WriteString(strconv.Itoa(int(k.K)))
	}
	return b.String()
}

// Normalised reports whether the kind weights partitions.
func (k Kind) Normalised() bool {
	return k == TopSkillsNormalised || k == TopSetsNormalised
}
