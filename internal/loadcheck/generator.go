package loadcheck

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/raidstats/internal/adapters/repository"
	"github.com/okian/raidstats/internal/domain/ingest"
	"github.com/okian/raidstats/internal/domain/model"
	"github.com/okian/raidstats/pkg/logger"
)

// Generation ranges.
const (
	bossesPerPartition = 6
	rankingsPerBoss    = 25
	minTalents         = 8
	maxTalents         = 12
	gearSlots          = 12
	// unsetGearChance is the 1-in-n chance that a slot holds gear with no set.
	unsetGearChance = 6
	// gearBase offsets raw gear ids from set ids.
	gearBase = 100000
)

var talents = []string{
	"ability_sorcerer_crystal_fragments.png",
	"ability_sorcerer_daedric_prey.png",
	"ability_nightblade_merciless_resolve.png",
	"ability_nightblade_relentless_focus.png",
	"ability_dragonknight_molten_whip.png",
	"ability_templar_radiant_glory.png",
	"ability_warden_fetcher_infection.png",
	"ability_necromancer_skeletal_arcanist.png",
	"ability_arcanist_fatecarver.png",
	"ability_weapon_barrage.png",
	"ability_mage_guild_degeneration.png",
	"ability_undaunted_inner_beast.png",
	"ability_psijic_mend_wounds.png",
	"ability_fighters_guild_camouflaged_hunter.png",
	"ability_assault_war_horn.png",
	"ability_support_barrier.png",
}

// baseSets each get a Perfected variant with the next id.
var baseSets = []string{
	"Kinras's Wrath",
	"Relequen",
	"Slivers of the Null Arca",
	"Ansuul's Torment",
	"Pillar of Nirn",
	"Whorl of the Depths",
	"Sul-Xan's Torment",
	"Tzogvin's Warband",
}

func setCatalogue() []model.ItemSet {
	sets := make([]model.ItemSet, 0, 2*len(baseSets)+1)
	for i, name := range baseSets {
		id := uint16(10 * (i + 1))
		sets = append(sets,
			model.ItemSet{ID: id, Name: name},
			model.ItemSet{ID: id + 1, Name: "Perfected " + name},
		)
	}
	return append(sets, model.ItemSet{ID: 500, Name: "Mother's Sorrow"})
}

// Generate builds a synthetic Master Table. Partitions are numbered from 1
// and partition p holds roughly p*BaseRows rows, so normalisation has work
// to do.
func Generate(ctx context.Context, cfg *Config) (*model.MasterTable, error) {
	if cfg.Players <= 0 || cfg.Partitions <= 0 || cfg.Partitions > 255 || cfg.BaseRows <= 0 {
		return nil, fmt.Errorf("%w: players, partitions (1..255) and base rows must be positive", ErrInvalidConfig)
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	sets := setCatalogue()
	gear := make(map[uint32]uint16, len(sets))
	for _, s := range sets {
		gear[gearBase+uint32(s.ID)] = s.ID
	}
	accounts := make([]string, cfg.Players)
	for i := range accounts {
		accounts[i] = fmt.Sprintf("@raider%04d", i+1)
	}

	b := ingest.NewBuilder(ingest.WithSets(sets), ingest.WithGearSets(gear))
	for p := 1; p <= cfg.Partitions; p++ {
		rows := p * cfg.BaseRows
		for i := 0; i < rows; i++ {
			if i%1000 == 0 && ctx.Err() != nil {
				return nil, ctx.Err()
			}
			boss := uint32(i % bossesPerPartition)
			e := ingest.Entry{
				Boss:      boss,
				Partition: uint32(p),
				RowID:     fmt.Sprintf("%d-%d-%d", p, boss, i%rankingsPerBoss+1),
				Account:   accounts[zipf(rng, len(accounts))],
				DPS:       float64(60000 + rng.IntN(80000)),
				Talents:   pickTalents(rng),
				GearIDs:   pickGear(rng, sets),
			}
			if err := b.Add(e, i%2 == 0); err != nil {
				return nil, fmt.Errorf("partition %d row %d: %w", p, i, err)
			}
		}
	}
	t := b.Build()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// zipf favours low indices so some accounts appear often enough for the
// average rank board.
func zipf(rng *rand.Rand, n int) int {
	a, b := rng.IntN(n), rng.IntN(n)
	return min(a, b)
}

// pickTalents returns a bar that may repeat a skill.
func pickTalents(rng *rand.Rand) []string {
	n := minTalents + rng.IntN(maxTalents-minTalents+1)
	out := make([]string, n)
	for i := range out {
		out[i] = talents[rng.IntN(len(talents))]
	}
	return out
}

// pickGear wears two or three sets, mixing base and Perfected pieces.
func pickGear(rng *rand.Rand, sets []model.ItemSet) []uint32 {
	out := make([]uint32, 0, gearSlots)
	worn := 2 + rng.IntN(2)
	for len(out) < gearSlots {
		if rng.IntN(unsetGearChance) == 0 {
			out = append(out, 1)
			continue
		}
		s := sets[rng.IntN(len(sets))]
		for j := 0; j < gearSlots/worn && len(out) < gearSlots; j++ {
			out = append(out, gearBase+uint32(s.ID))
		}
	}
	return out
}

// GenerateFile generates a table and writes it to cfg.Output.
// It returns the run id recorded in the log.
func GenerateFile(ctx context.Context, cfg *Config) (string, error) {
	runID := uuid.NewString()
	log := logger.Get().Named("loadcheck").With(logger.String("run_id", runID))

	t, err := Generate(ctx, cfg)
	if err != nil {
		return runID, fmt.Errorf("generate: %w", err)
	}
	if err := repository.WriteFile(cfg.Output, t); err != nil {
		return runID, fmt.Errorf("write snapshot: %w", err)
	}
	log.Info(ctx, "snapshot generated",
		logger.String("output", cfg.Output),
		logger.Int("rows", len(t.Rows)),
		logger.Int("players", len(t.Players)),
		logger.Int("skills", len(t.Skills)),
		logger.Int("partitions", cfg.Partitions),
	)
	return runID, nil
}
