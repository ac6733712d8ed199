package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/raidstats/internal/domain/frequency"
	"github.com/okian/raidstats/internal/domain/model"
	"github.com/okian/raidstats/internal/domain/prevalence"
	"github.com/okian/raidstats/internal/domain/ranking"
	types "github.com/okian/raidstats/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSkillCounts(t *testing.T) {
	Convey("Given a frequency result with an Other bucket", t, func() {
		class := "Templar"
		in := []frequency.Count[model.Skill]{
			{Item: model.Skill{ID: 3, Name: "templar_jabs", Class: &class}, Count: 12},
			{Item: model.OtherSkill(), Count: 4},
		}

		Convey("When converting to the wire shape", func() {
			out := types.SkillCounts(in)

			Convey("Then labels and colours are filled in", func() {
				So(out[0].DisplayName, ShouldEqual, "templar_jabs")
				So(out[0].Colour, ShouldEqual, "#FFD700")
				So(out[1].ID, ShouldEqual, model.OtherID)
				So(out[1].DisplayName, ShouldEqual, "Other")
			})

			Convey("Then the JSON uses snake case keys", func() {
				raw, err := json.Marshal(out[0])
				So(err, ShouldBeNil)
				So(string(raw), ShouldEqual, `{"id":3,"name":"templar_jabs","display_name":"templar_jabs","colour":"#FFD700","count":12}`)
			})
		})
	})
}

func TestShares(t *testing.T) {
	Convey("Given prevalence results", t, func() {
		in := []prevalence.Share[model.ItemSet]{
			{Item: model.ItemSet{ID: 1, Name: "a"}, Percent: 90},
			{Item: model.ItemSet{ID: 2, Name: "b"}, Percent: 40},
		}
		So(types.SetShares(in, 1), ShouldResemble, []types.Share{{ID: 1, Name: "a", Percentage: 90}})
		So(types.SetShares(in, 10), ShouldHaveLength, 2)
		So(types.SetShares(in, -1), ShouldBeEmpty)
		So(types.SkillShares(nil, 5), ShouldBeEmpty)
	})
}

func TestLeaderboards(t *testing.T) {
	Convey("Given ranking results", t, func() {
		avg := types.Averages([]ranking.Average{
			{Player: model.Player{ID: 4, Name: "hodor"}, Average: 2.5, Rows: 22},
		})
		So(avg[0].Position, ShouldEqual, 1)
		So(avg[0].Player, ShouldEqual, "hodor")

		top := types.TopKs([]ranking.TopK{
			{Player: model.Player{ID: 1, Name: "a"}, Count: 5},
			{Player: model.Player{ID: 2, Name: "b", Text: "|cFF0000Bee|r"}, Count: 3},
		})
		So(top[1].Position, ShouldEqual, 2)
		So(top[1].Display, ShouldEqual, "Bee")
		So(top[0].Display, ShouldEqual, "a")
	})
}

func TestPlayerRows(t *testing.T) {
	Convey("Given rows from both boards", t, func() {
		out := types.PlayerRows([]model.Row{
			{BossID: 4, PartitionID: 1, Ranking: 2, DPS: 100, Boss: true},
			{BossID: 99, PartitionID: 99, Ranking: 9},
		})
		So(out[0], ShouldResemble, types.PlayerRow{
			Boss: "The Mage", Partition: "Elsweyr (Update 22)", Ranking: 2, DPS: 100, Category: "boss",
		})
		So(out[1].Boss, ShouldEqual, "Unknown Boss")
		So(out[1].Category, ShouldEqual, "total")
	})

	Convey("Given partition ids", t, func() {
		out := types.Partitions([]uint8{26})
		So(out[0].Name, ShouldEqual, "Feast of Shadows (Update 47)")
		So(out[0].Update, ShouldEqual, "47")
	})
}
