package frequency

import (
	"testing"

	"github.com/okian/raidstats/internal/domain/canon"
	"github.com/okian/raidstats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture() *model.MasterTable {
	skills := make([]model.Skill, 8)
	for i := range skills {
		skills[i] = model.Skill{ID: uint16(i + 1), Name: "skill"}
	}
	return (&model.MasterTable{
		Rows: []model.Row{
			{PartitionID: 1, PlayerID: 1, Skills: []uint16{5, 5, 7}, Sets: []uint16{10, 10, 12}},
			{PartitionID: 1, PlayerID: 1, Skills: []uint16{5, 1}, Sets: []uint16{11, 0}},
			{PartitionID: 2, PlayerID: 1, Skills: []uint16{1, 2, 3}, Sets: []uint16{12}},
			{PartitionID: 2, PlayerID: 1, Skills: []uint16{4}, Sets: []uint16{0, 0}},
		},
		Players: []model.Player{{ID: 1, Name: "p"}},
		Skills:  skills,
		Sets: []model.ItemSet{
			{ID: 10, Name: "Arms of Relequen"},
			{ID: 11, Name: "Perfected Arms of Relequen"},
			{ID: 12, Name: "Kinras's Wrath"},
		},
	}).Index()
}

func ids[T any](in []Count[T], id func(T) uint16) []uint16 {
	out := make([]uint16, len(in))
	for i, c := range in {
		out[i] = id(c.Item)
	}
	return out
}

func skillID(s model.Skill) uint16 { return s.ID }
func setID(s model.ItemSet) uint16 { return s.ID }

func sum[T any](in []Count[T]) uint64 {
	var s uint64
	for _, c := range in {
		s += uint64(c.Count)
	}
	return s
}

func TestTopSkills(t *testing.T) {
	Convey("Given a table with repeated skills", t, func() {
		tbl := fixture()
		all := model.NewPartitionFilter()

		Convey("When ranking every skill", func() {
			got := TopSkills(tbl, all, 100)

			Convey("Then repeats inside a row count twice", func() {
				So(got[0].Item.ID, ShouldEqual, 5)
				So(got[0].Count, ShouldEqual, 3)
			})

			Convey("Then ties are ordered by ascending id", func() {
				So(ids(got, skillID), ShouldResemble, []uint16{5, 1, 2, 3, 4, 7})
			})

			Convey("Then no Other entry is produced", func() {
				for _, c := range got {
					So(c.Item.ID, ShouldNotEqual, model.OtherID)
				}
			})
		})

		Convey("When truncating to two entries", func() {
			got := TopSkills(tbl, all, 2)

			Convey("Then the remainder is folded into Other", func() {
				So(len(got), ShouldEqual, 3)
				So(got[2].Item.ID, ShouldEqual, model.OtherID)
				So(got[2].Item.Label(), ShouldEqual, "Other")
				So(got[2].Count, ShouldEqual, 4)
			})

			Convey("Then counts are conserved", func() {
				So(sum(got), ShouldEqual, Total(tbl, all))
				So(Total(tbl, all), ShouldEqual, 9)
			})
		})

		Convey("When n is zero", func() {
			got := TopSkills(tbl, all, 0)
			So(len(got), ShouldEqual, 1)
			So(got[0].Item.ID, ShouldEqual, model.OtherID)
			So(got[0].Count, ShouldEqual, 9)
		})

		Convey("When n equals the number of distinct skills", func() {
			got := TopSkills(tbl, all, 6)
			So(len(got), ShouldEqual, 6)
		})

		Convey("When the filter matches no rows", func() {
			got := TopSkills(tbl, model.NewPartitionFilter(40), 5)
			So(got, ShouldBeEmpty)
			So(TopSkillsNormalised(tbl, model.NewPartitionFilter(40), 5), ShouldBeEmpty)
		})

		Convey("When a row references a skill missing from the table", func() {
			tbl.Rows = append(tbl.Rows, model.Row{PartitionID: 3, Skills: []uint16{77}})
			got := TopSkills(tbl, model.NewPartitionFilter(3), 5)
			So(got[0].Item.Name, ShouldEqual, "Unknown (#77)")
		})
	})
}

func TestTopSets(t *testing.T) {
	Convey("Given a table with duplicated and perfected sets", t, func() {
		tbl := fixture()
		res := canon.New(tbl.Sets)

		Convey("When ranking sets in the first partition", func() {
			got := TopSets(tbl, res, model.NewPartitionFilter(1), 10)

			Convey("Then each set counts once per row after canonicalisation", func() {
				So(ids(got, setID), ShouldResemble, []uint16{10, 12})
				So(got[0].Count, ShouldEqual, 2)
				So(got[1].Count, ShouldEqual, 1)
			})
		})

		Convey("When the only set on a row is an unresolved piece", func() {
			got := TopSets(tbl, res, model.NewPartitionFilter(2), 10)
			So(ids(got, setID), ShouldResemble, []uint16{12})
			So(got[0].Count, ShouldEqual, 1)
		})

		Convey("When truncating sets", func() {
			got := TopSets(tbl, res, model.NewPartitionFilter(), 1)
			So(len(got), ShouldEqual, 2)
			So(got[0].Item.ID, ShouldEqual, 10)
			So(got[1].Item.Name, ShouldEqual, model.OtherName)
			So(got[1].Count, ShouldEqual, 2)
		})
	})
}

func TestNormalised(t *testing.T) {
	Convey("Given partitions of uneven size", t, func() {
		skills := []model.Skill{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}}
		tbl := (&model.MasterTable{
			Rows: []model.Row{
				{PartitionID: 1, Skills: []uint16{1}},
				{PartitionID: 1, Skills: []uint16{1, 3}},
				{PartitionID: 2, Skills: []uint16{1}},
				{PartitionID: 2, Skills: []uint16{1}},
				{PartitionID: 2, Skills: []uint16{1, 2}},
				{PartitionID: 2, Skills: []uint16{1}},
			},
			Skills: skills,
		}).Index()

		Convey("When normalising across both partitions", func() {
			got := TopSkillsNormalised(tbl, model.NewPartitionFilter(), 10)

			Convey("Then the larger partition is scaled to the smaller one", func() {
				So(ids(got, skillID), ShouldResemble, []uint16{1, 2, 3})
				So(got[0].Count, ShouldEqual, 4)
			})

			Convey("Then half counts round away from zero", func() {
				So(got[1].Count, ShouldEqual, 1)
				So(got[2].Count, ShouldEqual, 1)
			})
		})

		Convey("When a single partition is selected", func() {
			for _, p := range []uint8{1, 2} {
				f := model.NewPartitionFilter(p)
				So(TopSkillsNormalised(tbl, f, 2), ShouldResemble, TopSkills(tbl, f, 2))
			}
		})

		Convey("When normalising sets of a single partition", func() {
			st := fixture()
			res := canon.New(st.Sets)
			f := model.NewPartitionFilter(1)
			So(TopSetsNormalised(st, res, f, 1), ShouldResemble, TopSets(st, res, f, 1))
		})
	})
}
