package prevalence

import (
	"testing"

	"github.com/okian/raidstats/internal/domain/canon"
	"github.com/okian/raidstats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture() *model.MasterTable {
	return (&model.MasterTable{
		Rows: []model.Row{
			{PartitionID: 1, Skills: []uint16{1, 1, 2}, Sets: []uint16{10, 11}},
			{PartitionID: 1, Skills: []uint16{1}, Sets: []uint16{0, 0}},
			{PartitionID: 1, Skills: nil, Sets: []uint16{12}},
			{PartitionID: 2, Skills: []uint16{3}, Sets: []uint16{12, 12}},
		},
		Skills: []model.Skill{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}},
		Sets: []model.ItemSet{
			{ID: 10, Name: "Arms of Relequen"},
			{ID: 11, Name: "Perfected Arms of Relequen"},
			{ID: 12, Name: "Kinras's Wrath"},
		},
	}).Index()
}

func TestSkills(t *testing.T) {
	Convey("Given rows with repeated and missing skills", t, func() {
		tbl := fixture()

		Convey("When computing skill prevalence in partition 1", func() {
			got := Skills(tbl, model.NewPartitionFilter(1))

			Convey("Then rows without skills are left out of the denominator", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].Item.ID, ShouldEqual, 1)
				So(got[0].Percent, ShouldEqual, 100.0)
				So(got[1].Item.ID, ShouldEqual, 2)
				So(got[1].Percent, ShouldEqual, 50.0)
			})
		})

		Convey("When computing over every partition", func() {
			got := Skills(tbl, model.NewPartitionFilter())
			Convey("Then every percentage lies in [0, 100]", func() {
				for _, s := range got {
					So(s.Percent, ShouldBeBetweenOrEqual, 0.0, 100.0)
				}
			})
			Convey("Then ties are ordered by ascending id", func() {
				So(got[1].Item.ID, ShouldEqual, 2)
				So(got[2].Item.ID, ShouldEqual, 3)
				So(got[1].Percent, ShouldEqual, got[2].Percent)
			})
		})

		Convey("When no row matches", func() {
			So(Skills(tbl, model.NewPartitionFilter(9)), ShouldBeEmpty)
		})
	})
}

func TestSets(t *testing.T) {
	Convey("Given rows wearing variant and unresolved sets", t, func() {
		tbl := fixture()
		res := canon.New(tbl.Sets)

		Convey("When computing set prevalence over every partition", func() {
			got := Sets(tbl, res, model.NewPartitionFilter())

			Convey("Then variants fold together and never exceed 100 percent", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].Item.ID, ShouldEqual, 12)
				So(got[0].Percent, ShouldAlmostEqual, 200.0/3, 1e-9)
				So(got[1].Item.ID, ShouldEqual, 10)
				So(got[1].Percent, ShouldAlmostEqual, 100.0/3, 1e-9)
			})

			Convey("Then the Other bucket never appears", func() {
				for _, s := range got {
					So(s.Item.ID, ShouldNotEqual, model.OtherID)
				}
			})
		})

		Convey("When only unresolved pieces match", func() {
			tbl.Rows = []model.Row{{PartitionID: 4, Sets: []uint16{0}}}
			So(Sets(tbl, res, model.NewPartitionFilter(4)), ShouldBeEmpty)
		})
	})
}
