package canon

import (
	"testing"

	"github.com/okian/raidstats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolver(t *testing.T) {
	Convey("Given sets with base and perfected variants", t, func() {
		sets := []model.ItemSet{
			{ID: 9, Name: "Perfected Slivers of the Null Arca"},
			{ID: 3, Name: "Perfected Arms of Relequen"},
			{ID: 7, Name: "Arms of Relequen"},
			{ID: 5, Name: "Perfected Slivers of the Null Arca"},
			{ID: 4, Name: "Kinras's Wrath"},
		}
		r := New(sets)

		Convey("Then the base member is canonical even with a higher id", func() {
			So(r.Resolve(3), ShouldEqual, 7)
			So(r.Resolve(7), ShouldEqual, 7)
		})

		Convey("Then a group without a base member resolves to its lowest id", func() {
			So(r.Resolve(9), ShouldEqual, 5)
			So(r.Resolve(5), ShouldEqual, 5)
		})

		Convey("Then singleton groups map to themselves", func() {
			So(r.Resolve(4), ShouldEqual, 4)
		})

		Convey("Then zero and unknown ids pass through", func() {
			So(r.Resolve(0), ShouldEqual, 0)
			So(r.Resolve(123), ShouldEqual, 123)
		})

		Convey("Then resolution is idempotent for every set", func() {
			for _, s := range sets {
				So(r.Resolve(r.Resolve(s.ID)), ShouldEqual, r.Resolve(s.ID))
			}
		})

		Convey("Then group members are listed ascending", func() {
			So(r.Members(7), ShouldResemble, []uint16{3, 7})
			So(r.Members(5), ShouldResemble, []uint16{5, 9})
			So(r.Members(3), ShouldBeNil)
			So(r.Len(), ShouldEqual, 5)
			So(r.Groups(), ShouldEqual, 3)
		})

		Convey("Then row sets are deduplicated after resolution", func() {
			got := r.RowSets(nil, []uint16{3, 0, 7, 4, 4, 9})
			So(got, ShouldResemble, []uint16{4, 5, 7})
		})

		Convey("Then row sets extend an existing buffer without touching its prefix", func() {
			buf := []uint16{100}
			got := r.RowSets(buf, []uint16{0, 0})
			So(got, ShouldResemble, []uint16{100})
		})
	})

	Convey("Given the same sets in a different input order", t, func() {
		a := New([]model.ItemSet{{ID: 2, Name: "Perfected X"}, {ID: 1, Name: "Perfected X"}})
		b := New([]model.ItemSet{{ID: 1, Name: "Perfected X"}, {ID: 2, Name: "Perfected X"}})
		So(a.Resolve(2), ShouldEqual, b.Resolve(2))
		So(a.Resolve(2), ShouldEqual, 1)
	})
}
