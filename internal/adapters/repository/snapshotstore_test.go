package repository

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/okian/raidstats/internal/domain/model"
	"github.com/okian/raidstats/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.InitWith(io.Discard, logger.FormatText); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func table(rows int) *model.MasterTable {
	t := &model.MasterTable{
		Players: []model.Player{{ID: 1, Name: "hodor"}},
		Skills:  []model.Skill{{ID: 1, Name: "a"}},
		Sets:    []model.ItemSet{{ID: 389, Name: "Arms of Relequen"}, {ID: 393, Name: "Perfected Arms of Relequen"}},
	}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, model.Row{PartitionID: 1, Ranking: 1, PlayerID: 1, Skills: []uint16{1}, Sets: []uint16{393, 0}})
	}
	return t
}

func TestSnapshotStore(t *testing.T) {
	Convey("Given an empty snapshot store", t, func() {
		ctx := context.Background()
		var published []uint64
		s, err := NewSnapshotStore(WithOnPublish(func(snap *Snapshot) {
			published = append(published, snap.Generation)
		}))
		So(err, ShouldBeNil)
		defer s.Close()

		Convey("When nothing was published", func() {
			_, err := s.Current(ctx)
			So(errors.Is(err, ErrNoSnapshot), ShouldBeTrue)
		})

		Convey("When a table is published", func() {
			snap, err := s.Publish(ctx, table(3), "test")
			So(err, ShouldBeNil)

			Convey("Then it becomes current with derived data", func() {
				cur, err := s.Current(ctx)
				So(err, ShouldBeNil)
				So(cur, ShouldPointTo, snap)
				So(cur.Generation, ShouldEqual, 1)
				So(cur.Resolver.Resolve(393), ShouldEqual, 389)
				So(cur.Source, ShouldEqual, "test")
				So(published, ShouldResemble, []uint64{1})
			})

			Convey("Then players are looked up through the snapshot", func() {
				p, err := snap.Player(1)
				So(err, ShouldBeNil)
				So(p.Name, ShouldEqual, "hodor")
				_, err = snap.Player(7)
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})

			Convey("Then a second publish advances the generation and leaves the old snapshot intact", func() {
				next, err := s.Publish(ctx, table(5), "test")
				So(err, ShouldBeNil)
				So(next.Generation, ShouldEqual, 2)
				So(len(snap.Table.Rows), ShouldEqual, 3)
			})

			Convey("Then an invalid table is rejected and the current one kept", func() {
				bad := table(1)
				bad.Rows[0].PlayerID = 9
				_, err := s.Publish(ctx, bad, "bad")
				So(errors.Is(err, ErrInvalidSnapshot), ShouldBeTrue)
				cur, _ := s.Current(ctx)
				So(cur.Generation, ShouldEqual, 1)
			})
		})

		Convey("When reload is called without a loader", func() {
			_, err := s.Reload(ctx)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a store with a loader", t, func() {
		ctx := context.Background()
		calls := 0
		fail := false
		s, err := NewSnapshotStore(WithLoader(LoaderFunc(func(context.Context) (*model.MasterTable, string, error) {
			calls++
			if fail {
				return nil, "mem", errors.New("boom")
			}
			return table(calls), "mem", nil
		})))
		So(err, ShouldBeNil)

		Convey("When reloading twice", func() {
			_, err := s.Reload(ctx)
			So(err, ShouldBeNil)
			snap, err := s.Reload(ctx)
			So(err, ShouldBeNil)
			So(snap.Generation, ShouldEqual, 2)
			So(len(snap.Table.Rows), ShouldEqual, 2)
		})

		Convey("When the loader fails", func() {
			_, _ = s.Reload(ctx)
			fail = true
			_, err := s.Reload(ctx)
			So(err, ShouldNotBeNil)
			cur, err := s.Current(ctx)
			So(err, ShouldBeNil)
			So(cur.Generation, ShouldEqual, 1)
		})

		Convey("When the store is closed", func() {
			So(s.Close(), ShouldBeNil)
			So(s.Close(), ShouldBeNil)
			_, err := s.Reload(ctx)
			So(errors.Is(err, ErrClosed), ShouldBeTrue)
		})
	})

	Convey("Given a reload schedule", t, func() {
		Convey("When the cron spec is malformed", func() {
			_, err := NewSnapshotStore(WithLoader(FileLoader{Path: "x"}), WithReloadSchedule("every tuesday"))
			So(err, ShouldNotBeNil)
		})

		Convey("When no loader is configured", func() {
			_, err := NewSnapshotStore(WithReloadSchedule("@every 1h"))
			So(err, ShouldNotBeNil)
		})

		Convey("When the cron spec is valid", func() {
			s, err := NewSnapshotStore(WithLoader(FileLoader{Path: "x"}), WithReloadSchedule("0 */15 * * * *"))
			So(err, ShouldBeNil)
			So(s.Close(), ShouldBeNil)
		})
	})
}

func TestConcurrentReadersDuringReload(t *testing.T) {
	Convey("Given readers running while snapshots are swapped", t, func() {
		ctx := context.Background()
		s, err := NewSnapshotStore()
		So(err, ShouldBeNil)
		_, err = s.Publish(ctx, table(1), "seed")
		So(err, ShouldBeNil)

		var wg sync.WaitGroup
		errs := make(chan error, 100)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					snap, err := s.Current(ctx)
					if err != nil {
						errs <- err
						return
					}
					if len(snap.Table.Rows) == 0 {
						errs <- errors.New("empty snapshot observed")
						return
					}
				}
			}()
		}
		for i := 2; i < 20; i++ {
			_, err := s.Publish(ctx, table(i), "swap")
			So(err, ShouldBeNil)
		}
		wg.Wait()
		close(errs)
		So(len(errs), ShouldEqual, 0)
	})
}

func TestPublishLeavesCallerTableAlone(t *testing.T) {
	Convey("Given a table that callers keep reading while it is republished", t, func() {
		ctx := context.Background()
		s, err := NewSnapshotStore()
		So(err, ShouldBeNil)
		defer s.Close()

		shared := table(2)
		stop := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = shared.SetByID(393)
				}
			}
		}()

		var snaps []*Snapshot
		for i := 0; i < 20; i++ {
			snap, err := s.Publish(ctx, shared, "same")
			So(err, ShouldBeNil)
			snaps = append(snaps, snap)
		}
		close(stop)
		wg.Wait()

		Convey("Then every snapshot holds its own indexed copy", func() {
			So(snaps[0].Table, ShouldNotPointTo, shared)
			So(snaps[0].Table, ShouldNotPointTo, snaps[1].Table)
			So(snaps[19].Table.SetByID(393).Name, ShouldEqual, "Perfected Arms of Relequen")
			So(len(snaps[19].Table.Rows), ShouldEqual, 2)
		})
	})
}

func TestFileLoader(t *testing.T) {
	Convey("Given snapshot files on disk", t, func() {
		dir := t.TempDir()
		ctx := context.Background()

		for _, name := range []string{"snap.json", "snap.json.gz"} {
			path := filepath.Join(dir, name)
			So(WriteFile(path, table(4)), ShouldBeNil)

			got, source, err := FileLoader{Path: path}.Load(ctx)
			So(err, ShouldBeNil)
			So(source, ShouldEqual, path)
			So(len(got.Rows), ShouldEqual, 4)
			So(got.Rows[0].Sets, ShouldResemble, []uint16{393, 0})
			So(got.SetByID(393).Name, ShouldEqual, "Perfected Arms of Relequen")
		}

		Convey("When the file is missing", func() {
			_, _, err := FileLoader{Path: filepath.Join(dir, "missing.json")}.Load(ctx)
			So(err, ShouldNotBeNil)
		})

		Convey("When the document is malformed", func() {
			_, err := Decode(strings.NewReader("{"), false)
			So(errors.Is(err, ErrInvalidSnapshot), ShouldBeTrue)
			_, err = Decode(strings.NewReader("not gzip"), true)
			So(errors.Is(err, ErrInvalidSnapshot), ShouldBeTrue)
		})

		Convey("When the document breaks table invariants", func() {
			doc := `{"rows":[{"player_id":3,"skills":[],"armour":[]}],"players":[],"skills":[],"sets":[]}`
			_, err := Decode(strings.NewReader(doc), false)
			So(errors.Is(err, ErrInvalidSnapshot), ShouldBeTrue)
		})

		Convey("When the document uses the armour field for sets", func() {
			doc := `{"rows":[{"partition_id":2,"ranking":1,"player_id":1,"skills":[1,1],"armour":[5]}],
				"players":[{"id":1,"name":"a","text":""}],"skills":[{"id":1,"name":"x"}],"sets":[{"id":5,"name":"s"}]}`
			got, err := Decode(strings.NewReader(doc), false)
			So(err, ShouldBeNil)
			So(got.Rows[0].Sets, ShouldResemble, []uint16{5})
			So(got.Rows[0].Skills, ShouldResemble, []uint16{1, 1})
		})
	})
}
