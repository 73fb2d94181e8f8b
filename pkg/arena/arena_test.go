//go:build go1.22

package arena_test

import (
	"testing"
	"unsafe"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/arenac/pkg/arena"
)

type point struct {
	X int
	Y float64
}

func TestArena(t *testing.T) {
	Convey("Given a bounded Arena", t, func() {
		a := arena.NewArena(4096, arena.Config{StatsEnabled: true})

		Convey("When allocating a value", func() {
			p := arena.New(a, point{X: 42, Y: 3.14})
			So(p, ShouldNotBeNil)

			Convey("Then the value is set", func() {
				So(p.X, ShouldEqual, 42)
				So(p.Y, ShouldEqual, 3.14)
			})

			Convey("Then the pointer is aligned", func() {
				So(uintptr(unsafe.Pointer(p))%8, ShouldEqual, uintptr(0))
			})
		})

		Convey("When allocating multiple values", func() {
			var ptrs []*point
			for i := 0; i < 10; i++ {
				ptrs = append(ptrs, arena.New(a, point{X: i, Y: float64(i)}))
			}

			Convey("Then every value keeps its contents", func() {
				for i, p := range ptrs {
					So(p.X, ShouldEqual, i)
					So(p.Y, ShouldEqual, float64(i))
				}
			})

			Convey("Then reset rewinds usage to zero", func() {
				a.Reset()
				So(a.Info().Used, ShouldEqual, 0)
			})
		})

		Convey("When an allocation would overflow the zone", func() {
			_, err := a.Alloc(1 << 20)

			Convey("Then it fails with ErrOutOfCapacity", func() {
				So(err, ShouldEqual, arena.ErrOutOfCapacity)
			})
		})

		Convey("When checkpointing and restoring", func() {
			_, _ = a.Alloc(64)
			cp := a.Checkpoint()
			_, _ = a.Alloc(128)
			before := a.Info().Used

			err := a.Restore(cp)

			Convey("Then usage rewinds to the checkpoint", func() {
				So(err, ShouldBeNil)
				So(a.Info().Used, ShouldBeLessThan, before)
				So(a.Info().Used, ShouldEqual, 64)
			})
		})

		Convey("When adding and switching zones", func() {
			id, err := a.AddZone(256)
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 1)

			So(a.SwitchZone(id), ShouldBeNil)
			p, err := a.Alloc(16)

			Convey("Then the allocation lands in the new zone", func() {
				So(err, ShouldBeNil)
				So(p, ShouldNotBeNil)
				So(a.Info().Zones, ShouldEqual, 2)
				So(a.Info().ActiveZone, ShouldEqual, 1)
			})
		})

		Convey("When switching to an unknown zone", func() {
			err := a.SwitchZone(9)

			Convey("Then it fails with ErrBadArg", func() {
				So(err, ShouldEqual, arena.ErrBadArg)
			})
		})
	})
}

func TestArenaAlignment(t *testing.T) {
	Convey("Arena.AllocAligned", t, func() {
		a := arena.NewArena(4096, arena.Config{})

		Convey("Should satisfy a stricter alignment than the default", func() {
			p, err := a.AllocAligned(16, 64)
			So(err, ShouldBeNil)
			So(uintptr(unsafe.Pointer(p))%64, ShouldEqual, uintptr(0))
		})

		Convey("Should reject a non-power-of-two alignment", func() {
			_, err := a.AllocAligned(16, 3)
			So(err, ShouldEqual, arena.ErrBadArg)
		})

		Convey("Should reject an alignment weaker than the arena's own", func() {
			wide := arena.NewArena(4096, arena.Config{Align64: true})
			_, err := wide.AllocAligned(16, 8)
			So(err, ShouldEqual, arena.ErrBadArg)
		})

		Convey("Consecutive allocations never overlap", func() {
			p1, _ := a.Alloc(24)
			p2, _ := a.Alloc(24)
			So(p1, ShouldNotEqual, p2)
			So(uintptr(unsafe.Pointer(p2))-uintptr(unsafe.Pointer(p1)), ShouldBeGreaterThanOrEqualTo, uintptr(24))
		})
	})
}

func TestArenaCapacity(t *testing.T) {
	Convey("A zone of fixed capacity never grows", t, func() {
		a := arena.NewArena(64, arena.Config{})

		var ok int
		for i := 0; i < 100; i++ {
			if _, err := a.Alloc(8); err == nil {
				ok++
			}
		}

		So(ok, ShouldEqual, 8)

		_, err := a.Alloc(8)
		So(err, ShouldEqual, arena.ErrOutOfCapacity)
	})
}

func TestArenaZeroOnReset(t *testing.T) {
	Convey("ZeroOnReset wipes used bytes before rewinding", t, func() {
		a := arena.NewArena(64, arena.Config{ZeroOnReset: true})

		p, err := a.Alloc(8)
		So(err, ShouldBeNil)
		*(*uint64)(unsafe.Pointer(p)) = 0xdeadbeef

		a.Reset()

		q, err := a.Alloc(8)
		So(err, ShouldBeNil)
		So(q, ShouldEqual, p)
		So(*(*uint64)(unsafe.Pointer(q)), ShouldEqual, uint64(0))
	})
}

func BenchmarkArenaAlloc(b *testing.B) {
	a := arena.NewArena(64<<20, arena.Config{})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := a.Alloc(32); err != nil {
			a.Reset()
		}
	}
}
