//go:build go1.23

package materializer_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/arenac/pkg/graph"
	"github.com/flier/arenac/pkg/interner"
	"github.com/flier/arenac/pkg/materializer"
	"github.com/flier/arenac/pkg/xerrors"
)

func newGraph(t *testing.T) (*graph.Graph, *interner.Interner) {
	t.Helper()
	in := interner.New(interner.Config{})
	g := graph.New(in, graph.Config{MaxNodes: 64, MaxEdges: 64, MaxTriples: 64, MaxNamedGraphs: 8})
	return g, in
}

func ref(t *testing.T, in *interner.Interner, s string) interner.Ref {
	t.Helper()
	r, err := in.InternString(s)
	if err != nil {
		t.Fatalf("intern %q: %v", s, err)
	}
	return r
}

func TestWriteThenView(t *testing.T) {
	Convey("Given a graph with three triples", t, func() {
		g, in := newGraph(t)

		a := ref(t, in, "ex:a")
		b := ref(t, in, "ex:b")
		knows := ref(t, in, "ex:knows")
		name := ref(t, in, "ex:name")
		alice := ref(t, in, "\"Alice\"")

		_, err := g.InsertTriple(a, knows, b, graph.KindIRI)
		So(err, ShouldBeNil)
		_, err = g.InsertTriple(a, name, alice, graph.KindLiteral)
		So(err, ShouldBeNil)
		_, err = g.InsertTriple(b, name, alice, graph.KindLiteral)
		So(err, ShouldBeNil)

		Convey("Write produces a blob starting with the expected magic, version and triple count", func() {
			blob, err := materializer.Write(g, in)
			So(err, ShouldBeNil)
			So(blob[0:4], ShouldResemble, []byte{0x50, 0x4C, 0x41, 0x4E})
			So(blob[4:6], ShouldResemble, []byte{0x00, 0x01})
			So(blob[8:12], ShouldResemble, []byte{0x03, 0x00, 0x00, 0x00})

			Convey("View recovers the same triples", func() {
				snap, err := materializer.View(blob)
				So(err, ShouldBeNil)
				So(snap.NodeCount(), ShouldEqual, g.NodeCount())
				So(snap.TripleCount(), ShouldEqual, 3)

				triples, err := snap.Triples()
				So(err, ShouldBeNil)
				So(len(triples), ShouldEqual, 3)

				for i, want := range triples {
					got := g.Triple(uint32(i))
					So(want.Subject, ShouldResemble, got.Subject)
					So(want.Predicate, ShouldResemble, got.Predicate)
					So(want.Object, ShouldResemble, got.Object)
					So(want.ObjectKind, ShouldEqual, got.ObjectKind)
				}

				So(snap.ResolveString(triples[1].Object), ShouldEqual, "\"Alice\"")
			})
		})
	})
}

func TestViewRejectsCorruptBlobs(t *testing.T) {
	Convey("Given a valid blob", t, func() {
		g, in := newGraph(t)
		s := ref(t, in, "ex:s")
		p := ref(t, in, "ex:p")
		o := ref(t, in, "ex:o")
		_, err := g.InsertTriple(s, p, o, graph.KindIRI)
		So(err, ShouldBeNil)

		blob, err := materializer.Write(g, in)
		So(err, ShouldBeNil)

		Convey("A truncated blob is rejected", func() {
			_, err := materializer.View(blob[:10])
			So(err, ShouldEqual, materializer.ErrCorruptSnapshot)
		})

		Convey("A bad magic is rejected", func() {
			corrupt := append([]byte(nil), blob...)
			corrupt[0] = 'X'
			_, err := materializer.View(corrupt)
			So(err, ShouldEqual, materializer.ErrCorruptSnapshot)
		})

		Convey("A flipped payload byte fails the checksum", func() {
			corrupt := append([]byte(nil), blob...)
			corrupt[len(corrupt)-1] ^= 0xFF
			_, err := materializer.View(corrupt)
			So(errors.Is(err, materializer.ErrCorruptSnapshot), ShouldBeTrue)

			mismatch, ok := xerrors.AsA[*materializer.ChecksumMismatchError](err)
			So(ok, ShouldBeTrue)
			So(mismatch.Want, ShouldNotEqual, mismatch.Got)
		})
	})
}

func TestEmptyGraphRoundTrips(t *testing.T) {
	Convey("Given an empty graph", t, func() {
		g, in := newGraph(t)

		blob, err := materializer.Write(g, in)
		So(err, ShouldBeNil)

		snap, err := materializer.View(blob)
		So(err, ShouldBeNil)
		So(snap.TripleCount(), ShouldEqual, 0)
		So(snap.NodeCount(), ShouldEqual, 0)
	})
}
