//go:build go1.22

package shacl_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/arenac/pkg/graph"
	"github.com/flier/arenac/pkg/interner"
	"github.com/flier/arenac/pkg/shacl"
)

const (
	xsdString  = "http://www.w3.org/2001/XMLSchema#string"
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	rdfType    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
)

type fixture struct {
	g  *graph.Graph
	in *interner.Interner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	in := interner.New(interner.Config{})
	g := graph.New(in, graph.Config{MaxNodes: 512, MaxEdges: 512, MaxTriples: 512})
	return &fixture{g: g, in: in}
}

func (f *fixture) ref(s string) interner.Ref {
	r, err := f.in.InternString(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (f *fixture) assertType(subject, class string) {
	_, err := f.g.InsertTriple(f.ref(subject), f.ref(rdfType), f.ref(class), graph.KindIRI)
	if err != nil {
		panic(err)
	}
}

func (f *fixture) assertIRI(s, p, o string) {
	_, err := f.g.InsertTriple(f.ref(s), f.ref(p), f.ref(o), graph.KindIRI)
	if err != nil {
		panic(err)
	}
}

func (f *fixture) assertLiteral(s, p, lexical, datatype string) {
	_, err := f.g.InsertLiteralTriple(f.ref(s), f.ref(p), f.ref(lexical), graph.Literal{Datatype: f.ref(datatype)})
	if err != nil {
		panic(err)
	}
}

func TestMinCountAndDatatype(t *testing.T) {
	Convey("Given a Person shape requiring a typed name", t, func() {
		f := newFixture(t)

		f.assertType("ex:alice", "ex:Person")
		f.assertLiteral("ex:alice", "ex:name", "Alice", xsdString)
		f.assertLiteral("ex:alice", "ex:age", "30", xsdInteger)

		f.assertType("ex:bob", "ex:Person")
		f.assertLiteral("ex:bob", "ex:age", "40", xsdInteger)

		v := shacl.New(shacl.Config{})
		v.AddShape(shacl.Shape{
			IRI:         f.ref("ex:PersonShape"),
			TargetClass: f.ref("ex:Person"),
			PropertyShapes: []shacl.PropertyShape{
				{
					Path: f.ref("ex:name"),
					Constraints: []shacl.Constraint{
						{Kind: shacl.MinCount, Bound: 1},
						{Kind: shacl.Datatype, DatatypeIRI: f.ref(xsdString)},
					},
				},
			},
		})

		Convey("Validating reports a MinCount violation only for the node missing ex:name", func() {
			report, err := v.Validate(f.g, f.in)
			So(err, ShouldBeNil)
			So(report.Conforms, ShouldBeFalse)
			So(report.ViolationCount, ShouldEqual, 1)

			results := report.Results()
			So(results, ShouldHaveLength, 1)
			So(results[0].Kind, ShouldEqual, shacl.MinCount)
			So(f.in.ResolveString(results[0].FocusNode), ShouldEqual, "ex:bob")
		})
	})
}

func TestPatternAndIn(t *testing.T) {
	Convey("Given a shape with Pattern and In constraints", t, func() {
		f := newFixture(t)

		f.assertType("ex:a", "ex:Widget")
		f.assertLiteral("ex:a", "ex:code", "ABC", xsdString)
		f.assertLiteral("ex:a", "ex:status", "active", xsdString)

		f.assertType("ex:b", "ex:Widget")
		f.assertLiteral("ex:b", "ex:code", "ab1", xsdString)
		f.assertLiteral("ex:b", "ex:status", "pending", xsdString)

		v := shacl.New(shacl.Config{})
		v.AddShape(shacl.Shape{
			TargetClass: f.ref("ex:Widget"),
			PropertyShapes: []shacl.PropertyShape{
				{Path: f.ref("ex:code"), Constraints: []shacl.Constraint{{Kind: shacl.Pattern, Regex: "^[A-Z]{3}$"}}},
				{Path: f.ref("ex:status"), Constraints: []shacl.Constraint{{Kind: shacl.In, Terms: []interner.Ref{f.ref("active"), f.ref("inactive")}}}},
			},
		})

		Convey("ex:b fails both, ex:a conforms", func() {
			report, err := v.Validate(f.g, f.in)
			So(err, ShouldBeNil)
			So(report.ViolationCount, ShouldEqual, 2)

			for _, r := range report.Results() {
				So(f.in.ResolveString(r.FocusNode), ShouldEqual, "ex:b")
			}
		})
	})
}

func TestHasValueAndClosed(t *testing.T) {
	Convey("Given a shape requiring an admin role and a closed property set", t, func() {
		f := newFixture(t)

		f.assertType("ex:a", "ex:Account")
		f.assertIRI("ex:a", "ex:role", "ex:Admin")
		f.assertIRI("ex:a", "ex:role", "ex:Editor")

		f.assertType("ex:b", "ex:Account")
		f.assertIRI("ex:b", "ex:role", "ex:Editor")
		f.assertLiteral("ex:b", "ex:secret", "leaked", xsdString)

		v := shacl.New(shacl.Config{})
		v.AddShape(shacl.Shape{
			TargetClass: f.ref("ex:Account"),
			NodeConstraints: []shacl.Constraint{
				{Kind: shacl.Closed, Terms: []interner.Ref{f.ref(rdfType)}},
			},
			PropertyShapes: []shacl.PropertyShape{
				{Path: f.ref("ex:role"), Constraints: []shacl.Constraint{{Kind: shacl.HasValue, Value: f.ref("ex:Admin")}}},
			},
		})

		Convey("ex:b fails both HasValue and Closed", func() {
			report, err := v.Validate(f.g, f.in)
			So(err, ShouldBeNil)
			So(report.ViolationCount, ShouldEqual, 2)

			kinds := map[shacl.ConstraintKind]bool{}
			for _, r := range report.Results() {
				So(f.in.ResolveString(r.FocusNode), ShouldEqual, "ex:b")
				kinds[r.Kind] = true
			}
			So(kinds[shacl.HasValue], ShouldBeTrue)
			So(kinds[shacl.Closed], ShouldBeTrue)
		})
	})
}

func TestMemoryBound(t *testing.T) {
	Convey("Given a shape with a tiny memory bound", t, func() {
		f := newFixture(t)

		f.assertType("ex:a", "ex:Big")
		f.assertLiteral("ex:a", "ex:p1", "some long literal value here", xsdString)
		f.assertLiteral("ex:a", "ex:p2", "another long literal value", xsdString)

		v := shacl.New(shacl.Config{})
		v.AddShape(shacl.Shape{
			TargetClass: f.ref("ex:Big"),
			NodeConstraints: []shacl.Constraint{
				{Kind: shacl.MemoryBound, MemoryLimit: 16},
			},
		})

		Convey("The footprint exceeds the declared limit", func() {
			report, err := v.Validate(f.g, f.in)
			So(err, ShouldBeNil)
			So(report.MemoryViolationCount, ShouldEqual, 1)

			results := report.Results()
			So(results, ShouldHaveLength, 1)
			So(results[0].Severity, ShouldEqual, shacl.MemoryViolationSeverity)
			So(results[0].Footprint.CurrentUsage, ShouldBeGreaterThan, results[0].Footprint.MaxAllowed)
			So(report.Conforms, ShouldBeFalse)
		})
	})
}

func TestResetReportsReleasesArena(t *testing.T) {
	Convey("Given a validator that has produced a report", t, func() {
		f := newFixture(t)
		f.assertType("ex:a", "ex:Person")

		v := shacl.New(shacl.Config{})
		v.AddShape(shacl.Shape{TargetClass: f.ref("ex:Person")})

		report, err := v.Validate(f.g, f.in)
		So(err, ShouldBeNil)
		So(report.Conforms, ShouldBeTrue)

		Convey("ResetReports can be called before the next Validate without panicking", func() {
			So(func() { v.ResetReports() }, ShouldNotPanic)
		})
	})
}
