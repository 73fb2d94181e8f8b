//go:build go1.22

package shacl

import (
	"fmt"

	"github.com/flier/arenac/pkg/arena"
	"github.com/flier/arenac/pkg/arena/slice"
	"github.com/flier/arenac/pkg/graph"
	"github.com/flier/arenac/pkg/interner"
	"github.com/flier/arenac/pkg/opt"
)

// Config sizes a Validator's report arena.
type Config struct {
	// MaxResults bounds a single report's result list; validating past
	// it fails with ErrOutOfCapacity rather than growing unbounded.
	MaxResults int
}

func (c Config) withDefaults() Config {
	if c.MaxResults == 0 {
		c.MaxResults = 1 << 14
	}
	return c
}

// resultRecordSize is the per-ValidationResult arena charge, mirroring
// how graph.Graph sizes its own dense arrays.
const resultRecordSize = 96

// Validator holds a declared shape set and validates graphs against it.
// Shapes are configuration, built once via AddShape before the first
// Validate call; they are not themselves arena-resident, since nothing
// about shape declaration sits on the per-triple hot path the contract
// budgets.
type Validator struct {
	arena    *arena.Arena
	shapes   []Shape
	patterns *patternCache
	cfg      Config
}

// New creates a Validator with an empty shape set.
func New(cfg Config) *Validator {
	cfg = cfg.withDefaults()
	return &Validator{
		arena:    arena.NewArena(cfg.MaxResults*resultRecordSize+4096, arena.Config{StatsEnabled: true}),
		patterns: newPatternCache(),
		cfg:      cfg,
	}
}

// AddShape declares a shape, in the order evaluation should consider it.
func (v *Validator) AddShape(s Shape) {
	v.shapes = append(v.shapes, s)
}

// Validate evaluates every declared shape against g, returning a Report
// whose results share this Validator's arena. Calling Validate again
// after ResetReports reuses the same arena region.
func (v *Validator) Validate(g *graph.Graph, in *interner.Interner) (*Report, error) {
	rdfTypeRef, err := in.InternString(rdfType)
	if err != nil {
		return nil, err
	}

	order, applicable := v.targetIndex(g, rdfTypeRef)

	report := &Report{results: slice.Make[ValidationResult](v.arena, 0)}
	appendResult := func(r ValidationResult) (err error) {
		if report.results.Len() >= v.cfg.MaxResults {
			return ErrOutOfCapacity
		}
		defer func() {
			if rec := recover(); rec != nil {
				err = ErrOutOfCapacity
			}
		}()
		report.results = report.results.AppendOne(v.arena, r)
		switch r.Severity {
		case Violation:
			report.ViolationCount++
		case MemoryViolationSeverity:
			report.MemoryViolationCount++
		}
		return nil
	}

	for _, focus := range order {
		shapesForFocus := applicable[focus]
		for si := 0; si < len(v.shapes); si++ {
			if !shapesForFocus[si] {
				continue
			}
			shape := v.shapes[si]

			if err := v.evalNodeConstraints(g, in, rdfTypeRef, shape, focus, appendResult); err != nil {
				return report, err
			}
			if err := v.evalPropertyShapes(g, in, rdfTypeRef, shape, focus, appendResult); err != nil {
				return report, err
			}
		}
	}

	report.Conforms = report.ViolationCount == 0 && report.MemoryViolationCount == 0
	return report, nil
}

// targetIndex scans rdf:type triples once and builds focus_node ->
// {applicable shape indices}, plus the focus nodes in first-appearance
// (triple_id) order, per "Build a target index ... by scanning rdf:type
// triples".
func (v *Validator) targetIndex(g *graph.Graph, rdfTypeRef interner.Ref) ([]interner.Ref, map[interner.Ref]map[int]bool) {
	typeTriples := g.FindTriples(opt.None[interner.Ref](), opt.Some(rdfTypeRef), opt.None[interner.Ref]())

	var order []interner.Ref
	applicable := make(map[interner.Ref]map[int]bool)

	for _, t := range typeTriples {
		for si, shape := range v.shapes {
			if shape.TargetClass != t.Object {
				continue
			}
			set, ok := applicable[t.Subject]
			if !ok {
				set = make(map[int]bool)
				applicable[t.Subject] = set
				order = append(order, t.Subject)
			}
			set[si] = true
		}
	}

	return order, applicable
}

func (v *Validator) evalNodeConstraints(g *graph.Graph, in *interner.Interner, rdfTypeRef interner.Ref, shape Shape, focus interner.Ref, emit func(ValidationResult) error) error {
	for _, c := range shape.NodeConstraints {
		switch c.Kind {
		case Closed:
			for _, p := range evalClosed(g, shape, focus, c) {
				if err := emit(ValidationResult{
					FocusNode: focus, PropertyPath: p, HasProperty: true,
					Kind: Closed, Severity: Violation,
					Message: "closed shape: unexpected property",
				}); err != nil {
					return err
				}
			}

		case MemoryBound:
			fp := footprintOf(g, in, focus)
			if fp > c.MemoryLimit {
				if err := emit(ValidationResult{
					FocusNode: focus, Kind: MemoryBound, Severity: MemoryViolationSeverity,
					Message: fmt.Sprintf("footprint %d exceeds limit %d", fp, c.MemoryLimit),
					Footprint: MemoryFootprint{
						CurrentUsage: fp, MaxAllowed: c.MemoryLimit, Violations: 1, Bounded: true,
					},
				}); err != nil {
					return err
				}
			}

		default:
			kind, found := g.KindOf(focus)
			if !found {
				kind = graph.KindIRI
			}
			ok, msg, verr := evalValueConstraint(g, in, v.patterns, rdfTypeRef, c, termInfo{Ref: focus, Kind: kind})
			if verr != nil {
				if err := emit(ValidationResult{FocusNode: focus, Kind: c.Kind, Severity: Info, Message: msg}); err != nil {
					return err
				}
				continue
			}
			if !ok {
				if err := emit(ValidationResult{FocusNode: focus, Kind: c.Kind, Severity: Violation, Message: msg}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (v *Validator) evalPropertyShapes(g *graph.Graph, in *interner.Interner, rdfTypeRef interner.Ref, shape Shape, focus interner.Ref, emit func(ValidationResult) error) error {
	for _, ps := range shape.PropertyShapes {
		values := g.FindTriples(opt.Some(focus), opt.Some(ps.Path), opt.None[interner.Ref]())

		for _, c := range ps.Constraints {
			if isMultisetStyle(c.Kind) {
				ok, _ := evalMultisetConstraint(c, values)
				if !ok {
					if err := emit(ValidationResult{
						FocusNode: focus, PropertyPath: ps.Path, HasProperty: true,
						Kind: c.Kind, Severity: Violation,
						Message: fmt.Sprintf("%v failed over %d value(s)", c.Kind, len(values)),
					}); err != nil {
						return err
					}
				}
				continue
			}

			for _, t := range values {
				vi := termInfo{Ref: t.Object, Kind: t.ObjectKind, HasDatatype: t.HasDatatype, Datatype: t.Datatype}
				ok, msg, verr := evalValueConstraint(g, in, v.patterns, rdfTypeRef, c, vi)
				if verr != nil {
					if err := emit(ValidationResult{
						FocusNode: focus, PropertyPath: ps.Path, HasProperty: true,
						Value: t.Object, HasValue: true, Kind: c.Kind, Severity: Info, Message: msg,
					}); err != nil {
						return err
					}
					continue
				}
				if !ok {
					if err := emit(ValidationResult{
						FocusNode: focus, PropertyPath: ps.Path, HasProperty: true,
						Value: t.Object, HasValue: true, Kind: c.Kind, Severity: Violation, Message: msg,
					}); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// ResetReports releases every Report this Validator has produced in one
// O(1) arena reset, per "destroying a report is an O(1) arena reset,
// never a per-node free". Any Report obtained before this call must not
// be used afterward.
func (v *Validator) ResetReports() {
	v.arena.Reset()
}
