//go:build go1.22

package shacl

import (
	"github.com/flier/arenac/pkg/arena/slice"
	"github.com/flier/arenac/pkg/graph"
	"github.com/flier/arenac/pkg/interner"
)

// ConstraintKind is the closed set of constraint variants this validator
// understands. There is no extension point: an unrecognized kind is a
// programmer error, not a data error.
type ConstraintKind uint8

const (
	Class ConstraintKind = iota
	Datatype
	NodeKind
	MinCount
	MaxCount
	MinLength
	MaxLength
	Pattern
	In
	HasValue
	Closed
	// MemoryBound is the one constraint family with no SHACL analogue:
	// it bounds the arena footprint reachable from the focus node.
	MemoryBound
)

func (k ConstraintKind) String() string {
	switch k {
	case Class:
		return "Class"
	case Datatype:
		return "Datatype"
	case NodeKind:
		return "NodeKind"
	case MinCount:
		return "MinCount"
	case MaxCount:
		return "MaxCount"
	case MinLength:
		return "MinLength"
	case MaxLength:
		return "MaxLength"
	case Pattern:
		return "Pattern"
	case In:
		return "In"
	case HasValue:
		return "HasValue"
	case Closed:
		return "Closed"
	case MemoryBound:
		return "MemoryBound"
	default:
		return "Unknown"
	}
}

// NodeKindSet is a bitmask over graph.KindIRI/KindBlank/KindLiteral,
// letting a NodeKind constraint name a union (e.g. IRI-or-Blank).
type NodeKindSet uint8

const (
	AllowIRI NodeKindSet = 1 << iota
	AllowBlank
	AllowLiteral
)

// Allows reports whether kind is one of the set's member kinds.
func (s NodeKindSet) Allows(kind graph.NodeKind) bool {
	switch kind {
	case graph.KindIRI:
		return s&AllowIRI != 0
	case graph.KindBlank:
		return s&AllowBlank != 0
	case graph.KindLiteral:
		return s&AllowLiteral != 0
	default:
		return false
	}
}

// Constraint is one evaluable rule, tagged by Kind; only the fields
// relevant to Kind are populated, the rest left zero.
type Constraint struct {
	Kind ConstraintKind

	// Class
	TargetClass interner.Ref

	// Datatype
	DatatypeIRI interner.Ref

	// NodeKind
	Kinds NodeKindSet

	// MinCount / MaxCount / MinLength / MaxLength
	Bound int

	// Pattern: a regexp source string, compiled lazily and cached on
	// first use (see pattern.go).
	Regex string

	// In / Closed(allowed-properties-beyond-paths)
	Terms []interner.Ref

	// HasValue
	Value interner.Ref

	// MemoryBound
	MemoryLimit uint64
}

// PropertyShape constrains the multiset of values reachable from a focus
// node via a single predicate (the property path the contract allows).
type PropertyShape struct {
	Path        interner.Ref
	Constraints []Constraint
}

// Shape targets every node asserted an instance of TargetClass (via
// rdf:type) and applies NodeConstraints to the focus node directly, plus
// each PropertyShape's constraints to the values on that path.
type Shape struct {
	IRI         interner.Ref
	TargetClass interner.Ref

	NodeConstraints []Constraint
	PropertyShapes  []PropertyShape
}

// Severity classifies a ValidationResult, per the contract's
// {Info, Warning, Violation, MemoryViolation} set.
type Severity uint8

const (
	Info Severity = iota
	Warning
	Violation
	MemoryViolationSeverity
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Violation:
		return "Violation"
	case MemoryViolationSeverity:
		return "MemoryViolation"
	default:
		return "Unknown"
	}
}

// ValidationResult is one constraint outcome: a violation, a
// memory-bound breach, or an Info-level evaluation error.
type ValidationResult struct {
	FocusNode    interner.Ref
	PropertyPath interner.Ref
	HasProperty  bool
	Value        interner.Ref
	HasValue     bool
	Kind         ConstraintKind
	Severity     Severity
	Message      string
	Footprint    MemoryFootprint
}

// MemoryFootprint is the arena-usage accounting attached to a node, a
// constraint, a shape, or a report.
type MemoryFootprint struct {
	CurrentUsage uint64
	PeakUsage    uint64
	MaxAllowed   uint64
	Violations   uint64
	Bounded      bool
}

// Report is the outcome of validating a graph against a shape set: a
// stably-ordered result list plus the summary counts the contract asks
// for. results is arena-resident, same as Graph's dense triples array;
// destroying a report is the validator's single O(1) arena reset, never
// a per-result free.
type Report struct {
	results slice.Slice[ValidationResult]

	Conforms             bool
	ViolationCount       int
	MemoryViolationCount int
}

// Results returns the report's findings in the order they were recorded:
// focus node insertion order, then shape declaration order, then
// constraint declaration order, then value-encountered order.
func (r *Report) Results() []ValidationResult {
	out := make([]ValidationResult, r.results.Len())
	for i := range out {
		out[i] = *r.results.Get(i)
	}
	return out
}

// Len is the number of results recorded so far.
func (r *Report) Len() int { return r.results.Len() }
