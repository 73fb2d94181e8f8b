//go:build go1.22

package shacl

import (
	"fmt"
	"unicode/utf8"

	"github.com/flier/arenac/pkg/graph"
	"github.com/flier/arenac/pkg/interner"
	"github.com/flier/arenac/pkg/opt"
)

// termInfo is everything a value-style constraint needs about a single
// term, whether it came from the focus node position or from a property
// path's value multiset.
type termInfo struct {
	Ref         interner.Ref
	Kind        graph.NodeKind
	HasDatatype bool
	Datatype    interner.Ref
}

func isMultisetStyle(k ConstraintKind) bool {
	return k == MinCount || k == MaxCount || k == HasValue
}

// evalValueConstraint evaluates one of the per-element constraint kinds
// against a single term. rdfTypeRef is the interned rdf:type IRI, passed
// in rather than re-interned per call.
func evalValueConstraint(g *graph.Graph, in *interner.Interner, patterns *patternCache, rdfTypeRef interner.Ref, c Constraint, v termInfo) (ok bool, msg string, err error) {
	switch c.Kind {
	case Class:
		return g.ContainsTriple(v.Ref, rdfTypeRef, c.TargetClass), "", nil

	case Datatype:
		return v.Kind == graph.KindLiteral && v.HasDatatype && v.Datatype == c.DatatypeIRI, "", nil

	case NodeKind:
		return c.Kinds.Allows(v.Kind), "", nil

	case MinLength:
		return runeLen(in, v.Ref) >= c.Bound, "", nil

	case MaxLength:
		return runeLen(in, v.Ref) <= c.Bound, "", nil

	case Pattern:
		re, cerr := patterns.compile(c.Regex)
		if cerr != nil {
			return false, fmt.Sprintf("bad pattern %q: %v", c.Regex, cerr), cerr
		}
		return re.MatchString(in.ResolveString(v.Ref)), "", nil

	case In:
		return containsRef(c.Terms, v.Ref), "", nil

	default:
		return false, "", fmt.Errorf("shacl: %v is not a value-style constraint", c.Kind)
	}
}

// evalMultisetConstraint evaluates the constraint kinds that apply to an
// entire property path's value multiset at once, rather than one element
// at a time.
func evalMultisetConstraint(c Constraint, values []graph.Triple) (ok bool, msg string) {
	switch c.Kind {
	case MinCount:
		return len(values) >= c.Bound, ""
	case MaxCount:
		return len(values) <= c.Bound, ""
	case HasValue:
		for _, t := range values {
			if t.Object == c.Value {
				return true, ""
			}
		}
		return false, ""
	default:
		return true, fmt.Sprintf("%v is not a multiset-style constraint", c.Kind)
	}
}

// evalClosed reports every predicate used on focus that is neither a
// path declared by shape's property shapes nor in c.Terms (the
// ignoredProperties list).
func evalClosed(g *graph.Graph, shape Shape, focus interner.Ref, c Constraint) []interner.Ref {
	allowed := make(map[interner.Ref]bool, len(shape.PropertyShapes)+len(c.Terms))
	for _, ps := range shape.PropertyShapes {
		allowed[ps.Path] = true
	}
	for _, t := range c.Terms {
		allowed[t] = true
	}

	triples := g.FindTriples(opt.Some(focus), opt.None[interner.Ref](), opt.None[interner.Ref]())
	seen := make(map[interner.Ref]bool)
	var offending []interner.Ref
	for _, t := range triples {
		if allowed[t.Predicate] || seen[t.Predicate] {
			continue
		}
		seen[t.Predicate] = true
		offending = append(offending, t.Predicate)
	}
	return offending
}

func runeLen(in *interner.Interner, ref interner.Ref) int {
	return utf8.RuneCountInString(in.ResolveString(ref))
}

func containsRef(haystack []interner.Ref, needle interner.Ref) bool {
	for _, r := range haystack {
		if r == needle {
			return true
		}
	}
	return false
}
