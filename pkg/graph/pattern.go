//go:build go1.23

package graph

import (
	"iter"
	"sort"

	"github.com/flier/arenac/pkg/interner"
	"github.com/flier/arenac/pkg/opt"
	"github.com/flier/arenac/pkg/tuple"
	"github.com/flier/arenac/pkg/xiter"
)

// predicateIndexThreshold is how many times a predicate-only pattern must
// be evaluated before the secondary predicate index is built, per "built
// on demand" in the contract.
const predicateIndexThreshold = 2

// FindTriples returns every triple matching (s, p, o), where any term may
// be opt.None to mean "wildcard". Results are in insertion order (stable
// by triple_id).
func (g *Graph) FindTriples(s, p, o opt.Option[interner.Ref]) []Triple {
	switch {
	case s.IsSome():
		return g.scanBySubject(s.Unwrap(), p, o)
	case o.IsSome():
		return g.scanByObject(o.Unwrap(), s, p)
	case p.IsSome():
		return g.scanByPredicate(p.Unwrap())
	default:
		return g.allTriplesSlice()
	}
}

func (g *Graph) scanBySubject(s interner.Ref, p, o opt.Option[interner.Ref]) []Triple {
	// s's NodeKind is unknown here (IRI or Blank; a subject is never a
	// Literal); probe both, since the node index key includes kind.
	var out []Triple
	for _, kind := range [...]NodeKind{KindIRI, KindBlank} {
		nodeIdx, ok := g.nodeIndex.Get(nodeKey(s, kind))
		if !ok {
			continue
		}
		for e := g.nodes.Get(int(nodeIdx)).FirstOutEdge; e != InvalidIndex; {
			edge := g.edges.Get(int(e))
			t := g.triples.Get(int(edge.TripleID))
			if matchRef(p, t.Predicate) && matchRef(o, t.Object) {
				out = append(out, *t)
			}
			e = edge.NextOut
		}
	}

	sortByID(out)
	return out
}

func (g *Graph) scanByObject(o interner.Ref, s, p opt.Option[interner.Ref]) []Triple {
	// o's NodeKind is unknown here (any of IRI/Blank/Literal); probe all
	// three, since the node index key includes kind.
	var out []Triple
	for _, kind := range [...]NodeKind{KindIRI, KindBlank, KindLiteral} {
		nodeIdx, ok := g.nodeIndex.Get(nodeKey(o, kind))
		if !ok {
			continue
		}
		for e := g.nodes.Get(int(nodeIdx)).FirstInEdge; e != InvalidIndex; {
			edge := g.edges.Get(int(e))
			t := g.triples.Get(int(edge.TripleID))
			if matchRef(s, t.Subject) && matchRef(p, t.Predicate) {
				out = append(out, *t)
			}
			e = edge.NextIn
		}
	}

	sortByID(out)
	return out
}

func (g *Graph) scanByPredicate(p interner.Ref) []Triple {
	g.predQueried[p.Hash]++

	if !g.predIndexBuilt && g.predQueried[p.Hash] >= predicateIndexThreshold {
		g.buildPredicateIndex()
	}

	if g.predIndexBuilt {
		key := g.interner.Resolve(p)
		ids := g.predIndex.Search(key)
		if ids == nil {
			return nil
		}
		out := make([]Triple, 0, len(*ids))
		for _, id := range *ids {
			out = append(out, *g.triples.Get(int(id)))
		}
		return out
	}

	var out []Triple
	for i := 0; i < g.triples.Len(); i++ {
		t := g.triples.Get(i)
		if t.Predicate == p {
			out = append(out, *t)
		}
	}
	return out
}

func (g *Graph) allTriplesSlice() []Triple {
	out := make([]Triple, g.triples.Len())
	for i := range out {
		out[i] = *g.triples.Get(i)
	}
	return out
}

// allTriples exposes the dense triple array as an iter.Seq, for callers
// that want to compose with xiter rather than materialize a slice.
func (g *Graph) allTriples() iter.Seq[Triple] {
	return func(yield func(Triple) bool) {
		for i := 0; i < g.triples.Len(); i++ {
			if !yield(*g.triples.Get(i)) {
				return
			}
		}
	}
}

// TriplesByPredicate is allTriples filtered by predicate, expressed as the
// teacher's xiter combinators rather than a hand-rolled loop.
func (g *Graph) TriplesByPredicate(p interner.Ref) iter.Seq[Triple] {
	return xiter.Filter(g.allTriples(), func(t Triple) bool { return t.Predicate == p })
}

func (g *Graph) buildPredicateIndex() {
	g.predIndexBuilt = true
	for i := 0; i < g.triples.Len(); i++ {
		t := g.triples.Get(i)
		g.indexPredicate(t.Predicate, t.ID)
	}
}

func (g *Graph) indexPredicate(p interner.Ref, tripleID uint32) {
	key := g.interner.Resolve(p)
	if existing := g.predIndex.Search(key); existing != nil {
		*existing = append(*existing, tripleID)
		return
	}
	g.predIndex.Insert(g.index, key, []uint32{tripleID})
}

func matchRef(want opt.Option[interner.Ref], got interner.Ref) bool {
	return want.IsNone() || want.Unwrap() == got
}

func sortByID(ts []Triple) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })
}

// Term is either a bound term or a named variable, for use in a
// [Pattern] passed to [Graph.JoinPatterns].
type Term struct {
	Ref   interner.Ref
	Var   string
	Bound bool
	isVar bool
}

// BoundTerm wraps a concrete term as a non-variable Pattern position.
func BoundTerm(ref interner.Ref) Term { return Term{Ref: ref, Bound: true} }

// VarTerm names a variable Pattern position, unified across the patterns
// passed to the same JoinPatterns call.
func VarTerm(name string) Term { return Term{Var: name, isVar: true} }

// Pattern is a single triple pattern with 0-3 variable positions.
type Pattern struct {
	S, P, O Term
}

// Binding maps variable names to the term they were unified with.
type Binding map[string]interner.Ref

// JoinRow carries one n-ary join's accumulated bindings and the sequence
// of triples that produced them, one per pattern evaluated so far.
type JoinRow = tuple.Tuple2[Binding, []Triple]

// JoinPatterns evaluates patterns left-to-right via nested-loop join: each
// pattern is matched against the graph using the bindings accumulated from
// prior patterns, and every match extends the binding set for the next.
// The planner is explicitly minimal, per the contract.
func (g *Graph) JoinPatterns(patterns []Pattern) []JoinRow {
	rows := []JoinRow{tuple.New2[Binding, []Triple](Binding{}, nil)}

	for _, pat := range patterns {
		var next []JoinRow

		for _, row := range rows {
			binding := row.V0
			s, sOK := resolveTerm(pat.S, binding)
			p, pOK := resolveTerm(pat.P, binding)
			o, oOK := resolveTerm(pat.O, binding)
			if !sOK || !pOK || !oOK {
				continue
			}

			matches := g.FindTriples(s, p, o)
			for _, t := range matches {
				nb, ok := extendBinding(binding, pat, t)
				if !ok {
					continue
				}
				next = append(next, tuple.New2(nb, append(cloneTriples(row.V1), t)))
			}
		}

		rows = next
		if len(rows) == 0 {
			break
		}
	}

	return rows
}

// resolveTerm turns a Pattern Term into an opt.Option[Ref] for
// FindTriples: bound terms pass through, variables resolve against the
// current binding (wildcard if still unbound). ok is always true here;
// a triple that conflicts with an existing binding is rejected later by
// extendBinding.
func resolveTerm(t Term, binding Binding) (opt.Option[interner.Ref], bool) {
	if t.Bound {
		return opt.Some(t.Ref), true
	}
	if ref, ok := binding[t.Var]; ok {
		return opt.Some(ref), true
	}
	return opt.None[interner.Ref](), true
}

func extendBinding(binding Binding, pat Pattern, t Triple) (Binding, bool) {
	nb := make(Binding, len(binding)+3)
	for k, v := range binding {
		nb[k] = v
	}
	for _, pair := range [...]struct {
		term Term
		val  interner.Ref
	}{
		{pat.S, t.Subject}, {pat.P, t.Predicate}, {pat.O, t.Object},
	} {
		if !pair.term.isVar {
			continue
		}
		if existing, ok := nb[pair.term.Var]; ok && existing != pair.val {
			return nil, false
		}
		nb[pair.term.Var] = pair.val
	}
	return nb, true
}

func cloneTriples(ts []Triple) []Triple {
	out := make([]Triple, len(ts), len(ts)+1)
	copy(out, ts)
	return out
}
