//go:build go1.22

package graph

import (
	"fmt"

	"github.com/flier/arenac/internal/debug"
	"github.com/flier/arenac/pkg/arena"
	"github.com/flier/arenac/pkg/arena/art"
	"github.com/flier/arenac/pkg/arena/slice"
	"github.com/flier/arenac/pkg/arena/swiss"
	"github.com/flier/arenac/pkg/interner"
)

// Config sizes a Graph's backing arenas and storage.
type Config struct {
	// MaxNodes/MaxEdges/MaxTriples/MaxNamedGraphs bound the dense arrays;
	// insertion past these limits fails with ErrOutOfCapacity.
	MaxNodes, MaxEdges, MaxTriples, MaxNamedGraphs int
	// AllowDuplicates disables the triple-hash dedup check on insert; off
	// by default, matching "if found and duplicates disallowed -> return
	// existing triple_id".
	AllowDuplicates bool
}

func (c Config) withDefaults() Config {
	if c.MaxNodes == 0 {
		c.MaxNodes = 1 << 16
	}
	if c.MaxEdges == 0 {
		c.MaxEdges = 1 << 17
	}
	if c.MaxTriples == 0 {
		c.MaxTriples = 1 << 17
	}
	if c.MaxNamedGraphs == 0 {
		c.MaxNamedGraphs = 256
	}
	return c
}

// Graph is an arena-resident RDF graph store: dense, index-addressed
// nodes/edges/triples/named-graphs, with intrusive per-node adjacency
// lists and open-addressed hash indices for node and triple lookup.
//
// A Graph never retains a Go-native string; every term flows through its
// Interner as an [interner.Ref].
type Graph struct {
	arena *arena.Arena // backs nodes/edges/triples/graphs
	index *arena.Arena // backs the swiss maps and the optional ART index

	interner *interner.Interner

	nodes   slice.Slice[Node]
	edges   slice.Slice[Edge]
	triples slice.Slice[Triple]
	graphs  slice.Slice[NamedGraph]

	nodeIndex   *swiss.Map[uint64, uint32]
	tripleIndex *swiss.Map[uint64, uint32]
	graphIndex  *swiss.Map[uint64, uint32]

	predIndex      art.Tree[[]uint32]
	predIndexBuilt bool
	predQueried    map[uint32]int // predicate Ref.Hash -> query count, for "built on demand after being queried twice"

	cfg Config
}

// New creates a Graph bound to its own arenas, sized per cfg, interning
// terms through in.
func New(in *interner.Interner, cfg Config) *Graph {
	cfg = cfg.withDefaults()

	g := &Graph{
		arena:       arena.NewArena(graphArenaBytes(cfg), arena.Config{StatsEnabled: true}),
		index:       arena.NewArena(indexArenaBytes(cfg), arena.Config{StatsEnabled: true}),
		interner:    in,
		cfg:         cfg,
		predQueried: make(map[uint32]int),
	}

	g.nodes = slice.Make[Node](g.arena, 0)
	g.edges = slice.Make[Edge](g.arena, 0)
	g.triples = slice.Make[Triple](g.arena, 0)
	g.graphs = slice.Make[NamedGraph](g.arena, 0)

	g.nodeIndex = swiss.NewMap[uint64, uint32](g.index, uint32(cfg.MaxNodes))
	g.tripleIndex = swiss.NewMap[uint64, uint32](g.index, uint32(cfg.MaxTriples))
	g.graphIndex = swiss.NewMap[uint64, uint32](g.index, uint32(cfg.MaxNamedGraphs))

	// graph 0 is the default, unnamed graph.
	g.graphs = g.graphs.AppendOne(g.index, NamedGraph{})

	return g
}

func graphArenaBytes(cfg Config) int {
	return cfg.MaxNodes*48 + cfg.MaxEdges*32 + cfg.MaxTriples*32 + cfg.MaxNamedGraphs*16 + 4096
}

func indexArenaBytes(cfg Config) int {
	// swiss groups rehash in place on the same arena, doubling as they
	// grow; a generous multiplier avoids the bounded index arena running
	// out mid-rehash.
	return (cfg.MaxNodes+cfg.MaxTriples+cfg.MaxNamedGraphs)*48 + 1<<16
}

// GetNode returns the node index for term/kind, creating the node if it
// doesn't exist yet.
func (g *Graph) GetNode(term interner.Ref, kind NodeKind) (uint32, error) {
	if !kind.valid() {
		return InvalidIndex, ErrBadArg
	}

	key := nodeKey(term, kind)
	if idx, ok := g.nodeIndex.Get(key); ok {
		return idx, nil
	}

	idx, err := g.appendNode(Node{Term: term, Kind: kind, FirstOutEdge: InvalidIndex, FirstInEdge: InvalidIndex})
	if err != nil {
		return InvalidIndex, err
	}
	g.nodeIndex.Put(key, idx)

	return idx, nil
}

// LookupNode is GetNode without the create-on-miss side effect, for
// read-only callers - like the validator - that must never mutate the
// graph while inspecting it.
func (g *Graph) LookupNode(term interner.Ref, kind NodeKind) (uint32, bool) {
	idx, ok := g.nodeIndex.Get(nodeKey(term, kind))
	return idx, ok
}

// KindOf reports the NodeKind a term was last observed as (IRI, Blank,
// then Literal, in that probing order), for a caller that holds a term
// but not the kind it was inserted with.
func (g *Graph) KindOf(term interner.Ref) (NodeKind, bool) {
	for _, kind := range [...]NodeKind{KindIRI, KindBlank, KindLiteral} {
		if _, ok := g.LookupNode(term, kind); ok {
			return kind, true
		}
	}
	return 0, false
}

// Node returns a copy of the node at idx. Callers must check idx against
// [Graph.NodeCount] first; out-of-range access panics like a slice
// index would.
func (g *Graph) Node(idx uint32) Node { return g.nodes.Load(int(idx)) }

// Edge returns a copy of the edge at idx.
func (g *Graph) Edge(idx uint32) Edge { return g.edges.Load(int(idx)) }

// Triple returns a copy of the triple at idx.
func (g *Graph) Triple(idx uint32) Triple { return g.triples.Load(int(idx)) }

// NodeCount, EdgeCount, TripleCount report the dense array lengths.
func (g *Graph) NodeCount() int   { return g.nodes.Len() }
func (g *Graph) EdgeCount() int   { return g.edges.Len() }
func (g *Graph) TripleCount() int { return g.triples.Len() }

// InsertTriple inserts (s, p, o) into the default graph. objectKind
// classifies the object term. Returns the triple's dense id; if the
// triple already exists and duplicates are disallowed, returns the
// existing id without appending anything.
func (g *Graph) InsertTriple(s, p, o interner.Ref, objectKind NodeKind) (uint32, error) {
	return g.InsertTripleNamed(s, p, o, objectKind, DefaultGraphID)
}

// InsertTripleNamed is InsertTriple for an explicit named graph id, as
// returned by [Graph.GetOrCreateNamedGraph]. The subject is always
// treated as KindIRI; use [Graph.InsertTripleNamedKind] for a blank-node
// subject, so that the same blank node referenced later as an object
// resolves to the same Node.
func (g *Graph) InsertTripleNamed(s, p, o interner.Ref, objectKind NodeKind, graphID uint32) (uint32, error) {
	return g.InsertTripleNamedKind(s, KindIRI, p, o, objectKind, graphID)
}

// InsertTripleKind is InsertTriple with an explicit subject kind (IRI or
// Blank), for callers - like the Turtle parser - that may assert a
// triple whose subject is a blank node.
func (g *Graph) InsertTripleKind(s interner.Ref, subjectKind NodeKind, p, o interner.Ref, objectKind NodeKind) (uint32, error) {
	return g.InsertTripleNamedKind(s, subjectKind, p, o, objectKind, DefaultGraphID)
}

// InsertTripleNamedKind is InsertTripleNamed with an explicit subject
// kind. All other Insert* variants funnel through this one.
func (g *Graph) InsertTripleNamedKind(s interner.Ref, subjectKind NodeKind, p, o interner.Ref, objectKind NodeKind, graphID uint32) (uint32, error) {
	if !subjectKind.valid() || !objectKind.valid() {
		return InvalidIndex, ErrBadArg
	}
	if graphID >= uint32(g.graphs.Len()) {
		return InvalidIndex, ErrBadArg
	}

	key := tripleKey(s, p, o, graphID)
	if !g.cfg.AllowDuplicates {
		if id, ok := g.tripleIndex.Get(key); ok {
			return id, nil
		}
	}

	id, err := g.appendTriple(Triple{Subject: s, Predicate: p, Object: o, ObjectKind: objectKind, GraphID: graphID})
	if err != nil {
		return InvalidIndex, err
	}
	g.tripleIndex.Put(key, id)

	subjIdx, err := g.GetNode(s, subjectKind)
	if err != nil {
		return InvalidIndex, err
	}
	objIdx, err := g.GetNode(o, objectKind)
	if err != nil {
		return InvalidIndex, err
	}

	edgeIdx, err := g.appendEdge(Edge{
		Source: subjIdx, Target: objIdx, Predicate: p, TripleID: id,
		NextOut: g.nodes.Get(int(subjIdx)).FirstOutEdge,
		NextIn:  g.nodes.Get(int(objIdx)).FirstInEdge,
	})
	if err != nil {
		return InvalidIndex, err
	}

	subj := g.nodes.Get(int(subjIdx))
	subj.FirstOutEdge = edgeIdx
	subj.OutDegree++

	obj := g.nodes.Get(int(objIdx))
	obj.FirstInEdge = edgeIdx
	obj.InDegree++

	if graphID != DefaultGraphID {
		ng := g.graphs.Get(int(graphID))
		ng.TripleCount++
	}

	if g.predIndexBuilt {
		g.indexPredicate(p, id)
	}

	debug.Log(nil, "insert", "triple=%d s=%v p=%v o=%v graph=%d", id, s, p, o, graphID)

	return id, nil
}

// Literal carries the optional datatype/language-tag metadata for a
// literal object, as produced by the Turtle parser's literal typing.
type Literal struct {
	Datatype interner.Ref
	Lang     interner.Ref
	HasLang  bool
}

// InsertLiteralTriple is InsertTriple for a KindLiteral object, stamping
// lit's datatype/language tag onto the resulting Triple.
func (g *Graph) InsertLiteralTriple(s, p, o interner.Ref, lit Literal) (uint32, error) {
	return g.InsertLiteralTripleNamed(s, p, o, lit, DefaultGraphID)
}

// InsertLiteralTripleNamed is InsertLiteralTriple for an explicit named
// graph id.
func (g *Graph) InsertLiteralTripleNamed(s, p, o interner.Ref, lit Literal, graphID uint32) (uint32, error) {
	return g.InsertLiteralTripleNamedKind(s, KindIRI, p, o, lit, graphID)
}

// InsertLiteralTripleNamedKind is InsertLiteralTripleNamed with an
// explicit subject kind, for a blank-node subject.
func (g *Graph) InsertLiteralTripleNamedKind(s interner.Ref, subjectKind NodeKind, p, o interner.Ref, lit Literal, graphID uint32) (uint32, error) {
	id, err := g.InsertTripleNamedKind(s, subjectKind, p, o, KindLiteral, graphID)
	if err != nil {
		return id, err
	}

	t := g.triples.Get(int(id))
	t.Datatype = lit.Datatype
	t.HasDatatype = true
	t.Lang = lit.Lang
	t.HasLang = lit.HasLang

	return id, nil
}

// BatchInsertTriple is InsertTriple repeated for each element of ts, in
// order, stopping at the first failure.
func (g *Graph) BatchInsertTriple(ts []struct {
	S, P, O    interner.Ref
	ObjectKind NodeKind
}) error {
	for _, t := range ts {
		if _, err := g.InsertTriple(t.S, t.P, t.O, t.ObjectKind); err != nil {
			return err
		}
	}
	return nil
}

// ContainsTriple reports whether (s, p, o) exists in the default graph.
func (g *Graph) ContainsTriple(s, p, o interner.Ref) bool {
	return g.ContainsTripleNamed(s, p, o, DefaultGraphID)
}

// ContainsTripleNamed is ContainsTriple scoped to graphID.
func (g *Graph) ContainsTripleNamed(s, p, o interner.Ref, graphID uint32) bool {
	_, ok := g.tripleIndex.Get(tripleKey(s, p, o, graphID))
	return ok
}

// GetOrCreateNamedGraph returns the graph id for iri, creating it if
// necessary.
func (g *Graph) GetOrCreateNamedGraph(iri interner.Ref) (uint32, error) {
	key := graphKey(iri)
	if id, ok := g.graphIndex.Get(key); ok {
		return id, nil
	}

	if g.graphs.Len() >= g.cfg.MaxNamedGraphs {
		return InvalidIndex, ErrOutOfCapacity
	}

	id := uint32(g.graphs.Len())
	g.graphs = g.graphs.AppendOne(g.index, NamedGraph{IRI: iri})
	g.graphIndex.Put(key, id)

	return id, nil
}

// NamedGraph returns a copy of the named graph at id.
func (g *Graph) NamedGraph(id uint32) NamedGraph { return g.graphs.Load(int(id)) }

// NamedGraphCount reports how many named graphs exist, including the
// default graph at index 0.
func (g *Graph) NamedGraphCount() int { return g.graphs.Len() }

// Stats reports aggregate statistics over the graph's arenas and degree
// fields, per the contract's "counts, average degree, memory usage".
type Stats struct {
	Nodes, Edges, Triples, NamedGraphs int
	AverageOutDegree                   float64
	MemoryUsed, MemoryCapacity         int
}

// Stats computes current graph statistics. This walks the node array
// once, so it's not a hot-path operation.
func (g *Graph) Stats() Stats {
	var totalOut uint64
	for i := 0; i < g.nodes.Len(); i++ {
		totalOut += uint64(g.nodes.Get(i).OutDegree)
	}

	avg := 0.0
	if g.nodes.Len() > 0 {
		avg = float64(totalOut) / float64(g.nodes.Len())
	}

	info := g.arena.Info()
	idxInfo := g.index.Info()

	return Stats{
		Nodes:             g.nodes.Len(),
		Edges:             g.edges.Len(),
		Triples:           g.triples.Len(),
		NamedGraphs:       g.graphs.Len(),
		AverageOutDegree:  avg,
		MemoryUsed:        info.Used + idxInfo.Used,
		MemoryCapacity:    info.TotalCapacity + idxInfo.TotalCapacity,
	}
}

func (g *Graph) appendNode(n Node) (idx uint32, err error) {
	defer func() {
		if r := recover(); r != nil {
			idx, err = InvalidIndex, recoverCapacity(r)
		}
	}()
	if g.nodes.Len() >= g.cfg.MaxNodes {
		return InvalidIndex, ErrOutOfCapacity
	}
	idx = uint32(g.nodes.Len())
	g.nodes = g.nodes.AppendOne(g.arena, n)
	return idx, nil
}

func (g *Graph) appendEdge(e Edge) (idx uint32, err error) {
	defer func() {
		if r := recover(); r != nil {
			idx, err = InvalidIndex, recoverCapacity(r)
		}
	}()
	if g.edges.Len() >= g.cfg.MaxEdges {
		return InvalidIndex, ErrOutOfCapacity
	}
	idx = uint32(g.edges.Len())
	g.edges = g.edges.AppendOne(g.arena, e)
	return idx, nil
}

func (g *Graph) appendTriple(t Triple) (idx uint32, err error) {
	defer func() {
		if r := recover(); r != nil {
			idx, err = InvalidIndex, recoverCapacity(r)
		}
	}()
	if g.triples.Len() >= g.cfg.MaxTriples {
		return InvalidIndex, ErrOutOfCapacity
	}
	idx = uint32(g.triples.Len())
	t.ID = idx
	g.triples = g.triples.AppendOne(g.arena, t)
	return idx, nil
}

// recoverCapacity turns a recovered arena.Must panic back into a plain
// error, so Graph's public API never panics on exhaustion even though
// slice.Slice's Append/Grow do (via arena.Must). r is never nil; callers
// only invoke this from inside a non-nil recover().
func recoverCapacity(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %v", ErrOutOfCapacity, err)
	}
	panic(r)
}
