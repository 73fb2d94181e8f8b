//go:build go1.23

package graph

import (
	"iter"

	"github.com/flier/arenac/pkg/xiter"
)

// outEdges iterates the edges whose source is nodeIdx, newest-inserted
// first, by walking the intrusive NextOut chain.
func (g *Graph) outEdges(nodeIdx uint32) iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for e := g.nodes.Get(int(nodeIdx)).FirstOutEdge; e != InvalidIndex; {
			edge := *g.edges.Get(int(e))
			if !yield(edge) {
				return
			}
			e = edge.NextOut
		}
	}
}

// inEdges is outEdges for the incoming adjacency list.
func (g *Graph) inEdges(nodeIdx uint32) iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for e := g.nodes.Get(int(nodeIdx)).FirstInEdge; e != InvalidIndex; {
			edge := *g.edges.Get(int(e))
			if !yield(edge) {
				return
			}
			e = edge.NextIn
		}
	}
}

// OutNeighbors yields the target node index of every outgoing edge from
// nodeIdx.
func (g *Graph) OutNeighbors(nodeIdx uint32) iter.Seq[uint32] {
	return xiter.Map(g.outEdges(nodeIdx), func(e Edge) uint32 { return e.Target })
}

// InNeighbors yields the source node index of every incoming edge into
// nodeIdx.
func (g *Graph) InNeighbors(nodeIdx uint32) iter.Seq[uint32] {
	return xiter.Map(g.inEdges(nodeIdx), func(e Edge) uint32 { return e.Source })
}

// ForEachOutNeighbor visits every outgoing neighbor of nodeIdx, in the
// style of the teacher's xiter.ForEach helper.
func (g *Graph) ForEachOutNeighbor(nodeIdx uint32, f func(uint32)) {
	xiter.ForEach(g.OutNeighbors(nodeIdx), f)
}

// DFS performs a depth-first traversal starting at start, calling visit
// for each newly-discovered node (including start itself). visit returns
// true to stop the traversal early; DFS then returns true. A node already
// visited is never revisited, so DFS terminates even in a cyclic graph.
func (g *Graph) DFS(start uint32, visit func(uint32) bool) bool {
	visited := make(map[uint32]bool)
	stack := []uint32{start}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[n] {
			continue
		}
		visited[n] = true

		if visit(n) {
			return true
		}

		for nb := range g.OutNeighbors(n) {
			if !visited[nb] {
				stack = append(stack, nb)
			}
		}
	}

	return false
}

// BFS performs a breadth-first traversal starting at start, calling visit
// for each newly-discovered node in distance order. Same early-exit and
// cycle-safety contract as DFS.
func (g *Graph) BFS(start uint32, visit func(uint32) bool) bool {
	visited := map[uint32]bool{start: true}
	queue := []uint32{start}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if visit(n) {
			return true
		}

		for nb := range g.OutNeighbors(n) {
			if !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
	}

	return false
}
