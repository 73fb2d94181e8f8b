//go:build go1.22

package interner

import (
	"github.com/flier/arenac/pkg/arena"
	"github.com/flier/arenac/pkg/arena/slice"
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

// slot is one entry of the open-addressed table: a Ref plus its
// occupancy state. Slots are arena-resident, so the table can be sized and
// rehashed without touching the Go heap.
type slot struct {
	state slotState
	ref   Ref
}

// table is a linear-probed, power-of-two-sized open-addressed hash table
// mapping a content hash to the Ref that owns it. Unlike pkg/arena/swiss's
// Map, table never stores the key (the string bytes) directly — only the
// Ref, which is resolved back to bytes through the owning Interner's
// string pool. This is what lets Interner intern arena-resident byte
// ranges without ever promoting them to a Go-native, heap-allocated
// comparable key.
type table struct {
	slots    slice.Slice[slot]
	resident int
	dead     int
}

func newTable(a *arena.Arena, n int) table {
	n = nextPow2(max(n, 16))
	t := table{slots: slice.Make[slot](a, n)}
	return t
}

func (t *table) cap() int { return t.slots.Len() }

func (t *table) loadFactor() float64 {
	if t.cap() == 0 {
		return 1
	}
	return float64(t.resident+t.dead) / float64(t.cap())
}

// find probes for hash, calling eq to confirm candidates whose stored hash
// matches. It returns the index of an existing occupied slot (found=true),
// or the index of the first empty/tombstone slot usable for insertion.
func (t *table) find(hash uint32, eq func(Ref) bool) (idx int, found bool) {
	mask := uint32(t.cap() - 1)
	i := hash & mask
	firstTombstone := -1

	for probes := 0; probes <= t.cap(); probes++ {
		s := t.slots.Get(int(i))
		switch s.state {
		case slotEmpty:
			if firstTombstone >= 0 {
				return firstTombstone, false
			}
			return int(i), false
		case slotTombstone:
			if firstTombstone < 0 {
				firstTombstone = int(i)
			}
		case slotOccupied:
			if s.ref.Hash == hash && eq(s.ref) {
				return int(i), true
			}
		}
		i = (i + 1) & mask
	}

	// Table is full of tombstones/occupied slots with no match; caller
	// must grow before inserting.
	if firstTombstone >= 0 {
		return firstTombstone, false
	}
	return -1, false
}

func (t *table) insertAt(idx int, ref Ref) {
	s := t.slots.Get(idx)
	if s.state == slotTombstone {
		t.dead--
	}
	s.state = slotOccupied
	s.ref = ref
	t.resident++
}

func (t *table) deleteAt(idx int) {
	s := t.slots.Get(idx)
	s.state = slotTombstone
	*s = slot{state: slotTombstone}
	t.resident--
	t.dead++
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
