//go:build go1.22

// Package arena provides a bounded, multi-zone bump-pointer allocator.
//
// Unlike a GC-growable arena, an [Arena] owns one fixed-capacity byte region
// per zone, carved out up front. Allocation never grows a zone: once it is
// full, [Arena.Alloc] returns [ErrOutOfCapacity] rather than reaching back
// into the Go allocator. The only ways to reclaim space are [Arena.Reset]
// (return to empty) and [Arena.Restore] (return to a saved [Checkpoint]) —
// there is no per-allocation free.
//
// # Zones
//
// An Arena holds up to [MaxZones] zones, each a disjoint byte slice. Bump
// allocation never crosses a zone boundary; callers pick the active zone
// with [Arena.SwitchZone] and add more with [Arena.AddZone]. This lets a
// single Arena back, say, a graph's node array and its string pool with
// independent capacities while still sharing one checkpoint/reset scope.
//
// # Alignment
//
// Every returned pointer satisfies addr mod align == 0, where align is the
// Arena's configured alignment (8 or 64 bytes, see [Config.Align64]).
// [Arena.AllocAligned] requests a stricter alignment for a single
// allocation; the padding needed to satisfy it is charged against the
// zone's capacity.
//
// # Thread safety
//
// An Arena with [Config.ThreadSafe] unset is not safe for concurrent use.
// The 7-cycle hot-path budget this module is built around is defined only
// for that unlocked path; setting ThreadSafe trades it for a mutex.
package arena

import (
	"errors"
	"sync"
	"unsafe"

	"github.com/flier/arenac/internal/debug"
	"github.com/flier/arenac/pkg/xunsafe"
	"github.com/flier/arenac/pkg/xunsafe/layout"
)

// MaxZones is the maximum number of zones an Arena may hold.
const MaxZones = 16

// DefaultAlign is the default pointer alignment for arena allocations.
const DefaultAlign = 8

// WideAlign is the cache-line alignment offered for hot structures.
const WideAlign = 64

// ErrOutOfCapacity is returned when an allocation would exceed the active
// zone's remaining capacity, or a zone/checkpoint limit is exceeded.
var ErrOutOfCapacity = errors.New("arena: out of capacity")

// ErrBadArg is returned for invalid arguments: a non-power-of-two
// alignment, a negative size, or an unknown zone id.
var ErrBadArg = errors.New("arena: bad argument")

// Allocator is the interface every arena-backed collection in this module
// builds on.
type Allocator interface {
	// Alloc allocates size bytes aligned to the allocator's configured
	// alignment, or fails with ErrOutOfCapacity.
	Alloc(size int) (*byte, error)

	// AllocAligned allocates size bytes aligned to the given power-of-two
	// alignment, which must be >= the allocator's configured alignment.
	AllocAligned(size, alignment int) (*byte, error)

	// Release is a hint that the block at p is no longer needed. Arena
	// ignores it; allocators that recycle sub-arena storage (pkg/interner's
	// optional reclaim path) use it to return blocks to a free list.
	Release(p *byte, size int)
}

// AllocatorExt exposes the active zone's bump cursor, for collections that
// open-code their own fast path rather than calling Alloc.
type AllocatorExt interface {
	Allocator

	// Next returns the next available address in the active zone.
	Next() xunsafe.Addr[byte]

	// End returns the end of the active zone.
	End() xunsafe.Addr[byte]

	// Cap returns the active zone's total capacity.
	Cap() int

	// Advance moves the active zone's cursor forward by n bytes. Callers
	// that open-code allocation must not advance past End().
	Advance(n int)

	// Log logs a structured debug message tagged with this allocator.
	Log(op, format string, args ...any)
}

// Config is the configuration surface for an Arena.
type Config struct {
	// ZeroOnAlloc zeroes each allocation's requested bytes (not padding)
	// before returning it.
	ZeroOnAlloc bool
	// ZeroOnReset wipes used bytes, rather than merely rewinding the
	// cursor, when Reset is called.
	ZeroOnReset bool
	// StatsEnabled tracks peak usage. When false, Info().Peak stays 0.
	StatsEnabled bool
	// ThreadSafe wraps Alloc/Reset/Checkpoint/Restore in a mutex.
	ThreadSafe bool
	// OverflowCheck adds an explicit capacity check even where the
	// compiler could otherwise prove it, guarding against size_t overflow
	// on pathological sizes.
	OverflowCheck bool
	// Align64 selects WideAlign (64) instead of DefaultAlign (8).
	Align64 bool
	// Temp marks this arena as scratch space for callers' own accounting;
	// Arena itself treats it no differently.
	Temp bool
	// Prefault touches every page of every zone once at creation so the
	// first real allocation into that page doesn't fault.
	Prefault bool
}

func (c Config) align() int {
	if c.Align64 {
		return WideAlign
	}
	return DefaultAlign
}

// zone is one contiguous, fixed-capacity byte region.
type zone struct {
	base []byte
	used int
}

func (z *zone) cap() int { return len(z.base) }

// Checkpoint is a frozen snapshot of an Arena's cursor, valid only until
// that Arena is Reset or a lower Checkpoint is Restored.
type Checkpoint struct {
	used     int
	zone     int
	allocs   uint64
	numZones int
	zoneUsed [MaxZones]int
}

// Info summarizes an Arena's current state.
type Info struct {
	TotalCapacity int
	Used          int
	Peak          int
	Allocations   uint64
	Zones         int
	ActiveZone    int
}

// Utilization returns Used/TotalCapacity, or 0 if the arena has no
// capacity.
func (i Info) Utilization() float64 {
	if i.TotalCapacity == 0 {
		return 0
	}
	return float64(i.Used) / float64(i.TotalCapacity)
}

// Arena is a bounded, multi-zone bump allocator. The zero value is not
// usable; construct with [NewArena].
type Arena struct {
	_ xunsafe.NoCopy

	cfg      Config
	align    int
	zones    [MaxZones]zone
	numZones int
	curZone  int
	used     int // total used bytes across all zones
	peak     int // peak usage watermark, kept only if cfg.StatsEnabled
	allocs   uint64

	mu *sync.Mutex // non-nil iff cfg.ThreadSafe
}

var _ AllocatorExt = (*Arena)(nil)

// NewArena creates an Arena with a single zone of the given capacity.
func NewArena(capacity int, cfg Config) *Arena {
	a := &Arena{cfg: cfg, align: cfg.align()}
	if cfg.ThreadSafe {
		a.mu = new(sync.Mutex)
	}
	if _, err := a.AddZone(capacity); err != nil {
		// A fresh arena's first zone can only fail on a bad argument
		// (negative capacity), which is a caller bug.
		panic(err)
	}
	return a
}

// AddZone appends a new zone of the given byte capacity and returns its
// zone id. Fails with ErrOutOfCapacity if MaxZones zones already exist, or
// ErrBadArg if bytes < 0.
func (a *Arena) AddZone(bytes int) (int, error) {
	a.lock()
	defer a.unlock()
	return a.addZoneLocked(bytes)
}

func (a *Arena) addZoneLocked(bytes int) (int, error) {
	if bytes < 0 {
		return 0, ErrBadArg
	}
	if a.numZones >= MaxZones {
		return 0, ErrOutOfCapacity
	}

	id := a.numZones
	a.zones[id] = zone{base: make([]byte, bytes)}
	a.numZones++

	if a.cfg.Prefault {
		prefault(a.zones[id].base)
	}

	return id, nil
}

// SwitchZone makes the given zone id the active zone for subsequent Alloc
// calls. Fails with ErrBadArg for an unknown zone id.
func (a *Arena) SwitchZone(id int) error {
	a.lock()
	defer a.unlock()

	if id < 0 || id >= a.numZones {
		return ErrBadArg
	}
	a.curZone = id
	return nil
}

// Alloc allocates size bytes aligned to the arena's configured alignment.
func (a *Arena) Alloc(size int) (*byte, error) {
	return a.AllocAligned(size, a.align)
}

// AllocAligned allocates size bytes aligned to the given power-of-two
// alignment, which must be >= the arena's configured alignment.
func (a *Arena) AllocAligned(size, alignment int) (*byte, error) {
	if size < 0 || alignment < a.align || !isPow2(alignment) {
		return nil, ErrBadArg
	}

	a.lock()
	defer a.unlock()

	z := &a.zones[a.curZone]
	if len(z.base) == 0 {
		return nil, ErrOutOfCapacity
	}

	base := xunsafe.AddrOf(unsafe.SliceData(z.base))
	cur := base.ByteAdd(z.used)
	padding := cur.Padding(alignment)
	alignedSize := layout.RoundUp(size, a.align)

	total := padding + alignedSize
	if a.cfg.OverflowCheck && (total < padding || total < alignedSize) {
		return nil, ErrOutOfCapacity
	}
	if z.used+total > z.cap() {
		return nil, ErrOutOfCapacity
	}

	p := cur.ByteAdd(padding).AssertValid()
	z.used += total
	a.used += total
	a.allocs++

	if a.cfg.StatsEnabled && a.used > a.peak {
		a.peak = a.used
	}
	if a.cfg.ZeroOnAlloc && size > 0 {
		xunsafe.Clear(p, size)
	}

	a.log("alloc", "zone=%d size=%d align=%d -> +%d bytes", a.curZone, size, alignment, total)

	return p, nil
}

// Reset returns the arena to empty: every zone's cursor goes back to zero.
// If Config.ZeroOnReset is set, used bytes in every zone are wiped first.
func (a *Arena) Reset() {
	a.lock()
	defer a.unlock()

	for i := 0; i < a.numZones; i++ {
		z := &a.zones[i]
		if a.cfg.ZeroOnReset && z.used > 0 {
			clear(z.base[:z.used])
		}
		z.used = 0
	}
	a.used = 0
	a.peak = 0
	a.allocs = 0
	a.curZone = 0

	a.log("reset", "zones=%d", a.numZones)
}

// Checkpoint freezes the current cursor, active zone, per-zone used bytes,
// and allocation count.
func (a *Arena) Checkpoint() Checkpoint {
	a.lock()
	defer a.unlock()

	c := Checkpoint{used: a.used, zone: a.curZone, allocs: a.allocs, numZones: a.numZones}
	for i := 0; i < a.numZones; i++ {
		c.zoneUsed[i] = a.zones[i].used
	}
	return c
}

// Restore rewinds the arena to a previously taken [Checkpoint]. Fails with
// ErrBadArg if c refers to more zones than currently exist (only possible
// when restoring a checkpoint taken from a different Arena).
func (a *Arena) Restore(c Checkpoint) error {
	a.lock()
	defer a.unlock()

	if c.numZones > a.numZones {
		return ErrBadArg
	}

	for i := 0; i < c.numZones; i++ {
		a.zones[i].used = c.zoneUsed[i]
	}
	a.used = c.used
	a.curZone = c.zone
	a.allocs = c.allocs

	a.log("restore", "used=%d zone=%d", a.used, a.curZone)

	return nil
}

// Info returns a snapshot of the arena's totals, peak usage, and zone
// count.
func (a *Arena) Info() Info {
	a.lock()
	defer a.unlock()

	total := 0
	for i := 0; i < a.numZones; i++ {
		total += a.zones[i].cap()
	}

	return Info{
		TotalCapacity: total,
		Used:          a.used,
		Peak:          a.peak,
		Allocations:   a.allocs,
		Zones:         a.numZones,
		ActiveZone:    a.curZone,
	}
}

// Release is a no-op: Arena only ever frees via Reset/Restore.
func (a *Arena) Release(p *byte, size int) {}

// ZoneBase returns the first byte of the given zone's backing storage.
// Since a zone's backing slice is allocated once and never reallocated
// (zones only grow by adding new ones, never resizing in place), this
// address is stable for the zone's whole lifetime — callers that record
// offsets into a zone (as [github.com/flier/arenac/pkg/interner] does for
// its string pool) can resolve them without repeated allocator calls.
func (a *Arena) ZoneBase(id int) (*byte, error) {
	a.lock()
	defer a.unlock()

	if id < 0 || id >= a.numZones {
		return nil, ErrBadArg
	}
	if len(a.zones[id].base) == 0 {
		return nil, nil
	}
	return &a.zones[id].base[0], nil
}

// Next returns the active zone's bump cursor.
func (a *Arena) Next() xunsafe.Addr[byte] {
	z := &a.zones[a.curZone]
	return xunsafe.AddrOf(unsafe.SliceData(z.base)).ByteAdd(z.used)
}

// End returns the active zone's upper bound.
func (a *Arena) End() xunsafe.Addr[byte] {
	z := &a.zones[a.curZone]
	return xunsafe.AddrOf(unsafe.SliceData(z.base)).ByteAdd(len(z.base))
}

// Cap returns the active zone's total capacity.
func (a *Arena) Cap() int { return a.zones[a.curZone].cap() }

// Advance moves the active zone's cursor forward by n bytes without
// initializing anything; used by collections that open-code bump
// allocation against Next()/End().
func (a *Arena) Advance(n int) {
	z := &a.zones[a.curZone]
	z.used += n
	a.used += n
}

// Log logs a structured debug message tagged with this arena's address and
// active zone cursor.
func (a *Arena) Log(op, format string, args ...any) {
	debug.Log([]any{"%p zone=%d used=%d", a, a.curZone, a.zones[a.curZone].used}, op, format, args...)
}

func (a *Arena) log(op, format string, args ...any) {
	if debug.Enabled {
		a.Log(op, format, args...)
	}
}

func (a *Arena) lock() {
	if a.mu != nil {
		a.mu.Lock()
	}
}

func (a *Arena) unlock() {
	if a.mu != nil {
		a.mu.Unlock()
	}
}

func isPow2(n int) bool { return n > 0 && n&(n-1) == 0 }

// Must panics if err is non-nil, otherwise returns p. Collections that, like
// the teacher's, assume allocation cannot fail (because callers size their
// Arena for the workload) use this to keep their hot paths free of error
// threading; see [New]'s doc comment for the same tradeoff.
func Must(p *byte, err error) *byte {
	if err != nil {
		panic(err)
	}
	return p
}

// New allocates a new value of type T from a, aligned to at least T's
// natural alignment, and initializes it to value.
//
// Internal collections (pkg/arena/art, pkg/arena/swiss) are written the way
// the teacher's were: as code that assumes node allocation cannot fail,
// because callers size their backing Arena for the workload up front. New
// keeps that ergonomic by panicking on [ErrOutOfCapacity] rather than
// threading an error through every node constructor; code that must
// degrade gracefully under a fixed budget calls AllocAligned directly.
func New[T any](a Allocator, value T) *T {
	l := layout.Of[T]()
	p, err := a.AllocAligned(l.Size, max(l.Align, DefaultAlign))
	if err != nil {
		panic(err)
	}
	t := xunsafe.Cast[T](p)
	*t = value
	return t
}

// Free returns a value of type T to a's free list, if it keeps one; a plain
// Arena ignores it (see [Arena.Release]).
func Free[T any](a Allocator, p *T) {
	a.Release(xunsafe.Cast[byte](p), layout.Of[T]().Size)
}
