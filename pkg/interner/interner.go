//go:build go1.23

package interner

import (
	"iter"
	"unsafe"

	"github.com/dolthub/maphash"

	"github.com/flier/arenac/internal/debug"
	"github.com/flier/arenac/pkg/arena"
	"github.com/flier/arenac/pkg/opt"
	"github.com/flier/arenac/pkg/xunsafe"
)

const maxLoadFactor = 0.7

// Config configures an Interner.
type Config struct {
	// CaseFold normalizes bytes via ASCII lower-casing before hashing and
	// storing them, so "Alice" and "ALICE" intern to the same Ref. Off by
	// default: RDF IRIs and literals are case-sensitive.
	CaseFold bool
	// GCEnabled turns on ref-counted reclaim of interned strings: each
	// Intern of a string counts as a reference and Release drops one.
	// Off by default: the string pool is append-only, matching the
	// spec's default behavior.
	GCEnabled bool
	// InitialStrings sizes the string-pool zone, in bytes.
	InitialStrings int
	// InitialEntries sizes the open-addressed table, in entries.
	InitialEntries int
}

// Interner interns byte strings into an arena-resident pool, returning a
// small content-addressed [Ref] for each distinct string.
type Interner struct {
	strings     *arena.Arena
	stringsBase *byte
	index       *arena.Arena
	tbl         table
	hash        maphash.Hasher[string]
	cfg         Config
	count       int
	reclaim     *reclaimer
}

// New creates an Interner with its own string-pool arena, sized by
// cfg.InitialStrings, and its own index arena.
func New(cfg Config) *Interner {
	if cfg.InitialStrings == 0 {
		cfg.InitialStrings = 1 << 16
	}
	if cfg.InitialEntries == 0 {
		cfg.InitialEntries = 1024
	}

	// The index arena must hold both the live table and, briefly during a
	// grow(), the table it is being rehashed into (up to 2x its
	// predecessor), across several doublings — sized generously since a
	// bounded arena cannot grow itself once full.
	indexBytes := (cfg.InitialEntries*8 + 1024) * 24

	in := &Interner{
		strings: arena.NewArena(cfg.InitialStrings, arena.Config{StatsEnabled: true}),
		index:   arena.NewArena(indexBytes, arena.Config{StatsEnabled: true}),
		hash:    maphash.NewHasher[string](),
		cfg:     cfg,
	}
	in.stringsBase, _ = in.strings.ZoneBase(0)
	in.tbl = newTable(in.index, cfg.InitialEntries)
	if cfg.GCEnabled {
		in.reclaim = newReclaimer()
	}

	// Intern the empty string first, so Ref{} unambiguously means "".
	_, _ = in.Intern(nil)

	return in
}

// Intern interns b, returning its Ref. Equal content always returns the
// same Ref. The returned Ref remains valid until the Interner's string
// pool is Reset (or, with GCEnabled, until its last Release).
func (in *Interner) Intern(b []byte) (Ref, error) {
	if in.cfg.CaseFold {
		b = foldASCII(b)
	}

	h := in.hashBytes(b)

	idx, found := in.tbl.find(h, func(r Ref) bool {
		return r.Len() == len(b) && string(in.bytesOf(r)) == string(b)
	})
	if found {
		s := in.tbl.slots.Get(idx)
		if in.reclaim != nil {
			in.reclaim.retain(s.ref)
		}
		return s.ref, nil
	}

	if in.tbl.loadFactor() >= maxLoadFactor || idx < 0 {
		in.grow()
		idx, _ = in.tbl.find(h, func(Ref) bool { return false })
	}

	var (
		off int
		err error
	)
	if in.reclaim != nil {
		if slot, ok := in.reclaim.take(len(b)); ok {
			off = slot
			copy(unsafe.Slice(xunsafe.Add(in.stringsBase, off), len(b)), b)
		} else {
			off, err = in.appendBytes(b)
		}
	} else {
		off, err = in.appendBytes(b)
	}
	if err != nil {
		return Ref{}, err
	}

	ref := Ref{Hash: h, Offset: uint32(off), Length: uint32(len(b))}
	in.tbl.insertAt(idx, ref)
	in.count++
	if in.reclaim != nil {
		in.reclaim.retain(ref)
	}

	debug.Log(nil, "intern", "%q -> off=%d len=%d", b, off, len(b))

	return ref, nil
}

// InternString is a convenience wrapper for string callers; it performs no
// copy before hashing (see [xunsafe.StringToSlice]'s caveats).
func (in *Interner) InternString(s string) (Ref, error) {
	return in.Intern(xunsafe.StringToSlice[[]byte](s))
}

// Resolve returns the bytes referred to by ref. The returned slice must
// not be retained past the next Reset of the Interner's string pool.
func (in *Interner) Resolve(ref Ref) []byte {
	return in.bytesOf(ref)
}

// ResolveString is like Resolve, but returns a zero-copy string view.
func (in *Interner) ResolveString(ref Ref) string {
	return xunsafe.SliceToString(in.bytesOf(ref))
}

// Lookup finds the Ref for b without interning it, returning None if b
// has never been interned.
func (in *Interner) Lookup(b []byte) opt.Option[Ref] {
	if in.cfg.CaseFold {
		b = foldASCII(b)
	}
	h := in.hashBytes(b)
	idx, found := in.tbl.find(h, func(r Ref) bool {
		return r.Len() == len(b) && string(in.bytesOf(r)) == string(b)
	})
	if !found {
		return opt.None[Ref]()
	}
	return opt.Some(in.tbl.slots.Get(idx).ref)
}

// Release decrements ref's refcount when GCEnabled is set, returning its
// storage to the reclaim free list once the count reaches zero. A no-op
// when GCEnabled is false.
func (in *Interner) Release(ref Ref) {
	if in.reclaim != nil {
		in.reclaim.release(ref)
	}
}

// Len returns the number of distinct strings currently interned.
func (in *Interner) Len() int { return in.count }

// All iterates every interned (Ref, bytes) pair. Order is unspecified.
func (in *Interner) All() iter.Seq2[Ref, []byte] {
	return func(yield func(Ref, []byte) bool) {
		for i := 0; i < in.tbl.slots.Len(); i++ {
			s := in.tbl.slots.Get(i)
			if s.state != slotOccupied {
				continue
			}
			if !yield(s.ref, in.bytesOf(s.ref)) {
				return
			}
		}
	}
}

// Reset discards every interned string and rewinds both the string pool
// and the index table. All Refs issued by this Interner become invalid.
func (in *Interner) Reset() {
	in.strings.Reset()
	in.index.Reset()
	in.tbl = newTable(in.index, in.cfg.InitialEntries)
	in.count = 0
	if in.reclaim != nil {
		in.reclaim = newReclaimer()
	}
}

func (in *Interner) bytesOf(ref Ref) []byte {
	if ref.Length == 0 || in.stringsBase == nil {
		return nil
	}
	p := xunsafe.Add(in.stringsBase, int(ref.Offset))
	return unsafe.Slice(p, int(ref.Length))
}

func (in *Interner) appendBytes(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	p, err := in.strings.Alloc(len(b))
	if err != nil {
		return 0, err
	}
	copy(unsafe.Slice(p, len(b)), b)
	off := xunsafe.AddrOf(p).Sub(xunsafe.AddrOf(in.stringsBase))
	return off, nil
}

func (in *Interner) grow() {
	old := in.tbl
	in.tbl = newTable(in.index, old.cap()*2)
	for i := 0; i < old.slots.Len(); i++ {
		s := old.slots.Get(i)
		if s.state != slotOccupied {
			continue
		}
		idx, _ := in.tbl.find(s.ref.Hash, func(Ref) bool { return false })
		in.tbl.insertAt(idx, s.ref)
	}
}

func (in *Interner) hashBytes(b []byte) uint32 {
	full := in.hash.Hash(xunsafe.SliceToString(b))
	return uint32(full) ^ uint32(full>>32)
}

func foldASCII(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}
