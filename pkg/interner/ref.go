//go:build go1.22

// Package interner provides content-addressed string interning over
// arena-resident byte ranges.
//
// Interning a byte slice returns a [Ref] — a small, copyable value
// (hash, offset, length) rather than a Go string or pointer. Resolving a
// Ref back to bytes requires the same [Interner] that produced it; Refs
// are not portable across interners and become invalid once the owning
// Interner's string-pool arena is Reset.
//
// Equal byte content always interns to the same Ref, so Ref equality is a
// valid (and very cheap) proxy for string equality, letting callers compare
// interned RDF terms as two uint64-ish values instead of comparing bytes.
package interner

// Ref is a content-addressed reference to an interned byte string: its
// hash (for fast rejection before a byte comparison), its byte offset
// within the interner's string pool, and its length.
//
// A Ref with Length == 0 refers to the empty string. Callers needing an
// "absent" marker distinct from the empty string should use
// [opt.Option][Ref] rather than relying on the zero value.
type Ref struct {
	Hash   uint32
	Offset uint32
	Length uint32
}

// Len returns the length in bytes of the string this Ref refers to.
func (r Ref) Len() int { return int(r.Length) }
