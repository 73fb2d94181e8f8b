//go:build go1.22

package arena

import "math/bits"

func suggestSizeLog(bytes int) uint {
	// Snap to the next power of two.
	return max(4, uint(bits.Len(uint(bytes)-1)))
}

// SuggestSize suggests an allocation size by rounding up to a power of 2.
// Its caller is the growth path of pkg/arena/slice.
func SuggestSize(bytes int) int {
	n := 1 << suggestSizeLog(bytes)
	if bytes == 0 {
		return n
	}
	return n
}

// prefault touches every page of b once, so the first real write into each
// page doesn't take a fresh minor fault.
func prefault(b []byte) {
	const pageSize = 4096
	for i := 0; i < len(b); i += pageSize {
		b[i] = b[i]
	}
	if n := len(b); n > 0 {
		b[n-1] = b[n-1]
	}
}
