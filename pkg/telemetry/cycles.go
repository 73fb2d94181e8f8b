//go:build go1.22

package telemetry

import "time"

// assumedGHz approximates the host's clock rate for cpuCycles' ns->cycle
// conversion. It is a rough estimate, not a measurement: no portable,
// dependency-free way to read a hardware cycle counter exists in the Go
// standard library, and none of the retrieved example repos wire one in
// either (the closest candidate, a goroutine-local-storage library, has
// no bearing on cycle counting). Violation detection only needs a
// monotonic, low-overhead duration source, which time.Now() already is.
const assumedGHz = 3

// cyclesEpoch anchors cpuCycles to the monotonic clock reading that
// time.Now records; UnixNano alone would read the wall clock.
var cyclesEpoch = time.Now()

// cpuCycles returns a monotonic counter intended to approximate elapsed
// CPU cycles, for spans to diff at span_begin/span_end.
func cpuCycles() uint64 {
	return uint64(time.Since(cyclesEpoch).Nanoseconds()) * assumedGHz
}
