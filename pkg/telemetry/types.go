//go:build go1.22

package telemetry

// SpanHandle identifies an in-flight span. The zero value, NoSpan, is the
// sentinel a sampled-out span_begin degenerates to; every Hook method
// must treat it as a safe no-op.
type SpanHandle uint64

// NoSpan is returned by SpanBegin when a call is sampled out; Recorder
// also returns it when SpanBegin recovers from a panic.
const NoSpan SpanHandle = 0

// Status is the terminal state a span ends in.
type Status uint8

const (
	StatusUnset Status = iota
	StatusOk
	StatusError
)

// AttrKind tags which field of AttrValue holds the value.
type AttrKind uint8

const (
	AttrString AttrKind = iota
	AttrInt
	AttrFloat
	AttrBool
)

// AttrValue is the tagged union of {string, int64, double, bool} the
// contract specifies for span_set_attr.
type AttrValue struct {
	Kind AttrKind

	Str   string
	Int   int64
	Float float64
	Bool  bool
}

func StringAttr(v string) AttrValue { return AttrValue{Kind: AttrString, Str: v} }
func IntAttr(v int64) AttrValue     { return AttrValue{Kind: AttrInt, Int: v} }
func FloatAttr(v float64) AttrValue { return AttrValue{Kind: AttrFloat, Float: v} }
func BoolAttr(v bool) AttrValue     { return AttrValue{Kind: AttrBool, Bool: v} }

// Hook is the narrow interface every other component calls into to emit
// spans and metrics. No method returns an error: telemetry failures are
// never allowed to propagate to a caller doing real work.
type Hook interface {
	// SpanBegin opens a span named name, optionally nested under parent,
	// and returns a handle for the matching SpanSetAttr/SpanEnd calls. A
	// sampled-out or budget-exhausted call returns NoSpan.
	SpanBegin(name string, parent SpanHandle) SpanHandle

	// SpanSetAttr attaches key=value to handle. A no-op for NoSpan or an
	// already-ended handle.
	SpanSetAttr(handle SpanHandle, key string, value AttrValue)

	// SpanEnd closes handle with the given terminal status. If the span's
	// duration exceeds the configured per-operation threshold, this also
	// calls RecordViolation.
	SpanEnd(handle SpanHandle, status Status)

	// RecordMemory reports the arena's current/total usage, for whatever
	// consumer samples MemoryUsed/MemoryTotal.
	RecordMemory(used, total uint64)

	// RecordViolation reports that op took actualCycles against a
	// threshold of threshold cycles.
	RecordViolation(op string, actualCycles, threshold uint64)
}
