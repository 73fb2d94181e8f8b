//go:build go1.22

package telemetry

// NopHook is a Hook that does nothing and allocates nothing, the default
// for callers that haven't wired in a Recorder.
type NopHook struct{}

var _ Hook = NopHook{}

func (NopHook) SpanBegin(string, SpanHandle) SpanHandle   { return NoSpan }
func (NopHook) SpanSetAttr(SpanHandle, string, AttrValue) {}
func (NopHook) SpanEnd(SpanHandle, Status)                {}
func (NopHook) RecordMemory(uint64, uint64)               {}
func (NopHook) RecordViolation(string, uint64, uint64)    {}
