//go:build go1.23

package telemetry

import (
	"sync"
	"sync/atomic"

	"github.com/flier/arenac/internal/debug"
	"github.com/flier/arenac/internal/xsync"
)

// Config tunes a Recorder's sampling rate and violation threshold.
type Config struct {
	// SampleRate is the fraction of span_begin calls that are actually
	// recorded, in (0, 1]. The hot-path check is a counter modulus, not a
	// random draw, per "checks a sample counter against the configured
	// rate". Zero means "sample everything" (SampleRate defaults to 1).
	SampleRate float64

	// DefaultThresholdCycles is the span duration, in the cpuCycles()
	// unit, above which SpanEnd calls RecordViolation automatically. Zero
	// disables automatic violation detection on span end.
	DefaultThresholdCycles uint64

	// MaxViolationLog bounds how many RecordViolation calls are retained
	// for inspection via Violations(); older entries are dropped. Zero
	// defaults to 256.
	MaxViolationLog int
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 || c.SampleRate > 1 {
		c.SampleRate = 1
	}
	if c.MaxViolationLog == 0 {
		c.MaxViolationLog = 256
	}
	return c
}

// span is the pooled, mutable state behind a SpanHandle.
type span struct {
	name   string
	parent SpanHandle
	start  uint64
	attrs  []attrKV
}

type attrKV struct {
	key   string
	value AttrValue
}

func resetSpan(s *span) {
	s.name = ""
	s.parent = 0
	s.start = 0
	s.attrs = s.attrs[:0]
}

// Violation is one recorded RecordViolation call, retained for test and
// diagnostic inspection.
type Violation struct {
	Op              string
	ActualCycles    uint64
	ThresholdCycles uint64
}

// Stats is a point-in-time snapshot of a Recorder's counters.
type Stats struct {
	SpansBegun     uint64
	SpansSampled   uint64
	SpansEnded     uint64
	ViolationCount uint64
	MemoryUsed     uint64
	MemoryTotal    uint64
}

// Recorder is the sampling, budget-checking Hook implementation: a
// pooled span table keyed by handle, a sample counter, and a handful of
// atomic metric counters. Safe for concurrent use, since the contract
// frames telemetry as a cross-cutting sink shared across independently
// threaded Arena/Graph instances (shared-nothing parallelism still
// shares one telemetry sink).
type Recorder struct {
	cfg Config

	sampleEvery uint64 // 1/SampleRate, truncated
	counter     atomic.Uint64
	nextHandle  atomic.Uint64

	active xsync.Map[uint64, *span]
	pool   xsync.Pool[span]

	spansBegun   atomic.Uint64
	spansSampled atomic.Uint64
	spansEnded   atomic.Uint64
	violations   atomic.Uint64
	memUsed      atomic.Uint64
	memTotal     atomic.Uint64

	logMu sync.Mutex
	log   []Violation
}

var _ Hook = (*Recorder)(nil)

// New creates a Recorder per cfg.
func New(cfg Config) *Recorder {
	cfg = cfg.withDefaults()
	r := &Recorder{cfg: cfg, sampleEvery: uint64(1 / cfg.SampleRate)}
	r.pool.Reset = resetSpan
	return r
}

// SpanBegin implements Hook.
func (r *Recorder) SpanBegin(name string, parent SpanHandle) (handle SpanHandle) {
	defer func() {
		if rec := recover(); rec != nil {
			debug.Log(nil, "telemetry", "SpanBegin panicked, dropping: %v", rec)
			handle = NoSpan
		}
	}()

	r.spansBegun.Add(1)
	n := r.counter.Add(1)
	if r.sampleEvery > 1 && n%r.sampleEvery != 0 {
		return NoSpan
	}
	r.spansSampled.Add(1)

	s := r.pool.Get()
	s.name = name
	s.parent = parent
	s.start = cpuCycles()

	id := r.nextHandle.Add(1)
	r.active.Store(id, s)
	return SpanHandle(id)
}

// SpanSetAttr implements Hook.
func (r *Recorder) SpanSetAttr(handle SpanHandle, key string, value AttrValue) {
	defer func() {
		if rec := recover(); rec != nil {
			debug.Log(nil, "telemetry", "SpanSetAttr panicked, dropping: %v", rec)
		}
	}()

	if handle == NoSpan {
		return
	}
	s, ok := r.active.Load(uint64(handle))
	if !ok || s == nil {
		return
	}
	s.attrs = append(s.attrs, attrKV{key, value})
}

// SpanEnd implements Hook.
func (r *Recorder) SpanEnd(handle SpanHandle, status Status) {
	defer func() {
		if rec := recover(); rec != nil {
			debug.Log(nil, "telemetry", "SpanEnd panicked, dropping: %v", rec)
		}
	}()

	if handle == NoSpan {
		return
	}
	s, ok := r.active.Load(uint64(handle))
	if !ok || s == nil {
		return
	}
	r.spansEnded.Add(1)

	duration := cpuCycles() - s.start
	name := s.name
	threshold := r.cfg.DefaultThresholdCycles

	// Soft-delete: xsync.Map wraps sync.Map but exposes no Delete, so a
	// finished handle is retired by overwriting its slot with a nil
	// *span rather than left live forever.
	r.active.Store(uint64(handle), nil)
	r.pool.Put(s)

	_ = status
	if threshold > 0 && duration > threshold {
		r.RecordViolation(name, duration, threshold)
	}
}

// RecordMemory implements Hook.
func (r *Recorder) RecordMemory(used, total uint64) {
	r.memUsed.Store(used)
	r.memTotal.Store(total)
}

// RecordViolation implements Hook.
func (r *Recorder) RecordViolation(op string, actualCycles, threshold uint64) {
	r.violations.Add(1)

	r.logMu.Lock()
	defer r.logMu.Unlock()
	r.log = append(r.log, Violation{Op: op, ActualCycles: actualCycles, ThresholdCycles: threshold})
	if len(r.log) > r.cfg.MaxViolationLog {
		r.log = r.log[len(r.log)-r.cfg.MaxViolationLog:]
	}
}

// Violations returns a copy of the retained violation log.
func (r *Recorder) Violations() []Violation {
	r.logMu.Lock()
	defer r.logMu.Unlock()
	out := make([]Violation, len(r.log))
	copy(out, r.log)
	return out
}

// Stats snapshots the recorder's counters.
func (r *Recorder) Stats() Stats {
	return Stats{
		SpansBegun:     r.spansBegun.Load(),
		SpansSampled:   r.spansSampled.Load(),
		SpansEnded:     r.spansEnded.Load(),
		ViolationCount: r.violations.Load(),
		MemoryUsed:     r.memUsed.Load(),
		MemoryTotal:    r.memTotal.Load(),
	}
}
