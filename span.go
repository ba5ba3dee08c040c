package zipkinz

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	otlog "github.com/opentracing/opentracing-go/log"
)

// span adapts one SpanRecord to the opentracing.Span interface.
// Safe for concurrent use by multiple goroutines.
//
// The finished flag is independent of the mutex: the finish-once decision
// never blocks behind, nor is blocked by, ongoing tag mutation. Only the
// tag flush inside finish takes the mutex.
type span struct {
	tracer    *Tracer
	ctx       SpanContext
	startMono time.Time

	finished atomic.Bool

	mu     sync.Mutex // protects tags and record
	tags   map[string]interface{}
	record *SpanRecord
}

// Finish completes the span and hands its record to the reporter.
// Safe to call multiple times - subsequent calls are no-ops.
func (s *span) Finish() {
	s.FinishWithOptions(opentracing.FinishOptions{})
}

// FinishWithOptions is like Finish but accepts an explicit finish timestamp.
func (s *span) FinishWithOptions(opts opentracing.FinishOptions) {
	// Ensure the span is only finished once.
	if s.finished.Swap(true) {
		return
	}
	runtime.SetFinalizer(s, nil)

	// Set timing information.
	finish := resolveFinishTime(s.tracer.clock, opts.FinishTime)
	s.record.Duration = finish.Sub(s.startMono).Microseconds()

	// Flush tags into annotations; the record is immutable afterwards.
	s.mu.Lock()
	for key, value := range s.tags {
		s.record.addBinaryAnnotation(toBinaryAnnotation(key, value, s.record.Endpoint))
	}
	record := *s.record
	s.mu.Unlock()

	// Fire-and-forget; delivery is the reporter's concern.
	s.tracer.reporter.Send(record)
}

// SetOperationName overwrites the span's name.
// No-op once the span is finished.
func (s *span) SetOperationName(name string) opentracing.Span {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Don't modify finished spans.
	if s.finished.Load() {
		return s
	}
	s.record.Name = name
	return s
}

// SetTag upserts a key-value pair; last write per key wins.
// No-op once the span is finished.
func (s *span) SetTag(key string, value interface{}) opentracing.Span {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Don't modify finished spans.
	if s.finished.Load() {
		return s
	}
	s.tags[key] = value
	return s
}

// Context returns the span's immutable identity. Callable in any state,
// no locking needed.
func (s *span) Context() opentracing.SpanContext {
	return s.ctx
}

// Tracer returns the tracer that created this span.
func (s *span) Tracer() opentracing.Tracer {
	return s.tracer
}

// SetBaggageItem belongs to the opentracing.Span interface.
// Baggage is not supported.
func (s *span) SetBaggageItem(string, string) opentracing.Span {
	return s
}

// BaggageItem belongs to the opentracing.Span interface.
// Baggage is not supported; always returns the empty string.
func (s *span) BaggageItem(string) string {
	return ""
}

// LogFields belongs to the opentracing.Span interface.
// Span logs are not recorded.
func (s *span) LogFields(...otlog.Field) {}

// LogKV belongs to the opentracing.Span interface.
// Span logs are not recorded.
func (s *span) LogKV(...interface{}) {}

// LogEvent belongs to the deprecated opentracing.Span log surface.
func (s *span) LogEvent(string) {}

// LogEventWithPayload belongs to the deprecated opentracing.Span log surface.
func (s *span) LogEventWithPayload(string, interface{}) {}

// Log belongs to the deprecated opentracing.Span log surface.
func (s *span) Log(opentracing.LogData) {}
