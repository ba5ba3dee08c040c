package zipkinz

import (
	"runtime"
	"testing"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/zoobzio/clockz"
)

func TestNewTracer(t *testing.T) {
	tracer, _ := newTestTracer()
	defer tracer.Close()

	if tracer.endpoint.ServiceName != "test-service" {
		t.Errorf("Expected service name 'test-service', got %s", tracer.endpoint.ServiceName)
	}
	if tracer.endpoint.Address != "127.0.0.1:8080" {
		t.Errorf("Expected address '127.0.0.1:8080', got %s", tracer.endpoint.Address)
	}
}

func TestStartSpanRoot(t *testing.T) {
	tracer, _ := newTestTracer()
	defer tracer.Close()

	s := tracer.StartSpan("root-operation").(*span)

	if s.record.Name != "root-operation" {
		t.Errorf("Expected span name 'root-operation', got %s", s.record.Name)
	}
	if s.record.TraceID == 0 {
		t.Error("Expected non-zero TraceID")
	}
	if s.record.SpanID == 0 {
		t.Error("Expected non-zero SpanID")
	}
	if s.record.ParentID != nil {
		t.Error("Expected no ParentID for root span")
	}
	if s.record.Timestamp == 0 {
		t.Error("Expected non-zero start timestamp")
	}
}

func TestStartSpanFreshTraceIDs(t *testing.T) {
	tracer, _ := newTestTracer()
	defer tracer.Close()

	a := tracer.StartSpan("a").(*span)
	b := tracer.StartSpan("b").(*span)

	if a.record.TraceID == b.record.TraceID {
		t.Error("Expected independent root spans to start distinct traces")
	}
	if a.record.SpanID == b.record.SpanID {
		t.Error("Expected distinct span ids")
	}
}

func TestStartSpanChild(t *testing.T) {
	tracer, _ := newTestTracer()
	defer tracer.Close()

	parent := tracer.StartSpan("parent").(*span)
	child := tracer.StartSpan("child", opentracing.ChildOf(parent.Context())).(*span)

	if child.record.TraceID != parent.record.TraceID {
		t.Error("Child must inherit the parent's trace id")
	}
	if child.record.ParentID == nil {
		t.Fatal("Child must record a parent id")
	}
	if *child.record.ParentID != parent.record.SpanID {
		t.Error("Child's parent id must be the parent's span id")
	}
	if child.record.SpanID == parent.record.SpanID {
		t.Error("Span id is never inherited")
	}
}

// TestStartSpanFirstRecognizedReference verifies parent resolution picks the
// first recognized context among mixed references, ignoring the kind.
func TestStartSpanFirstRecognizedReference(t *testing.T) {
	tracer, _ := newTestTracer()
	defer tracer.Close()

	first := tracer.StartSpan("first").(*span)
	second := tracer.StartSpan("second").(*span)

	child := tracer.StartSpan("child",
		opentracing.ChildOf(foreignContext{}),
		opentracing.FollowsFrom(first.Context()),
		opentracing.ChildOf(second.Context()),
	).(*span)

	if child.record.TraceID != first.record.TraceID {
		t.Error("Expected the first recognized context to provide the trace id")
	}
	if child.record.ParentID == nil || *child.record.ParentID != first.record.SpanID {
		t.Error("Expected the first recognized context to provide the parent id")
	}
}

// TestStartSpanServiceAnnotation verifies every span leads with the local
// component annotation.
func TestStartSpanServiceAnnotation(t *testing.T) {
	tracer, collector := newTestTracer()
	defer tracer.Close()

	tracer.StartSpan("test").Finish()

	records := collector.Export()
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	annotations := records[0].Annotations
	if len(annotations) == 0 {
		t.Fatal("Expected at least the service annotation")
	}
	if annotations[0].Key != "lc" {
		t.Errorf("Expected leading 'lc' annotation, got %s", annotations[0].Key)
	}
	if annotations[0].Value != "test-service" {
		t.Errorf("Expected service name value, got %s", annotations[0].Value)
	}
	if annotations[0].Host.ServiceName != "test-service" || annotations[0].Host.Address != "127.0.0.1:8080" {
		t.Errorf("Expected local endpoint on the annotation, got %+v", annotations[0].Host)
	}
}

// TestStartSpanServiceAnnotationBeforeTags verifies the service annotation
// precedes every user tag in the finished record.
func TestStartSpanServiceAnnotationBeforeTags(t *testing.T) {
	tracer, collector := newTestTracer()
	defer tracer.Close()

	s := tracer.StartSpan("test", opentracing.Tags{"seeded": "yes"})
	s.SetTag("added", "later")
	s.Finish()

	records := collector.Export()
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Annotations[0].Key != "lc" {
		t.Errorf("Expected 'lc' first, got %s", records[0].Annotations[0].Key)
	}
	if len(records[0].Annotations) != 3 {
		t.Errorf("Expected 3 annotations, got %d", len(records[0].Annotations))
	}
}

func TestStartSpanSeedsTags(t *testing.T) {
	tracer, _ := newTestTracer()
	defer tracer.Close()

	s := tracer.StartSpan("test", opentracing.Tags{"a": 1, "b": "two"}).(*span)

	if len(s.tags) != 2 {
		t.Fatalf("Expected 2 seeded tags, got %d", len(s.tags))
	}
	if s.tags["a"] != 1 || s.tags["b"] != "two" {
		t.Errorf("Unexpected seeded tags: %v", s.tags)
	}
}

// TestStartSpanExplicitStartTime verifies a caller-supplied wall start time
// is used for the reported timestamp.
func TestStartSpanExplicitStartTime(t *testing.T) {
	fakeClock := clockz.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	tracer, _ := newTestTracer(WithClock(fakeClock))
	defer tracer.Close()

	start := time.Date(2024, 6, 1, 11, 59, 0, 0, time.UTC)
	s := tracer.StartSpan("test", opentracing.StartTime(start)).(*span)

	if s.record.Timestamp != start.UnixMicro() {
		t.Errorf("Expected timestamp %d, got %d", start.UnixMicro(), s.record.Timestamp)
	}
}

// TestTracerWithFakeClock verifies WithClock enables deterministic span
// timing.
func TestTracerWithFakeClock(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	fakeClock := clockz.NewFakeClockAt(at)
	tracer, collector := newTestTracer(WithClock(fakeClock))
	defer tracer.Close()

	s := tracer.StartSpan("timed").(*span)
	if s.record.Timestamp != at.UnixMicro() {
		t.Errorf("Expected start timestamp %d, got %d", at.UnixMicro(), s.record.Timestamp)
	}

	fakeClock.Advance(250 * time.Millisecond)
	s.Finish()

	records := collector.Export()
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Duration != 250000 {
		t.Errorf("Expected duration 250000us, got %d", records[0].Duration)
	}
}

// TestRootChildScenario walks the documented end-to-end example: a root span
// with a fresh trace, a child inheriting it, and a 5ms root duration with a
// single service annotation.
func TestRootChildScenario(t *testing.T) {
	fakeClock := clockz.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	tracer, collector := newTestTracer(WithClock(fakeClock))
	defer tracer.Close()

	root := tracer.StartSpan("root").(*span)
	if root.record.ParentID != nil {
		t.Fatal("Expected root span without parent")
	}

	child := tracer.StartSpan("child", opentracing.ChildOf(root.Context())).(*span)
	if child.record.TraceID != root.record.TraceID {
		t.Error("Expected child to share the root's trace")
	}
	if child.record.ParentID == nil || *child.record.ParentID != root.record.SpanID {
		t.Error("Expected child's parent id to be the root's span id")
	}

	fakeClock.Advance(5 * time.Millisecond)
	root.Finish()

	records := collector.Export()
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Duration != 5000 {
		t.Errorf("Expected duration 5000us, got %d", records[0].Duration)
	}
	if len(records[0].Annotations) != 1 {
		t.Errorf("Expected exactly the service annotation, got %d", len(records[0].Annotations))
	}
	if records[0].Annotations[0].Key != "lc" {
		t.Errorf("Expected the service-identity annotation, got %s", records[0].Annotations[0].Key)
	}

	child.Finish()
}

// TestTracerClose verifies id pools shut down without leaking goroutines.
func TestTracerClose(t *testing.T) {
	tracer, _ := newTestTracer()

	// Force pool initialization.
	tracer.StartSpan("warmup").Finish()

	before := runtime.NumGoroutine()
	if err := tracer.Close(); err != nil {
		t.Errorf("Unexpected close error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	after := runtime.NumGoroutine()
	if after > before {
		t.Errorf("Goroutine leak detected after tracer close: %d -> %d", before, after)
	}
}

// TestTracerImplementsOpenTracing pins the adapter to the generic API.
func TestTracerImplementsOpenTracing(t *testing.T) {
	tracer, _ := newTestTracer()
	defer tracer.Close()

	var _ opentracing.Tracer = tracer
	var _ opentracing.Span = tracer.StartSpan("typed")
}
