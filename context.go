package zipkinz

import (
	opentracing "github.com/opentracing/opentracing-go"
)

// SpanContext is the immutable identity of a span: its trace id, its own
// span id, and the id of its parent when one exists. It is created once at
// span construction and never mutated afterwards, so it may be freely copied
// across goroutines and across propagation boundaries.
type SpanContext struct {
	TraceID  ID
	SpanID   ID
	ParentID *ID
}

// ForeachBaggageItem belongs to the opentracing.SpanContext interface.
// Baggage is not supported; the iteration is always empty.
func (SpanContext) ForeachBaggageItem(func(k, v string) bool) {}

// findSpanContext scans the references in order and returns the first whose
// context was produced by this package. The reference kind (child-of vs
// follows-from) is deliberately not distinguished.
func findSpanContext(references []opentracing.SpanReference) (SpanContext, bool) {
	for _, ref := range references {
		switch sc := ref.ReferencedContext.(type) {
		case SpanContext:
			return sc, true
		case *SpanContext:
			return *sc, true
		}
	}
	return SpanContext{}, false
}
