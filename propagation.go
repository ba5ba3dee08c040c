package zipkinz

import (
	opentracing "github.com/opentracing/opentracing-go"
)

// Inject belongs to the opentracing.Tracer interface. Carrier propagation is
// not implemented; injection is a guaranteed-success no-op for every format.
func (*Tracer) Inject(opentracing.SpanContext, interface{}, interface{}) error {
	return nil
}

// Extract belongs to the opentracing.Tracer interface. Carrier propagation is
// not implemented; extraction never finds a context.
func (*Tracer) Extract(interface{}, interface{}) (opentracing.SpanContext, error) {
	return nil, opentracing.ErrSpanContextNotFound
}
