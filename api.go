// Package zipkinz adapts the vendor-neutral OpenTracing API onto zipkin
// span records.
//
// zipkinz lets instrumented code create and finish spans through the
// opentracing-go interfaces without depending on zipkin types. Completed
// spans are handed to a Reporter, which ships them to a collector.
//
// Core Components:
//   - Tracer: Implements opentracing.Tracer; decides identity and timestamps.
//   - SpanRecord: The owned record of one span's name, timing, and annotations.
//   - SpanContext: Immutable identity triple linking spans within a trace.
//   - Reporter: Consumes finished records; HTTP delivery via zipkin-go.
//   - Collector: Buffers finished records in memory for export.
//
// Basic Usage:
//
//	tracer := zipkinz.NewHTTPTracer(zipkinz.TracerOptions{
//		CollectorURL:   "http://localhost:9411/api/v2/spans",
//		ServiceName:    "checkout",
//		ServiceAddress: "10.0.0.7:8080",
//	})
//	defer tracer.Close()
//
//	// Start a root span.
//	root := tracer.StartSpan("handle-request")
//	defer root.Finish()
//
//	// Add metadata.
//	root.SetTag("user.id", "123")
//
//	// Derive a child span.
//	child := tracer.StartSpan("db-query", opentracing.ChildOf(root.Context()))
//	defer child.Finish()
//
// Thread Safety:
//
// Tracer is safe for concurrent use by multiple goroutines and is read-only
// after construction. Span tag and name mutation is serialized per span; the
// finish-once decision is atomic and never blocks behind tag mutation.
// SpanContext values are immutable and freely copyable.
//
// Identity:
//
// Trace and span ids are 64-bit values generated uniformly at random.
// A child span inherits its parent's trace id and records the parent's span
// id; a span started without a recognized parent reference roots a new trace.
//
// Reporting:
//
// Every started span is reported exactly once: explicitly on Finish, or at
// garbage collection if the caller abandoned it. The in-memory Collector may
// drop records under backpressure - use Collector.DroppedCount() to monitor.
//
// Resource Cleanup:
//
// Call tracer.Close() to shut down id generation and the reporter.
package zipkinz
