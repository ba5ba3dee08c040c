package zipkinz

import (
	"runtime"
	"sync"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/zoobzio/clockz"
)

// serviceAnnotationKey is zipkin's LOCAL_COMPONENT key; every span carries
// one such annotation identifying the local service.
const serviceAnnotationKey = "lc"

// Tracer adapts zipkin span records to the opentracing.Tracer interface.
// It is read-only after construction and safe for concurrent use by multiple
// goroutines; it must outlive every span it creates.
type Tracer struct {
	endpoint    Endpoint
	reporter    Reporter
	clock       clockz.Clock
	traceIDPool *IDPool
	spanIDPool  *IDPool
	idPoolOnce  sync.Once
}

// TracerOption configures a Tracer at construction.
type TracerOption func(*Tracer)

// WithClock sets the clock used for timestamps and id fallbacks.
// Enables clock injection for deterministic testing.
func WithClock(clock clockz.Clock) TracerOption {
	return func(t *Tracer) { t.clock = clock }
}

// TracerOptions is the construction surface of the HTTP-backed tracer.
type TracerOptions struct {
	// CollectorURL is the zipkin collector spans endpoint,
	// e.g. "http://localhost:9411/api/v2/spans".
	CollectorURL string

	// ServiceName identifies the local service on every reported span.
	ServiceName string

	// ServiceAddress is the local service's "host:port" network address.
	ServiceAddress string
}

// NewTracer creates a tracer reporting finished spans to rep.
// Uses the real clock unless WithClock is given.
func NewTracer(serviceName, serviceAddress string, rep Reporter, opts ...TracerOption) *Tracer {
	t := &Tracer{
		endpoint: Endpoint{ServiceName: serviceName, Address: serviceAddress},
		reporter: rep,
		clock:    clockz.RealClock,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewHTTPTracer creates a tracer delivering spans to a zipkin collector
// over HTTP.
func NewHTTPTracer(options TracerOptions, opts ...TracerOption) *Tracer {
	return NewTracer(options.ServiceName, options.ServiceAddress,
		NewHTTPReporter(options.CollectorURL), opts...)
}

// ensureIDPools initializes ID pools if not already created.
func (t *Tracer) ensureIDPools() {
	t.idPoolOnce.Do(func() {
		// Pool size based on number of CPUs for optimal contention balance.
		poolSize := runtime.NumCPU() * 100
		factory := newIDFactory(t.clock)
		t.traceIDPool = NewIDPool(poolSize, factory)
		t.spanIDPool = NewIDPool(poolSize, factory)
	})
}

func (t *Tracer) generateTraceID() ID {
	t.ensureIDPools()
	return t.traceIDPool.Get()
}

func (t *Tracer) generateSpanID() ID {
	t.ensureIDPools()
	return t.spanIDPool.Get()
}

// StartSpan creates, starts, and returns a new span with the given operation
// name and options.
func (t *Tracer) StartSpan(operationName string, opts ...opentracing.StartSpanOption) opentracing.Span {
	var sso opentracing.StartSpanOptions
	for _, o := range opts {
		o.Apply(&sso)
	}
	return t.StartSpanWithOptions(operationName, sso)
}

// StartSpanWithOptions is the only place span identity and timestamps are
// decided; everything downstream treats them as fixed.
func (t *Tracer) StartSpanWithOptions(operationName string, opts opentracing.StartSpanOptions) opentracing.Span {
	record := &SpanRecord{
		Name:     operationName,
		SpanID:   t.generateSpanID(),
		Endpoint: t.endpoint,
	}

	// The leading annotation identifies the local component, ahead of any
	// user tag.
	record.addBinaryAnnotation(BinaryAnnotation{
		Key:   serviceAnnotationKey,
		Value: t.endpoint.ServiceName,
		Host:  t.endpoint,
	})

	// Exactly one of the two happens: inherit the parent's trace or root a
	// fresh one. The span id is never inherited.
	if parent, ok := findSpanContext(opts.References); ok {
		record.TraceID = parent.TraceID
		parentID := parent.SpanID
		record.ParentID = &parentID
	} else {
		record.TraceID = t.generateTraceID()
	}

	wallHint, monoHint := splitStartHint(opts.StartTime)
	wall, mono := reconcileStartTime(t.clock, wallHint, monoHint)
	record.Timestamp = wall.UnixMicro()

	tags := make(map[string]interface{}, len(opts.Tags))
	for key, value := range opts.Tags {
		tags[key] = value
	}

	s := &span{
		tracer:    t,
		startMono: mono,
		tags:      tags,
		record:    record,
		ctx: SpanContext{
			TraceID:  record.TraceID,
			SpanID:   record.SpanID,
			ParentID: record.ParentID,
		},
	}

	// Abandoned spans are finished at collection, so every created span is
	// reported exactly once even if the caller forgets to finish it.
	runtime.SetFinalizer(s, (*span).Finish)

	return s
}

// Close shuts down id generation and the reporter. Spans finished after
// Close may be dropped by the reporter.
func (t *Tracer) Close() error {
	if t.traceIDPool != nil {
		t.traceIDPool.Close()
	}
	if t.spanIDPool != nil {
		t.spanIDPool.Close()
	}
	return t.reporter.Close()
}
