package zipkinz

import (
	"net"
	"strconv"
	"time"

	"github.com/openzipkin/zipkin-go/model"
	"github.com/openzipkin/zipkin-go/reporter"
	reporterhttp "github.com/openzipkin/zipkin-go/reporter/http"
)

// Reporter consumes completed span records. Send must not block the
// finishing caller; delivery, batching, and backpressure are the reporter's
// concern, not the span lifecycle's.
type Reporter interface {
	Send(SpanRecord)
	Close() error
}

// httpReporter ships records to a zipkin collector over HTTP, delegating
// transport to zipkin-go's reporter.
type httpReporter struct {
	rep reporter.Reporter
}

// NewHTTPReporter returns a Reporter posting spans to the given zipkin
// collector URL, e.g. "http://localhost:9411/api/v2/spans".
func NewHTTPReporter(url string) Reporter {
	return &httpReporter{rep: reporterhttp.NewReporter(url)}
}

func (r *httpReporter) Send(rec SpanRecord) {
	r.rep.Send(toSpanModel(rec))
}

func (r *httpReporter) Close() error {
	return r.rep.Close()
}

// toSpanModel maps a record onto the zipkin v2 span model. Binary
// annotations collapse into the model's tag map; duplicate keys cannot occur
// because the record is flushed once per key at finish time.
func toSpanModel(rec SpanRecord) model.SpanModel {
	sm := model.SpanModel{
		SpanContext: model.SpanContext{
			TraceID: model.TraceID{Low: rec.TraceID},
			ID:      model.ID(rec.SpanID),
		},
		Name:          rec.Name,
		Timestamp:     time.UnixMicro(rec.Timestamp),
		Duration:      time.Duration(rec.Duration) * time.Microsecond,
		LocalEndpoint: toModelEndpoint(rec.Endpoint),
	}
	if rec.ParentID != nil {
		parentID := model.ID(*rec.ParentID)
		sm.ParentID = &parentID
	}
	if len(rec.Annotations) > 0 {
		sm.Tags = make(map[string]string, len(rec.Annotations))
		for _, a := range rec.Annotations {
			sm.Tags[a.Key] = a.Value
		}
	}
	return sm
}

// toModelEndpoint parses a "host:port" address into a model endpoint.
// A bare host or unparsable address yields a name-only endpoint.
func toModelEndpoint(e Endpoint) *model.Endpoint {
	ep := &model.Endpoint{ServiceName: e.ServiceName}
	host, port, err := net.SplitHostPort(e.Address)
	if err != nil {
		host = e.Address
	} else if p, perr := strconv.ParseUint(port, 10, 16); perr == nil {
		ep.Port = uint16(p)
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			ep.IPv4 = ip4
		} else {
			ep.IPv6 = ip
		}
	}
	return ep
}
