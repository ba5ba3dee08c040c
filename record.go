package zipkinz

import (
	"fmt"
	"strconv"
)

// Endpoint identifies the service reporting a span or annotation.
type Endpoint struct {
	ServiceName string
	Address     string
}

// BinaryAnnotation is a key/value metadata entry on a finished span, tagged
// with the endpoint that produced it.
type BinaryAnnotation struct {
	Key   string
	Value string
	Host  Endpoint
}

// SpanRecord is the record of one span's name, timing, and annotations.
// It is owned exclusively by its span until Finish hands it to the Reporter;
// from that point on it must be treated as immutable.
type SpanRecord struct {
	Name        string
	TraceID     ID
	SpanID      ID
	ParentID    *ID
	Timestamp   int64 // wall-clock start, microseconds since the Unix epoch
	Duration    int64 // microseconds, unset until finish
	Annotations []BinaryAnnotation
	Endpoint    Endpoint
}

// addBinaryAnnotation appends an annotation, preserving insertion order.
func (r *SpanRecord) addBinaryAnnotation(a BinaryAnnotation) {
	r.Annotations = append(r.Annotations, a)
}

// toBinaryAnnotation converts a tag value into its canonical string-valued
// annotation tagged with the given endpoint. Conversion happens at finish
// time, so a key set multiple times is annotated once with its last value.
func toBinaryAnnotation(key string, value interface{}, host Endpoint) BinaryAnnotation {
	return BinaryAnnotation{Key: key, Value: formatTagValue(value), Host: host}
}

// formatTagValue renders the supported tag value kinds (boolean, integer,
// floating point, string) as strings. Anything else goes through fmt.
func formatTagValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
