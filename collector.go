package zipkinz

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector is an in-memory Reporter buffering finished span records for
// batch export. Safe for concurrent use by multiple goroutines.
type Collector struct {
	records      []SpanRecord
	recordsCh    chan SpanRecord
	stopCh       chan struct{}
	done         chan struct{}
	droppedCount atomic.Int64
	name         string
	mu           sync.Mutex
	closed       atomic.Bool
	syncMode     bool // Bypass channel for synchronous collection.
}

// NewCollector creates a collector with the specified name and buffer size.
func NewCollector(name string, bufferSize int) *Collector {
	c := &Collector{
		name:      name,
		records:   make([]SpanRecord, 0, 8), // Start with small capacity.
		recordsCh: make(chan SpanRecord, bufferSize),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	go c.start()
	return c
}

// start runs the collector's main loop, receiving records from the channel.
func (c *Collector) start() {
	defer close(c.done)

	for {
		select {
		case <-c.stopCh:
			// Drain remaining records before shutdown.
			for {
				select {
				case rec := <-c.recordsCh:
					c.buffer(rec)
				default:
					return
				}
			}
		case rec := <-c.recordsCh:
			c.buffer(rec)
		}
	}
}

// Send buffers a finished record with backpressure protection. If the
// internal channel is full, the record is dropped and the drop counter is
// incremented. In sync mode, records are buffered directly for deterministic
// testing.
func (c *Collector) Send(rec SpanRecord) {
	if c.closed.Load() {
		c.droppedCount.Add(1)
		return
	}

	if c.syncMode {
		c.buffer(rec)
		return
	}

	select {
	case c.recordsCh <- rec:
		// Successfully queued.
	default:
		// Channel full - drop record to prevent blocking the finisher.
		c.droppedCount.Add(1)
	}
}

// buffer appends a record to the internal slice under the lock.
func (c *Collector) buffer(rec SpanRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
}

// Export returns a copy of all buffered records and clears the internal
// buffer. The returned slice is safe to modify without affecting the
// collector.
func (c *Collector) Export() []SpanRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.records) == 0 {
		return nil
	}

	result := make([]SpanRecord, len(c.records))
	for i := range c.records {
		result[i] = c.records[i]
		// Deep copy the annotation slice to prevent sharing.
		if c.records[i].Annotations != nil {
			result[i].Annotations = make([]BinaryAnnotation, len(c.records[i].Annotations))
			copy(result[i].Annotations, c.records[i].Annotations)
		}
	}

	// Shrink only very oversized buffers to avoid allocation churn.
	if cap(c.records) > 256 && len(c.records) < cap(c.records)/8 {
		newCap := cap(c.records) / 4
		if newCap < 32 {
			newCap = 32
		}
		c.records = make([]SpanRecord, 0, newCap)
	} else {
		c.records = c.records[:0] // Keep capacity, reset length.
	}

	return result
}

// Count returns the current number of buffered records.
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// DroppedCount returns the total number of records dropped due to
// backpressure or collection after Close.
func (c *Collector) DroppedCount() int64 {
	return c.droppedCount.Load()
}

// SetSyncMode enables synchronous collection for deterministic testing.
// Must be called before any Send.
func (c *Collector) SetSyncMode(sync bool) {
	c.syncMode = sync
}

// Close drains in-flight records and stops the collection loop.
// Buffered records remain available through Export.
func (c *Collector) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	close(c.stopCh)
	select {
	case <-c.done:
		// Clean shutdown completed.
	case <-time.After(100 * time.Millisecond):
		// Timeout - proceed without the drain.
	}
	return nil
}
