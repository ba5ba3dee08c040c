package zipkinz

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/zoobzio/clockz"
)

// ID is an opaque 64-bit trace or span identifier. IDs are generated
// uniformly at random; uniqueness is probabilistic, not guaranteed.
type ID = uint64

// newIDFactory returns a generator reading 64 bits from crypto/rand per call.
// Safe for concurrent use.
func newIDFactory(clock clockz.Clock) func() ID {
	return func() ID {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			// Fallback to time-based ID if crypto/rand fails.
			return ID(clock.Now().UnixNano())
		}
		return binary.BigEndian.Uint64(buf[:])
	}
}

// IDPool manages a pool of pre-generated IDs to amortize crypto/rand overhead.
type IDPool struct {
	factory func() ID
	ids     chan ID
	stopCh  chan struct{}
	mu      sync.Mutex
	closed  bool
}

// NewIDPool creates a new ID pool with the specified capacity.
func NewIDPool(capacity int, factory func() ID) *IDPool {
	pool := &IDPool{
		ids:     make(chan ID, capacity),
		factory: factory,
		stopCh:  make(chan struct{}),
	}
	// Start background refill goroutine.
	go pool.refill()
	return pool
}

// Get retrieves an ID from the pool or generates one if pool is empty.
func (p *IDPool) Get() ID {
	select {
	case id := <-p.ids:
		return id
	default:
		// Pool empty, generate directly (fallback for burst load).
		return p.factory()
	}
}

// refill maintains the pool by generating IDs in background.
func (p *IDPool) refill() {
	for {
		select {
		case <-p.stopCh:
			return
		default:
			// Only generate if pool has capacity.
			select {
			case p.ids <- p.factory():
				// Successfully added ID to pool.
			case <-p.stopCh:
				return
			}
		}
	}
}

// Close shuts down the ID pool gracefully.
func (p *IDPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		close(p.stopCh)
		p.closed = true
	}
}
