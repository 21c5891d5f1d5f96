// Package ringchan provides a bounded channel with overwrite-oldest
// semantics, used to decouple BLE notification callbacks from consumers: the
// producer side never blocks, so a slow reader cannot stall the transport
// callback thread.
package ringchan

import "sync"

// Ring wraps a buffered channel. Sends always complete immediately; when the
// buffer is full the oldest element is dropped. Close is safe to race with
// Send.
type Ring[T any] struct {
	ch chan T

	mu     sync.Mutex
	closed bool
}

// New creates a Ring with the given capacity. Panics if capacity <= 0.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("ringchan: capacity must be > 0")
	}
	return &Ring[T]{ch: make(chan T, capacity)}
}

// C returns the receive side. Consumers range over it until Close.
func (r *Ring[T]) C() <-chan T {
	return r.ch
}

// Send inserts v, discarding the oldest buffered element if full. Reports
// whether an element was dropped. Sends after Close are discarded.
func (r *Ring[T]) Send(v T) (dropped bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}

	select {
	case r.ch <- v:
	default:
		select {
		case <-r.ch: // drop oldest
			dropped = true
		default:
		}
		r.ch <- v
	}
	return dropped
}

// Len returns the number of buffered elements.
func (r *Ring[T]) Len() int {
	return len(r.ch)
}

// Cap returns the buffer capacity.
func (r *Ring[T]) Cap() int {
	return cap(r.ch)
}

// Close closes the receive side. Idempotent; subsequent Sends are discarded.
func (r *Ring[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	close(r.ch)
}
