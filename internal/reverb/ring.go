// Package reverb implements the single-producer single-consumer ring
// buffers that hand dry samples to an external reverb processing thread
// and carry its wet (L, R) return back to the audio callback. The core
// only owns the ring buffers and the callback-side reader; the reverb
// algorithm itself is an external collaborator.
package reverb

import "sync/atomic"

// Ring is a lock-free SPSC ring buffer over float32 samples. Exactly one
// goroutine may call Write and exactly one (a different) goroutine may
// call Read; size must be a power of two.
type Ring struct {
	buf  []float32
	mask uint32

	head atomic.Uint32 // next write position
	tail atomic.Uint32 // next read position
}

// NewRing allocates a ring whose capacity is the next power of two >= size.
func NewRing(size int) *Ring {
	capacity := uint32(1)
	for int(capacity) < size {
		capacity <<= 1
	}
	return &Ring{
		buf:  make([]float32, capacity),
		mask: capacity - 1,
	}
}

// Write appends as many samples from src as fit without overwriting
// unread data, returning the count actually written.
func (r *Ring) Write(src []float32) int {
	head := r.head.Load()
	tail := r.tail.Load()
	free := r.mask + 1 - (head - tail)

	n := uint32(len(src))
	if n > free {
		n = free
	}
	for i := uint32(0); i < n; i++ {
		r.buf[(head+i)&r.mask] = src[i]
	}
	r.head.Store(head + n)
	return int(n)
}

// Read copies up to len(dst) available samples into dst, returning the
// count actually read; unread positions in dst are left untouched.
func (r *Ring) Read(dst []float32) int {
	head := r.head.Load()
	tail := r.tail.Load()
	available := head - tail

	n := uint32(len(dst))
	if n > available {
		n = available
	}
	for i := uint32(0); i < n; i++ {
		dst[i] = r.buf[(tail+i)&r.mask]
	}
	r.tail.Store(tail + n)
	return int(n)
}

// Available reports how many unread samples are currently in the ring.
func (r *Ring) Available() int {
	return int(r.head.Load() - r.tail.Load())
}
