// Package audiobuf implements the two-slot-per-channel double buffer that
// hands synthesized audio from the synthesis driver to the pull-model
// audio callback, plus the backends that drive a real audio device from
// it.
package audiobuf

import (
	"sync"
	"sync/atomic"
)

// slot's ready flag is an atomic so the audio callback's read path never
// locks; freed is a size-1 non-blocking wake channel the writer blocks on
// instead of a sync.Cond, since an unlocked cond.Signal() racing a waiter's
// still-locked predicate check can be lost. A buffered channel send always
// lands even if the writer isn't receiving yet.
type slot struct {
	ready atomic.Bool
	freed chan struct{}
	l, r  []float32
}

func newSlot(bufferSize int) *slot {
	return &slot{
		l:     make([]float32, bufferSize),
		r:     make([]float32, bufferSize),
		freed: make(chan struct{}, 1),
	}
}

// DoubleBuffer is the producer/consumer handoff between the synthesis
// driver and the audio callback: two slots per channel, an atomic "ready"
// flag and wake channel on each, and a mutex-guarded write-index flip.
type DoubleBuffer struct {
	bufferSize int
	slots      [2]*slot
	writeIndex int // only ever touched by the producer
	writeMu    sync.Mutex
}

// NewDoubleBuffer allocates a double buffer of the given per-slot size.
func NewDoubleBuffer(bufferSize int) *DoubleBuffer {
	return &DoubleBuffer{
		bufferSize: bufferSize,
		slots:      [2]*slot{newSlot(bufferSize), newSlot(bufferSize)},
	}
}

// BufferSize returns B, the per-slot sample count.
func (d *DoubleBuffer) BufferSize() int {
	return d.bufferSize
}

// Write blocks while the target slot is still marked ready (the callback
// hasn't drained it yet), copies l/r into it, marks it ready, and flips
// the write index. Called only from the synthesis driver thread.
func (d *DoubleBuffer) Write(l, r []float32) {
	d.writeMu.Lock()
	idx := d.writeIndex
	d.writeMu.Unlock()

	s := d.slots[idx]
	for s.ready.Load() {
		<-s.freed
	}
	copy(s.l, l)
	copy(s.r, r)
	s.ready.Store(true)

	d.writeMu.Lock()
	d.writeIndex = 1 - d.writeIndex
	d.writeMu.Unlock()
}

// reader is the audio callback's private cursor into the double buffer.
// It is not safe for concurrent use by more than one callback goroutine,
// matching the single host-driven callback thread the audio device calls.
type reader struct {
	db         *DoubleBuffer
	localIndex int
	readOffset int
}

func newReader(db *DoubleBuffer) *reader {
	return &reader{db: db}
}

// read copies up to len(lOut) frames starting at the reader's current
// position into lOut/rOut, returning the number of frames actually
// copied. If the current slot is not ready, it writes silence into the
// same number of frames the ready case would copy (up to the end of the
// slot) and returns that count, without advancing past the slot boundary
// prematurely — the
// callback is expected to call read again on the next slot once this one
// is exhausted, exactly like the ready case. Never locks: the ready check
// is a plain atomic load, matching the audio callback's real-time
// contract.
func (r *reader) read(lOut, rOut []float32) int {
	n := len(lOut)
	s := r.db.slots[r.localIndex]

	ready := s.ready.Load()
	remaining := r.db.bufferSize - r.readOffset
	count := n
	if count > remaining {
		count = remaining
	}

	if ready {
		copy(lOut[:count], s.l[r.readOffset:r.readOffset+count])
		copy(rOut[:count], s.r[r.readOffset:r.readOffset+count])
	} else {
		for i := 0; i < count; i++ {
			lOut[i] = 0
			rOut[i] = 0
		}
	}
	r.readOffset += count

	if r.readOffset >= r.db.bufferSize {
		if ready {
			s.ready.Store(false)
			select {
			case s.freed <- struct{}{}:
			default:
			}
		}
		r.readOffset = 0
		r.localIndex = 1 - r.localIndex
	}

	return count
}

// ReadFull fills lOut/rOut completely, crossing slot boundaries as needed;
// never blocks (a not-ready slot contributes silence for its portion).
func (r *reader) ReadFull(lOut, rOut []float32) {
	n := len(lOut)
	done := 0
	for done < n {
		c := r.read(lOut[done:], rOut[done:])
		if c == 0 {
			// Defensive: a zero-size slot would spin forever otherwise.
			break
		}
		done += c
	}
}
