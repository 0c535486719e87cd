package stereo

import "sync/atomic"

// Snapshot is the lock-free double-buffered pan publication path: two
// fixed-size arrays of per-note gains plus a generation counter. Writers
// fill the inactive array then flip the counter; readers sample the
// counter once and read through whichever array it names. There is no
// mutex on the hot path in either direction.
type Snapshot struct {
	buffers    [2][]Gains
	generation atomic.Uint64
}

// NewSnapshot allocates a snapshot for noteCount notes.
func NewSnapshot(noteCount int) *Snapshot {
	return &Snapshot{
		buffers: [2][]Gains{
			make([]Gains, noteCount),
			make([]Gains, noteCount),
		},
	}
}

// Publish writes gains into the inactive buffer and flips the generation
// counter, making the new buffer current. gains must have the same length
// the snapshot was created with.
func (s *Snapshot) Publish(gains []Gains) {
	gen := s.generation.Load()
	next := (gen + 1) % 2
	copy(s.buffers[next], gains)
	s.generation.Store(gen + 1)
}

// Read returns the currently published gains slice. The returned slice
// must not be retained past the caller's current read — a concurrent
// Publish may reuse it once two more generations have passed.
func (s *Snapshot) Read() []Gains {
	gen := s.generation.Load()
	return s.buffers[gen%2]
}

// ReadNote returns the gains for a single note from the current snapshot.
func (s *Snapshot) ReadNote(n int) Gains {
	return s.Read()[n]
}
