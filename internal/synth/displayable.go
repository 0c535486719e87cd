package synth

import "sync"

// Displayable holds the raw incoming RGB line for display/DMX
// collaborators to read. Freeze/fade substitution only ever applies to the
// grayscale synthesis path, so this reflects the live input even while
// synthesis is frozen. It is written once per line by the driver and read
// from any number of other goroutines under the same mutex.
type Displayable struct {
	mu      sync.Mutex
	r, g, b []uint8
}

// NewDisplayable allocates a displayable buffer for a line of the given
// width.
func NewDisplayable(width int) *Displayable {
	return &Displayable{
		r: make([]uint8, width),
		g: make([]uint8, width),
		b: make([]uint8, width),
	}
}

// Update copies r/g/b in under the mutex.
func (d *Displayable) Update(r, g, b []uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(d.r, r)
	copy(d.g, g)
	copy(d.b, b)
}

// Get copies the current displayable line into dstR/dstG/dstB under the
// mutex, so a concurrent Update can never tear a reader's view.
func (d *Displayable) Get(dstR, dstG, dstB []uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(dstR, d.r)
	copy(dstG, d.g)
	copy(dstB, d.b)
}
