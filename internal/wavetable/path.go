package wavetable

// PrecomputeIndexPath fills path with the B successive phase indices
// oscillator n will visit, starting from its current committed
// CurrentIdx, without mutating oscillator state. The caller commits
// path[len(path)-1] back into Oscillators[n].CurrentIdx once the buffer
// is finalized, keeping phase continuous across buffers even though
// workers may run concurrently with precompute of the next note range.
func (t *Table) PrecomputeIndexPath(n int, path []int) {
	osc := &t.Oscillators[n]
	idx := osc.CurrentIdx
	for i := range path {
		idx = (idx + osc.OctaveCoeff) % osc.AreaSize
		path[i] = idx
	}
}

// CommitIndexPath persists the last index of a precomputed path as the
// oscillator's new phase, making it the base for the next buffer.
func (t *Table) CommitIndexPath(n int, path []int) {
	if len(path) == 0 {
		return
	}
	t.Oscillators[n].CurrentIdx = path[len(path)-1]
}
