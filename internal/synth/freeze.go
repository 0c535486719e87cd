package synth

import "time"

// FreezeState tracks the {live, frozen, fading} state machine: a UI or IMU
// collaborator toggles Freeze()/Thaw(), and the driver samples the
// resulting grayscale once per line under a mutex.
type FreezeState struct {
	frozen   bool
	fading   bool
	snapshot []float32
	fadeFrom time.Time

	fadeDuration time.Duration
}

// NewFreezeState allocates a freeze state machine for a line of the given
// width, with the standard 5-second crossfade.
func NewFreezeState(width int) *FreezeState {
	return &FreezeState{
		snapshot:     make([]float32, width),
		fadeDuration: 5 * time.Second,
	}
}

// Freeze captures live into the frozen snapshot (live -> frozen).
func (f *FreezeState) Freeze(live []float32) {
	copy(f.snapshot, live)
	f.frozen = true
	f.fading = false
}

// Thaw begins a crossfade back to live input (frozen -> fading); it is a
// no-op unless currently frozen.
func (f *FreezeState) Thaw(now time.Time) {
	if !f.frozen {
		return
	}
	f.frozen = false
	f.fading = true
	f.fadeFrom = now
}

// Process writes the grayscale this line's preprocessing should read into
// dst: the live buffer unchanged while live, the snapshot while frozen, or
// a live/frozen crossfade while fading. Returns the crossfade progress
// alpha in [0,1] purely for diagnostics; callers do not need it.
func (f *FreezeState) Process(live []float32, dst []float32, now time.Time) float64 {
	switch {
	case f.frozen:
		copy(dst, f.snapshot)
		return 0
	case f.fading:
		elapsed := now.Sub(f.fadeFrom)
		alpha := elapsed.Seconds() / f.fadeDuration.Seconds()
		if alpha >= 1 {
			f.fading = false
			copy(dst, live)
			return 1
		}
		if alpha < 0 {
			alpha = 0
		}
		for i := range dst {
			dst[i] = float32(alpha)*live[i] + float32(1-alpha)*f.snapshot[i]
		}
		return alpha
	default:
		copy(dst, live)
		return 1
	}
}

// Frozen reports whether the state machine is currently in the frozen
// state (not fading, not live).
func (f *FreezeState) Frozen() bool {
	return f.frozen
}

// Fading reports whether a crossfade back to live is in progress.
func (f *FreezeState) Fading() bool {
	return f.fading
}
