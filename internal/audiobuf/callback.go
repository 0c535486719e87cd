package audiobuf

import (
	"math"
	"sync/atomic"
)

func float32bits(v float32) uint32    { return math.Float32bits(v) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }

// ReverbReturn supplies the wet reverb signal the callback mixes in
// non-blockingly; internal/reverb's consumer side implements this.
type ReverbReturn interface {
	// Read fills l/r with the next len(l) wet samples, or silence if none
	// are available yet. Must never block.
	Read(l, r []float32)
}

type noReverb struct{}

func (noReverb) Read(l, r []float32) {
	for i := range l {
		l[i] = 0
		r[i] = 0
	}
}

// Ticker is sampled once per Render call and applies its own bounded-rate
// gating internally (e.g. internal/midi.Poller samples a MIDI source
// every ~64 calls). Defined here rather than accepting a concrete MIDI
// type to avoid a backward import from audiobuf into midi, which already
// imports audiobuf for MixState.
type Ticker interface {
	Tick()
}

// MixState holds the callback-visible mix parameters a MIDI collaborator
// may update; reads and writes are atomic so the callback thread never
// locks.
type MixState struct {
	masterVolume atomic.Uint32 // float32 bits
	additiveMix  atomic.Uint32 // float32 bits
}

// NewMixState returns a MixState at unity master volume and full additive
// mix.
func NewMixState() *MixState {
	m := &MixState{}
	m.SetMasterVolume(1)
	m.SetAdditiveMix(1)
	return m
}

func (m *MixState) SetMasterVolume(v float32) { m.masterVolume.Store(float32bits(v)) }
func (m *MixState) MasterVolume() float32      { return float32frombits(m.masterVolume.Load()) }
func (m *MixState) SetAdditiveMix(v float32)   { m.additiveMix.Store(float32bits(v)) }
func (m *MixState) AdditiveMix() float32       { return float32frombits(m.additiveMix.Load()) }

// Callback is the pull-model consumer driven by the host audio backend: it
// reads from a DoubleBuffer, applies the master mix and reverb return, and
// hard-limits into the caller-supplied planar output.
type Callback struct {
	reader *reader
	mix    *MixState
	reverb ReverbReturn
	ticker Ticker

	scratchL, scratchR []float32
	reverbL, reverbR   []float32
}

// SetTicker wires a bounded-rate collaborator (e.g. a MIDI poller) to be
// sampled once per Render call; nil disables it. Not safe to call
// concurrently with Render.
func (c *Callback) SetTicker(t Ticker) {
	c.ticker = t
}

// NewCallback builds a callback reading from db, mixing with mix, and
// optionally pulling reverb return from reverb (nil selects a silent
// no-op reverb).
func NewCallback(db *DoubleBuffer, mix *MixState, reverb ReverbReturn) *Callback {
	if reverb == nil {
		reverb = noReverb{}
	}
	b := db.BufferSize()
	return &Callback{
		reader:   newReader(db),
		mix:      mix,
		reverb:   reverb,
		scratchL: make([]float32, b),
		scratchR: make([]float32, b),
		reverbL:  make([]float32, b),
		reverbR:  make([]float32, b),
	}
}

// Render fills planar lOut/rOut of length N with mixed, limited samples.
// It never allocates, locks, or calls into the synthesis driver, matching
// the audio callback's real-time contract.
func (c *Callback) Render(lOut, rOut []float32) {
	n := len(lOut)
	sl := c.scratchL[:n]
	sr := c.scratchR[:n]
	c.reader.ReadFull(sl, sr)

	rl := c.reverbL[:n]
	rr := c.reverbR[:n]
	c.reverb.Read(rl, rr)

	master := c.mix.MasterVolume()
	additive := c.mix.AdditiveMix()

	for i := 0; i < n; i++ {
		l := master * (additive*sl[i] + rl[i])
		r := master * (additive*sr[i] + rr[i])
		lOut[i] = hardLimit(l)
		rOut[i] = hardLimit(r)
	}

	if c.ticker != nil {
		c.ticker.Tick()
	}
}

func hardLimit(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
