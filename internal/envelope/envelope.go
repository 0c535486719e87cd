// Package envelope implements the per-note amplitude smoother ("gap
// limiter"): an exponential one-pole recurrence with independent attack
// and frequency-weighted release time constants, giving click-free
// amplitude changes without a fixed envelope curve to re-trigger per note.
package envelope

import (
	"math"

	"github.com/ondulab/sp3ctra-go/internal/dsp"
)

// Params are the configuration-derived timing constants shared by every
// note; recomputed whenever the configuration changes.
type Params struct {
	TauUpMs        float64
	TauDownBaseMs  float64
	DecayFreqRefHz float64
	DecayFreqBeta  float64
	DecayFreqMin   float64
	DecayFreqMax   float64
	AlphaMin       float64
	InstantAttack  bool
	Enabled        bool
}

// Coefficients holds the precomputed one-pole alpha values for a single
// note at its resident frequency.
type Coefficients struct {
	AlphaUp           float32
	AlphaDownWeighted float32
}

// Derive precomputes alpha_up and the frequency-weighted alpha_down for a
// note resident at freqHz, per p.
func Derive(p Params, freqHz float64, sampleRate int) Coefficients {
	fs := float64(sampleRate)
	tauUp := p.TauUpMs / 1000
	tauDown := p.TauDownBaseMs / 1000

	alphaUp := 1 - math.Exp(-1/(tauUp*fs))

	g := math.Pow(freqHz/p.DecayFreqRefHz, -p.DecayFreqBeta)
	g = clamp(g, p.DecayFreqMin, p.DecayFreqMax)
	// g scales the release time constant, so notes above DecayFreqRefHz
	// release faster and notes below it slower.
	alphaDown := 1 - math.Exp(-1/(tauDown*g*fs))

	if alphaUp < p.AlphaMin {
		alphaUp = p.AlphaMin
	}
	if alphaDown < p.AlphaMin {
		alphaDown = p.AlphaMin
	}

	return Coefficients{
		AlphaUp:           float32(alphaUp),
		AlphaDownWeighted: float32(alphaDown),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Smooth runs one buffer of the clamped one-pole recurrence for a note,
// writing len(dst) samples and returning the new current_volume to persist
// back into the oscillator. If params.Enabled is false, it fills dst with
// target unconditionally (the "disabled at compile time" fallback).
func Smooth(dst []float32, current, target float32, coef Coefficients, params Params) float32 {
	if !params.Enabled {
		dsp.Fill(dst, target)
		return target
	}

	if params.InstantAttack && target > current {
		dsp.Fill(dst, target)
		return target
	}

	alpha := coef.AlphaDownWeighted
	if target > current {
		alpha = coef.AlphaUp
	}

	return dsp.ApplyEnvelopeRamp(dst, current, target, alpha, 0, 1)
}
