// Package dsp implements the small set of array kernels the synthesis
// workers run per buffer: fills, scaling, mixing, volume weighting, the
// envelope recurrence and stereo pan interpolation. Each kernel has a
// portable scalar form; architectures with a fast vector path override the
// entry points built under their own file (see kernels_arm64.go).
package dsp

// Fill writes v into every element of dst.
func Fill(dst []float32, v float32) {
	fillScalar(dst, v)
}

// Scale multiplies every element of dst by k, in place.
func Scale(dst []float32, k float32) {
	scaleScalar(dst, k)
}

// Add writes dst[i] = a[i] + b[i]. dst may alias a or b.
func Add(a, b, dst []float32) {
	addScalar(a, b, dst)
}

// Mul writes dst[i] = a[i] * b[i]. dst may alias a or b.
func Mul(a, b, dst []float32) {
	mulScalar(a, b, dst)
}

// ApplyVolumeWeighting adds (volume[i]/u)^p * u into sum[i] for every i,
// with fast paths for p == 1 (linear) and p == 2 (square).
func ApplyVolumeWeighting(sum, volume []float32, p float64, u float32) {
	applyVolumeWeightingScalar(sum, volume, p, u)
}

// ApplyEnvelopeRamp runs the clamped one-pole recurrence
// v <- v + alpha*(target-v) for L = len(dst) samples, writing the running
// value into dst and returning the final v. lo/hi clamp v after every step.
func ApplyEnvelopeRamp(dst []float32, v0, target, alpha float32, lo, hi float32) float32 {
	return applyEnvelopeRampScalar(dst, v0, target, alpha, lo, hi)
}

// ApplyStereoPanRamp linearly interpolates per-sample gains from
// (gL0,gR0) to (gL1,gR1) across len(mono) samples, multiplying mono by the
// interpolated gain and writing into lOut/rOut.
func ApplyStereoPanRamp(mono, lOut, rOut []float32, gL0, gR0, gL1, gR1 float32) {
	applyStereoPanRampScalar(mono, lOut, rOut, gL0, gR0, gL1, gR1)
}
