// Package stereo maps per-note color content to a stereo pan position and
// publishes the resulting gains through a lock-free seqlock-style
// snapshot so the synthesis workers never block on the publisher.
package stereo

import "math"

// Weights configures the color-to-temperature mapping.
type Weights struct {
	BlueRedWeight     float64
	CyanYellowWeight  float64
	Amplification     float64
	CurveExponent     int // odd power applied for contrast
	ConstantPower     bool
	CenterThreshold   float64
	CenterBoostFactor float64
}

// Gains is one note's published stereo state.
type Gains struct {
	Left, Right float32
	Pan         float32
}

// Temperature computes t in [-1,+1], biased toward blue (+) and red (-),
// from the mean RGB of the pixels assigned to a note.
func Temperature(meanR, meanG, meanB float64, w Weights) float64 {
	t := w.BlueRedWeight*(meanB-meanR) + w.CyanYellowWeight*((meanG+meanB)/2-(meanR+meanG)/2)
	t *= w.Amplification

	exp := w.CurveExponent
	if exp <= 0 {
		exp = 1
	}
	if exp%2 == 0 {
		exp++ // enforce an odd power for symmetric contrast
	}
	t = signedPow(t, exp)

	if t < -1 {
		t = -1
	} else if t > 1 {
		t = 1
	}
	return t
}

func signedPow(x float64, exp int) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1
		x = -x
	}
	return sign * math.Pow(x, float64(exp))
}

// GainsFromTemperature converts temperature t to left/right gains via the
// equal-power law by default, or a linear law when w.ConstantPower is
// false, then applies a small center boost within w.CenterThreshold.
func GainsFromTemperature(t float64, w Weights) Gains {
	var l, r float64
	if w.ConstantPower {
		angle := (t + 1) * math.Pi / 4
		l = math.Cos(angle)
		r = math.Sin(angle)
	} else {
		l = (1 - t) / 2
		r = (1 + t) / 2
	}

	if math.Abs(t) < w.CenterThreshold {
		l *= w.CenterBoostFactor
		r *= w.CenterBoostFactor
	}

	return Gains{Left: float32(l), Right: float32(r), Pan: float32(t)}
}
