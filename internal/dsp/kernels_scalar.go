//go:build !arm64

package dsp

import "math"

func fillScalar(dst []float32, v float32) {
	for i := range dst {
		dst[i] = v
	}
}

func scaleScalar(dst []float32, k float32) {
	for i := range dst {
		dst[i] *= k
	}
}

func addScalar(a, b, dst []float32) {
	n := len(dst)
	for i := 0; i < n; i++ {
		dst[i] = a[i] + b[i]
	}
}

func mulScalar(a, b, dst []float32) {
	n := len(dst)
	for i := 0; i < n; i++ {
		dst[i] = a[i] * b[i]
	}
}

func applyVolumeWeightingScalar(sum, volume []float32, p float64, u float32) {
	switch {
	case p == 1:
		for i, vol := range volume {
			sum[i] += vol
		}
	case p == 2:
		for i, vol := range volume {
			n := vol / u
			sum[i] += n * n * u
		}
	default:
		for i, vol := range volume {
			n := float64(vol) / float64(u)
			sum[i] += float32(math.Pow(n, p)) * u
		}
	}
}

func applyEnvelopeRampScalar(dst []float32, v0, target, alpha float32, lo, hi float32) float32 {
	v := v0
	for i := range dst {
		v += alpha * (target - v)
		if v < lo {
			v = lo
		} else if v > hi {
			v = hi
		}
		dst[i] = v
	}
	return v
}

func applyStereoPanRampScalar(mono, lOut, rOut []float32, gL0, gR0, gL1, gR1 float32) {
	n := len(mono)
	if n == 0 {
		return
	}
	if n == 1 {
		lOut[0] = mono[0] * gL1
		rOut[0] = mono[0] * gR1
		return
	}
	step := float32(1) / float32(n-1)
	for i := 0; i < n; i++ {
		t := float32(i) * step
		gL := gL0 + (gL1-gL0)*t
		gR := gR0 + (gR1-gR0)*t
		lOut[i] = mono[i] * gL
		rOut[i] = mono[i] * gR
	}
}
