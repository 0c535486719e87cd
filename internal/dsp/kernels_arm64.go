//go:build arm64

package dsp

import "math"

// On arm64 the Go compiler auto-vectorizes tight 4-wide loops over
// contiguous float32 slices into NEON instructions far more reliably than
// single-element loops; these kernels are shaped to encourage that instead
// of hand-written assembly, which would have to be maintained per Go
// toolchain release.

func fillScalar(dst []float32, v float32) {
	n := len(dst)
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = v
		dst[i+1] = v
		dst[i+2] = v
		dst[i+3] = v
	}
	for ; i < n; i++ {
		dst[i] = v
	}
}

func scaleScalar(dst []float32, k float32) {
	n := len(dst)
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] *= k
		dst[i+1] *= k
		dst[i+2] *= k
		dst[i+3] *= k
	}
	for ; i < n; i++ {
		dst[i] *= k
	}
}

func addScalar(a, b, dst []float32) {
	n := len(dst)
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = a[i] + b[i]
		dst[i+1] = a[i+1] + b[i+1]
		dst[i+2] = a[i+2] + b[i+2]
		dst[i+3] = a[i+3] + b[i+3]
	}
	for ; i < n; i++ {
		dst[i] = a[i] + b[i]
	}
}

func mulScalar(a, b, dst []float32) {
	n := len(dst)
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = a[i] * b[i]
		dst[i+1] = a[i+1] * b[i+1]
		dst[i+2] = a[i+2] * b[i+2]
		dst[i+3] = a[i+3] * b[i+3]
	}
	for ; i < n; i++ {
		dst[i] = a[i] * b[i]
	}
}

func applyVolumeWeightingScalar(sum, volume []float32, p float64, u float32) {
	switch {
	case p == 1:
		n := len(volume)
		i := 0
		for ; i+4 <= n; i += 4 {
			sum[i] += volume[i]
			sum[i+1] += volume[i+1]
			sum[i+2] += volume[i+2]
			sum[i+3] += volume[i+3]
		}
		for ; i < n; i++ {
			sum[i] += volume[i]
		}
	case p == 2:
		n := len(volume)
		i := 0
		for ; i+4 <= n; i += 4 {
			for j := 0; j < 4; j++ {
				nv := volume[i+j] / u
				sum[i+j] += nv * nv * u
			}
		}
		for ; i < n; i++ {
			nv := volume[i] / u
			sum[i] += nv * nv * u
		}
	default:
		for i, vol := range volume {
			n := float64(vol) / float64(u)
			sum[i] += float32(math.Pow(n, p)) * u
		}
	}
}

// The envelope recurrence is inherently serial (each sample depends on the
// previous one) so there is no vectorized form; it is identical to the
// portable scalar path.
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
	i := 0
	for ; i+4 <= n; i += 4 {
		for j := 0; j < 4; j++ {
			t := float32(i+j) * step
			gL := gL0 + (gL1-gL0)*t
			gR := gR0 + (gR1-gR0)*t
			lOut[i+j] = mono[i+j] * gL
			rOut[i+j] = mono[i+j] * gR
		}
	}
	for ; i < n; i++ {
		t := float32(i) * step
		gL := gL0 + (gL1-gL0)*t
		gR := gR0 + (gR1-gR0)*t
		lOut[i] = mono[i] * gL
		rOut[i] = mono[i] * gR
	}
}
