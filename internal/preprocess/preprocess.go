// Package preprocess maps a line of RGB pixels into per-note target
// volumes: grayscale conversion, per-note averaging, optional intensity
// inversion, relative (edge) mode, and gamma mapping.
package preprocess

import "math"

// VolumeResolution is U, the normalization ceiling for note_val and
// grayscale values throughout this package.
const VolumeResolution = 1.0

// RGB is a single pixel's red/green/blue components in [0, 255].
type RGB struct {
	R, G, B uint8
}

// Grayscale converts a line of RGB pixels to float32 luminance normalized
// to [0, VolumeResolution], using the Rec.601 weights.
func Grayscale(line []RGB, dst []float32) {
	for i, px := range line {
		lum := 0.299*float64(px.R) + 0.587*float64(px.G) + 0.114*float64(px.B)
		dst[i] = float32(lum/255) * VolumeResolution
	}
}

// Options configures the target-volume derivation for one line.
type Options struct {
	PixelsPerNote   int
	InvertIntensity bool
	RelativeMode    bool
	GammaValue      float64
}

// TargetVolumes computes target_volume[n] for every note in [start, end)
// from the grayscale line, per the averaging/invert/relative/gamma
// pipeline. Safe to call in parallel on disjoint [start, end) ranges of
// the same gray slice, since it only reads gray and only writes dst.
func TargetVolumes(gray []float32, start, end int, opts Options, dst []float32) {
	ppn := opts.PixelsPerNote
	for n := start; n < end; n++ {
		sum := float32(0)
		base := n * ppn
		for k := 0; k < ppn; k++ {
			sum += gray[base+k]
		}
		val := sum / float32(ppn)

		if opts.InvertIntensity {
			val = VolumeResolution - val
		}

		if val < 0 {
			val = 0
		} else if val > VolumeResolution {
			val = VolumeResolution
		}

		if n == 0 {
			val = 0
		}

		dst[n-start] = val
	}

	if opts.RelativeMode {
		applyRelativeMode(dst)
	}

	if opts.GammaValue != 1.0 {
		for i, v := range dst {
			n := float64(v) / VolumeResolution
			dst[i] = float32(VolumeResolution * math.Pow(n, opts.GammaValue))
		}
	}
}

// applyRelativeMode replaces each value (after the first) with the clipped
// consecutive difference from its predecessor, emphasizing edges in the
// note_val profile.
func applyRelativeMode(dst []float32) {
	prev := float32(0)
	for i, v := range dst {
		diff := v - prev
		prev = v
		if diff < 0 {
			diff = 0
		} else if diff > VolumeResolution {
			diff = VolumeResolution
		}
		dst[i] = diff
	}
}

// ContrastFactor samples the grayscale line with the given stride,
// computes the sample variance, normalizes by the maximum possible
// variance, applies a response power, and floors at min.
func ContrastFactor(gray []float32, stride int, min, responsePower float64) float64 {
	if stride <= 0 {
		stride = 1
	}

	var sum, sumSq float64
	count := 0
	for i := 0; i < len(gray); i += stride {
		v := float64(gray[i])
		sum += v
		sumSq += v * v
		count++
	}
	if count == 0 {
		return min
	}

	mean := sum / float64(count)
	variance := sumSq/float64(count) - mean*mean
	if variance < 0 {
		variance = 0
	}

	// Maximum variance of a [0,U] uniform-valued signal is (U/2)^2.
	maxVariance := (VolumeResolution / 2) * (VolumeResolution / 2)
	normalized := variance / maxVariance
	if normalized > 1 {
		normalized = 1
	}

	factor := math.Pow(normalized, responsePower)
	if factor < min {
		factor = min
	}
	if factor > 1 {
		factor = 1
	}
	return factor
}
