package preprocess

import "testing"

func TestGrayscaleWhiteIsMax(t *testing.T) {
	line := []RGB{{255, 255, 255}}
	dst := make([]float32, 1)
	Grayscale(line, dst)
	if dst[0] < 0.999 {
		t.Fatalf("expected white pixel near max luminance, got %v", dst[0])
	}
}

func TestGrayscaleBlackIsZero(t *testing.T) {
	line := []RGB{{0, 0, 0}}
	dst := make([]float32, 1)
	Grayscale(line, dst)
	if dst[0] != 0 {
		t.Fatalf("expected black pixel at 0, got %v", dst[0])
	}
}

func TestTargetVolumesAveragesPixelsPerNote(t *testing.T) {
	gray := []float32{0, 1, 0.5, 0.5}
	dst := make([]float32, 2)
	opts := Options{PixelsPerNote: 2, GammaValue: 1}
	TargetVolumes(gray, 1, 2, opts, dst[:1])

	if dst[0] != 0.5 {
		t.Fatalf("expected average 0.5, got %v", dst[0])
	}
}

func TestTargetVolumesForcesNoteZeroSilent(t *testing.T) {
	gray := []float32{1, 1, 1, 1}
	dst := make([]float32, 2)
	opts := Options{PixelsPerNote: 2, GammaValue: 1}
	TargetVolumes(gray, 0, 2, opts, dst)

	if dst[0] != 0 {
		t.Fatalf("expected note 0 forced silent, got %v", dst[0])
	}
	if dst[1] != 1 {
		t.Fatalf("expected note 1 unaffected, got %v", dst[1])
	}
}

func TestTargetVolumesInvertIntensity(t *testing.T) {
	gray := []float32{1, 1, 1, 1}
	dst := make([]float32, 1)
	opts := Options{PixelsPerNote: 2, InvertIntensity: true, GammaValue: 1}
	TargetVolumes(gray, 1, 2, opts, dst)

	if dst[0] != 0 {
		t.Fatalf("expected inverted value near 0, got %v", dst[0])
	}
}

func TestTargetVolumesGammaIdentityAtOne(t *testing.T) {
	gray := []float32{0.5, 0.5, 0.5, 0.5}
	dst := make([]float32, 1)
	opts := Options{PixelsPerNote: 2, GammaValue: 1}
	TargetVolumes(gray, 1, 2, opts, dst)

	if dst[0] != 0.5 {
		t.Fatalf("expected gamma=1 to be identity, got %v", dst[0])
	}
}

func TestContrastFactorFlatImageIsFloor(t *testing.T) {
	gray := make([]float32, 100)
	for i := range gray {
		gray[i] = 0.5
	}
	factor := ContrastFactor(gray, 8, 0.35, 0.5)
	if factor != 0.35 {
		t.Fatalf("expected flat image to floor at min, got %v", factor)
	}
}

func TestContrastFactorHighVarianceExceedsFloor(t *testing.T) {
	gray := make([]float32, 100)
	for i := range gray {
		if i%2 == 0 {
			gray[i] = 0
		} else {
			gray[i] = 1
		}
	}
	factor := ContrastFactor(gray, 1, 0.35, 0.5)
	if factor <= 0.35 {
		t.Fatalf("expected high-variance image to exceed floor, got %v", factor)
	}
}
