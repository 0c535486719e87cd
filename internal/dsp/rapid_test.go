package dsp

import (
	"testing"

	"pgregory.net/rapid"
)

// TestApplyStereoPanRampConstantGainMatchesMonoScale checks the
// round-trip identity: ramping from (gL,gR) to the same (gL,gR) is
// equivalent to scaling mono by gL and gR independently, sample for
// sample, since there is no interpolation to perform when both ends
// agree.
func TestApplyStereoPanRampConstantGainMatchesMonoScale(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 512).Draw(t, "n")
		gL := float32(rapid.Float64Range(-1, 1).Draw(t, "gL"))
		gR := float32(rapid.Float64Range(-1, 1).Draw(t, "gR"))

		mono := make([]float32, n)
		for i := range mono {
			mono[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "sample"))
		}

		lOut := make([]float32, n)
		rOut := make([]float32, n)
		ApplyStereoPanRamp(mono, lOut, rOut, gL, gR, gL, gR)

		for i := range mono {
			wantL := mono[i] * gL
			wantR := mono[i] * gR
			if lOut[i] != wantL {
				t.Fatalf("lOut[%d] = %v, want %v", i, lOut[i], wantL)
			}
			if rOut[i] != wantR {
				t.Fatalf("rOut[%d] = %v, want %v", i, rOut[i], wantR)
			}
		}
	})
}
