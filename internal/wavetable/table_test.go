package wavetable

import (
	"math"
	"testing"
)

func testParams(noteCount int) Params {
	return Params{
		SampleRate:         48000,
		StartFrequency:     55,
		SemitonesPerOctave: 12,
		CommasPerSemitone:  8,
		NoteCount:          noteCount,
	}
}

func TestBuildAssignsOneOscillatorPerNote(t *testing.T) {
	tbl, err := Build(testParams(200))
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Oscillators) != 200 {
		t.Fatalf("expected 200 oscillators, got %d", len(tbl.Oscillators))
	}
}

func TestBuildOctaveCoeffDoublesPerOctave(t *testing.T) {
	commasPerOctave := 12 * 8
	tbl, err := Build(testParams(commasPerOctave*3 + 5))
	if err != nil {
		t.Fatal(err)
	}

	for o := 0; o < 3; o++ {
		n := o * commasPerOctave
		want := 1 << uint(o)
		if got := tbl.Oscillators[n].OctaveCoeff; got != want {
			t.Fatalf("octave %d: octave_coeff = %d, want %d", o, got, want)
		}
	}
}

func TestBuildFrequencyDoublesAcrossOctaves(t *testing.T) {
	commasPerOctave := 12 * 8
	tbl, err := Build(testParams(commasPerOctave*2 + 1))
	if err != nil {
		t.Fatal(err)
	}

	f0 := tbl.Oscillators[0].Frequency
	f1 := tbl.Oscillators[commasPerOctave].Frequency
	if math.Abs(f1-2*f0) > 1e-6 {
		t.Fatalf("expected octave frequency to double: f0=%v f1=%v", f0, f1)
	}
}

func TestStartPtrPlusIndexStaysInBounds(t *testing.T) {
	tbl, err := Build(testParams(500))
	if err != nil {
		t.Fatal(err)
	}
	for n, osc := range tbl.Oscillators {
		for idx := 0; idx < osc.AreaSize; idx++ {
			if osc.StartPtr+idx >= len(tbl.Samples) {
				t.Fatalf("note %d: start_ptr+idx out of bounds at idx %d", n, idx)
			}
		}
	}
}

func TestPrecomputeIndexPathWrapsModuloAreaSize(t *testing.T) {
	tbl, err := Build(testParams(10))
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	osc := &tbl.Oscillators[n]
	osc.OctaveCoeff = 3
	osc.CurrentIdx = osc.AreaSize - 2

	path := make([]int, 5)
	tbl.PrecomputeIndexPath(n, path)

	idx := osc.AreaSize - 2
	for i, got := range path {
		idx = (idx + 3) % osc.AreaSize
		if got != idx {
			t.Fatalf("path[%d] = %d, want %d", i, got, idx)
		}
	}
}

func TestCommitIndexPathPersistsLastIndex(t *testing.T) {
	tbl, err := Build(testParams(10))
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	path := make([]int, 64)
	tbl.PrecomputeIndexPath(n, path)
	tbl.CommitIndexPath(n, path)

	if tbl.Oscillators[n].CurrentIdx != path[len(path)-1] {
		t.Fatalf("expected committed CurrentIdx to equal last path element")
	}
}

func TestBuildRejectsNonPositiveSampleRate(t *testing.T) {
	p := testParams(10)
	p.SampleRate = 0
	if _, err := Build(p); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestBuildFailsOnRamOverflow(t *testing.T) {
	p := testParams(10)
	p.StartFrequency = 1e-9 // absurdly low -> gigantic area_size per period
	if _, err := Build(p); err == nil {
		t.Fatal("expected ram overflow error")
	}
}
