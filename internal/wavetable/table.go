// Package wavetable builds the shared reference waveform table and the
// bank of oscillators that stride through it.
package wavetable

import (
	"fmt"
	"math"
)

// WaveAmpResolution is the normalization divisor applied to stored table
// samples so a reader recovers a [-1, +1] float without further scaling.
const WaveAmpResolution = 1.0

// MaxTableSamples bounds the total size of the reference table; init fails
// rather than allocate past this.
const MaxTableSamples = 64 << 20 // 64M float32 samples (~256MB)

// Oscillator is one note's view into the shared Table.
type Oscillator struct {
	Frequency   float64
	AreaSize    int
	OctaveCoeff int

	StartPtr   int // offset of this oscillator's reference period within Table.Samples
	CurrentIdx int // phase position into [StartPtr, StartPtr+AreaSize), wraps mod AreaSize
}

// Table is the shared reference waveform: one period per comma of the
// reference octave, concatenated.
type Table struct {
	Samples []float32

	Oscillators []Oscillator

	SampleRate int
}

// Params configures table construction; field names mirror the
// configuration knobs the core reads at init.
type Params struct {
	SampleRate         int
	StartFrequency     float64
	SemitonesPerOctave int
	CommasPerSemitone  int
	NoteCount          int
}

// Build allocates the reference waveform table and assigns each of
// NoteCount notes a (start_ptr, area_size, octave_coeff, frequency).
//
// For each comma c in [0, K*C) of the reference octave, one sinusoidal
// period is written at frequency f(c) = f0 * 2^(c/(K*C)). Higher octaves
// reuse the same stored period, realized by striding through it with
// octave_coeff = 2^o.
func Build(p Params) (*Table, error) {
	if p.SampleRate <= 0 {
		return nil, fmt.Errorf("wavetable: sample rate must be positive, got %d", p.SampleRate)
	}
	if p.StartFrequency <= 0 {
		return nil, fmt.Errorf("wavetable: start frequency must be positive, got %g", p.StartFrequency)
	}
	commasPerOctave := p.SemitonesPerOctave * p.CommasPerSemitone
	if commasPerOctave <= 0 {
		return nil, fmt.Errorf("wavetable: semitones_per_octave * commas_per_semitone must be positive")
	}
	if p.NoteCount <= 0 {
		return nil, fmt.Errorf("wavetable: note count must be positive, got %d", p.NoteCount)
	}

	type commaPeriod struct {
		freq     float64
		areaSize int
		offset   int
	}

	periods := make([]commaPeriod, commasPerOctave)
	total := 0
	for c := 0; c < commasPerOctave; c++ {
		freq := p.StartFrequency * math.Pow(2, float64(c)/float64(commasPerOctave))
		areaSize := int(math.Round(float64(p.SampleRate) / freq))
		if areaSize < 2 {
			areaSize = 2
		}
		periods[c] = commaPeriod{freq: freq, areaSize: areaSize, offset: total}
		total += areaSize
		if total > MaxTableSamples {
			return nil, fmt.Errorf("wavetable: ram overflow building reference table (exceeded %d samples)", MaxTableSamples)
		}
	}

	samples := make([]float32, total)
	for _, cp := range periods {
		for x := 0; x < cp.areaSize; x++ {
			samples[cp.offset+x] = float32(math.Sin(2*math.Pi*float64(x)/float64(cp.areaSize)) * 0.5)
		}
	}

	numOctaves := int(math.Ceil(float64(p.NoteCount) / float64(commasPerOctave)))
	oscillators := make([]Oscillator, p.NoteCount)
	for o := 0; o < numOctaves; o++ {
		octaveCoeff := 1 << uint(o)
		for c := 0; c < commasPerOctave; c++ {
			n := c + o*commasPerOctave
			if n >= p.NoteCount {
				break
			}
			cp := periods[c]
			oscillators[n] = Oscillator{
				Frequency:   cp.freq * math.Pow(2, float64(o)),
				AreaSize:    cp.areaSize,
				OctaveCoeff: octaveCoeff,
				StartPtr:    cp.offset,
				CurrentIdx:  0,
			}
		}
	}

	return &Table{Samples: samples, Oscillators: oscillators, SampleRate: p.SampleRate}, nil
}

// Sample reads the stored waveform sample for oscillator n at phase idx,
// normalized to a [-1, +1] float.
func (t *Table) Sample(n int, idx int) float32 {
	osc := &t.Oscillators[n]
	return t.Samples[osc.StartPtr+idx] / WaveAmpResolution
}
