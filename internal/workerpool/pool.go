// Package workerpool implements the fixed three-worker pool that splits
// the oscillator range and produces one line's worth of audio
// accumulators in parallel. Workers are goroutines synchronized with
// channels rather than raw OS threads and condition variables; the
// underlying algorithm (precompute under a shared lock, dispatch, wait for
// all workers, merge by summation/pointwise-max) is unchanged either way.
package workerpool

import (
	"sync"

	"github.com/ondulab/sp3ctra-go/internal/dsp"
	"github.com/ondulab/sp3ctra-go/internal/envelope"
	"github.com/ondulab/sp3ctra-go/internal/preprocess"
	"github.com/ondulab/sp3ctra-go/internal/stereo"
	"github.com/ondulab/sp3ctra-go/internal/wavetable"
)

// NoteState is the persistent per-oscillator state carried across buffers:
// smoothed amplitude, envelope coefficients, and the last published pan
// gains used as the ramp's starting point.
type NoteState struct {
	CurrentVolume float32
	Coefficients  envelope.Coefficients
	LastLeft      float32
	LastRight     float32
}

// Buffers holds one worker's (or the merged) output accumulators, each of
// length B.
type Buffers struct {
	Additive  []float32
	SumVolume []float32
	MaxVolume []float32
	L         []float32
	R         []float32
}

// NewBuffers allocates a zeroed Buffers of length b.
func NewBuffers(b int) Buffers {
	return Buffers{
		Additive:  make([]float32, b),
		SumVolume: make([]float32, b),
		MaxVolume: make([]float32, b),
		L:         make([]float32, b),
		R:         make([]float32, b),
	}
}

func (b Buffers) reset() {
	dsp.Fill(b.Additive, 0)
	dsp.Fill(b.SumVolume, 0)
	dsp.Fill(b.MaxVolume, 0)
	dsp.Fill(b.L, 0)
	dsp.Fill(b.R, 0)
}

// LineJob is the per-line input driving one dispatch round.
type LineJob struct {
	Gray           []float32
	PreprocessOpts preprocess.Options
	EnvelopeParams envelope.Params
	PanGains       []stereo.Gains // current line's latched per-note gains, len == note count
	VolumeWeightExp float64
}

// Pool is a fixed set of persistent workers, each owning a half-open note
// range and preallocated scratch.
type Pool struct {
	table   *wavetable.Table
	bankMu  sync.Mutex
	notes   []NoteState
	workers []*worker

	bufferSize int
}

// New builds a pool of numWorkers workers splitting table's oscillator
// range as evenly as possible, with scratch sized for buffers of
// bufferSize samples.
func New(table *wavetable.Table, numWorkers, bufferSize int) *Pool {
	n := len(table.Oscillators)
	notes := make([]NoteState, n)

	p := &Pool{
		table:      table,
		notes:      notes,
		bufferSize: bufferSize,
	}

	base := n / numWorkers
	rem := n % numWorkers
	start := 0
	for i := 0; i < numWorkers; i++ {
		size := base
		if i < rem {
			size++
		}
		end := start + size
		w := newWorker(i, start, end, bufferSize)
		p.workers = append(p.workers, w)
		start = end
	}

	for _, w := range p.workers {
		go w.run()
	}

	return p
}

// SetEnvelopeParams derives and stores each note's envelope coefficients
// from its oscillator frequency. Call once at startup and again whenever
// the envelope option set changes; coefficients are otherwise held fixed
// across lines rather than recomputed per dispatch.
func (p *Pool) SetEnvelopeParams(params envelope.Params) {
	p.bankMu.Lock()
	defer p.bankMu.Unlock()
	for n := range p.notes {
		freq := p.table.Oscillators[n].Frequency
		p.notes[n].Coefficients = envelope.Derive(params, freq, p.table.SampleRate)
	}
}

// NumNotes returns the oscillator count the pool was built for.
func (p *Pool) NumNotes() int {
	return len(p.notes)
}

// Close stops all worker goroutines.
func (p *Pool) Close() {
	for _, w := range p.workers {
		close(w.workReady)
	}
}

// Dispatch runs one line's worth of synthesis: serial precompute under the
// bank lock, parallel worker dispatch, and a summation/pointwise-max
// merge into a freshly allocated Buffers of length bufferSize, which it
// returns.
func (p *Pool) Dispatch(job LineJob) Buffers {
	out := NewBuffers(p.bufferSize)
	p.DispatchInto(job, out)
	return out
}

// DispatchInto is Dispatch but writes into a caller-owned Buffers,
// avoiding an allocation per line on the hot path.
func (p *Pool) DispatchInto(job LineJob, out Buffers) {
	out.reset()

	p.bankMu.Lock()
	for _, w := range p.workers {
		w.precompute(p.table)
	}
	p.bankMu.Unlock()

	var wg sync.WaitGroup
	wg.Add(len(p.workers))
	for _, w := range p.workers {
		w.dispatch(job, p.table, p.notes, &wg)
	}
	wg.Wait()

	for _, w := range p.workers {
		dsp.Add(out.Additive, w.buffers.Additive, out.Additive)
		dsp.Add(out.SumVolume, w.buffers.SumVolume, out.SumVolume)
		dsp.Add(out.L, w.buffers.L, out.L)
		dsp.Add(out.R, w.buffers.R, out.R)
		for i, v := range w.buffers.MaxVolume {
			if v > out.MaxVolume[i] {
				out.MaxVolume[i] = v
			}
		}
	}

	p.bankMu.Lock()
	for _, w := range p.workers {
		w.commit(p.table)
	}
	p.bankMu.Unlock()
}
