package workerpool

import (
	"runtime"
	"sync"

	"github.com/ondulab/sp3ctra-go/internal/dsp"
	"github.com/ondulab/sp3ctra-go/internal/envelope"
	"github.com/ondulab/sp3ctra-go/internal/preprocess"
	"github.com/ondulab/sp3ctra-go/internal/wavetable"
)

// worker owns a half-open note range, its preallocated scratch, and its
// own output accumulators. It runs as a persistent goroutine for the
// lifetime of the pool; each line's work arrives on workReady and its
// completion is signaled through the WaitGroup passed in dispatch.
type worker struct {
	id         int
	start, end int
	bufferSize int

	indexPaths    [][]int // per note in range, bufferSize precomputed phase indices
	waveScratch   []float32
	volumeScratch []float32 // holds the per-note target_volume for this worker's range
	envScratch    []float32 // reused per-note envelope output of length bufferSize
	lRampScratch  []float32
	rRampScratch  []float32

	buffers Buffers

	job     LineJob
	table   *wavetable.Table
	notes   []NoteState
	wg      *sync.WaitGroup
	workReady chan struct{}
}

func newWorker(id, start, end, bufferSize int) *worker {
	count := end - start
	w := &worker{
		id:            id,
		start:         start,
		end:           end,
		bufferSize:    bufferSize,
		indexPaths:    make([][]int, count),
		waveScratch:   make([]float32, bufferSize),
		volumeScratch: make([]float32, count),
		envScratch:    make([]float32, bufferSize),
		lRampScratch:  make([]float32, bufferSize),
		rRampScratch:  make([]float32, bufferSize),
		buffers:       NewBuffers(bufferSize),
		workReady:     make(chan struct{}),
	}
	for i := range w.indexPaths {
		w.indexPaths[i] = make([]int, bufferSize)
	}
	return w
}

// precompute runs the serial phase-path precompute for this worker's note
// range; caller holds the bank mutex.
func (w *worker) precompute(table *wavetable.Table) {
	for i := 0; i < w.end-w.start; i++ {
		table.PrecomputeIndexPath(w.start+i, w.indexPaths[i])
	}
}

// commit persists the last precomputed index of each note as its new
// phase; caller holds the bank mutex.
func (w *worker) commit(table *wavetable.Table) {
	for i := 0; i < w.end-w.start; i++ {
		table.CommitIndexPath(w.start+i, w.indexPaths[i])
	}
}

// dispatch hands one line's job to the worker goroutine and arranges for
// wg to be signaled when the worker body completes.
func (w *worker) dispatch(job LineJob, table *wavetable.Table, notes []NoteState, wg *sync.WaitGroup) {
	w.job = job
	w.table = table
	w.notes = notes
	w.wg = wg
	w.workReady <- struct{}{}
}

// run is the worker goroutine's body: it blocks on workReady, processes
// one line, then falls back to waiting. Closing workReady stops the loop.
// It pins itself to CPU core id+1 on Linux; elsewhere it runs unpinned.
func (w *worker) run() {
	runtime.LockOSThread()
	_ = pinToCPU(w.id + 1)

	for range w.workReady {
		w.processLine()
		w.wg.Done()
	}
}

// processLine runs preprocessing, gamma, waveform generation, envelope
// smoothing and stereo pan ramp for every note in this worker's range, in
// strictly ascending note order, accumulating into w.buffers.
func (w *worker) processLine() {
	w.buffers.reset()

	count := w.end - w.start
	preprocess.TargetVolumes(w.job.Gray, w.start, w.end, w.job.PreprocessOpts, w.volumeScratch[:count])

	for i := 0; i < count; i++ {
		n := w.start + i
		target := w.volumeScratch[i]
		state := &w.notes[n]

		vol := w.envScratch
		state.CurrentVolume = envelope.Smooth(vol, state.CurrentVolume, target, state.Coefficients, w.job.EnvelopeParams)

		for s, idx := range w.indexPaths[i] {
			w.waveScratch[s] = w.table.Sample(n, idx)
		}

		dsp.Mul(w.waveScratch, vol, w.waveScratch)
		dsp.Add(w.buffers.Additive, w.waveScratch, w.buffers.Additive)
		dsp.ApplyVolumeWeighting(w.buffers.SumVolume, vol, w.job.VolumeWeightExp, 1.0)

		for s, v := range vol {
			if v > w.buffers.MaxVolume[s] {
				w.buffers.MaxVolume[s] = v
			}
		}

		gains := w.job.PanGains[n]
		dsp.ApplyStereoPanRamp(w.waveScratch, w.lRampScratch, w.rRampScratch, state.LastLeft, state.LastRight, gains.Left, gains.Right)
		dsp.Add(w.buffers.L, w.lRampScratch, w.buffers.L)
		dsp.Add(w.buffers.R, w.rRampScratch, w.buffers.R)

		state.LastLeft = gains.Left
		state.LastRight = gains.Right
	}
}
