// Package synth implements the per-line synthesis driver: the
// orchestration that turns one RGB line into a pair of mixed, hard-limited
// L/R buffers, plus the freeze/fade state machine (freeze.go) it samples
// on the way in.
package synth

import (
	"math"
	"sync"
	"time"

	"github.com/ondulab/sp3ctra-go/internal/audiobuf"
	"github.com/ondulab/sp3ctra-go/internal/config"
	"github.com/ondulab/sp3ctra-go/internal/envelope"
	"github.com/ondulab/sp3ctra-go/internal/logging"
	"github.com/ondulab/sp3ctra-go/internal/metrics"
	"github.com/ondulab/sp3ctra-go/internal/preprocess"
	"github.com/ondulab/sp3ctra-go/internal/reverb"
	"github.com/ondulab/sp3ctra-go/internal/stereo"
	"github.com/ondulab/sp3ctra-go/internal/workerpool"
)

// sumVolumeEpsilon guards the mono/stereo normalization denominator: a
// line below this much total volume produces silence instead of noise.
const sumVolumeEpsilon = 1e-6

// Line is one RGB scan line ready for synthesis, P pixels wide.
type Line struct {
	R, G, B []byte
}

// Driver runs one line's worth of synthesis end to end: grayscale
// conversion, freeze/fade, per-note pan, worker dispatch, normalization,
// hard-limiting, and the write into the audio double-buffer.
type Driver struct {
	cfg   config.Config
	pool  *workerpool.Pool
	dbuf  *audiobuf.DoubleBuffer
	log   *logging.Logger
	coll  *metrics.Collector
	send  *reverb.Send

	mu     sync.Mutex
	frozen *FreezeState
	disp   *Displayable

	gray       []float32
	processed  []float32
	buffers    workerpool.Buffers
	panGains   []stereo.Gains
	meanR      []float64
	meanG      []float64
	meanB      []float64
	panSnap    *stereo.Snapshot

	monoOut []float32
	lOut    []float32
	rOut    []float32
	rgb     []preprocess.RGB
}

// New builds a driver for cfg, wired to pool for synthesis and dbuf for
// audio output. coll and send may be nil to disable telemetry and reverb
// send respectively.
func New(cfg config.Config, pool *workerpool.Pool, dbuf *audiobuf.DoubleBuffer, log *logging.Logger, coll *metrics.Collector, send *reverb.Send) *Driver {
	noteCount := pool.NumNotes()
	d := &Driver{
		cfg:       cfg,
		pool:      pool,
		dbuf:      dbuf,
		log:       log,
		coll:      coll,
		send:      send,
		frozen:    NewFreezeState(cfg.PixelsPerImage),
		disp:      NewDisplayable(cfg.PixelsPerImage),
		gray:      make([]float32, cfg.PixelsPerImage),
		processed: make([]float32, cfg.PixelsPerImage),
		buffers:   workerpool.NewBuffers(cfg.AudioBufferSize),
		panGains:  make([]stereo.Gains, noteCount),
		meanR:     make([]float64, noteCount),
		meanG:     make([]float64, noteCount),
		meanB:     make([]float64, noteCount),
		panSnap:   stereo.NewSnapshot(noteCount),
		monoOut:   make([]float32, cfg.AudioBufferSize),
		lOut:      make([]float32, cfg.AudioBufferSize),
		rOut:      make([]float32, cfg.AudioBufferSize),
		rgb:       make([]preprocess.RGB, cfg.PixelsPerImage),
	}
	pool.SetEnvelopeParams(envelopeParams(cfg))
	return d
}

// SetFrozen toggles the freeze/fade state machine. Safe to call from any
// goroutine; the transition is applied the next time ProcessLine samples
// it under the driver's mutex.
func (d *Driver) SetFrozen(frozen bool, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if frozen {
		d.frozen.Freeze(d.gray)
	} else {
		d.frozen.Thaw(now)
	}
}

// PanSnapshot exposes the published per-note pan gains for display/UI
// collaborators; it is never read on the synthesis hot path itself (the
// worker pool reads job.PanGains, latched per-line, instead).
func (d *Driver) PanSnapshot() *stereo.Snapshot {
	return d.panSnap
}

// Displayable exposes the RGB line driving this line's synthesis for
// display/DMX collaborators.
func (d *Driver) Displayable() *Displayable {
	return d.disp
}

// ProcessLine runs the full a)-j) synthesis sequence for one line and
// writes the resulting L/R buffers into the audio double-buffer. It is
// always called once per synthesis tick, even on ingest timeout/silence,
// so that audio output never stalls.
func (d *Driver) ProcessLine(line Line, now time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// a) RGB -> grayscale.
	for i := range d.rgb {
		d.rgb[i] = preprocess.RGB{R: line.R[i], G: line.G[i], B: line.B[i]}
	}
	preprocess.Grayscale(d.rgb, d.gray)
	d.disp.Update(line.R, line.G, line.B)

	// b) freeze/fade.
	d.frozen.Process(d.gray, d.processed, now)

	// c) per-note pan from mean RGB, published through the lock-free
	// snapshot for UI/display collaborators.
	d.computeMeans(line)
	weights := stereoWeights(d.cfg)
	for n := range d.panGains {
		t := stereo.Temperature(d.meanR[n], d.meanG[n], d.meanB[n], weights)
		d.panGains[n] = stereo.GainsFromTemperature(t, weights)
	}
	d.panSnap.Publish(d.panGains)

	// d) contrast factor over the processed grayscale.
	gammaC := preprocess.ContrastFactor(d.processed, d.cfg.AdditiveContrastStride, d.cfg.AdditiveContrastMin, d.cfg.AdditiveContrastAdjustmentPower)
	if math.IsNaN(gammaC) || math.IsInf(gammaC, 0) {
		gammaC = 1.0
	}

	// e) drive workers, merging additive/sum_volume/L/R by summation and
	// max_volume by pointwise maximum.
	job := workerpool.LineJob{
		Gray:            d.processed,
		PreprocessOpts:  preprocessOptions(d.cfg),
		EnvelopeParams:  envelopeParams(d.cfg),
		PanGains:        d.panGains,
		VolumeWeightExp: d.cfg.VolumeWeightingExponent,
	}
	d.pool.DispatchInto(job, d.buffers)

	// f) platform-specific normalization: divide by platform_amplification_divisor
	// (default 3 on Linux-style backends) before the mono/stereo denominator
	// stage, folded directly into denom below. g) mono pre-output, h) stereo,
	// with the shared epsilon-guarded denominator and gamma_c contrast
	// shaping, i) hard-limit (L/R are limited after telemetry has seen the
	// pre-limit values).
	b := d.cfg.AudioBufferSize
	monoOut, lOut, rOut := d.monoOut, d.lOut, d.rOut

	u := float32(preprocess.VolumeResolution)
	platformDiv := float32(d.cfg.PlatformAmplificationDiv)
	for i := 0; i < b; i++ {
		sv := d.buffers.SumVolume[i]
		if sv < sumVolumeEpsilon {
			monoOut[i] = 0
			lOut[i] = 0
			rOut[i] = 0
			continue
		}
		denom := sv * (u / 2) * platformDiv
		mv := d.buffers.MaxVolume[i]

		m := d.buffers.Additive[i] * mv / denom
		l := d.buffers.L[i] * mv / denom * float32(gammaC)
		r := d.buffers.R[i] * mv / denom * float32(gammaC)

		monoOut[i] = hardLimit(m)
		lOut[i] = l
		rOut[i] = r
	}

	if d.send != nil {
		d.send.Write(monoOut)
	}
	if d.coll != nil {
		d.coll.Observe(lOut, rOut)
		if d.coll.ShouldReport(now) && d.log != nil {
			snap := d.coll.Snapshot()
			d.log.Logf(logging.ComponentSynth, logging.LevelDebug, "peakL=%.3f peakR=%.3f clipsL=%d clipsR=%d", snap.PeakL, snap.PeakR, snap.ClipCountL, snap.ClipCountR)
		}
	}
	for i := 0; i < b; i++ {
		lOut[i] = hardLimit(lOut[i])
		rOut[i] = hardLimit(rOut[i])
	}

	// j) hand off to the audio double-buffer; Write may block until a
	// slot is free, which is the producer-side backpressure the design
	// accepts per the audio-continuity contract living on the consumer
	// side.
	d.dbuf.Write(lOut, rOut)
	return nil
}

func (d *Driver) computeMeans(line Line) {
	ppn := d.cfg.PixelsPerNote
	for n := range d.panGains {
		var sr, sg, sb float64
		base := n * ppn
		for k := 0; k < ppn; k++ {
			sr += float64(line.R[base+k])
			sg += float64(line.G[base+k])
			sb += float64(line.B[base+k])
		}
		d.meanR[n] = sr / float64(ppn) / 255
		d.meanG[n] = sg / float64(ppn) / 255
		d.meanB[n] = sb / float64(ppn) / 255
	}
}

func hardLimit(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func preprocessOptions(cfg config.Config) preprocess.Options {
	return preprocess.Options{
		PixelsPerNote:   cfg.PixelsPerNote,
		InvertIntensity: cfg.InvertIntensity,
		RelativeMode:    cfg.RelativeMode,
		GammaValue:      cfg.GammaValue,
	}
}

func envelopeParams(cfg config.Config) envelope.Params {
	return envelope.Params{
		TauUpMs:         cfg.TauUpBaseMs,
		TauDownBaseMs:   cfg.TauDownBaseMs,
		DecayFreqRefHz:  cfg.DecayFreqRefHz,
		DecayFreqBeta:   cfg.DecayFreqBeta,
		DecayFreqMin:    cfg.DecayFreqMin,
		DecayFreqMax:    cfg.DecayFreqMax,
		AlphaMin:        cfg.AlphaMin,
		InstantAttack:   cfg.InstantAttack,
		Enabled:         cfg.GapLimiterEnabled,
	}
}

func stereoWeights(cfg config.Config) stereo.Weights {
	return stereo.Weights{
		BlueRedWeight:     cfg.StereoBlueRedWeight,
		CyanYellowWeight:  cfg.StereoCyanYellowWeight,
		Amplification:     cfg.StereoTemperatureAmplification,
		CurveExponent:     cfg.StereoTemperatureCurveExponent,
		ConstantPower:     cfg.StereoPanLawConstantPower,
		CenterThreshold:   cfg.StereoCenterCompensationThresh,
		CenterBoostFactor: cfg.StereoCenterBoostFactor,
	}
}
