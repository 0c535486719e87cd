package audiobuf

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoOutput drives a Callback through oto/v3's pull-model player: oto
// calls Read whenever it needs more interleaved stereo float32 samples,
// which this type never blocks inside beyond the Callback's own bounded
// work.
type OtoOutput struct {
	ctx    *oto.Context
	player *oto.Player
	cb     *Callback

	mu      sync.Mutex
	started bool

	scratchL, scratchR []float32
	interleaved        []float32
}

// NewOtoOutput creates an oto/v3-backed output for cb at sampleRate.
func NewOtoOutput(cb *Callback, sampleRate, bufferSize int) (*OtoOutput, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	o := &OtoOutput{
		ctx:         ctx,
		cb:          cb,
		scratchL:    make([]float32, bufferSize),
		scratchR:    make([]float32, bufferSize),
		interleaved: make([]float32, bufferSize*2),
	}
	o.player = ctx.NewPlayer(o)
	return o, nil
}

// Read satisfies io.Reader for oto.Player: it renders one chunk through
// the Callback and interleaves L/R into p as float32LE bytes.
func (o *OtoOutput) Read(p []byte) (int, error) {
	frames := len(p) / 8 // 2 channels * 4 bytes
	if frames == 0 {
		return 0, nil
	}
	if frames > len(o.scratchL) {
		frames = len(o.scratchL)
	}

	l := o.scratchL[:frames]
	r := o.scratchR[:frames]
	o.cb.Render(l, r)

	inter := o.interleaved[:frames*2]
	for i := 0; i < frames; i++ {
		inter[2*i] = l[i]
		inter[2*i+1] = r[i]
	}

	n := frames * 8
	copy(p[:n], (*[1 << 30]byte)(unsafe.Pointer(&inter[0]))[:n])
	return n, nil
}

// Start begins playback.
func (o *OtoOutput) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.started {
		o.player.Play()
		o.started = true
	}
	return nil
}

// Stop pauses playback; the player can be restarted with Start.
func (o *OtoOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		if err := o.player.Pause(); err != nil {
			return err
		}
		o.started = false
	}
	return nil
}

// Close releases the underlying player.
func (o *OtoOutput) Close() error {
	_ = o.Stop()
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.player.Close()
}
