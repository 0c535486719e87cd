package audiobuf

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

// SDL2Output drives a Callback through SDL2's audio device. SDL2's queue
// API (QueueAudio) is push-model, so a feeder goroutine owned by this
// type pulls fixed-size chunks from the Callback on a timer and queues
// them, keeping the queued depth bounded; the Callback itself still never
// blocks or allocates on its own call path.
type SDL2Output struct {
	dev        sdl.AudioDeviceID
	cb         *Callback
	bufferSize int
	sampleRate int

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	wg      sync.WaitGroup

	scratchL, scratchR []float32
	interleaved        []float32

	maxQueuedBytes uint32
}

// NewSDL2Output opens a stereo float32 SDL2 audio device at sampleRate
// driving cb.
func NewSDL2Output(cb *Callback, sampleRate, bufferSize int) (*SDL2Output, error) {
	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl2 output: init: %w", err)
	}

	spec := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_F32,
		Channels: 2,
		Samples:  uint16(bufferSize),
	}
	dev, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl2 output: open device: %w", err)
	}

	return &SDL2Output{
		dev:            dev,
		cb:             cb,
		bufferSize:     bufferSize,
		sampleRate:     sampleRate,
		scratchL:       make([]float32, bufferSize),
		scratchR:       make([]float32, bufferSize),
		interleaved:    make([]float32, bufferSize*2),
		maxQueuedBytes: uint32(bufferSize * 2 * 4 * 4), // ~4 buffers of headroom
	}, nil
}

// Start unpauses the device and starts the feeder goroutine.
func (o *SDL2Output) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return nil
	}
	o.stop = make(chan struct{})
	o.started = true
	o.wg.Add(1)
	go o.feed()
	sdl.PauseAudioDevice(o.dev, false)
	return nil
}

// Stop pauses the device and stops the feeder goroutine.
func (o *SDL2Output) Stop() error {
	o.mu.Lock()
	if !o.started {
		o.mu.Unlock()
		return nil
	}
	o.started = false
	stop := o.stop
	o.mu.Unlock()

	close(stop)
	o.wg.Wait()
	sdl.PauseAudioDevice(o.dev, true)
	return nil
}

// Close stops feeding and releases the device.
func (o *SDL2Output) Close() error {
	_ = o.Stop()
	sdl.CloseAudioDevice(o.dev)
	return nil
}

func (o *SDL2Output) feed() {
	defer o.wg.Done()

	period := time.Duration(o.bufferSize) * time.Second / time.Duration(o.sampleRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-o.stop:
			return
		case <-ticker.C:
			if sdl.GetQueuedAudioSize(o.dev) > o.maxQueuedBytes {
				continue
			}
			o.cb.Render(o.scratchL, o.scratchR)
			for i := 0; i < o.bufferSize; i++ {
				o.interleaved[2*i] = o.scratchL[i]
				o.interleaved[2*i+1] = o.scratchR[i]
			}
			bytes := (*[1 << 30]byte)(unsafe.Pointer(&o.interleaved[0]))[: o.bufferSize*8 : o.bufferSize*8]
			sdl.QueueAudio(o.dev, bytes)
		}
	}
}
