package synth

import (
	"testing"
	"time"

	"github.com/ondulab/sp3ctra-go/internal/audiobuf"
	"github.com/ondulab/sp3ctra-go/internal/config"
	"github.com/ondulab/sp3ctra-go/internal/wavetable"
	"github.com/ondulab/sp3ctra-go/internal/workerpool"
)

func buildTestDriver(t *testing.T) (*Driver, *audiobuf.DoubleBuffer, config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.PixelsPerImage = 64
	cfg.PixelsPerNote = 4
	cfg.AudioBufferSize = 32

	tbl, err := wavetable.Build(wavetable.Params{
		SampleRate:         cfg.SamplingFrequency,
		StartFrequency:     cfg.StartFrequency,
		SemitonesPerOctave: cfg.SemitonesPerOctave,
		CommasPerSemitone:  cfg.CommasPerSemitone,
		NoteCount:          cfg.NoteCount(),
	})
	if err != nil {
		t.Fatal(err)
	}
	pool := workerpool.New(tbl, 3, cfg.AudioBufferSize)
	t.Cleanup(pool.Close)

	dbuf := audiobuf.NewDoubleBuffer(cfg.AudioBufferSize)
	driver := New(cfg, pool, dbuf, nil, nil, nil)
	return driver, dbuf, cfg
}

func solidLine(pixelsPerImage int, r, g, b byte) Line {
	line := Line{R: make([]byte, pixelsPerImage), G: make([]byte, pixelsPerImage), B: make([]byte, pixelsPerImage)}
	for i := 0; i < pixelsPerImage; i++ {
		line.R[i] = r
		line.G[i] = g
		line.B[i] = b
	}
	return line
}

func TestProcessLineBlackLineProducesNoDoubleBufferBlock(t *testing.T) {
	driver, dbuf, cfg := buildTestDriver(t)
	line := solidLine(cfg.PixelsPerImage, 0, 0, 0)

	done := make(chan error, 1)
	go func() { done <- driver.ProcessLine(line, time.Now()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ProcessLine returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("ProcessLine blocked unexpectedly on an empty double buffer")
	}
	_ = dbuf
}

func TestProcessLineOutputStaysWithinUnitRange(t *testing.T) {
	driver, dbuf, cfg := buildTestDriver(t)
	line := solidLine(cfg.PixelsPerImage, 255, 255, 255)
	cb := audiobuf.NewCallback(dbuf, audiobuf.NewMixState(), nil)

	for i := 0; i < 20; i++ {
		if err := driver.ProcessLine(line, time.Now()); err != nil {
			t.Fatal(err)
		}
		l := make([]float32, cfg.AudioBufferSize)
		r := make([]float32, cfg.AudioBufferSize)
		cb.Render(l, r)
		for _, v := range l {
			if v < -1 || v > 1 {
				t.Fatalf("L sample %v escaped [-1,1]", v)
			}
		}
		for _, v := range r {
			if v < -1 || v > 1 {
				t.Fatalf("R sample %v escaped [-1,1]", v)
			}
		}
	}
}

func TestProcessLineBluePushesPanRight(t *testing.T) {
	driver, _, cfg := buildTestDriver(t)
	line := solidLine(cfg.PixelsPerImage, 0, 0, 255)

	if err := driver.ProcessLine(line, time.Now()); err != nil {
		t.Fatal(err)
	}

	snap := driver.PanSnapshot().Read()
	for n := 1; n < len(snap); n++ {
		if snap[n].Right <= snap[n].Left {
			t.Fatalf("note %d: expected a blue line to pan right, got L=%v R=%v", n, snap[n].Left, snap[n].Right)
		}
	}
}

func TestSetFrozenHoldsGrayscaleConstant(t *testing.T) {
	driver, dbuf, cfg := buildTestDriver(t)

	bright := solidLine(cfg.PixelsPerImage, 200, 200, 200)
	if err := driver.ProcessLine(bright, time.Now()); err != nil {
		t.Fatal(err)
	}
	drainOne(t, dbuf, cfg.AudioBufferSize)
	want := append([]float32(nil), driver.gray...)

	driver.SetFrozen(true, time.Now())

	dark := solidLine(cfg.PixelsPerImage, 0, 0, 0)
	if err := driver.ProcessLine(dark, time.Now()); err != nil {
		t.Fatal(err)
	}
	if !driver.frozen.Frozen() {
		t.Fatal("expected driver to remain in the frozen state")
	}
	for i, v := range driver.processed {
		if v != want[i] {
			t.Fatalf("processed gray[%d] = %v while frozen, want pre-freeze %v", i, v, want[i])
		}
	}
}

func readDrainOne(t *testing.T, dbuf *audiobuf.DoubleBuffer, l, r []float32) {
	t.Helper()
	cb := audiobuf.NewCallback(dbuf, audiobuf.NewMixState(), nil)
	cb.Render(l, r)
}

func drainOne(t *testing.T, dbuf *audiobuf.DoubleBuffer, bufferSize int) {
	t.Helper()
	l := make([]float32, bufferSize)
	r := make([]float32, bufferSize)
	readDrainOne(t, dbuf, l, r)
}
