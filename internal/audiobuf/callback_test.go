package audiobuf

import "testing"

func TestCallbackRenderSilentWithNoProducer(t *testing.T) {
	db := NewDoubleBuffer(8)
	mix := NewMixState()
	cb := NewCallback(db, mix, nil)

	l := make([]float32, 8)
	r := make([]float32, 8)
	cb.Render(l, r)

	for i := range l {
		if l[i] != 0 || r[i] != 0 {
			t.Fatalf("expected silence, got (%v,%v) at %d", l[i], r[i], i)
		}
	}
}

func TestCallbackAppliesMasterVolume(t *testing.T) {
	db := NewDoubleBuffer(4)
	db.Write([]float32{1, 1, 1, 1}, []float32{1, 1, 1, 1})

	mix := NewMixState()
	mix.SetMasterVolume(0.5)
	cb := NewCallback(db, mix, nil)

	l := make([]float32, 4)
	r := make([]float32, 4)
	cb.Render(l, r)

	for i := range l {
		if l[i] != 0.5 || r[i] != 0.5 {
			t.Fatalf("expected 0.5 after half master volume, got (%v,%v)", l[i], r[i])
		}
	}
}

func TestCallbackHardLimitsOverrange(t *testing.T) {
	db := NewDoubleBuffer(2)
	db.Write([]float32{5, -5}, []float32{5, -5})

	mix := NewMixState()
	cb := NewCallback(db, mix, nil)

	l := make([]float32, 2)
	r := make([]float32, 2)
	cb.Render(l, r)

	if l[0] != 1 || l[1] != -1 {
		t.Fatalf("expected hard limit to [-1,1], got %v", l)
	}
	if r[0] != 1 || r[1] != -1 {
		t.Fatalf("expected hard limit to [-1,1], got %v", r)
	}
}

type constReverb struct{ l, r float32 }

func (c constReverb) Read(l, r []float32) {
	for i := range l {
		l[i] = c.l
		r[i] = c.r
	}
}

func TestCallbackMixesReverbReturn(t *testing.T) {
	db := NewDoubleBuffer(2)
	db.Write([]float32{0, 0}, []float32{0, 0})

	mix := NewMixState()
	cb := NewCallback(db, mix, constReverb{l: 0.25, r: 0.25})

	l := make([]float32, 2)
	r := make([]float32, 2)
	cb.Render(l, r)

	if l[0] != 0.25 || r[0] != 0.25 {
		t.Fatalf("expected reverb-only signal to pass through, got (%v,%v)", l[0], r[0])
	}
}

type countTicker struct{ n int }

func (c *countTicker) Tick() { c.n++ }

func TestCallbackTicksSetTickerOncePerRender(t *testing.T) {
	db := NewDoubleBuffer(2)
	mix := NewMixState()
	cb := NewCallback(db, mix, nil)

	ticker := &countTicker{}
	cb.SetTicker(ticker)

	l := make([]float32, 2)
	r := make([]float32, 2)
	for i := 0; i < 3; i++ {
		cb.Render(l, r)
	}

	if ticker.n != 3 {
		t.Fatalf("expected 3 ticks after 3 Render calls, got %d", ticker.n)
	}
}

func TestCallbackNilTickerIsANoop(t *testing.T) {
	db := NewDoubleBuffer(2)
	mix := NewMixState()
	cb := NewCallback(db, mix, nil)

	l := make([]float32, 2)
	r := make([]float32, 2)
	cb.Render(l, r) // must not panic with no ticker wired
}
