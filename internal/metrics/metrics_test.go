package metrics

import (
	"testing"
	"time"
)

func TestObserveTracksPeak(t *testing.T) {
	c := NewCollector(time.Second)
	c.Observe([]float32{0.1, 0.5, -0.3}, []float32{0.2, -0.9, 0.1})

	snap := c.Snapshot()
	if snap.PeakL != 0.5 {
		t.Fatalf("expected peak L 0.5, got %v", snap.PeakL)
	}
	if snap.PeakR != 0.9 {
		t.Fatalf("expected peak R 0.9, got %v", snap.PeakR)
	}
}

func TestObserveCountsClips(t *testing.T) {
	c := NewCollector(time.Second)
	c.Observe([]float32{1.5, 0.2}, []float32{0.1, -1.2})

	snap := c.Snapshot()
	if snap.ClipCountL != 1 {
		t.Fatalf("expected 1 clip on L, got %d", snap.ClipCountL)
	}
	if snap.ClipCountR != 1 {
		t.Fatalf("expected 1 clip on R, got %d", snap.ClipCountR)
	}
}

func TestSnapshotResetsWindow(t *testing.T) {
	c := NewCollector(time.Second)
	c.Observe([]float32{0.9}, []float32{0.9})
	c.Snapshot()

	c.Observe([]float32{0.1}, []float32{0.1})
	snap := c.Snapshot()

	if snap.PeakL != 0.1 {
		t.Fatalf("expected peak reset between windows, got %v", snap.PeakL)
	}
}

func TestShouldReportGatesByInterval(t *testing.T) {
	c := NewCollector(time.Hour)
	now := time.Unix(1000, 0)

	if !c.ShouldReport(now) {
		t.Fatal("expected first call to report")
	}
	if c.ShouldReport(now.Add(time.Millisecond)) {
		t.Fatal("expected second call within interval to not report")
	}
	if !c.ShouldReport(now.Add(2 * time.Hour)) {
		t.Fatal("expected call after interval elapsed to report")
	}
}
