// Package metrics collects low-rate diagnostic counters from the
// synthesis driver: pre-limit peak levels and clip counts, sampled at a
// fixed rate rather than per buffer so diagnostics never compete with the
// audio path for CPU.
package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot is one observation window's worth of telemetry.
type Snapshot struct {
	PeakL      float32
	PeakR      float32
	ClipCountL uint64
	ClipCountR uint64
}

// Collector accumulates per-buffer observations and reports them at a
// bounded rate (~1Hz by default) rather than once per buffer.
type Collector struct {
	interval time.Duration
	lastLog  atomic.Int64 // unix nanos

	peakL, peakR           atomic.Uint32 // float32 bits
	clipCountL, clipCountR atomic.Uint64
}

// NewCollector builds a collector logging at most once per interval.
func NewCollector(interval time.Duration) *Collector {
	if interval <= 0 {
		interval = time.Second
	}
	return &Collector{interval: interval}
}

// Observe records one buffer's peak levels and clip counts. A sample
// counts as a clip when its magnitude exceeds 1, i.e. when the hard
// limiter would change it, so l and r must be the pre-limit samples.
func (c *Collector) Observe(l, r []float32) {
	var peakL, peakR float32
	var clipsL, clipsR uint64

	for _, v := range l {
		a := abs32(v)
		if a > peakL {
			peakL = a
		}
		if a > 1 {
			clipsL++
		}
	}
	for _, v := range r {
		a := abs32(v)
		if a > peakR {
			peakR = a
		}
		if a > 1 {
			clipsR++
		}
	}

	storeMaxFloat32(&c.peakL, peakL)
	storeMaxFloat32(&c.peakR, peakR)
	c.clipCountL.Add(clipsL)
	c.clipCountR.Add(clipsR)
}

// ShouldReport reports whether at least one interval has elapsed since
// the last report, and if so resets the window. The first call always
// reports.
func (c *Collector) ShouldReport(now time.Time) bool {
	last := c.lastLog.Load()
	if last != 0 && now.UnixNano()-last < int64(c.interval) {
		return false
	}
	return c.lastLog.CompareAndSwap(last, now.UnixNano())
}

// Snapshot returns and clears the accumulated counters, so each report
// reflects only the window since the previous one.
func (c *Collector) Snapshot() Snapshot {
	s := Snapshot{
		PeakL:      loadFloat32(&c.peakL),
		PeakR:      loadFloat32(&c.peakR),
		ClipCountL: c.clipCountL.Swap(0),
		ClipCountR: c.clipCountR.Swap(0),
	}
	c.peakL.Store(0)
	c.peakR.Store(0)
	return s
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
