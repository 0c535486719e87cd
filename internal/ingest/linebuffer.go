package ingest

import (
	"sync"
	"time"
)

// LineBuffer is the shared active/processing RGB line handoff between the
// ingest goroutine and the synthesis driver: a producer swaps a freshly
// completed line in, and a consumer waits (with a timeout) for the next
// one, falling back to the last valid line or silence.
type LineBuffer struct {
	mu   sync.Mutex
	cond *sync.Cond

	ready bool
	r, g, b []byte

	lastValidR, lastValidG, lastValidB []byte
	haveLastValid                     bool

	pixelsPerLine int
}

// NewLineBuffer allocates a line buffer for lines of pixelsPerLine pixels.
func NewLineBuffer(pixelsPerLine int) *LineBuffer {
	lb := &LineBuffer{
		r:             make([]byte, pixelsPerLine),
		g:             make([]byte, pixelsPerLine),
		b:             make([]byte, pixelsPerLine),
		lastValidR:    make([]byte, pixelsPerLine),
		lastValidG:    make([]byte, pixelsPerLine),
		lastValidB:    make([]byte, pixelsPerLine),
		pixelsPerLine: pixelsPerLine,
	}
	lb.cond = sync.NewCond(&lb.mu)
	return lb
}

// Swap is called by the ingest producer after a full line is assembled:
// it copies r/g/b in, marks ready, and signals the waiting consumer.
func (lb *LineBuffer) Swap(r, g, b []byte) {
	lb.mu.Lock()
	copy(lb.r, r)
	copy(lb.g, g)
	copy(lb.b, b)
	lb.ready = true
	lb.mu.Unlock()
	lb.cond.Signal()
}

// UpdateLastValid is called by the producer after Swap to refresh the
// fallback line the consumer reuses on ingest stalls.
func (lb *LineBuffer) UpdateLastValid() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	copy(lb.lastValidR, lb.r)
	copy(lb.lastValidG, lb.g)
	copy(lb.lastValidB, lb.b)
	lb.haveLastValid = true
}

// WaitResult describes what the consumer obtained from a WaitNext call.
type WaitResult int

const (
	// ResultNewLine: a fresh line arrived within the timeout.
	ResultNewLine WaitResult = iota
	// ResultLastValid: the timeout elapsed; the last valid line is reused.
	ResultLastValid
	// ResultSilence: the timeout elapsed and no line has ever arrived.
	ResultSilence
)

func (r WaitResult) String() string {
	switch r {
	case ResultNewLine:
		return "new_line"
	case ResultLastValid:
		return "last_valid"
	case ResultSilence:
		return "silence"
	default:
		return "unknown"
	}
}

// WaitNext blocks up to timeout for a new line. On arrival it copies the
// processing line into dst{R,G,B} and clears ready. On timeout it falls
// back to the last valid line (or reports ResultSilence if none has ever
// been received) so the synthesis driver always has something to drive
// audio from.
func (lb *LineBuffer) WaitNext(timeout time.Duration, dstR, dstG, dstB []byte) WaitResult {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	deadline := time.Now().Add(timeout)
	for !lb.ready {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		waited := waitCondTimeout(lb.cond, remaining)
		if !waited {
			break
		}
	}

	if lb.ready {
		copy(dstR, lb.r)
		copy(dstG, lb.g)
		copy(dstB, lb.b)
		lb.ready = false
		return ResultNewLine
	}

	if lb.haveLastValid {
		copy(dstR, lb.lastValidR)
		copy(dstG, lb.lastValidG)
		copy(dstB, lb.lastValidB)
		return ResultLastValid
	}
	return ResultSilence
}
