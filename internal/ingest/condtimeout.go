package ingest

import (
	"sync"
	"time"
)

// waitCondTimeout waits on cond for at most d, returning false if the
// timeout elapsed first. The caller must hold cond.L. sync.Cond has no
// native timed wait, so this arranges a timer that wakes the same cond via
// Broadcast if nothing else does first.
func waitCondTimeout(cond *sync.Cond, d time.Duration) bool {
	timedOut := false
	timer := time.AfterFunc(d, func() {
		cond.L.Lock()
		timedOut = true
		cond.L.Unlock()
		cond.Broadcast()
	})
	cond.Wait()
	timer.Stop()
	return !timedOut
}
