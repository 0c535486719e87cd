//go:build linux

package workerpool

import "golang.org/x/sys/unix"

// pinToCPU binds the calling OS thread to a single CPU core. The caller
// must have already called runtime.LockOSThread so the binding sticks to
// this goroutine rather than whichever thread the scheduler hands it next.
func pinToCPU(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
