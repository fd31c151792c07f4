// affinity_linux.go - Worker CPU pinning via sched_setaffinity(2)

//go:build linux

package coroutine

import "golang.org/x/sys/unix"

// setAffinity pins the calling thread to the given CPU core. Failures are
// ignored: pinning is a locality optimization, never a correctness
// requirement, and restricted environments (containers, cpusets) routinely
// reject it.
func setAffinity(cpu int) {
	if cpu < 0 {
		return
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	_ = unix.SchedSetaffinity(0, &set)
}
