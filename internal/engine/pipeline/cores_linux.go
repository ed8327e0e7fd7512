//go:build linux

package pipeline

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// availableCores counts the CPUs this process may run on, which can be
// fewer than the machine has inside containers or under taskset.
func availableCores() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err == nil {
		if n := set.Count(); n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}
