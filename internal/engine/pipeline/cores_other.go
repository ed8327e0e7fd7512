//go:build !linux

package pipeline

import "runtime"

func availableCores() int {
	return runtime.NumCPU()
}
