//go:build !linux && !windows

package platform

import (
	"fmt"
	"runtime"
)

// Open reports that no native backend exists for this OS.
func Open(opts OpenOptions) (Backend, error) {
	return nil, fmt.Errorf("no native window backend for %s; use the simulated backend", runtime.GOOS)
}
