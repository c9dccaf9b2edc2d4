//go:build profile

package prof

import (
	"errors"
	"os"
	"runtime/pprof"
	"sync"
)

// ErrCPUProfileActive indicates CPU profiling is already active.
var ErrCPUProfileActive = errors.New("cpu profile already active")

// ErrInvalidProfile indicates an unknown snapshot profile name.
var ErrInvalidProfile = errors.New("invalid profile")

var (
	cpuMutex  sync.Mutex
	cpuFile   *os.File
	cpuActive bool
)

// StartCPU starts CPU profiling to the file at path. Returns
// [ErrCPUProfileActive] if profiling is already running.
func StartCPU(path string) error {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()

	if cpuActive {
		return ErrCPUProfileActive
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}
	cpuFile = f
	cpuActive = true
	return nil
}

// StopCPU stops CPU profiling. Safe to call when profiling is not active.
func StopCPU() {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()

	if !cpuActive {
		return
	}
	pprof.StopCPUProfile()
	if cpuFile != nil {
		cpuFile.Close()
		cpuFile = nil
	}
	cpuActive = false
}

// IsCPUActive reports whether CPU profiling is currently running.
func IsCPUActive() bool {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()
	return cpuActive
}

// Write writes the named snapshot profile ("heap", "goroutine", and the
// other [runtime/pprof] profiles) to the file at path. CPU profiling is
// streaming and uses [StartCPU] and [StopCPU] instead.
func Write(profile, path string) error {
	p := pprof.Lookup(profile)
	if p == nil {
		return ErrInvalidProfile
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.WriteTo(f, 0)
}
