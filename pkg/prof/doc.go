// Package prof wraps [runtime/pprof] for on-demand profiling of flash
// transfers. It is conditionally compiled using the "profile" build tag:
//
//	go build -tags profile
//
// When built without the tag, all exported functions become no-ops, so
// the spinor tool's --cpuprofile flag can stay wired without overhead
// in normal builds.
package prof
