// Package pkg provides shared utilities for the spinor flash driver.
//
// This package contains common functionality used across the driver core,
// the transport implementations, and the command-line tool, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error types for driver and transport errors
//   - Component identifiers for log filtering
//   - The compact [Result] code set reported by the driver
//
// The package is designed to have zero external dependencies, relying
// only on the Go standard library.
//
// # Logging
//
// The logging subsystem wraps [log/slog] with driver-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentDriver, "chip identified", "jedec", id)
//
// # Errors
//
// Common driver errors are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrTimeout) {
//	    // Busy-wait deadline expired; the chip may still be programming.
//	}
package pkg
