// Package sim provides an in-memory serial NOR flash chip implementing
// the [github.com/ardnew/spinor/flash/hal.Transport] contract.
//
// The simulated chip is the reference transport for driver tests and for
// running the examples and the command-line tool without hardware. It
// models the chip behaviors the driver's correctness depends on:
//
//   - Erased state 0xFF; programming only clears bits (NOR semantics)
//   - 256-byte page wrap-around during page program
//   - The write-enable latch, required before program/erase/status-write
//     and cleared by the chip afterwards
//   - The busy flag, held for configurable cycle durations measured on an
//     injected clock
//   - Power-down mode, in which every command except release-power-down
//     is ignored
//
// Each chip records the decoded transactions it receives, so tests can
// assert on the exact command sequence a driver operation produced.
package sim
