// Package flash drives serial NOR flash chips over a four-wire serial
// bus.
//
// The driver translates high-level operations (read, erase, program,
// identity queries, sleep/wake) into the chip's command byte sequences,
// enforces alignment and bounds rules, and decomposes bulk requests into
// chip-legal units: erases into 32KiB blocks and 4KiB sectors, programs
// into chunks that never cross a 256-byte page.
//
// The physical bus is abstracted behind [hal.Transport]; the host clock
// behind [hal.Clock]. Both are injected at construction:
//
//	dev := flash.New(transport, flash.WithSize(2*1024*1024))
//	if err := dev.Init(); err != nil {
//	    // ...
//	}
//	if err := dev.Erase(0, flash.SectorSize); err != nil {
//	    // ...
//	}
//	if err := dev.Write(data, 0); err != nil {
//	    // ...
//	}
//
// # Power State
//
// The driver tracks whether the chip is in power-down mode. [Device.Sleep]
// powers the chip down; every other bus operation wakes it first by
// sending the release-power-down command, exactly once. Init performs an
// explicit wake so driver and chip agree on the initial state.
//
// # Completion and Errors
//
// Erase, program, and status writes leave the chip busy for a chip-defined
// interval. The driver polls the status register's busy bit with an 800ms
// deadline (configurable via [WithWaitTimeout]); expiry surfaces as
// [pkg.ErrTimeout] and aborts any remaining units of a multi-unit erase or
// write. Partial completion is a documented side effect, not rolled back.
// Invalid offsets, lengths, and alignment surface as [pkg.ErrInputValue]
// before any bus traffic is issued.
//
// # Concurrency
//
// A Device is strictly single-threaded: it provides no internal locking
// and assumes exclusive ownership of its transport. Callers must
// serialize all access to one Device.
package flash
