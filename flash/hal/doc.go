// Package hal defines the bus capability contract consumed by the flash
// driver.
//
// The HAL provides a platform-agnostic interface between the driver core
// and the underlying serial bus controller. Platform code implements this
// interface to run the spinor driver against its specific hardware.
//
// # Design Principles
//
// The HAL is designed to be:
//
//   - Minimal: Only expose the transfer shapes the command set needs
//   - Generic: No platform-specific assumptions or details
//   - Transactional: Each call is exactly one chip-select-scoped transfer
//
// The driver core implements all chip protocol logic, leaving the HAL to
// handle only raw byte shifting and chip-select management.
//
// # Implementing a Transport
//
// To implement a Transport for a new platform:
//
//  1. Create a type that implements all [Transport] methods
//  2. Handle controller-mode bus setup in Init()
//  3. Assert chip-select for the duration of each Transfer call, and
//     guarantee release on every exit path
//
// Ready-made transports live in the subpackages:
//
//   - [github.com/ardnew/spinor/flash/hal/sim]: simulated chip for tests
//   - [github.com/ardnew/spinor/flash/hal/xspi]: golang.org/x/exp/io/spi
//   - [github.com/ardnew/spinor/flash/hal/periphspi]: periph.io SPI port
//   - [github.com/ardnew/spinor/flash/hal/tinyprog]: serial bootloader bridge
package hal
