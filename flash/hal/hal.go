package hal

import "time"

// Transport defines the bus capability contract consumed by the flash
// driver.
//
// A Transport owns one chip-select line and one four-wire serial bus
// connection to a single flash chip. Every method is one chip-select-scoped
// transaction: the implementation asserts chip-select before shifting the
// first byte and releases it after the last, on every exit path including
// errors.
//
// Implementations are not required to be safe for concurrent use; the
// driver assumes exclusive, single-threaded ownership of the bus.
type Transport interface {
	// Init configures the bus for controller-mode operation. Called once
	// by the driver's Init before any transfer.
	Init() error

	// TransferByte shifts a single byte out and returns the byte shifted
	// in during the same clock cycles.
	TransferByte(b byte) (byte, error)

	// TransferBulk shifts buf out and overwrites it in place with the
	// bytes shifted in, as one chip-select-asserted transaction.
	TransferBulk(buf []byte) error

	// TransferRegister shifts an opcode followed by a value byte and
	// returns the byte received during the value phase. Used for status
	// register access.
	TransferRegister(op, value byte) (byte, error)
}

// Clock supplies monotonic time for busy-wait deadlines. The driver only
// compares differences between successive readings.
type Clock interface {
	Now() time.Time
}

// SystemClock is the host monotonic clock.
type SystemClock struct{}

// Now returns the current time. The monotonic reading embedded by the
// runtime makes differences immune to wall-clock adjustment.
func (SystemClock) Now() time.Time { return time.Now() }

// Compile-time interface check
var _ Clock = SystemClock{}
