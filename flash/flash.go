package flash

import (
	"fmt"
	"time"

	"github.com/ardnew/spinor/flash/hal"
	"github.com/ardnew/spinor/pkg"
)

// Device drives a single serial NOR flash chip through a [hal.Transport].
//
// A Device assumes exclusive, single-threaded ownership of its transport
// for the duration of every call; callers must serialize access
// externally. Operations block until complete or until the busy-wait
// deadline expires. There is no way to abort an in-flight erase or
// program cycle.
type Device struct {
	bus   hal.Transport
	clock hal.Clock

	size         uint32
	waitTimeout  time.Duration
	programLimit int

	// poweredDown mirrors the chip's power state: true iff the last
	// power-affecting command sent was power-down. Every operation that
	// touches the bus wakes the chip first.
	poweredDown bool
}

// Option configures a Device at construction time.
type Option func(*Device)

// WithSize sets the flash capacity in bytes. Offsets at or beyond the
// capacity are rejected with [pkg.ErrInputValue].
func WithSize(n uint32) Option {
	return func(d *Device) { d.size = n }
}

// WithClock replaces the host clock used for busy-wait deadlines.
func WithClock(c hal.Clock) Option {
	return func(d *Device) { d.clock = c }
}

// WithWaitTimeout replaces the default 800ms busy-wait deadline.
func WithWaitTimeout(timeout time.Duration) Option {
	return func(d *Device) { d.waitTimeout = timeout }
}

// WithProgramLimit caps the data bytes per page-program transaction, for
// transports with a per-transaction ceiling (for example, the tinyprog
// serial bridge carries at most 16 bytes per frame). Chunks still never
// cross a page boundary. Zero means the page size is the only limit.
func WithProgramLimit(n int) Option {
	return func(d *Device) { d.programLimit = n }
}

// New returns a Device bound to the given transport. The transport is not
// touched until Init is called.
func New(t hal.Transport, opts ...Option) *Device {
	d := &Device{
		bus:         t,
		clock:       hal.SystemClock{},
		size:        DefaultSize,
		waitTimeout: DefaultWaitTimeout,

		// Unknown at construction; Init wakes the chip explicitly so the
		// driver and chip agree regardless of prior state.
		poweredDown: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Size returns the configured flash capacity in bytes.
func (d *Device) Size() uint32 { return d.size }

// Init configures the transport for controller-mode operation and wakes
// the chip.
func (d *Device) Init() error {
	if err := d.bus.Init(); err != nil {
		return fmt.Errorf("transport init: %w", err)
	}
	if err := d.wake(); err != nil {
		return err
	}
	pkg.LogDebug(pkg.ComponentDriver, "initialized", "size", d.size)
	return nil
}

// Sleep puts the chip into power-down mode. All other operations wake it
// implicitly. No bus traffic is issued if the chip is already asleep.
func (d *Device) Sleep() error {
	if d.poweredDown {
		return nil
	}
	if _, err := d.bus.TransferByte(opPowerDown); err != nil {
		return fmt.Errorf("power down: %w", err)
	}
	d.poweredDown = true
	return nil
}

// wake releases the chip from power-down before a command is issued.
// No-op when the chip is already awake.
func (d *Device) wake() error {
	if !d.poweredDown {
		return nil
	}
	if _, err := d.bus.TransferByte(opReleasePowerDown); err != nil {
		return fmt.Errorf("release power down: %w", err)
	}
	d.poweredDown = false
	return nil
}

// writeEnable sets the write-enable latch. The chip clears the latch
// itself after the next program, erase, or status-write completes.
func (d *Device) writeEnable() error {
	if _, err := d.bus.TransferByte(opWriteEnable); err != nil {
		return fmt.Errorf("write enable: %w", err)
	}
	return nil
}

// checkRange validates that [offset, offset+n) lies within the flash
// array, without issuing bus traffic.
func (d *Device) checkRange(offset, n uint32) error {
	if uint64(offset)+uint64(n) > uint64(d.size) {
		return pkg.ErrInputValue
	}
	return nil
}
