package flash

import (
	"fmt"

	"github.com/ardnew/spinor/pkg"
)

// Status returns the raw contents of the chip's status register.
// Bit 0 ([StatusBusy]) indicates an in-progress erase/program cycle.
func (d *Device) Status() (byte, error) {
	if err := d.wake(); err != nil {
		return 0, err
	}
	v, err := d.bus.TransferRegister(opReadStatus, 0)
	if err != nil {
		return 0, fmt.Errorf("read status: %w", err)
	}
	return v, nil
}

// Wait polls the status register until the busy bit clears, returning
// [pkg.ErrTimeout] if it has not cleared within the configured deadline.
//
// Erase and program operations call Wait internally; callers that need
// post-write durability before powering down should call it explicitly.
func (d *Device) Wait() error {
	if err := d.wake(); err != nil {
		return err
	}
	start := d.clock.Now()
	for {
		v, err := d.Status()
		if err != nil {
			return err
		}
		if v&StatusBusy == 0 {
			return nil
		}
		if d.clock.Now().Sub(start) > d.waitTimeout {
			pkg.LogWarn(pkg.ComponentDriver, "busy-wait deadline expired",
				"timeout", d.waitTimeout)
			return pkg.ErrTimeout
		}
	}
}

// SetStatus writes the status register. Only non-volatile bits are
// affected; volatile and protection bits are chip-defined. The update
// takes the chip up to 10ms, so SetStatus waits for completion.
func (d *Device) SetStatus(value byte) error {
	if err := d.wake(); err != nil {
		return err
	}
	if err := d.writeEnable(); err != nil {
		return err
	}
	if _, err := d.bus.TransferRegister(opWriteStatus, value); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return d.Wait()
}
