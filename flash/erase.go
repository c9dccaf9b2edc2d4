package flash

import (
	"fmt"

	"github.com/ardnew/spinor/pkg"
)

// eraseUnits lists the erase granularities the chip supports, largest
// first. Erase consumes each row greedily before falling back to the
// next-smaller unit.
var eraseUnits = []struct {
	size uint32
	op   byte
}{
	{BlockSize, opBlockErase32K},
	{SectorSize, opSectorErase4K},
}

// Erase erases n bytes starting at offset. Both offset and n must be
// multiples of [SectorSize], the erase granularity floor.
//
// The region is decomposed into the largest chip-legal units: 32KiB block
// erases while the running offset is block-aligned and at least a block
// remains, then 4KiB sector erases for the remainder. The driver waits
// for each unit to complete before issuing the next; a busy-wait timeout
// aborts the operation immediately. Units already erased are a visible
// side effect and are not restored.
func (d *Device) Erase(offset, n uint32) error {
	if err := d.checkRange(offset, n); err != nil {
		return err
	}
	if offset%SectorSize != 0 || n%SectorSize != 0 {
		return pkg.ErrInputValue
	}
	if err := d.wake(); err != nil {
		return err
	}
	for _, unit := range eraseUnits {
		if offset%unit.size != 0 {
			continue
		}
		for n >= unit.size {
			if err := d.eraseUnit(offset, unit.size, unit.op); err != nil {
				return err
			}
			offset += unit.size
			n -= unit.size
		}
	}
	return nil
}

// eraseUnit sets the write-enable latch, issues a single erase command,
// and waits for the cycle to complete.
func (d *Device) eraseUnit(offset, size uint32, op byte) error {
	// Unit alignment is established by Erase; re-check before touching
	// the chip.
	if offset%size != 0 {
		return pkg.ErrInputValue
	}
	if err := d.writeEnable(); err != nil {
		return err
	}
	var cmd [cmdHeaderSize]byte
	putCommand(cmd[:], op, offset)
	if err := d.bus.TransferBulk(cmd[:]); err != nil {
		return fmt.Errorf("erase %d at %#06x: %w", size, offset, err)
	}
	return d.Wait()
}
