package flash

import (
	"fmt"

	"github.com/ardnew/spinor/pkg"
)

// Read fills p with the flash contents starting at offset.
//
// The whole read is one bus transaction: the read-data command has no
// page limit, so no chunking is required.
func (d *Device) Read(p []byte, offset uint32) error {
	if err := d.checkRange(offset, uint32(len(p))); err != nil {
		return err
	}
	if err := d.wake(); err != nil {
		return err
	}
	buf := make([]byte, cmdHeaderSize+len(p))
	putCommand(buf, opReadData, offset)
	if err := d.bus.TransferBulk(buf); err != nil {
		return fmt.Errorf("read data at %#06x: %w", offset, err)
	}
	copy(p, buf[cmdHeaderSize:])
	return nil
}

// Write programs p into the flash starting at offset. The target region
// must already be erased; no read-modify-erase is performed.
//
// The data is split into chunks that never cross a 256-byte page
// boundary. Before each chunk the driver waits for the previous program
// cycle, and it waits once more after the final chunk so the caller
// observes completion. A busy-wait timeout aborts the loop and leaves
// the remainder unwritten; bytes already programmed are not rolled back.
func (d *Device) Write(p []byte, offset uint32) error {
	if p == nil {
		return pkg.ErrInputValue
	}
	if err := d.checkRange(offset, uint32(len(p))); err != nil {
		return err
	}
	if err := d.wake(); err != nil {
		return err
	}
	for len(p) > 0 {
		n := d.programChunk(offset, len(p))
		if err := d.Wait(); err != nil {
			return err
		}
		if err := d.writeEnable(); err != nil {
			return err
		}
		buf := make([]byte, cmdHeaderSize+n)
		putCommand(buf, opPageProgram, offset)
		copy(buf[cmdHeaderSize:], p[:n])
		if err := d.bus.TransferBulk(buf); err != nil {
			return fmt.Errorf("page program at %#06x: %w", offset, err)
		}
		p = p[n:]
		offset += uint32(n)
	}
	return d.Wait()
}

// programChunk returns the largest chunk size at offset that stays inside
// the current page and the remaining byte count.
func (d *Device) programChunk(offset uint32, remaining int) int {
	n := PageSize - int(offset&(PageSize-1))
	if d.programLimit > 0 && n > d.programLimit {
		n = d.programLimit
	}
	if n > remaining {
		n = remaining
	}
	return n
}
