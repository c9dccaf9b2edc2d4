package flash

import (
	"encoding/binary"
	"fmt"
)

// JEDECID is the standardized 3-byte chip identifier, packed big-endian:
// manufacturer ID in bits 16-23, memory type in bits 8-15, capacity code
// in bits 0-7.
type JEDECID uint32

// Manufacturer returns the JEDEC manufacturer ID byte.
func (id JEDECID) Manufacturer() byte { return byte(id >> 16) }

// MemoryType returns the vendor-defined memory type byte.
func (id JEDECID) MemoryType() byte { return byte(id >> 8) }

// Capacity returns the vendor-defined capacity code byte.
func (id JEDECID) Capacity() byte { return byte(id) }

// String formats the ID the way datasheets list it.
func (id JEDECID) String() string {
	return fmt.Sprintf("%02X %02X %02X",
		id.Manufacturer(), id.MemoryType(), id.Capacity())
}

// JEDECID reads the chip's JEDEC identifier.
func (d *Device) JEDECID() (JEDECID, error) {
	if err := d.wake(); err != nil {
		return 0, err
	}
	var buf [1 + 3]byte
	buf[0] = opJEDECID
	if err := d.bus.TransferBulk(buf[:]); err != nil {
		return 0, fmt.Errorf("jedec id: %w", err)
	}
	return JEDECID(uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])), nil
}

// UniqueID reads the chip's factory-programmed 64-bit serial number.
func (d *Device) UniqueID() (uint64, error) {
	if err := d.wake(); err != nil {
		return 0, err
	}
	var buf [1 + uniqueIDDummy + 8]byte
	buf[0] = opReadUniqueID
	if err := d.bus.TransferBulk(buf[:]); err != nil {
		return 0, fmt.Errorf("unique id: %w", err)
	}
	return binary.BigEndian.Uint64(buf[1+uniqueIDDummy:]), nil
}
