package flash

import "time"

// Chip geometry. These granularities are common to the 25-series serial
// NOR parts this driver targets (W25Q, GD25Q, AT25, ...).
const (
	// PageSize is the program granularity: a page-program transaction
	// must not cross a 256-byte page boundary.
	PageSize = 256

	// SectorSize is the smallest erase unit (4KiB).
	SectorSize = 4096

	// BlockSize is the larger erase unit (32KiB).
	BlockSize = 32768
)

// DefaultSize is the capacity assumed when WithSize is not given (512KiB).
const DefaultSize = 512 * 1024

// DefaultWaitTimeout bounds the busy-wait poll loop. Datasheet worst case
// for a 32KiB block erase is well under this.
const DefaultWaitTimeout = 800 * time.Millisecond

// Command opcodes (wire format shared across 25-series vendors).
const (
	opWriteStatus      = 0x01 // Write status register, 1-byte payload
	opPageProgram      = 0x02 // Page program, 24-bit address + data
	opReadData         = 0x03 // Read data, 24-bit address
	opReadStatus       = 0x05 // Read status register, returns 1 byte
	opWriteEnable      = 0x06 // Set write-enable latch
	opSectorErase4K    = 0x20 // Erase 4KiB sector, 24-bit address
	opReadUniqueID     = 0x4B // 4 dummy bytes, then 8-byte unique ID
	opBlockErase32K    = 0x52 // Erase 32KiB block, 24-bit address
	opJEDECID          = 0x9F // Returns 3-byte JEDEC ID
	opReleasePowerDown = 0xAB // Wake chip from power-down
	opPowerDown        = 0xB9 // Enter power-down
)

// Status register bits.
const (
	// StatusBusy is set while an erase, program, or status-write cycle
	// is in progress.
	StatusBusy = 1 << 0

	// StatusWriteEnabled reflects the write-enable latch.
	StatusWriteEnabled = 1 << 1
)

// cmdHeaderSize is opcode plus 24-bit address.
const cmdHeaderSize = 4

// uniqueIDDummy is the number of dummy bytes clocked between the
// read-unique-ID opcode and the first ID byte.
const uniqueIDDummy = 4

// putCommand writes an opcode and 24-bit big-endian address into the
// first cmdHeaderSize bytes of buf.
func putCommand(buf []byte, op byte, offset uint32) {
	buf[0] = op
	buf[1] = byte(offset >> 16)
	buf[2] = byte(offset >> 8)
	buf[3] = byte(offset)
}
