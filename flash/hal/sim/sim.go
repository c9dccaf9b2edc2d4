package sim

import (
	"time"

	"github.com/ardnew/spinor/flash/hal"
	"github.com/ardnew/spinor/pkg"
)

// Chip geometry and command set of the modeled 25-series NOR part.
const (
	pageSize   = 256
	sectorSize = 4096
	blockSize  = 32768

	opWriteStatus      = 0x01
	opPageProgram      = 0x02
	opReadData         = 0x03
	opReadStatus       = 0x05
	opWriteEnable      = 0x06
	opSectorErase4K    = 0x20
	opReadUniqueID     = 0x4B
	opBlockErase32K    = 0x52
	opJEDECID          = 0x9F
	opReleasePowerDown = 0xAB
	opPowerDown        = 0xB9

	statusBusy         = 1 << 0
	statusWriteEnabled = 1 << 1

	uniqueIDDummy = 4
)

// idleByte is what the bus reads while the chip is not driving it.
const idleByte = 0xFF

// Command is one decoded transaction recorded by the chip.
type Command struct {
	Op   byte   // Opcode (first byte of the transaction)
	Addr uint32 // 24-bit address, zero for address-less commands
	N    int    // Payload length in bytes, zero if none
}

// Chip is an in-memory serial NOR flash chip implementing
// [hal.Transport]. It models the erased state (0xFF), NOR program
// semantics (programming only clears bits), page wrap-around, the
// write-enable latch, the busy flag with configurable cycle durations,
// and the power-down state in which all commands except
// release-power-down are ignored.
//
// Every transaction received is recorded, including commands the chip
// ignored, so tests can assert on exact wire traffic.
type Chip struct {
	mem   []byte
	clock hal.Clock

	jedec  [3]byte
	unique [8]byte

	// nonvolatile status bits plus the write-enable latch; the busy bit
	// is derived from busyUntil at read time.
	status      byte
	poweredDown bool
	busyUntil   time.Time

	eraseTime   time.Duration
	programTime time.Duration
	statusTime  time.Duration

	initialized bool
	trace       []Command
}

// Option configures a Chip at construction time.
type Option func(*Chip)

// WithClock replaces the clock used to model busy cycle durations.
// Tests share one fake clock between chip and driver.
func WithClock(c hal.Clock) Option {
	return func(ch *Chip) { ch.clock = c }
}

// WithJEDECID sets the 3-byte identifier returned by the JEDEC-ID command.
func WithJEDECID(manufacturer, memoryType, capacity byte) Option {
	return func(ch *Chip) {
		ch.jedec = [3]byte{manufacturer, memoryType, capacity}
	}
}

// WithUniqueID sets the 64-bit serial number, most significant byte first.
func WithUniqueID(id uint64) Option {
	return func(ch *Chip) {
		for i := range ch.unique {
			ch.unique[i] = byte(id >> (56 - 8*i))
		}
	}
}

// WithBusyTime sets the duration of every erase, program, and
// status-write cycle. The default is zero: cycles complete instantly.
func WithBusyTime(d time.Duration) Option {
	return func(ch *Chip) {
		ch.eraseTime = d
		ch.programTime = d
		ch.statusTime = d
	}
}

// New returns a powered-up chip of the given capacity with every byte in
// the erased state.
func New(size uint32, opts ...Option) *Chip {
	ch := &Chip{
		mem:   make([]byte, size),
		clock: hal.SystemClock{},
		jedec: [3]byte{0xC8, 0x40, 0x15}, // GD25Q16 reset default
	}
	for i := range ch.mem {
		ch.mem[i] = idleByte
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

// Init marks the bus configured for controller-mode operation.
func (c *Chip) Init() error {
	c.initialized = true
	pkg.LogDebug(pkg.ComponentSim, "chip transport initialized", "size", len(c.mem))
	return nil
}

// TransferByte handles the single-byte commands: write-enable,
// power-down, and release-power-down.
func (c *Chip) TransferByte(b byte) (byte, error) {
	if !c.initialized {
		return 0, pkg.ErrNotConfigured
	}
	c.record(Command{Op: b})
	if c.poweredDown {
		if b == opReleasePowerDown {
			c.poweredDown = false
		}
		return idleByte, nil
	}
	switch b {
	case opWriteEnable:
		if !c.busy() {
			c.status |= statusWriteEnabled
		}
	case opPowerDown:
		c.poweredDown = true
	case opReleasePowerDown:
		// Already awake.
	}
	return idleByte, nil
}

// TransferRegister handles status register access.
func (c *Chip) TransferRegister(op, value byte) (byte, error) {
	if !c.initialized {
		return 0, pkg.ErrNotConfigured
	}
	c.record(Command{Op: op})
	if c.poweredDown {
		return idleByte, nil
	}
	switch op {
	case opReadStatus:
		s := c.status &^ statusBusy
		if c.busy() {
			s |= statusBusy
		}
		return s, nil
	case opWriteStatus:
		if c.latched() {
			c.status = value &^ (statusBusy | statusWriteEnabled)
			c.startCycle(c.statusTime)
		}
		return idleByte, nil
	}
	return idleByte, nil
}

// TransferBulk handles the framed commands: read, program, erase, and
// the identity queries. buf is overwritten in place with response bytes
// the way a duplex bus would.
func (c *Chip) TransferBulk(buf []byte) error {
	if !c.initialized {
		return pkg.ErrNotConfigured
	}
	if len(buf) == 0 {
		return pkg.ErrBufferTooSmall
	}
	op := buf[0]
	cmd := Command{Op: op}
	if len(buf) >= 4 {
		cmd.Addr = addr24(buf)
		cmd.N = len(buf) - 4
	}
	c.record(cmd)

	if c.poweredDown {
		if op == opReleasePowerDown {
			c.poweredDown = false
		}
		fill(buf[1:], idleByte)
		return nil
	}

	switch op {
	case opReadData:
		c.readInto(cmd.Addr, buf[4:])
	case opPageProgram:
		if c.latched() {
			c.program(cmd.Addr, buf[4:])
			c.startCycle(c.programTime)
		}
	case opSectorErase4K:
		if c.latched() {
			c.erase(cmd.Addr, sectorSize)
			c.startCycle(c.eraseTime)
		}
	case opBlockErase32K:
		if c.latched() {
			c.erase(cmd.Addr, blockSize)
			c.startCycle(c.eraseTime)
		}
	case opJEDECID:
		copy(buf[1:], c.jedec[:])
	case opReadUniqueID:
		if len(buf) >= 1+uniqueIDDummy+len(c.unique) {
			copy(buf[1+uniqueIDDummy:], c.unique[:])
		}
	case opReleasePowerDown:
		// Already awake.
	default:
		pkg.LogWarn(pkg.ComponentSim, "unknown opcode", "op", op)
	}
	return nil
}

// readInto copies the array contents at addr into p, wrapping at the end
// of the array the way continuous reads do on real parts.
func (c *Chip) readInto(addr uint32, p []byte) {
	for i := range p {
		p[i] = c.mem[(int(addr)+i)%len(c.mem)]
	}
}

// program ANDs p into the array starting at addr. NOR programming can
// only clear bits; erase is the only way back to 1. Addresses wrap
// within the 256-byte page, matching real-chip behavior when a program
// transaction runs past a page end.
func (c *Chip) program(addr uint32, p []byte) {
	page := int(addr) &^ (pageSize - 1)
	col := int(addr) & (pageSize - 1)
	for i, b := range p {
		idx := page | ((col + i) & (pageSize - 1))
		if idx < len(c.mem) {
			c.mem[idx] &= b
		}
	}
	c.status &^= statusWriteEnabled
}

// erase fills the unit containing addr with the erased state.
func (c *Chip) erase(addr uint32, unit uint32) {
	start := int(addr &^ (unit - 1))
	end := start + int(unit)
	if end > len(c.mem) {
		end = len(c.mem)
	}
	fill(c.mem[start:end], idleByte)
	c.status &^= statusWriteEnabled
}

// latched reports whether a program/erase/status-write is accepted:
// write-enable latch set and no cycle in progress.
func (c *Chip) latched() bool {
	return c.status&statusWriteEnabled != 0 && !c.busy()
}

func (c *Chip) busy() bool {
	return c.clock.Now().Before(c.busyUntil)
}

func (c *Chip) startCycle(d time.Duration) {
	c.busyUntil = c.clock.Now().Add(d)
}

func (c *Chip) record(cmd Command) {
	c.trace = append(c.trace, cmd)
}

func addr24(buf []byte) uint32 {
	return uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
}

func fill(p []byte, b byte) {
	for i := range p {
		p[i] = b
	}
}

// Test inspection surface.

// Commands returns a copy of every transaction received since the last
// ResetTrace.
func (c *Chip) Commands() []Command {
	out := make([]Command, len(c.trace))
	copy(out, c.trace)
	return out
}

// Opcodes returns just the opcode sequence of the recorded transactions.
func (c *Chip) Opcodes() []byte {
	out := make([]byte, len(c.trace))
	for i, cmd := range c.trace {
		out[i] = cmd.Op
	}
	return out
}

// ResetTrace discards the recorded transactions.
func (c *Chip) ResetTrace() {
	c.trace = c.trace[:0]
}

// Image returns a copy of the memory array.
func (c *Chip) Image() []byte {
	out := make([]byte, len(c.mem))
	copy(out, c.mem)
	return out
}

// StatusRegister returns the register value as the next read-status
// command would report it.
func (c *Chip) StatusRegister() byte {
	s := c.status &^ statusBusy
	if c.busy() {
		s |= statusBusy
	}
	return s
}

// PoweredDown reports the chip's power state.
func (c *Chip) PoweredDown() bool { return c.poweredDown }

// SetBusy forces the chip busy for the given duration, measured on the
// chip's clock. Tests use this to exercise busy-wait deadlines directly.
func (c *Chip) SetBusy(d time.Duration) {
	c.startCycle(d)
}

// Compile-time interface check
var _ hal.Transport = (*Chip)(nil)
