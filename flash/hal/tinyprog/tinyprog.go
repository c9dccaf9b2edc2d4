// Package tinyprog adapts the TinyFPGA bootloader serial protocol to the
// [hal.Transport] contract, for boards that expose their flash chip
// through a USB serial bridge rather than a host SPI controller.
//
// The bridge is half duplex with a 16 byte payload ceiling in each
// direction. Each frame carries an opcode (0x01 for an SPI transfer),
// a little-endian send length, a little-endian receive length, and the
// command bytes to shift out. The bridge clocks the command out, then
// clocks the requested number of response bytes back in.
//
// Because the bridge cannot stream a full-duplex exchange, bulk
// transfers are reassembled from the opcode at the head of the buffer:
// reads are windowed across multiple frames, while programs must fit a
// single frame. Configure the driver with a program limit of
// [MaxProgram] bytes when using this transport.
package tinyprog

import (
	"fmt"
	"io"

	"github.com/pkg/term"

	"github.com/ardnew/spinor/flash/hal"
	"github.com/ardnew/spinor/pkg"
)

// Bridge framing constants.
const (
	reqTransfer = 0x01 // frame opcode for an SPI transfer
	maxPayload  = 16   // payload ceiling per direction

	// MaxProgram is the largest data chunk a page program can carry
	// once the four command bytes are accounted for.
	MaxProgram = maxPayload - 4
)

// Flash opcodes the bridge must split into command and response phases.
const (
	opReadData     = 0x03
	opReadUniqueID = 0x4B
	opReadJEDECID  = 0x9F
	opReadStatus   = 0x05
)

// DefaultBaud matches the rate the TinyFPGA bootloader enumerates at.
const DefaultBaud = 115200

// Transport drives the flash chip through a TinyFPGA bootloader bridge.
type Transport struct {
	rw io.ReadWriter
}

// New wraps an open bridge connection. Tests pass a scripted
// [io.ReadWriter] here.
func New(rw io.ReadWriter) *Transport {
	return &Transport{rw: rw}
}

// Open opens the named tty in raw mode at the bootloader's baud rate.
func Open(tty string) (*Transport, error) {
	t, err := term.Open(tty, term.Speed(DefaultBaud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", tty, err)
	}
	return New(t), nil
}

// Init is a no-op. The bootloader configures the SPI pins itself when it
// enumerates, so there is no controller-mode setup to perform.
func (t *Transport) Init() error {
	return nil
}

// TransferByte shifts one opcode byte out. The bridge cannot sample the
// bus during the command phase, so the returned byte is always zero.
func (t *Transport) TransferByte(b byte) (byte, error) {
	_, err := t.exchange([]byte{b}, 0)
	return 0, err
}

// TransferRegister shifts an opcode and a value byte. Register reads
// clock the value phase as a response; register writes carry the value
// in the command phase.
func (t *Transport) TransferRegister(op, value byte) (byte, error) {
	if op == opReadStatus {
		resp, err := t.exchange([]byte{op}, 1)
		if err != nil {
			return 0, err
		}
		return resp[0], nil
	}
	_, err := t.exchange([]byte{op, value}, 0)
	return 0, err
}

// TransferBulk reassembles a full-duplex transaction from the opcode at
// the head of buf, splitting it into the bridge's command and response
// phases and filling the response region of buf in place.
func (t *Transport) TransferBulk(buf []byte) error {
	if len(buf) == 0 {
		return pkg.ErrBufferTooSmall
	}
	switch buf[0] {
	case opReadData:
		if len(buf) < 4 {
			return pkg.ErrBufferTooSmall
		}
		addr := uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
		return t.readInto(addr, buf[4:])
	case opReadUniqueID:
		return t.split(buf, 5)
	case opReadJEDECID:
		return t.split(buf, 1)
	default:
		// Program, erase, and anything else command-only.
		if len(buf) > maxPayload {
			return pkg.ErrBufferTooLarge
		}
		_, err := t.exchange(buf, 0)
		return err
	}
}

// split sends the first header bytes of buf as the command phase and
// fills the remainder from the response phase.
func (t *Transport) split(buf []byte, header int) error {
	if len(buf) < header {
		return pkg.ErrBufferTooSmall
	}
	resp, err := t.exchange(buf[:header], len(buf)-header)
	if err != nil {
		return err
	}
	copy(buf[header:], resp)
	return nil
}

// readInto fills dst from the given address, one bridge window at a
// time. The bootloader buffers responses in 16 byte windows, so each
// frame reads up to the next window boundary.
func (t *Transport) readInto(addr uint32, dst []byte) error {
	for len(dst) > 0 {
		n := maxPayload - int(addr)&(maxPayload-1)
		if n > len(dst) {
			n = len(dst)
		}
		cmd := [4]byte{opReadData, byte(addr >> 16), byte(addr >> 8), byte(addr)}
		resp, err := t.exchange(cmd[:], n)
		if err != nil {
			return err
		}
		copy(dst, resp)
		dst = dst[n:]
		addr += uint32(n)
	}
	return nil
}

// exchange performs one bridge frame: send the command bytes, then read
// exactly expect response bytes.
func (t *Transport) exchange(cmds []byte, expect int) ([]byte, error) {
	if len(cmds) > maxPayload || expect > maxPayload {
		return nil, pkg.ErrBufferTooLarge
	}
	req := make([]byte, 0, 5+len(cmds))
	req = append(req,
		reqTransfer,
		byte(len(cmds)), byte(len(cmds)>>8),
		byte(expect), byte(expect>>8))
	req = append(req, cmds...)
	if _, err := t.rw.Write(req); err != nil {
		return nil, fmt.Errorf("bridge write: %w", err)
	}
	if expect == 0 {
		return nil, nil
	}
	resp := make([]byte, expect)
	if _, err := io.ReadFull(t.rw, resp); err != nil {
		return nil, fmt.Errorf("bridge read: %w", err)
	}
	return resp, nil
}

// Close releases the underlying connection if it can be closed.
func (t *Transport) Close() error {
	if c, ok := t.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Compile-time interface check
var _ hal.Transport = (*Transport)(nil)
