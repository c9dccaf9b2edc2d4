// Package periphspi adapts a [periph.io/x/conn/v3/spi] port to the
// [hal.Transport] contract.
package periphspi

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/ardnew/spinor/flash/hal"
	"github.com/ardnew/spinor/pkg"
)

// DefaultSpeed is a conservative clock rate accepted by every 25-series
// part in any supported mode.
const DefaultSpeed = 5 * physic.MegaHertz

// Transport drives the flash chip through a periph SPI port. The port is
// connected in Init, mapping the contract's controller-mode setup onto
// periph's Port/Conn split.
type Transport struct {
	port  spi.Port
	speed physic.Frequency
	conn  spi.Conn
}

// New wraps an SPI port. Pass 0 for speed to use DefaultSpeed.
func New(port spi.Port, speed physic.Frequency) *Transport {
	if speed == 0 {
		speed = DefaultSpeed
	}
	return &Transport{port: port, speed: speed}
}

// Init connects the port in mode 0 with 8-bit words.
func (t *Transport) Init() error {
	conn, err := t.port.Connect(t.speed, spi.Mode0, 8)
	if err != nil {
		return fmt.Errorf("connect spi port: %w", err)
	}
	t.conn = conn
	return nil
}

// TransferByte shifts one byte out and returns the byte shifted in.
func (t *Transport) TransferByte(b byte) (byte, error) {
	buf := [1]byte{b}
	if err := t.tx(buf[:], buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// TransferBulk shifts buf out and overwrites it with the received bytes.
func (t *Transport) TransferBulk(buf []byte) error {
	return t.tx(buf, buf)
}

// TransferRegister shifts an opcode and a value byte, returning the byte
// received during the value phase.
func (t *Transport) TransferRegister(op, value byte) (byte, error) {
	buf := [2]byte{op, value}
	if err := t.tx(buf[:], buf[:]); err != nil {
		return 0, err
	}
	return buf[1], nil
}

func (t *Transport) tx(w, r []byte) error {
	if t.conn == nil {
		return pkg.ErrNotConfigured
	}
	return t.conn.Tx(w, r)
}

// Compile-time interface check
var _ hal.Transport = (*Transport)(nil)
