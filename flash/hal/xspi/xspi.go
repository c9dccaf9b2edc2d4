// Package xspi adapts a [golang.org/x/exp/io/spi] device to the
// [hal.Transport] contract, for hosts that expose the flash chip through
// a spidev-style SPI controller.
package xspi

import (
	"fmt"

	"golang.org/x/exp/io/spi"

	"github.com/ardnew/spinor/flash/hal"
)

// DefaultSpeed is a conservative clock rate accepted by every 25-series
// part in any supported mode.
const DefaultSpeed = 5_000_000

// Transport drives the flash chip through an SPI device. The kernel
// scopes chip-select to each Tx call, which gives the one-transaction-
// per-call semantics the contract requires.
type Transport struct {
	dev *spi.Device
}

// New wraps an already-open SPI device.
func New(dev *spi.Device) *Transport {
	return &Transport{dev: dev}
}

// Open opens the named spidev device (for example "/dev/spidev0.0") at
// the given clock speed. Pass 0 for speed to use DefaultSpeed.
func Open(device string, speed int64) (*Transport, error) {
	if speed == 0 {
		speed = DefaultSpeed
	}
	dev, err := spi.Open(&spi.Devfs{Dev: device, Mode: spi.Mode0, MaxSpeed: speed})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return New(dev), nil
}

// Init configures the bus for controller-mode operation. Serial NOR
// parts sample on the rising edge with the clock idle low (mode 0).
func (t *Transport) Init() error {
	return t.dev.SetMode(spi.Mode0)
}

// TransferByte shifts one byte out and returns the byte shifted in.
func (t *Transport) TransferByte(b byte) (byte, error) {
	buf := [1]byte{b}
	if err := t.dev.Tx(buf[:], buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// TransferBulk shifts buf out and overwrites it with the received bytes.
func (t *Transport) TransferBulk(buf []byte) error {
	return t.dev.Tx(buf, buf)
}

// TransferRegister shifts an opcode and a value byte, returning the byte
// received during the value phase.
func (t *Transport) TransferRegister(op, value byte) (byte, error) {
	buf := [2]byte{op, value}
	if err := t.dev.Tx(buf[:], buf[:]); err != nil {
		return 0, err
	}
	return buf[1], nil
}

// Close releases the SPI device.
func (t *Transport) Close() error {
	return t.dev.Close()
}

// Compile-time interface check
var _ hal.Transport = (*Transport)(nil)
