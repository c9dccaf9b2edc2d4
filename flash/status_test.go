package flash

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/ardnew/spinor/flash/hal/sim"
	"github.com/ardnew/spinor/pkg"
)

func TestStatusReturnsRegister(t *testing.T) {
	dev, chip := newTestDevice(t, SectorSize, nil)

	v, err := dev.Status()
	if err != nil {
		t.Fatalf("Status() = %v", err)
	}
	if v != 0 {
		t.Errorf("Status() = %#02x, want 0 on an idle chip", v)
	}
	if got := chip.Opcodes(); !bytes.Equal(got, []byte{0x05}) {
		t.Errorf("status traffic = %x, want [05]", got)
	}
}

func TestSetStatus(t *testing.T) {
	dev, chip := newTestDevice(t, SectorSize, nil)

	if err := dev.SetStatus(0x3C); err != nil {
		t.Fatalf("SetStatus = %v", err)
	}
	if got := chip.StatusRegister(); got != 0x3C {
		t.Errorf("status register = %#02x, want 0x3c", got)
	}
	// Write-enable, write-status, then the completion wait.
	want := []byte{0x06, 0x01, 0x05}
	if got := chip.Opcodes(); !bytes.Equal(got, want) {
		t.Errorf("set-status traffic = %x, want %x", got, want)
	}
}

func TestWaitReturnsWhenBusyClears(t *testing.T) {
	clock := &stepClock{step: 10 * time.Millisecond}
	dev, chip := newTestDevice(t, SectorSize,
		[]sim.Option{sim.WithClock(clock)},
		WithClock(clock))

	chip.SetBusy(100 * time.Millisecond)
	if err := dev.Wait(); err != nil {
		t.Errorf("Wait() = %v, want nil once busy clears", err)
	}
}

func TestWaitTimeout(t *testing.T) {
	clock := &stepClock{step: 50 * time.Millisecond}
	dev, chip := newTestDevice(t, SectorSize,
		[]sim.Option{sim.WithClock(clock)},
		WithClock(clock))

	chip.SetBusy(time.Hour)
	if err := dev.Wait(); !errors.Is(err, pkg.ErrTimeout) {
		t.Errorf("Wait() = %v, want ErrTimeout", err)
	}
}

func TestWaitTimeoutConfigurable(t *testing.T) {
	clock := &stepClock{step: 10 * time.Millisecond}
	dev, chip := newTestDevice(t, SectorSize,
		[]sim.Option{sim.WithClock(clock)},
		WithClock(clock), WithWaitTimeout(50*time.Millisecond))

	chip.SetBusy(time.Hour)
	start := len(chip.Opcodes())
	if err := dev.Wait(); !errors.Is(err, pkg.ErrTimeout) {
		t.Fatalf("Wait() = %v, want ErrTimeout", err)
	}
	// A 50ms deadline polled on a 10ms clock gives up after a handful of
	// status reads, not the dozens the default deadline would take.
	polls := len(chip.Opcodes()) - start
	if polls > 10 {
		t.Errorf("status polls = %d, want few under a 50ms deadline", polls)
	}
}

func TestWaitImmediateOnIdleChip(t *testing.T) {
	dev, chip := newTestDevice(t, SectorSize, nil)
	if err := dev.Wait(); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if got := chip.Opcodes(); !bytes.Equal(got, []byte{0x05}) {
		t.Errorf("wait traffic = %x, want a single status read", got)
	}
}
