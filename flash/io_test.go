package flash

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/ardnew/spinor/flash/hal/sim"
	"github.com/ardnew/spinor/pkg"
)

func TestReadWriteRoundTrip(t *testing.T) {
	dev, _ := newTestDevice(t, 2*SectorSize, nil)

	want := make([]byte, 600)
	for i := range want {
		want[i] = byte(i * 7)
	}
	if err := dev.Write(want, 300); err != nil {
		t.Fatalf("Write = %v", err)
	}

	got := make([]byte, len(want))
	if err := dev.Read(got, 300); err != nil {
		t.Fatalf("Read = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("read back mismatch")
	}
}

func TestReadIsOneTransaction(t *testing.T) {
	dev, chip := newTestDevice(t, 2*SectorSize, nil)

	buf := make([]byte, 3*PageSize)
	if err := dev.Read(buf, 0); err != nil {
		t.Fatalf("Read = %v", err)
	}
	if got := chip.Opcodes(); !bytes.Equal(got, []byte{0x03}) {
		t.Errorf("read traffic = %x, want a single [03]", got)
	}
}

func TestBoundsRejectedWithoutBusTraffic(t *testing.T) {
	const size = 2 * BlockSize

	tests := []struct {
		name string
		call func(d *Device) error
	}{
		{"read past end", func(d *Device) error {
			return d.Read(make([]byte, 16), size-8)
		}},
		{"write past end", func(d *Device) error {
			return d.Write(make([]byte, 16), size-8)
		}},
		{"erase past end", func(d *Device) error {
			return d.Erase(size-SectorSize, 2*SectorSize)
		}},
		{"read offset beyond end", func(d *Device) error {
			return d.Read(make([]byte, 1), size)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, chip := newTestDevice(t, size, nil)
			if err := tt.call(dev); !errors.Is(err, pkg.ErrInputValue) {
				t.Errorf("err = %v, want ErrInputValue", err)
			}
			if got := chip.Opcodes(); len(got) != 0 {
				t.Errorf("bus traffic on rejected operation: %x", got)
			}
		})
	}
}

func TestWriteRejectsNilBuffer(t *testing.T) {
	dev, chip := newTestDevice(t, SectorSize, nil)
	if err := dev.Write(nil, 0); !errors.Is(err, pkg.ErrInputValue) {
		t.Errorf("Write(nil) = %v, want ErrInputValue", err)
	}
	if got := chip.Opcodes(); len(got) != 0 {
		t.Errorf("bus traffic on rejected write: %x", got)
	}
}

func TestWriteNeverCrossesPageBoundary(t *testing.T) {
	dev, chip := newTestDevice(t, SectorSize, nil)

	data := make([]byte, 10)
	for i := range data {
		data[i] = byte(i)
	}
	if err := dev.Write(data, 250); err != nil {
		t.Fatalf("Write = %v", err)
	}

	var programs []sim.Command
	for _, cmd := range chip.Commands() {
		if cmd.Op == 0x02 {
			programs = append(programs, cmd)
		}
	}
	want := []sim.Command{
		{Op: 0x02, Addr: 250, N: 6},
		{Op: 0x02, Addr: 256, N: 4},
	}
	if len(programs) != len(want) {
		t.Fatalf("program commands = %+v, want %+v", programs, want)
	}
	for i := range want {
		if programs[i] != want[i] {
			t.Errorf("program %d = %+v, want %+v", i, programs[i], want[i])
		}
	}

	got := make([]byte, len(data))
	if err := dev.Read(got, 250); err != nil {
		t.Fatalf("Read = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("read back %x, want %x", got, data)
	}
}

func TestWriteWaitsAroundEveryChunk(t *testing.T) {
	dev, chip := newTestDevice(t, SectorSize, nil)

	if err := dev.Write(make([]byte, 10), 250); err != nil {
		t.Fatalf("Write = %v", err)
	}
	// Two chunks: wait, write-enable, program each; then the final wait.
	want := []byte{0x05, 0x06, 0x02, 0x05, 0x06, 0x02, 0x05}
	if got := chip.Opcodes(); !bytes.Equal(got, want) {
		t.Errorf("write traffic = %x, want %x", got, want)
	}
}

func TestWriteProgramLimit(t *testing.T) {
	dev, chip := newTestDevice(t, SectorSize, nil, WithProgramLimit(8))

	if err := dev.Write(make([]byte, 20), 0); err != nil {
		t.Fatalf("Write = %v", err)
	}
	var sizes []int
	for _, cmd := range chip.Commands() {
		if cmd.Op == 0x02 {
			sizes = append(sizes, cmd.N)
		}
	}
	want := []int{8, 8, 4}
	if len(sizes) != len(want) {
		t.Fatalf("chunk sizes = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("chunk %d size = %d, want %d", i, sizes[i], want[i])
		}
	}
}

func TestWriteTimeoutLeavesRemainderUnwritten(t *testing.T) {
	clock := &stepClock{step: 50 * time.Millisecond}
	dev, chip := newTestDevice(t, SectorSize,
		[]sim.Option{sim.WithClock(clock), sim.WithBusyTime(time.Hour)},
		WithClock(clock))

	data := bytes.Repeat([]byte{0xAA}, 2*PageSize)
	err := dev.Write(data, 0)
	if !errors.Is(err, pkg.ErrTimeout) {
		t.Fatalf("Write = %v, want ErrTimeout", err)
	}

	// The first chunk programs (the chip was idle), the wait before the
	// second chunk times out.
	got := opsOnly(chip.Opcodes(), 0x02)
	if !bytes.Equal(got, []byte{0x02}) {
		t.Errorf("program opcodes = %x, want exactly one", got)
	}
}
