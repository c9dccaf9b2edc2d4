// Program spinor reads, writes, and erases a serial NOR flash chip
// through a TinyFPGA bootloader serial bridge, or against a simulated
// chip for offline testing.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"zappem.net/pub/debug/xcrc32"
	"zappem.net/pub/debug/xxd"

	"github.com/ardnew/spinor/flash"
	"github.com/ardnew/spinor/flash/hal"
	"github.com/ardnew/spinor/flash/hal/sim"
	"github.com/ardnew/spinor/flash/hal/tinyprog"
	"github.com/ardnew/spinor/pkg"
	"github.com/ardnew/spinor/pkg/prof"
)

var (
	tty      string
	useSim   bool
	size     uint32
	logLevel string
	logJSON  bool
	cpuProf  string
)

// openDevice builds and initializes a flash device over the selected
// transport. The returned func releases the transport.
func openDevice() (*flash.Device, func(), error) {
	var (
		t    hal.Transport
		done = func() {}
		opts = []flash.Option{flash.WithSize(size)}
	)
	if useSim {
		t = sim.New(size)
	} else {
		tp, err := tinyprog.Open(tty)
		if err != nil {
			return nil, nil, err
		}
		t = tp
		done = func() { tp.Close() }
		// The bridge caps each frame, so page programs must be split
		// well below the chip's page size.
		opts = append(opts, flash.WithProgramLimit(tinyprog.MaxProgram))
	}
	dev := flash.New(t, opts...)
	if err := dev.Init(); err != nil {
		done()
		return nil, nil, fmt.Errorf("initialize flash: %w", err)
	}
	return dev, done, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// eraseSpan widens [offset, offset+n) to sector boundaries.
func eraseSpan(offset, n uint32) (uint32, uint32) {
	base := offset &^ (flash.SectorSize - 1)
	end := offset + n
	if rem := end % flash.SectorSize; rem != 0 {
		end += flash.SectorSize - rem
	}
	return base, end - base
}

func main() {
	root := &cobra.Command{
		Use:           "spinor",
		Short:         "Serial NOR flash tool",
		Long:          "Read, write, erase, and identify a serial NOR flash chip over a TinyFPGA bootloader bridge or a simulated chip.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, err := parseLevel(logLevel)
			if err != nil {
				return err
			}
			pkg.SetLogLevel(level)
			if logJSON {
				pkg.SetLogFormat(pkg.LogFormatJSON)
			}
			if cpuProf != "" {
				return prof.StartCPU(cpuProf)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			prof.StopCPU()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&tty, "tty", "/dev/serial/by-id/usb-1d50_6130-if00", "serial bridge device")
	pf.BoolVar(&useSim, "sim", false, "operate on a simulated chip instead of hardware")
	pf.Uint32Var(&size, "size", flash.DefaultSize, "flash capacity in bytes")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
	pf.StringVar(&cpuProf, "cpuprofile", "", "write a CPU profile to this file")

	root.AddCommand(&cobra.Command{
		Use:   "id",
		Short: "Print the chip's JEDEC and unique identifiers",
		RunE: func(_ *cobra.Command, _ []string) error {
			dev, done, err := openDevice()
			if err != nil {
				return err
			}
			defer done()
			jid, err := dev.JEDECID()
			if err != nil {
				return fmt.Errorf("read JEDEC ID: %w", err)
			}
			uid, err := dev.UniqueID()
			if err != nil {
				return fmt.Errorf("read unique ID: %w", err)
			}
			fmt.Printf("jedec:  %v\n", jid)
			fmt.Printf("unique: %016X\n", uid)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the chip's status register",
		RunE: func(_ *cobra.Command, _ []string) error {
			dev, done, err := openDevice()
			if err != nil {
				return err
			}
			defer done()
			v, err := dev.Status()
			if err != nil {
				return err
			}
			fmt.Printf("status: %#02x (busy=%t write-enabled=%t)\n",
				v, v&0x01 != 0, v&0x02 != 0)
			return nil
		},
	})

	var (
		readAddr uint32
		readLen  uint32
		readOut  string
	)
	readCmd := &cobra.Command{
		Use:   "read",
		Short: "Read flash contents to a file or as a hex dump",
		RunE: func(_ *cobra.Command, _ []string) error {
			dev, done, err := openDevice()
			if err != nil {
				return err
			}
			defer done()
			n := readLen
			if n == 0 {
				n = dev.Size() - readAddr
			}
			buf := make([]byte, n)
			if err := dev.Read(buf, readAddr); err != nil {
				return fmt.Errorf("read %d bytes at %#06x: %w", n, readAddr, err)
			}
			if readOut == "" {
				xxd.Print(int(readAddr), buf)
				return nil
			}
			return os.WriteFile(readOut, buf, 0644)
		},
	}
	readCmd.Flags().Uint32Var(&readAddr, "addr", 0, "start address")
	readCmd.Flags().Uint32Var(&readLen, "len", 0, "bytes to read (0 = to end of chip)")
	readCmd.Flags().StringVar(&readOut, "out", "", "write output to this file instead of dumping")
	root.AddCommand(readCmd)

	var (
		writeAddr  uint32
		writeErase bool
		verify     bool
	)
	writeCmd := &cobra.Command{
		Use:   "write <file>",
		Short: "Write a file to flash",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			dev, done, err := openDevice()
			if err != nil {
				return err
			}
			defer done()
			if writeErase {
				base, n := eraseSpan(writeAddr, uint32(len(data)))
				pkg.LogInfo(pkg.ComponentTool, "erasing",
					"addr", base, "bytes", n)
				if err := dev.Erase(base, n); err != nil {
					return fmt.Errorf("erase [%#06x,%#06x): %w", base, base+n, err)
				}
			}
			if err := dev.Write(data, writeAddr); err != nil {
				return fmt.Errorf("write %d bytes at %#06x: %w", len(data), writeAddr, err)
			}
			if verify {
				back := make([]byte, len(data))
				if err := dev.Read(back, writeAddr); err != nil {
					return fmt.Errorf("read back for verify: %w", err)
				}
				_, want := xcrc32.NewCRC32(data)
				_, got := xcrc32.NewCRC32(back)
				if got != want {
					return fmt.Errorf("verify failed: crc got=%08x want=%08x", got, want)
				}
				fmt.Printf("verified %d bytes at %#06x (crc %08x)\n", len(data), writeAddr, got)
			}
			return nil
		},
	}
	writeCmd.Flags().Uint32Var(&writeAddr, "addr", 0, "start address")
	writeCmd.Flags().BoolVar(&writeErase, "erase", false, "erase the covering sectors first")
	writeCmd.Flags().BoolVar(&verify, "verify", false, "read back and compare CRC32")
	root.AddCommand(writeCmd)

	var (
		eraseAddr uint32
		eraseLen  uint32
	)
	eraseCmd := &cobra.Command{
		Use:   "erase",
		Short: "Erase a sector-aligned region",
		RunE: func(_ *cobra.Command, _ []string) error {
			dev, done, err := openDevice()
			if err != nil {
				return err
			}
			defer done()
			n := eraseLen
			if n == 0 {
				n = dev.Size() - eraseAddr
			}
			return dev.Erase(eraseAddr, n)
		},
	}
	eraseCmd.Flags().Uint32Var(&eraseAddr, "addr", 0, "start address (sector aligned)")
	eraseCmd.Flags().Uint32Var(&eraseLen, "len", 0, "bytes to erase (0 = to end of chip, sector aligned)")
	root.AddCommand(eraseCmd)

	root.AddCommand(&cobra.Command{
		Use:   "sleep",
		Short: "Put the chip into its low-power state",
		RunE: func(_ *cobra.Command, _ []string) error {
			dev, done, err := openDevice()
			if err != nil {
				return err
			}
			defer done()
			return dev.Sleep()
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "wake",
		Short: "Wake the chip and confirm it responds",
		RunE: func(_ *cobra.Command, _ []string) error {
			dev, done, err := openDevice()
			if err != nil {
				return err
			}
			defer done()
			// Initialization wakes the chip; an identity read proves it.
			jid, err := dev.JEDECID()
			if err != nil {
				return err
			}
			fmt.Printf("awake: %v\n", jid)
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "spinor:", err)
		os.Exit(1)
	}
}
