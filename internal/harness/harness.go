// Package harness runs the driver against a simulated chip loaded from an
// image file, for dumping, filling and round trip verification.
package harness

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cespare/xxhash"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sramgo/internal/options"
	"github.com/retroenv/sramgo/sram"
	"github.com/retroenv/sramgo/sram/simulator"
)

// writeChunkSize is the transaction length used when streaming an image
// onto the chip.
const writeChunkSize = 256

// Run executes the workflow described by the program options: a simulated
// chip is created, the driver detects it, the image (or the fill pattern)
// is written through the driver and the chip contents are read back for
// verification, checksumming and dumping.
func Run(logger *log.Logger, opts options.Program) error {
	image, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("reading image file: %w", err)
	}

	capacity, err := chooseCapacity(opts, len(image))
	if err != nil {
		return err
	}

	chip, err := simulator.New(capacity)
	if err != nil {
		return err
	}

	device, err := sram.New(chip, sram.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("initializing driver: %w", err)
	}

	logger.Info("Chip detected",
		log.Int("capacity", int(device.Size())),
		log.Int("address_bytes", device.AddressBytes()))

	expected := image
	if opts.Fill {
		if err := device.Clear(opts.FillValue); err != nil {
			return fmt.Errorf("filling chip: %w", err)
		}
		logger.Info("Chip filled", log.Uint8("value", opts.FillValue))
		expected = bytes.Repeat([]byte{opts.FillValue}, int(device.Size()))
	} else if err := writeImage(device, image); err != nil {
		return err
	}

	if opts.Verify {
		if err := verifyRoundTrip(logger, device, expected); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("Verification successful")
	}

	contents, err := readAll(device)
	if err != nil {
		return fmt.Errorf("reading chip contents: %w", err)
	}

	logger.Info("Chip contents",
		log.String("xxhash64", fmt.Sprintf("%016x", xxhash.Sum64(contents))))

	if opts.Dump != "" {
		if err := os.WriteFile(opts.Dump, contents, 0644); err != nil {
			return fmt.Errorf("writing dump file: %w", err)
		}
		logger.Info("Dump written", log.String("file", opts.Dump))
	}

	return nil
}

// PrintBanner prints application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("sramgo", log.String("version", buildinfo.Version(version, commit, date)))
}

// chooseCapacity returns the flagged capacity, or the smallest supported
// capacity that fits the image.
func chooseCapacity(opts options.Program, imageSize int) (sram.Capacity, error) {
	if opts.Capacity != 0 {
		capacity := sram.Capacity(opts.Capacity)
		if !capacity.Supported() {
			return 0, fmt.Errorf("%w: %d bytes", sram.ErrUnsupportedCapacity, opts.Capacity)
		}
		return capacity, nil
	}

	for _, capacity := range sram.Capacities() {
		if imageSize <= int(capacity) {
			return capacity, nil
		}
	}
	return 0, fmt.Errorf("%w: image of %d bytes fits no supported chip",
		sram.ErrUnsupportedCapacity, imageSize)
}

// writeImage streams the image onto the chip through the driver, starting
// at address 0.
func writeImage(device *sram.Device, image []byte) error {
	addr := uint32(0)
	for len(image) > 0 {
		chunk := image
		if len(chunk) > writeChunkSize {
			chunk = chunk[:writeChunkSize]
		}

		next, err := device.WriteBytes(addr, chunk)
		if err != nil {
			return fmt.Errorf("writing image at address %#x: %w", addr, err)
		}
		addr = next
		image = image[len(chunk):]
	}
	return nil
}

// readAll reads the full chip contents in one transaction.
func readAll(device *sram.Device) ([]byte, error) {
	contents := make([]byte, device.Size())
	if _, err := device.ReadBytes(0, contents); err != nil {
		return nil, err
	}
	return contents, nil
}

// verifyRoundTrip reads back len(expected) bytes starting at address 0 and
// compares them against expected.
func verifyRoundTrip(logger *log.Logger, device *sram.Device, expected []byte) error {
	got := make([]byte, len(expected))
	if _, err := device.ReadBytes(0, got); err != nil {
		return fmt.Errorf("reading back: %w", err)
	}

	if xxhash.Sum64(got) == xxhash.Sum64(expected) {
		return nil
	}
	return checkBufferEqual(logger, expected, got)
}

// checkBufferEqual logs the first mismatching offsets and returns an error
// summarizing the difference count.
func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
