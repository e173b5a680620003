// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/sramgo/internal/options"
	"github.com/retroenv/sramgo/sram"
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	fill := readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := applyFillFlag(&opts, *fill); err != nil {
		return opts, err
	}

	if err := validateCapacity(opts.Capacity); err != nil {
		return opts, err
	}

	opts.Input = args[0]
	return opts, nil
}

// UsageError represents an error that should show usage information.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: sramgo [options] <image file>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order.
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after the image file, please pass the image file as last argument", arg),
			}
		}
	}
	return nil
}

// applyFillFlag turns the -fill flag value into the fill options. A
// negative value means the flag was not given.
func applyFillFlag(opts *options.Program, fill int) error {
	if fill < 0 {
		return nil
	}
	if fill > 0xff {
		return fmt.Errorf("fill value %d does not fit into a byte", fill)
	}

	opts.Fill = true
	opts.FillValue = byte(fill)
	return nil
}

// validateCapacity rejects capacity overrides outside the supported set.
func validateCapacity(capacity uint) error {
	if capacity == 0 {
		return nil
	}

	if !sram.Capacity(capacity).Supported() {
		return fmt.Errorf("unsupported capacity %d, valid values: %s",
			capacity, supportedCapacities())
	}
	return nil
}

func supportedCapacities() string {
	values := make([]string, 0, len(sram.Capacities()))
	for _, capacity := range sram.Capacities() {
		values = append(values, strconv.Itoa(int(capacity)))
	}
	return strings.Join(values, ", ")
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) *int {
	flags.StringVar(&opts.Dump, "o", "", "name of the output dump file, chip contents are not dumped if no name given")
	flags.UintVar(&opts.Capacity, "size", 0, "simulated chip capacity in bytes (default: smallest capacity that fits the image)")
	fill := flags.Int("fill", -1, "overwrite the whole chip with the given byte value instead of the image")
	flags.BoolVar(&opts.Verify, "verify", false, "write the image through the driver, read it back and compare")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	return fill
}
