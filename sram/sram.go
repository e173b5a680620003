// Package sram implements a driver for the Microchip 23 series of serial
// SRAM and NVSRAM chips (23x640, 23x256, 23x512, 23xx1024 and the 23LCV
// variants). The chips differ only in total capacity and in whether an
// address occupies 2 or 3 bytes on the wire; the driver probes the
// attached chip once at construction time and presents a uniform byte
// addressable interface afterwards.
//
// The chips provide no error signaling of their own: a failed transaction
// against real silicon surfaces as wrong data, not as an error. The only
// failures the driver can report are those raised by the Transport and a
// mode register that does not read back, which usually means no chip is
// attached at all.
package sram

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// ErrModeRegister is returned when the mode register does not read back
// the value written to it.
var ErrModeRegister = errors.New("mode register readback mismatch")

// ErrUnsupportedCapacity is returned for capacities outside the supported
// set. Chips larger than 1 Mbit are also undetectable by probing and are
// misreported as 1 Mbit parts.
var ErrUnsupportedCapacity = errors.New("unsupported capacity")

// Options configures a Device.
type Options struct {
	// Logger receives detection progress, nil disables logging.
	Logger *log.Logger
}

// Device drives one chip on the bus. Every operation is a blocking,
// single transaction bus access; the device owns the transport exclusively
// while an operation runs and is not safe for concurrent use.
type Device struct {
	transport Transport
	logger    *log.Logger
	state     deviceState
}

// New switches the attached chip into sequential mode and determines its
// capacity. Capacity detection overwrites chip content at two offsets per
// probed capacity, so callers must not rely on pre-existing data at those
// locations surviving construction.
func New(transport Transport, opts Options) (*Device, error) {
	logger := opts.Logger
	if logger == nil {
		cfg := log.DefaultConfig()
		cfg.Level = log.ErrorLevel
		logger = log.NewWithConfig(cfg)
	}

	if err := programSequentialMode(transport); err != nil {
		return nil, err
	}

	state, err := detect(transport, logger)
	if err != nil {
		return nil, fmt.Errorf("detecting capacity: %w", err)
	}

	return &Device{
		transport: transport,
		logger:    logger,
		state:     state,
	}, nil
}

// programSequentialMode writes the mode register and reads it back. The
// chips offer no other liveness check, so a readback mismatch is the
// closest the family gets to reporting an absent chip.
func programSequentialMode(t Transport) error {
	if err := transact(t, []byte{CmdWriteModeRegister, ModeSequential}, nil); err != nil {
		return fmt.Errorf("writing mode register: %w", err)
	}

	buf := make([]byte, 1)
	if err := transact(t, []byte{CmdReadModeRegister}, buf); err != nil {
		return fmt.Errorf("reading mode register: %w", err)
	}
	if buf[0] != ModeSequential {
		return fmt.Errorf("%w: got %#02x, want %#02x", ErrModeRegister, buf[0], ModeSequential)
	}
	return nil
}

// Size returns the detected capacity in bytes.
func (d *Device) Size() uint32 {
	return uint32(d.state.capacity)
}

// AddressBytes returns the number of bytes an address of the detected chip
// occupies on the wire.
func (d *Device) AddressBytes() int {
	return d.state.addrBytes
}

// ReadBytes fills buf from the chip starting at addr and returns the
// address following the transfer. Reads crossing the last valid address
// continue from address 0 within the same transaction.
func (d *Device) ReadBytes(addr uint32, buf []byte) (uint32, error) {
	return readFrom(d.transport, d.state, addr, buf)
}

// WriteBytes stores data on the chip starting at addr and returns the
// address following the transfer. Writes crossing the last valid address
// continue from address 0 within the same transaction.
func (d *Device) WriteBytes(addr uint32, data []byte) (uint32, error) {
	return writeTo(d.transport, d.state, addr, data)
}

// Clear overwrites the entire chip with value.
func (d *Device) Clear(value byte) error {
	buf := make([]byte, PageSize)
	for i := range buf {
		buf[i] = value
	}

	// every supported capacity is a multiple of the chunk length
	addr := uint32(0)
	for i := uint32(0); i < d.Size()/PageSize; i++ {
		next, err := d.WriteBytes(addr, buf)
		if err != nil {
			return fmt.Errorf("clearing at address %#x: %w", addr, err)
		}
		addr = next
	}
	return nil
}

// Get reads a value of type T stored at addr and returns it together with
// the address following it, wrapped modulo the capacity. T can be any
// fixed size type: integers, floats, and arrays and structs of them.
func Get[T any](d *Device, addr uint32) (T, uint32, error) {
	var value T
	size := binary.Size(value)
	if size <= 0 {
		return value, addr, fmt.Errorf("type %T has no fixed byte size", value)
	}

	buf := make([]byte, size)
	next, err := d.ReadBytes(addr, buf)
	if err != nil {
		return value, addr, err
	}

	if err := binary.Read(bytes.NewReader(buf), binary.BigEndian, &value); err != nil {
		return value, addr, fmt.Errorf("decoding %T: %w", value, err)
	}
	return value, next, nil
}

// Put stores value at addr and returns the address following it. Writes
// crossing the last valid address wrap around to address 0.
func Put[T any](d *Device, addr uint32, value T) (uint32, error) {
	buf, err := marshal(value)
	if err != nil {
		return addr, err
	}
	return d.WriteBytes(addr, buf)
}

// Fill stores value repeatedly starting at addr, each write picking up at
// the address the previous one returned, until no further copy fits
// entirely below the top of the address space. Unlike Put it never wraps
// around to address 0, so filling always terminates.
func Fill[T any](d *Device, addr uint32, value T) error {
	buf, err := marshal(value)
	if err != nil {
		return err
	}

	size := uint32(len(buf))
	for addr+size <= d.Size() {
		next, err := d.WriteBytes(addr, buf)
		if err != nil {
			return err
		}
		if next <= addr {
			// the copy ended flush with the top and wrapped
			return nil
		}
		addr = next
	}
	return nil
}

// marshal serializes value into its big endian wire representation.
func marshal[T any](value T) ([]byte, error) {
	if size := binary.Size(value); size <= 0 {
		return nil, fmt.Errorf("type %T has no fixed byte size", value)
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, value); err != nil {
		return nil, fmt.Errorf("encoding %T: %w", value, err)
	}
	return buf.Bytes(), nil
}

// readFrom runs one read transaction: read command, encoded address, then
// len(buf) data bytes clocked in.
func readFrom(t Transport, state deviceState, addr uint32, buf []byte) (uint32, error) {
	out := make([]byte, 0, 4)
	out = append(out, CmdReadData)
	out = state.encodeAddress(out, addr)

	if err := transact(t, out, buf); err != nil {
		return addr, fmt.Errorf("reading %d bytes at address %#x: %w", len(buf), addr, err)
	}
	return state.advance(addr, uint32(len(buf))), nil
}

// writeTo runs one write transaction: write command, encoded address, then
// the data bytes clocked out.
func writeTo(t Transport, state deviceState, addr uint32, data []byte) (uint32, error) {
	out := make([]byte, 0, 4+len(data))
	out = append(out, CmdWriteData)
	out = state.encodeAddress(out, addr)
	out = append(out, data...)

	if err := transact(t, out, nil); err != nil {
		return addr, fmt.Errorf("writing %d bytes at address %#x: %w", len(data), addr, err)
	}
	return state.advance(addr, uint32(len(data))), nil
}
