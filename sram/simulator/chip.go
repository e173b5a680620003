// Package simulator models a 23 series serial SRAM chip behind the
// sram.Transport interface, so the driver can be exercised and
// demonstrated without hardware. The model is faithful to the parts of
// the chip the driver depends on: the per capacity address width, address
// masking modulo the capacity, the mode register and the byte, page and
// sequential wrap behaviours.
package simulator

import (
	"errors"
	"fmt"

	"github.com/retroenv/sramgo/sram"
)

// idleByte is returned by Exchange while the chip has nothing to drive
// onto the bus, which idles high.
const idleByte = 0xff

// phase of the transaction decoder.
type phase int

const (
	phaseCommand phase = iota
	phaseAddress
	phaseData
	phaseModeWrite
	phaseModeRead
	phaseIgnore
)

// Chip is a software model of one chip. It powers on in byte mode with
// zeroed contents, like a freshly attached volatile part.
type Chip struct {
	mem       []byte
	mode      byte
	addrBytes int

	selected bool
	phase    phase
	command  byte
	addr     uint32
	addrSeen int
	wrote    bool
}

var _ sram.Transport = (*Chip)(nil)

// New returns a chip of the given capacity.
func New(capacity sram.Capacity) (*Chip, error) {
	if !capacity.Supported() {
		return nil, fmt.Errorf("%w: %d bytes", sram.ErrUnsupportedCapacity, capacity)
	}

	return &Chip{
		mem:       make([]byte, capacity),
		mode:      sram.ModeByte,
		addrBytes: capacity.AddressBytes(),
	}, nil
}

// Select asserts the chip select line, starting a new transaction.
func (c *Chip) Select() error {
	if c.selected {
		return errors.New("chip already selected")
	}
	c.selected = true
	c.phase = phaseCommand
	return nil
}

// Deselect releases the chip select line, ending the transaction.
func (c *Chip) Deselect() error {
	if !c.selected {
		return errors.New("chip not selected")
	}
	c.selected = false
	return nil
}

// Exchange clocks one byte into the chip and returns the byte the chip
// clocks out.
func (c *Chip) Exchange(b byte) (byte, error) {
	if !c.selected {
		return 0, errors.New("exchange without chip select")
	}

	switch c.phase {
	case phaseCommand:
		c.startCommand(b)
		return idleByte, nil

	case phaseModeWrite:
		c.mode = b & 0xc0
		c.phase = phaseIgnore
		return idleByte, nil

	case phaseModeRead:
		c.phase = phaseIgnore
		return c.mode, nil

	case phaseAddress:
		c.addr = c.addr<<8 | uint32(b)
		c.addrSeen++
		if c.addrSeen == c.addrBytes {
			c.addr %= uint32(len(c.mem))
			c.phase = phaseData
		}
		return idleByte, nil

	case phaseData:
		return c.data(b), nil

	default:
		return idleByte, nil
	}
}

func (c *Chip) startCommand(b byte) {
	c.command = b
	c.addr = 0
	c.addrSeen = 0
	c.wrote = false

	switch b {
	case sram.CmdWriteModeRegister:
		c.phase = phaseModeWrite
	case sram.CmdReadModeRegister:
		c.phase = phaseModeRead
	case sram.CmdReadData, sram.CmdWriteData:
		c.phase = phaseAddress
	default:
		c.phase = phaseIgnore
	}
}

// data handles one exchange of the data phase of a read or write command.
func (c *Chip) data(b byte) byte {
	out := byte(idleByte)

	switch c.command {
	case sram.CmdReadData:
		out = c.mem[c.addr]

	case sram.CmdWriteData:
		if c.mode == sram.ModeByte && c.wrote {
			// byte mode transfers a single byte, extra bytes are dropped
			return out
		}
		c.mem[c.addr] = b
		c.wrote = true
	}

	c.advance()
	return out
}

// advance moves the internal address counter according to the active mode:
// byte mode holds the address, page mode wraps inside the 32 byte page and
// sequential mode wraps at the capacity boundary.
func (c *Chip) advance() {
	switch c.mode {
	case sram.ModePage:
		page := c.addr &^ uint32(sram.PageSize-1)
		c.addr = page | ((c.addr + 1) & uint32(sram.PageSize-1))

	case sram.ModeSequential:
		c.addr = (c.addr + 1) % uint32(len(c.mem))
	}
}

// Size returns the chip capacity in bytes.
func (c *Chip) Size() uint32 {
	return uint32(len(c.mem))
}

// Mode returns the current mode register value.
func (c *Chip) Mode() byte {
	return c.mode
}

// Peek returns the stored byte at addr without a bus transaction.
func (c *Chip) Peek(addr uint32) byte {
	return c.mem[addr%uint32(len(c.mem))]
}

// Poke stores a byte at addr without a bus transaction.
func (c *Chip) Poke(addr uint32, value byte) {
	c.mem[addr%uint32(len(c.mem))] = value
}

// Load copies data into the chip starting at address 0, without a bus
// transaction.
func (c *Chip) Load(data []byte) error {
	if len(data) > len(c.mem) {
		return fmt.Errorf("image of %d bytes exceeds capacity %d", len(data), len(c.mem))
	}
	copy(c.mem, data)
	return nil
}

// Contents returns a copy of the full chip contents.
func (c *Chip) Contents() []byte {
	return append([]byte(nil), c.mem...)
}
