package sram

import "fmt"

// Command bytes understood by every chip of the family.
const (
	CmdWriteModeRegister = 0x01
	CmdWriteData         = 0x02
	CmdReadData          = 0x03
	CmdReadModeRegister  = 0x05
)

// Mode register values. The two most significant bits select the operating
// mode, the remaining bits are reserved.
const (
	ModeByte       = 0x00
	ModePage       = 0x80
	ModeSequential = 0xc0
)

// PageSize is the length of one page in page mode.
const PageSize = 32

// readFiller is clocked out while the chip drives data onto the bus.
const readFiller = 0x00

// Transport is the serial bus access the driver needs: chip select control
// and a synchronous full duplex byte exchange. The driver assumes exclusive
// ownership of the bus between Select and Deselect; callers sharing a bus
// across devices have to serialize access themselves.
//
// The chips signal no errors of their own, so any error returned here comes
// from the bus implementation. Implementations without failure reporting
// can always return nil.
type Transport interface {
	// Select drives the chip select line active, starting a transaction.
	Select() error
	// Deselect releases the chip select line, ending the transaction.
	Deselect() error
	// Exchange clocks one byte out while clocking one byte in.
	Exchange(b byte) (byte, error)
}

// transact frames one bus transaction: chip select assertion, the out bytes
// clocked out with their responses discarded, len(in) filler bytes whose
// responses are stored into in, and chip select release. Address and data
// bytes have to travel in one unbroken transaction or the chip's internal
// address counter desynchronizes, so the chip select is released even when
// an exchange fails.
func transact(t Transport, out []byte, in []byte) error {
	if err := t.Select(); err != nil {
		return fmt.Errorf("asserting chip select: %w", err)
	}

	err := clock(t, out, in)

	if derr := t.Deselect(); derr != nil && err == nil {
		err = fmt.Errorf("releasing chip select: %w", derr)
	}
	return err
}

func clock(t Transport, out []byte, in []byte) error {
	for _, b := range out {
		if _, err := t.Exchange(b); err != nil {
			return fmt.Errorf("clocking byte out: %w", err)
		}
	}

	for i := range in {
		b, err := t.Exchange(readFiller)
		if err != nil {
			return fmt.Errorf("clocking byte in: %w", err)
		}
		in[i] = b
	}
	return nil
}
