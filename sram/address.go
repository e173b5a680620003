package sram

// deviceState is the resolved configuration of an attached chip. It is
// created once by detection, never changes afterwards and is threaded
// through every operation, so multiple devices on different chip select
// lines coexist without interference.
type deviceState struct {
	capacity  Capacity
	addrBytes int
}

// encodeAddress appends the wire format of addr to buf: most significant
// byte first, with the highest order byte (bits 16-23) present only on
// chips using 3 address bytes. Bits beyond the address width are dropped.
func (s deviceState) encodeAddress(buf []byte, addr uint32) []byte {
	if s.addrBytes == 3 {
		buf = append(buf, byte(addr>>16))
	}
	return append(buf, byte(addr>>8), byte(addr))
}

// advance returns the address following a transfer of n bytes starting at
// addr. Transfers crossing the last valid address continue from address 0,
// matching the sequential mode of the chip, so the result always wraps
// modulo the capacity no matter how large n is.
func (s deviceState) advance(addr, n uint32) uint32 {
	return (addr + n) % uint32(s.capacity)
}
