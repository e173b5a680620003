package sram

// Capacity is the total byte count of a supported chip.
type Capacity uint32

// Supported chip capacities. The family spans 64 Kbit (23x640) up to
// 1 Mbit (23xx1024 and 23LCV1024) parts.
const (
	Capacity64Kbit  Capacity = 8192
	Capacity128Kbit Capacity = 16384
	Capacity256Kbit Capacity = 32768
	Capacity512Kbit Capacity = 65536
	Capacity1Mbit   Capacity = 131072
)

// capacities in ascending order, which is also the probe order of the
// capacity detection.
var capacities = [...]Capacity{
	Capacity64Kbit,
	Capacity128Kbit,
	Capacity256Kbit,
	Capacity512Kbit,
	Capacity1Mbit,
}

// Capacities returns the supported chip capacities in ascending order.
func Capacities() []Capacity {
	result := make([]Capacity, len(capacities))
	copy(result, capacities[:])
	return result
}

// AddressBytes returns the number of bytes an address of the chip occupies
// on the wire. Only the 1 Mbit parts need a third address byte; chips that
// would need more than 3 address bytes do not exist in the family.
func (c Capacity) AddressBytes() int {
	if c == Capacity1Mbit {
		return 3
	}
	return 2
}

// Supported reports whether c is one of the capacities of the family.
func (c Capacity) Supported() bool {
	for _, capacity := range capacities {
		if c == capacity {
			return true
		}
	}
	return false
}
