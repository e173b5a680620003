package sram

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// Markers written during capacity probing. They differ from each other,
// from the bus idle value 0xff and from a cleared cell value 0x00, so
// uninitialized memory can not fake a wrap.
const (
	probeMarker = 0xa5
	wrapMarker  = 0x5a
)

// detect determines the capacity of the attached chip. The chips carry no
// readable device id, so detection writes one marker byte to address 0 and
// a different one to the first address past the last offset of a candidate
// capacity: on a chip of exactly that capacity the second write wraps
// around onto address 0, on a larger chip it lands elsewhere. Candidates
// are probed in ascending order, each with its own address width.
//
// Chips larger than Capacity1Mbit can not be told apart from a 1 Mbit part
// by this scheme and are reported as Capacity1Mbit.
//
// Probing overwrites two bytes of chip content per candidate.
func detect(t Transport, logger *log.Logger) (deviceState, error) {
	var state deviceState

	for _, capacity := range capacities {
		state = deviceState{capacity: capacity, addrBytes: capacity.AddressBytes()}

		wrapped, err := probe(t, state)
		if err != nil {
			return deviceState{}, fmt.Errorf("probing capacity %d: %w", capacity, err)
		}

		if wrapped {
			logger.Debug("Capacity detected",
				log.Int("bytes", int(capacity)),
				log.Int("address_bytes", state.addrBytes))
			return state, nil
		}
	}

	logger.Warn("No address wrap observed during probing, assuming largest supported capacity",
		log.Int("bytes", int(state.capacity)))
	return state, nil
}

// probe reports whether writing one byte past the last offset of the
// candidate capacity wraps around onto address 0.
func probe(t Transport, state deviceState) (bool, error) {
	if _, err := writeTo(t, state, 0, []byte{probeMarker}); err != nil {
		return false, err
	}
	if _, err := writeTo(t, state, uint32(state.capacity), []byte{wrapMarker}); err != nil {
		return false, err
	}

	buf := make([]byte, 1)
	if _, err := readFrom(t, state, 0, buf); err != nil {
		return false, err
	}
	return buf[0] == wrapMarker, nil
}
