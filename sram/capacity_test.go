package sram

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestCapacitiesAscending(t *testing.T) {
	caps := Capacities()
	assert.Equal(t, 5, len(caps))

	for i := 1; i < len(caps); i++ {
		assert.True(t, caps[i] > caps[i-1])
	}
}

func TestAddressBytes(t *testing.T) {
	for _, capacity := range Capacities() {
		want := 2
		if capacity == Capacity1Mbit {
			want = 3
		}
		assert.Equal(t, want, capacity.AddressBytes())
	}
}

func TestSupported(t *testing.T) {
	for _, capacity := range Capacities() {
		assert.True(t, capacity.Supported())
	}

	assert.True(t, !Capacity(0).Supported())
	assert.True(t, !Capacity(12345).Supported())
	assert.True(t, !Capacity(262144).Supported())
}
