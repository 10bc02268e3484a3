package idalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequential_MonotonicFromStart(t *testing.T) {
	a := NewSequential(41)
	assert.Equal(t, uint64(42), uint64(a.Next()))
	assert.Equal(t, uint64(43), uint64(a.Next()))
}

func TestUUIDBased_NeverRepeatsAcrossManyCalls(t *testing.T) {
	a := NewUUIDBased()
	seen := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		id := uint64(a.Next())
		assert.False(t, seen[id])
		seen[id] = true
	}
}
