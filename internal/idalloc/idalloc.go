// Package idalloc supplies the OrderId-allocation collaborator the
// matching core itself deliberately has no opinion about: spec.md flags
// that its source material reused id=1 for every test order and that a
// real allocator must be specified externally.
package idalloc

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/google/uuid"

	"matchvenue/internal/scalar"
)

// Allocator mints fresh, unique OrderIds.
type Allocator interface {
	Next() scalar.OrderId
}

// Sequential is a monotonic atomic counter. It is the default allocator:
// cheap, gapless, and sufficient for a single engine instance.
type Sequential struct {
	counter atomic.Uint64
}

// NewSequential returns a Sequential allocator whose first Next() call
// returns start+1.
func NewSequential(start uint64) *Sequential {
	s := &Sequential{}
	s.counter.Store(start)
	return s
}

// Next returns the next id in the sequence.
func (s *Sequential) Next() scalar.OrderId {
	return scalar.OrderId(s.counter.Add(1))
}

// UUIDBased mints ids from random UUIDs, folded down into a uint64. Useful
// when ids must be unguessable (e.g. assigned before the caller has
// established trust), at the cost of no longer being gapless or ordered.
type UUIDBased struct{}

// NewUUIDBased returns a UUIDBased allocator.
func NewUUIDBased() *UUIDBased {
	return &UUIDBased{}
}

// Next returns a fresh id derived from a random UUID's low 8 bytes.
func (UUIDBased) Next() scalar.OrderId {
	id := uuid.New()
	return scalar.OrderId(binary.BigEndian.Uint64(id[8:16]))
}
