// Package scalar defines the totally-ordered unsigned integer newtypes the
// matching core is built on: order identities, limit prices, and amounts.
package scalar

import "fmt"

// OrderId uniquely identifies an order. It is totally ordered, but that
// ordering is only ever used as an index tiebreaker — never as a
// substitute for price-time priority, which the orderbook derives solely
// from FIFO arrival order within a price level.
type OrderId uint64

func (id OrderId) String() string {
	return fmt.Sprintf("%d", uint64(id))
}

// LimitPrice is the price attached to a limit order.
type LimitPrice uint64

func (p LimitPrice) String() string {
	return fmt.Sprintf("%d", uint64(p))
}

// Amount is a resting or traded quantity. It supports addition and
// subtraction under the invariant that subtraction is only ever performed
// when the left operand dominates the right — the matching rule
// `traded = min(a.Remaining, b.Remaining)` guarantees this at every call
// site. A violation indicates a matching bug, not a user error, so it
// panics rather than saturating or wrapping silently.
type Amount uint64

// IsZero reports whether the amount is exhausted.
func (a Amount) IsZero() bool {
	return a == 0
}

// Add returns a + b. It panics if the sum overflows uint64.
func (a Amount) Add(b Amount) Amount {
	if a+b < a {
		panic(fmt.Sprintf("scalar: amount overflow: %d + %d", a, b))
	}
	return a + b
}

// Sub returns a - b. It panics if b > a: under the matching rule this can
// only happen if the engine computed a trade amount larger than one side's
// remaining quantity, which is a fatal invariant violation.
func (a Amount) Sub(b Amount) Amount {
	if b > a {
		panic(fmt.Sprintf("scalar: amount underflow: %d - %d", a, b))
	}
	return a - b
}

func (a Amount) String() string {
	return fmt.Sprintf("%d", uint64(a))
}
