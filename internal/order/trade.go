package order

import (
	"fmt"

	"matchvenue/internal/scalar"
)

// Trade is an immutable record of one match between a resting maker order
// and an incoming taker order.
type Trade struct {
	MakerID   scalar.OrderId
	TakerID   scalar.OrderId
	Price     scalar.LimitPrice
	Amount    scalar.Amount
	CreatedAt uint64
}

func (t *Trade) String() string {
	return fmt.Sprintf("Trade[maker=%s taker=%s price=%s amount=%s]",
		t.MakerID, t.TakerID, t.Price, t.Amount)
}
