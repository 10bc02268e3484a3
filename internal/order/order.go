// Package order defines the mutable order ledger entry, the crossing
// predicate, and the trade function at the heart of the matching engine.
package order

import (
	"fmt"

	"matchvenue/internal/scalar"
)

// Side is which side of the book an order rests on.
type Side uint8

const (
	Ask Side = iota + 1
	Bid
)

// Opposite returns the other side: opposite(Ask) = Bid, opposite(Bid) = Ask.
func (s Side) Opposite() Side {
	switch s {
	case Ask:
		return Bid
	case Bid:
		return Ask
	default:
		panic(fmt.Sprintf("order: invalid side %d", s))
	}
}

func (s Side) String() string {
	switch s {
	case Ask:
		return "ASK"
	case Bid:
		return "BID"
	default:
		return "UNKNOWN"
	}
}

// Kind is the order type as submitted. Only Limit participates in matching
// and resting in this revision; the other tags are carried end-to-end but
// rejected by the matching loop (spec design note: a follow-up must define
// market-order sweep and trigger-activation semantics).
type Kind uint8

const (
	Limit Kind = iota + 1
	Market
	Stop
	Trailing
)

func (k Kind) String() string {
	switch k {
	case Limit:
		return "LIMIT"
	case Market:
		return "MARKET"
	case Stop:
		return "STOP"
	case Trailing:
		return "TRAILING"
	default:
		return "UNKNOWN"
	}
}

// Status is the order's position in its lifecycle state machine.
type Status uint8

const (
	// Open: accepted, no fills yet, remaining == amount.
	Open Status = iota + 1
	// Partial: some fills occurred, remaining > 0.
	Partial
	// Completed: remaining == 0, fully matched.
	Completed
	// Closed: cancelled after at least one fill (0 < remaining < amount).
	Closed
	// Cancelled: cancelled with no fills (remaining == amount at cancel).
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Open:
		return "OPEN"
	case Partial:
		return "PARTIAL"
	case Completed:
		return "COMPLETED"
	case Closed:
		return "CLOSED"
	case Cancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Order is the mutable entity owned exclusively by the engine's order
// index. The orderbook only ever holds a non-owning handle (the OrderId)
// into that index — never a pointer or reference of its own.
type Order struct {
	ID          scalar.OrderId
	InitialKind Kind
	CurrentKind Kind
	Side        Side
	Amount      scalar.Amount
	Remaining   scalar.Amount
	LimitPrice  scalar.LimitPrice
	Status      Status
	// CreatedAt is the injected clock's reading at acceptance, in
	// nanoseconds. It is informational only: time priority is achieved
	// solely by arrival order within the orderbook's FIFO queues, never by
	// comparing this field.
	CreatedAt uint64
}

// New constructs an Order in the Open state with remaining == amount.
func New(id scalar.OrderId, kind Kind, side Side, amount scalar.Amount, limitPrice scalar.LimitPrice, createdAt uint64) *Order {
	return &Order{
		ID:          id,
		InitialKind: kind,
		CurrentKind: kind,
		Side:        side,
		Amount:      amount,
		Remaining:   amount,
		LimitPrice:  limitPrice,
		Status:      Open,
		CreatedAt:   createdAt,
	}
}

// Validate reports whether the order is well-formed for submission:
// a positive amount, and no fills recorded yet.
func (o *Order) Validate() error {
	if o.Amount == 0 {
		return fmt.Errorf("order: amount must be positive")
	}
	if o.Remaining != o.Amount {
		return fmt.Errorf("order: remaining must equal amount on submission")
	}
	return nil
}

// exchangeable is the crossing contract an Order satisfies. The original
// source modeled this as a trait with phantom AskOrder/BidOrder wrappers
// that merely re-dispatched to the same Order logic; per the design note
// those wrappers duplicate behavior a single runtime side tag already
// expresses, so only the one concrete implementation exists here.
type exchangeable interface {
	MatchesWith(other *Order) bool
	Trade(other *Order, now uint64) *Trade
}

var _ exchangeable = (*Order)(nil)

// MatchesWith reports whether self (an incoming or resting order) crosses
// with other. Same-side pairs never cross.
func (o *Order) MatchesWith(other *Order) bool {
	switch {
	case o.Side == Ask && other.Side == Bid:
		return o.LimitPrice <= other.LimitPrice
	case o.Side == Bid && other.Side == Ask:
		return o.LimitPrice >= other.LimitPrice
	default:
		return false
	}
}

// Trade attempts to match self against other, mutating both orders'
// remaining quantity and status in place. It returns nil if the two do not
// cross. The awarded price is always the resting (maker) price, giving
// price improvement to the taker; the engine's calling convention is
// incoming.Trade(resting), so the maker/taker labels on the returned Trade
// are the reverse of the receiver/argument roles — see the comment on the
// returned value below.
func (o *Order) Trade(other *Order, now uint64) *Trade {
	if !o.MatchesWith(other) {
		return nil
	}

	traded := min(o.Remaining, other.Remaining)

	var price scalar.LimitPrice
	switch o.Side {
	case Ask:
		price = max(o.LimitPrice, other.LimitPrice)
	case Bid:
		price = min(o.LimitPrice, other.LimitPrice)
	default:
		panic(fmt.Sprintf("order: invalid side %d", o.Side))
	}

	o.Remaining = o.Remaining.Sub(traded)
	o.Status = statusAfterFill(o.Remaining)

	other.Remaining = other.Remaining.Sub(traded)
	other.Status = statusAfterFill(other.Remaining)

	// The engine always calls incoming.Trade(resting): self is the taker,
	// other is the maker. Trade records maker/taker accordingly, the
	// inverse of a naive self-is-maker labelling.
	return &Trade{
		MakerID:   other.ID,
		TakerID:   o.ID,
		Price:     price,
		Amount:    traded,
		CreatedAt: now,
	}
}

func statusAfterFill(remaining scalar.Amount) Status {
	if remaining.IsZero() {
		return Completed
	}
	return Partial
}

// Cancel transitions the order out of the book: Cancelled if no fills were
// ever recorded, Closed if it had partially filled.
func (o *Order) Cancel() {
	if o.Remaining == o.Amount {
		o.Status = Cancelled
	} else {
		o.Status = Closed
	}
}

func (o *Order) String() string {
	return fmt.Sprintf("Order[id=%s side=%s kind=%s price=%s amount=%s remaining=%s status=%s]",
		o.ID, o.Side, o.CurrentKind, o.LimitPrice, o.Amount, o.Remaining, o.Status)
}
