// Package events defines the append-only lifecycle event log the engine
// emits during order submission and cancellation.
package events

import (
	"fmt"

	"matchvenue/internal/scalar"
)

// Kind identifies which of the six lifecycle event variants an Event is.
type Kind uint8

const (
	OrderReceived Kind = iota + 1
	OrderAddedToOrderbook
	OrderPartiallyFilled
	OrderCompleted
	OrderReceivedCompletedBeforeEnterInOrderbook
	OrderRemovedFromOrderbook
)

func (k Kind) String() string {
	switch k {
	case OrderReceived:
		return "OrderReceived"
	case OrderAddedToOrderbook:
		return "OrderAddedToOrderbook"
	case OrderPartiallyFilled:
		return "OrderPartiallyFilled"
	case OrderCompleted:
		return "OrderCompleted"
	case OrderReceivedCompletedBeforeEnterInOrderbook:
		return "OrderReceivedCompletedBeforeEnterInOrderbook"
	case OrderRemovedFromOrderbook:
		return "OrderRemovedFromOrderbook"
	default:
		return "Unknown"
	}
}

// Event is one entry in the engine's lifecycle log. PreviousRemaining and
// CurrentRemaining are only meaningful for OrderPartiallyFilled.
type Event struct {
	Kind              Kind
	OrderID           scalar.OrderId
	PreviousRemaining scalar.Amount
	CurrentRemaining  scalar.Amount
}

func (e Event) String() string {
	if e.Kind == OrderPartiallyFilled {
		return fmt.Sprintf("%s{id=%s previous=%s current=%s}",
			e.Kind, e.OrderID, e.PreviousRemaining, e.CurrentRemaining)
	}
	return fmt.Sprintf("%s{id=%s}", e.Kind, e.OrderID)
}

// Log is an append-only sequence of events. Events for a single engine
// operation appear contiguously and in the order the operation produced
// them; the engine's single-threaded, serial processing model (see
// internal/dispatch) is what guarantees no other operation interleaves.
type Log struct {
	entries []Event
}

// NewLog returns an empty event log.
func NewLog() *Log {
	return &Log{}
}

func (l *Log) append(e Event) {
	l.entries = append(l.entries, e)
}

// Received records acceptance of a new submission.
func (l *Log) Received(id scalar.OrderId) {
	l.append(Event{Kind: OrderReceived, OrderID: id})
}

// AddedToOrderbook records a still-live order entering the book.
func (l *Log) AddedToOrderbook(id scalar.OrderId) {
	l.append(Event{Kind: OrderAddedToOrderbook, OrderID: id})
}

// PartiallyFilled records a fill that left the order with remaining > 0.
func (l *Log) PartiallyFilled(id scalar.OrderId, previous, current scalar.Amount) {
	l.append(Event{Kind: OrderPartiallyFilled, OrderID: id, PreviousRemaining: previous, CurrentRemaining: current})
}

// Completed records an order reaching remaining == 0.
func (l *Log) Completed(id scalar.OrderId) {
	l.append(Event{Kind: OrderCompleted, OrderID: id})
}

// ReceivedCompletedBeforeEnterInOrderbook records an incoming order that
// fully matched before it could ever rest.
func (l *Log) ReceivedCompletedBeforeEnterInOrderbook(id scalar.OrderId) {
	l.append(Event{Kind: OrderReceivedCompletedBeforeEnterInOrderbook, OrderID: id})
}

// RemovedFromOrderbook records an order leaving the book, whether by full
// match or cancellation.
func (l *Log) RemovedFromOrderbook(id scalar.OrderId) {
	l.append(Event{Kind: OrderRemovedFromOrderbook, OrderID: id})
}

// Drain returns every event accumulated so far and clears the log.
func (l *Log) Drain() []Event {
	out := l.entries
	l.entries = nil
	return out
}

// Len reports how many undrained events are pending.
func (l *Log) Len() int {
	return len(l.entries)
}
