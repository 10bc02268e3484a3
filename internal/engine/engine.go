// Package engine implements the single-venue matching core: the order
// index, the matching loop that drives incoming orders against the
// resting book, and cancellation. It holds the only mutex in the system —
// per spec.md §5, concurrent submissions must never interleave their
// mutations of the book or the index.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"matchvenue/internal/book"
	"matchvenue/internal/clock"
	"matchvenue/internal/events"
	"matchvenue/internal/order"
	"matchvenue/internal/scalar"
)

// MetricsRecorder is the optional telemetry sink an Engine reports into.
// It is satisfied by internal/metrics.Collector; engines built without one
// (nil) simply skip instrumentation.
type MetricsRecorder interface {
	IncReceived()
	IncTradesExecuted(n int)
	IncCancelled()
	SetDepth(side order.Side, amount scalar.Amount)
	ObserveSubmitLatency(seconds float64)
}

// Engine owns the order index and the orderbook for a single instrument.
// It is the only component permitted to mutate either.
type Engine struct {
	mu sync.Mutex

	orders map[scalar.OrderId]*order.Order
	book   *book.Orderbook
	log    *events.Log

	clock   clock.Clock
	logger  zerolog.Logger
	metrics MetricsRecorder
}

// New returns an empty Engine. capacity hints the order index's initial
// size; metrics may be nil.
func New(capacity int, clk clock.Clock, logger zerolog.Logger, metrics MetricsRecorder) *Engine {
	return &Engine{
		orders:  make(map[scalar.OrderId]*order.Order, capacity),
		book:    book.New(),
		log:     events.NewLog(),
		clock:   clk,
		logger:  logger,
		metrics: metrics,
	}
}

func (e *Engine) fatal(format string, args ...any) {
	reason := fmt.Sprintf(format, args...)
	e.logger.Fatal().Str("reason", reason).Msg("engine invariant violated")
	panic(&FatalError{Reason: reason})
}

func (e *Engine) reportDepth() {
	if e.metrics == nil {
		return
	}
	e.metrics.SetDepth(order.Ask, e.book.Depth(order.Ask))
	e.metrics.SetDepth(order.Bid, e.book.Depth(order.Bid))
}

// TryInsert accepts a freshly constructed order (a fresh, unique id;
// remaining == amount; CurrentKind == Limit) and drives it through the
// matching loop described in spec.md §4.4: pop the best opposing price,
// trade against it while the two cross, and rest whatever remains.
//
// TryInsert never returns a recoverable error for book-state reasons —
// only for malformed input (ErrInvalidOrder), a reused id (ErrDuplicateId)
// or an order kind this revision doesn't match (ErrUnsupportedKind). A
// violated internal invariant aborts the engine rather than returning an
// error, per spec.md §7.
func (e *Engine) TryInsert(o *order.Order) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.ObserveSubmitLatency(time.Since(start).Seconds())
		}
	}()

	if _, exists := e.orders[o.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateId, o.ID)
	}
	if err := o.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	if o.CurrentKind != order.Limit {
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, o.CurrentKind)
	}

	o.CreatedAt = e.clock()
	e.orders[o.ID] = o
	e.log.Received(o.ID)
	if e.metrics != nil {
		e.metrics.IncReceived()
	}

	tradesExecuted := 0

matchLoop:
	for {
		handle, price, ok := e.book.PopBestOpposing(o.Side)
		if !ok {
			break
		}

		resting, found := e.orders[handle.ID]
		if !found {
			e.fatal("resting handle %s popped from book but absent from order index", handle.ID)
		}

		if !o.MatchesWith(resting) {
			e.book.ReinsertAtHead(handle, resting.Side, price)
			break
		}

		beforeIncoming := o.Remaining
		beforeResting := resting.Remaining

		trade := o.Trade(resting, e.clock())
		if trade == nil {
			e.fatal("MatchesWith true but Trade declined for incoming=%s resting=%s", o.ID, resting.ID)
		}
		tradesExecuted++

		switch {
		case o.Status == order.Partial && resting.Status == order.Completed:
			e.log.PartiallyFilled(o.ID, beforeIncoming, o.Remaining)
			e.log.Completed(resting.ID)
			e.log.RemovedFromOrderbook(resting.ID)
			delete(e.orders, resting.ID)
			continue matchLoop

		case o.Status == order.Completed && resting.Status == order.Partial:
			e.log.PartiallyFilled(resting.ID, beforeResting, resting.Remaining)
			e.book.ReinsertAtHead(book.Handle{ID: resting.ID, Remaining: resting.Remaining}, resting.Side, price)
			e.log.Completed(o.ID)
			break matchLoop

		case o.Status == order.Completed && resting.Status == order.Completed:
			e.log.Completed(resting.ID)
			e.log.RemovedFromOrderbook(resting.ID)
			delete(e.orders, resting.ID)
			e.log.Completed(o.ID)
			break matchLoop

		default:
			e.fatal("unreachable post-trade status pair (incoming=%s, resting=%s)", o.Status, resting.Status)
		}
	}

	if o.Status != order.Completed {
		e.log.AddedToOrderbook(o.ID)
		e.book.Insert(book.Handle{ID: o.ID, Remaining: o.Remaining}, o.Side, o.LimitPrice)
	} else {
		e.log.ReceivedCompletedBeforeEnterInOrderbook(o.ID)
		delete(e.orders, o.ID)
	}

	if e.metrics != nil {
		e.metrics.IncTradesExecuted(tradesExecuted)
	}
	e.reportDepth()

	return nil
}

// Cancel removes a live order from both the book and the index. It is
// idempotent: cancelling an id that is unknown (never submitted, already
// cancelled, or already fully matched) returns ErrNotFound.
func (e *Engine) Cancel(id scalar.OrderId) (*order.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, found := e.orders[id]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	e.book.Remove(o.ID, o.Side, o.LimitPrice)
	o.Cancel()
	delete(e.orders, o.ID)
	e.log.RemovedFromOrderbook(o.ID)

	if e.metrics != nil {
		e.metrics.IncCancelled()
	}
	e.reportDepth()

	return o, nil
}

// Get looks up an order by id. It returns false for any id the index does
// not currently hold — including ids that were fully matched or cancelled,
// both of which remove the order from the index (spec.md §3).
func (e *Engine) Get(id scalar.OrderId) (*order.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, found := e.orders[id]
	return o, found
}

// Depth reports the aggregate resting quantity on side.
func (e *Engine) Depth(side order.Side) scalar.Amount {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.book.Depth(side)
}

// Levels reports up to limit resting price levels on side, best price
// first. A non-positive limit returns every level.
func (e *Engine) Levels(side order.Side, limit int) []book.LevelSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.book.Levels(side, limit)
}

// DrainEvents returns every lifecycle event accumulated since the last
// drain, then clears the log.
func (e *Engine) DrainEvents() []events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.log.Drain()
}
