package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchvenue/internal/clock"
	"matchvenue/internal/events"
	"matchvenue/internal/order"
	"matchvenue/internal/scalar"
)

func newTestEngine() *Engine {
	return New(16, clock.Fixed(1000), zerolog.Nop(), nil)
}

func newLimit(id uint64, side order.Side, price, amount uint64) *order.Order {
	return order.New(scalar.OrderId(id), order.Limit, side, scalar.Amount(amount), scalar.LimitPrice(price), 0)
}

func kindsOf(evs []events.Event) []events.Kind {
	out := make([]events.Kind, len(evs))
	for i, e := range evs {
		out[i] = e.Kind
	}
	return out
}

// S1 — perfect match at equal prices.
func TestTryInsert_PerfectMatch(t *testing.T) {
	e := newTestEngine()

	ask := newLimit(1, order.Ask, 500, 100)
	require.NoError(t, e.TryInsert(ask))

	bid := newLimit(2, order.Bid, 500, 100)
	require.NoError(t, e.TryInsert(bid))

	assert.Equal(t, order.Completed, ask.Status)
	assert.Equal(t, order.Completed, bid.Status)
	assert.Equal(t, scalar.Amount(0), e.Depth(order.Ask))
	assert.Equal(t, scalar.Amount(0), e.Depth(order.Bid))

	evs := e.DrainEvents()
	assert.Equal(t, []events.Kind{
		events.OrderReceived,
		events.OrderAddedToOrderbook,
		events.OrderReceived,
		events.OrderCompleted,
		events.OrderRemovedFromOrderbook,
		events.OrderCompleted,
		events.OrderReceivedCompletedBeforeEnterInOrderbook,
	}, kindsOf(evs))
}

// S2 — taker price improvement: a bid priced above the resting ask crosses it
// and both complete. The execution price itself (the maker's) is checked in
// internal/order's TestTrade_FullMatchAtMakerPrice.
func TestTryInsert_TakerPriceImprovement(t *testing.T) {
	e := newTestEngine()

	ask := newLimit(1, order.Ask, 400, 10)
	require.NoError(t, e.TryInsert(ask))

	bid := newLimit(2, order.Bid, 500, 10)
	require.NoError(t, e.TryInsert(bid))

	assert.Equal(t, order.Completed, ask.Status)
	assert.Equal(t, order.Completed, bid.Status)
}

// S3 — same-side orders never cross; both rest at their own levels.
func TestTryInsert_SameSideNoCross(t *testing.T) {
	e := newTestEngine()

	ask1 := newLimit(1, order.Ask, 500, 10)
	ask2 := newLimit(2, order.Ask, 400, 10)
	require.NoError(t, e.TryInsert(ask1))
	require.NoError(t, e.TryInsert(ask2))

	assert.Equal(t, order.Open, ask1.Status)
	assert.Equal(t, order.Open, ask2.Status)

	best := e.Levels(order.Ask, 0)
	require.Len(t, best, 2)
	assert.Equal(t, scalar.LimitPrice(400), best[0].Price)
	assert.Equal(t, scalar.LimitPrice(500), best[1].Price)
}

// S4 — a taker partially fills against two resting orders at one price level, then rests the remainder.
func TestTryInsert_PartialFillLeavesBookCleared(t *testing.T) {
	e := newTestEngine()

	ask1 := newLimit(1, order.Ask, 500, 50)
	ask2 := newLimit(2, order.Ask, 500, 50)
	require.NoError(t, e.TryInsert(ask1))
	require.NoError(t, e.TryInsert(ask2))

	bid := newLimit(3, order.Bid, 500, 200)
	require.NoError(t, e.TryInsert(bid))

	assert.Equal(t, order.Completed, ask1.Status)
	assert.Equal(t, order.Completed, ask2.Status)
	assert.Equal(t, order.Partial, bid.Status)
	assert.Equal(t, scalar.Amount(100), bid.Remaining)

	assert.Equal(t, scalar.Amount(0), e.Depth(order.Ask))
	assert.Equal(t, scalar.Amount(100), e.Depth(order.Bid))
}

// S5 — cancelling a partially filled order closes it and clears the book.
func TestCancel_PartiallyFilledOrder(t *testing.T) {
	e := newTestEngine()

	ask1 := newLimit(1, order.Ask, 500, 50)
	ask2 := newLimit(2, order.Ask, 500, 50)
	require.NoError(t, e.TryInsert(ask1))
	require.NoError(t, e.TryInsert(ask2))

	bid := newLimit(3, order.Bid, 500, 200)
	require.NoError(t, e.TryInsert(bid))

	cancelled, err := e.Cancel(3)
	require.NoError(t, err)
	assert.Equal(t, order.Closed, cancelled.Status)
	assert.Equal(t, scalar.Amount(0), e.Depth(order.Bid))

	_, found := e.Get(3)
	assert.False(t, found)
}

// S6 — FIFO time priority: the earlier resting order at a price level fills first.
func TestTryInsert_FIFOTimePriority(t *testing.T) {
	e := newTestEngine()

	ask1 := newLimit(1, order.Ask, 500, 50)
	ask2 := newLimit(2, order.Ask, 500, 50)
	require.NoError(t, e.TryInsert(ask1))
	require.NoError(t, e.TryInsert(ask2))

	bid := newLimit(3, order.Bid, 500, 50)
	require.NoError(t, e.TryInsert(bid))

	assert.Equal(t, order.Completed, ask1.Status)
	assert.Equal(t, order.Open, ask2.Status)
	assert.Equal(t, scalar.Amount(50), ask2.Remaining)
}

// Cancel is idempotent: a second cancel of the same id reports not-found.
func TestCancel_Idempotent(t *testing.T) {
	e := newTestEngine()

	ask := newLimit(1, order.Ask, 500, 10)
	require.NoError(t, e.TryInsert(ask))

	_, err := e.Cancel(1)
	require.NoError(t, err)

	_, err = e.Cancel(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTryInsert_RejectsDuplicateID(t *testing.T) {
	e := newTestEngine()

	first := newLimit(1, order.Ask, 500, 10)
	require.NoError(t, e.TryInsert(first))

	second := newLimit(1, order.Ask, 600, 10)
	err := e.TryInsert(second)
	assert.ErrorIs(t, err, ErrDuplicateId)
}

func TestTryInsert_RejectsZeroAmount(t *testing.T) {
	e := newTestEngine()

	o := newLimit(1, order.Ask, 500, 0)
	err := e.TryInsert(o)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestTryInsert_RejectsNonLimitKind(t *testing.T) {
	e := newTestEngine()

	o := order.New(1, order.Market, order.Ask, 10, 500, 0)
	err := e.TryInsert(o)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}
