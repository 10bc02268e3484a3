package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchvenue/internal/scalar"
)

func TestMatchesWith(t *testing.T) {
	ask := New(1, Limit, Ask, 10, 500, 0)
	bid := New(2, Limit, Bid, 10, 500, 0)
	assert.True(t, ask.MatchesWith(bid))
	assert.True(t, bid.MatchesWith(ask))

	lowerBid := New(3, Limit, Bid, 10, 400, 0)
	assert.False(t, ask.MatchesWith(lowerBid))

	sameSide := New(4, Limit, Ask, 10, 400, 0)
	assert.False(t, ask.MatchesWith(sameSide))
}

func TestTrade_FullMatchAtMakerPrice(t *testing.T) {
	resting := New(1, Limit, Ask, 10, 400, 0)
	incoming := New(2, Limit, Bid, 10, 500, 0)

	trade := incoming.Trade(resting, 42)
	require.NotNil(t, trade)

	assert.Equal(t, scalar.LimitPrice(400), trade.Price)
	assert.Equal(t, scalar.Amount(10), trade.Amount)
	assert.Equal(t, uint64(42), trade.CreatedAt)

	// incoming.Trade(resting): incoming is the taker, resting is the maker.
	assert.Equal(t, resting.ID, trade.MakerID)
	assert.Equal(t, incoming.ID, trade.TakerID)

	assert.Equal(t, Completed, resting.Status)
	assert.Equal(t, Completed, incoming.Status)
}

func TestTrade_PartialLeavesLargerSidePartial(t *testing.T) {
	resting := New(1, Limit, Ask, 50, 500, 0)
	incoming := New(2, Limit, Bid, 200, 500, 0)

	trade := incoming.Trade(resting, 0)
	require.NotNil(t, trade)

	assert.Equal(t, scalar.Amount(50), trade.Amount)
	assert.Equal(t, Completed, resting.Status)
	assert.Equal(t, Partial, incoming.Status)
	assert.Equal(t, scalar.Amount(150), incoming.Remaining)
}

func TestTrade_NonCrossingReturnsNil(t *testing.T) {
	resting := New(1, Limit, Ask, 10, 500, 0)
	incoming := New(2, Limit, Bid, 10, 400, 0)

	assert.Nil(t, incoming.Trade(resting, 0))
	assert.Equal(t, scalar.Amount(10), resting.Remaining)
	assert.Equal(t, scalar.Amount(10), incoming.Remaining)
}

func TestCancel_NoFillsIsCancelled(t *testing.T) {
	o := New(1, Limit, Ask, 10, 500, 0)
	o.Cancel()
	assert.Equal(t, Cancelled, o.Status)
}

func TestCancel_WithFillsIsClosed(t *testing.T) {
	resting := New(1, Limit, Ask, 50, 500, 0)
	incoming := New(2, Limit, Bid, 200, 500, 0)
	incoming.Trade(resting, 0)

	incoming.Cancel()
	assert.Equal(t, Closed, incoming.Status)
}

func TestValidate(t *testing.T) {
	valid := New(1, Limit, Ask, 10, 500, 0)
	assert.NoError(t, valid.Validate())

	zero := New(2, Limit, Ask, 0, 500, 0)
	assert.Error(t, zero.Validate())

	alreadyFilled := New(3, Limit, Ask, 10, 500, 0)
	alreadyFilled.Remaining = 5
	assert.Error(t, alreadyFilled.Validate())
}

func TestSide_Opposite(t *testing.T) {
	assert.Equal(t, Bid, Ask.Opposite())
	assert.Equal(t, Ask, Bid.Opposite())
}
