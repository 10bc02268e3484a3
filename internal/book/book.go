// Package book implements the two-sided, price-ordered resting order
// structure: one ordered map per side (price -> FIFO queue of handles),
// plus the aggregate resting quantity per side.
//
// The book never owns an Order. It only ever holds Handles — an OrderId
// plus a remaining-quantity snapshot used purely for O(1) aggregate
// bookkeeping — so the canonical Order record stays exclusively owned by
// the engine's index, per the ownership invariant in spec.md §3/§5.
package book

import (
	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/emirpasic/gods/trees/redblacktree"

	"matchvenue/internal/order"
	"matchvenue/internal/scalar"
)

// Handle is the orderbook's non-owning reference to a resting order: its
// identity, and a snapshot of its remaining quantity at the moment it was
// (re)inserted. The snapshot is what lets PopBestOpposing/Remove credit
// the side aggregate in O(1) without the book ever dereferencing the
// engine's order index.
type Handle struct {
	ID        scalar.OrderId
	Remaining scalar.Amount
}

// level is a single price's FIFO queue of resting handles. A doubly
// linked list is used, rather than a plain queue, because the matching
// loop's reinsertion caveat (spec.md §4.4) requires pushing a popped
// order back onto the *front* of its level to preserve time priority —
// something a tail-only queue can't do in O(1).
type level struct {
	handles *doublylinkedlist.List
}

func newLevel() *level {
	return &level{handles: doublylinkedlist.New()}
}

func (l *level) pushBack(h Handle) {
	l.handles.Add(h)
}

func (l *level) pushFront(h Handle) {
	l.handles.Prepend(h)
}

func (l *level) popFront() (Handle, bool) {
	v, ok := l.handles.Get(0)
	if !ok {
		return Handle{}, false
	}
	l.handles.Remove(0)
	return v.(Handle), true
}

func (l *level) removeID(id scalar.OrderId) (Handle, bool) {
	for i, v := range l.handles.Values() {
		h := v.(Handle)
		if h.ID == id {
			l.handles.Remove(i)
			return h, true
		}
	}
	return Handle{}, false
}

func (l *level) empty() bool {
	return l.handles.Empty()
}

func (l *level) totalQuantity() scalar.Amount {
	var total scalar.Amount
	for _, v := range l.handles.Values() {
		total = total.Add(v.(Handle).Remaining)
	}
	return total
}

func priceAscending(a, b interface{}) int {
	pa, pb := a.(scalar.LimitPrice), b.(scalar.LimitPrice)
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	default:
		return 0
	}
}

func priceDescending(a, b interface{}) int {
	return -priceAscending(a, b)
}

// Orderbook is the two-sided resting order structure for a single
// instrument: ask prices ordered ascending (best = lowest), bid prices
// ordered descending (best = highest), each a red-black tree of price ->
// FIFO level.
type Orderbook struct {
	sides    map[order.Side]*redblacktree.Tree
	askDepth scalar.Amount
	bidDepth scalar.Amount
}

// New returns an empty Orderbook.
func New() *Orderbook {
	return &Orderbook{
		sides: map[order.Side]*redblacktree.Tree{
			order.Ask: redblacktree.NewWith(priceAscending),
			order.Bid: redblacktree.NewWith(priceDescending),
		},
	}
}

func (ob *Orderbook) levelAt(side order.Side, price scalar.LimitPrice, createIfAbsent bool) *level {
	tree := ob.sides[side]
	if v, found := tree.Get(price); found {
		return v.(*level)
	}
	if !createIfAbsent {
		return nil
	}
	lvl := newLevel()
	tree.Put(price, lvl)
	return lvl
}

func (ob *Orderbook) dropLevelIfEmpty(side order.Side, price scalar.LimitPrice, lvl *level) {
	if lvl.empty() {
		ob.sides[side].Remove(price)
	}
}

func (ob *Orderbook) adjustDepth(side order.Side, amount scalar.Amount, add bool) {
	switch side {
	case order.Ask:
		if add {
			ob.askDepth = ob.askDepth.Add(amount)
		} else {
			ob.askDepth = ob.askDepth.Sub(amount)
		}
	case order.Bid:
		if add {
			ob.bidDepth = ob.bidDepth.Add(amount)
		} else {
			ob.bidDepth = ob.bidDepth.Sub(amount)
		}
	}
}

// Insert appends h to the FIFO at (side, price) — creating the price
// level if absent — and adds h.Remaining to the side's aggregate depth.
func (ob *Orderbook) Insert(h Handle, side order.Side, price scalar.LimitPrice) {
	lvl := ob.levelAt(side, price, true)
	lvl.pushBack(h)
	ob.adjustDepth(side, h.Remaining, true)
}

// ReinsertAtHead puts h back at the front of its level, preserving the
// time priority it already held before being popped by PopBestOpposing.
func (ob *Orderbook) ReinsertAtHead(h Handle, side order.Side, price scalar.LimitPrice) {
	lvl := ob.levelAt(side, price, true)
	lvl.pushFront(h)
	ob.adjustDepth(side, h.Remaining, true)
}

// PopBestOpposing selects the side opposite to side, finds its best price
// level (lowest for Ask, highest for Bid), and pops the oldest handle
// there — the one with the highest time priority. It reports the handle,
// the price level it came from, and whether anything was popped at all.
func (ob *Orderbook) PopBestOpposing(side order.Side) (Handle, scalar.LimitPrice, bool) {
	opposite := side.Opposite()
	tree := ob.sides[opposite]
	node := tree.Left()
	if node == nil {
		return Handle{}, 0, false
	}
	price := node.Key.(scalar.LimitPrice)
	lvl := node.Value.(*level)

	h, ok := lvl.popFront()
	if !ok {
		return Handle{}, 0, false
	}
	ob.adjustDepth(opposite, h.Remaining, false)
	ob.dropLevelIfEmpty(opposite, price, lvl)
	return h, price, true
}

// Remove deletes the order identified by id from its (side, price) level,
// wherever it sits in the FIFO — used by cancellation, which may target
// an order that isn't at the head. It reports the removed handle, if any.
func (ob *Orderbook) Remove(id scalar.OrderId, side order.Side, price scalar.LimitPrice) (Handle, bool) {
	lvl := ob.levelAt(side, price, false)
	if lvl == nil {
		return Handle{}, false
	}
	h, ok := lvl.removeID(id)
	if !ok {
		return Handle{}, false
	}
	ob.adjustDepth(side, h.Remaining, false)
	ob.dropLevelIfEmpty(side, price, lvl)
	return h, true
}

// Depth returns the cached aggregate resting quantity for side.
func (ob *Orderbook) Depth(side order.Side) scalar.Amount {
	switch side {
	case order.Ask:
		return ob.askDepth
	case order.Bid:
		return ob.bidDepth
	default:
		return 0
	}
}

// LevelSnapshot is one price level's aggregate resting quantity, for
// depth-of-book reporting.
type LevelSnapshot struct {
	Price    scalar.LimitPrice
	Quantity scalar.Amount
}

// Levels returns up to limit price levels for side, best price first. A
// non-positive limit returns every level.
func (ob *Orderbook) Levels(side order.Side, limit int) []LevelSnapshot {
	tree := ob.sides[side]
	it := tree.Iterator()
	it.Begin()

	out := make([]LevelSnapshot, 0)
	for it.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		price := it.Key().(scalar.LimitPrice)
		lvl := it.Value().(*level)
		out = append(out, LevelSnapshot{Price: price, Quantity: lvl.totalQuantity()})
	}
	return out
}

// BestPrice returns the best resting price for side, if any level exists.
func (ob *Orderbook) BestPrice(side order.Side) (scalar.LimitPrice, bool) {
	tree := ob.sides[side]
	node := tree.Left()
	if node == nil {
		return 0, false
	}
	return node.Key.(scalar.LimitPrice), true
}
