// Package book implements the price-time-priority order book: one
// HalfBook per (suit, direction), and Book as the four-suit pair of
// Buy/Sell half-books. It is grounded on the teacher's
// internal/engine/orderbook.go price-level design, generalized from a
// single market to per-suit books and completed with the operations its
// own matcher and tests already assumed (AddOrder/CancelOrder/bestAsk)
// but never defined.
package book

import (
	"container/list"

	"github.com/figgie-game/figgie/internal/market"
)

// HalfBook is an ordered list of resting orders, all the same suit and
// direction. Traversal order is the priority order: for Buys, descending
// price then ascending Seq; for Sells, ascending price then ascending Seq.
type HalfBook struct {
	dir market.Dir

	// levels maps price -> FIFO queue of orders resting at that price.
	levels map[market.Price]*list.List

	// prices is kept sorted in priority order: descending for Buy,
	// ascending for Sell. Mirrors the teacher's bidPrices/askPrices slices.
	prices []market.Price

	// byID indexes an order's list element by (owner, id) for O(1) removal
	// lookups, grounded on the teacher's (intended but undefined)
	// ordersByID map. OrderId is only unique per owner (clients assign
	// their own dense ids independently), so the owner must be part of
	// the key or two players' orders collide.
	byID map[ownerOrderID]*list.Element
}

// ownerOrderID is the composite key HalfBook indexes resting orders by.
type ownerOrderID struct {
	owner market.Username
	id    market.OrderId
}

// NewHalfBook constructs an empty half-book for the given direction.
func NewHalfBook(dir market.Dir) *HalfBook {
	return &HalfBook{
		dir:    dir,
		levels: make(map[market.Price]*list.List),
		byID:   make(map[ownerOrderID]*list.Element),
	}
}

// Len returns the number of resting orders.
func (h *HalfBook) Len() int {
	return len(h.byID)
}

// Add inserts order at its priority position. Stable w.r.t. ties: orders
// at the same price are FIFO by arrival (list.List preserves insertion
// order within a level).
func (h *HalfBook) Add(o *market.Order) {
	lvl, ok := h.levels[o.Price]
	if !ok {
		lvl = list.New()
		h.levels[o.Price] = lvl
		h.insertPrice(o.Price)
	}
	elem := lvl.PushBack(o)
	h.byID[ownerOrderID{o.Owner, o.ID}] = elem
}

func (h *HalfBook) insertPrice(p market.Price) {
	less := func(a, b market.Price) bool {
		if h.dir == market.Buy {
			return a > b // descending
		}
		return a < b // ascending
	}
	i := 0
	for ; i < len(h.prices); i++ {
		if less(p, h.prices[i]) {
			break
		}
	}
	h.prices = append(h.prices, 0)
	copy(h.prices[i+1:], h.prices[i:])
	h.prices[i] = p
}

func (h *HalfBook) removePrice(p market.Price) {
	for i, q := range h.prices {
		if q == p {
			h.prices = append(h.prices[:i], h.prices[i+1:]...)
			return
		}
	}
}

// PeekBest returns the order at the head of the book (highest priority
// resting order) without removing it, or nil if the book is empty.
func (h *HalfBook) PeekBest() *market.Order {
	if len(h.prices) == 0 {
		return nil
	}
	lvl := h.levels[h.prices[0]]
	return lvl.Front().Value.(*market.Order)
}

// PopBest removes and returns the head order, or nil if the book is empty.
func (h *HalfBook) PopBest() *market.Order {
	o := h.PeekBest()
	if o == nil {
		return nil
	}
	h.removeElem(o)
	return o
}

// Remove removes owner's resting order with the given id, returning it,
// or nil if no such resting order exists. owner is required: ids are
// only unique per owner, so an id alone cannot identify a resting order.
func (h *HalfBook) Remove(owner market.Username, id market.OrderId) *market.Order {
	elem, ok := h.byID[ownerOrderID{owner, id}]
	if !ok {
		return nil
	}
	o := elem.Value.(*market.Order)
	h.removeElem(o)
	return o
}

func (h *HalfBook) removeElem(o *market.Order) {
	key := ownerOrderID{o.Owner, o.ID}
	elem := h.byID[key]
	lvl := h.levels[o.Price]
	lvl.Remove(elem)
	delete(h.byID, key)
	if lvl.Len() == 0 {
		delete(h.levels, o.Price)
		h.removePrice(o.Price)
	}
}

// CancelByOwner removes all resting orders owned by u, returning them in
// no particular order.
func (h *HalfBook) CancelByOwner(u market.Username) []*market.Order {
	var removed []*market.Order
	for key, elem := range h.byID {
		if key.owner == u {
			removed = append(removed, elem.Value.(*market.Order))
		}
	}
	for _, o := range removed {
		h.removeElem(o)
	}
	return removed
}

// RestingSizeForOwner returns the sum of Remaining across all resting
// orders owned by u (the half-book is already suit-specific by
// construction, so no suit filter is needed here).
func (h *HalfBook) RestingSizeForOwner(u market.Username) market.Size {
	var total market.Size
	for _, elem := range h.byID {
		o := elem.Value.(*market.Order)
		if o.Owner == u {
			total += o.Remaining
		}
	}
	return total
}

// Orders returns a priority-ordered snapshot of all resting orders, used
// for invariant checks and for building a public Market view.
func (h *HalfBook) Orders() []*market.Order {
	out := make([]*market.Order, 0, len(h.byID))
	for _, p := range h.prices {
		lvl := h.levels[p]
		for e := lvl.Front(); e != nil; e = e.Next() {
			out = append(out, e.Value.(*market.Order))
		}
	}
	return out
}
