// Package engine implements the continuous limit-order matching engine:
// given a resting Book and an inbound Order, it produces an Exec (fills +
// remainder) plus Out events for self-crossed and fully filled resting
// orders, and
// mutates the Book in place. It assumes the caller (internal/round) has
// already run the per-order prechecks from §4.3 — price/size bounds,
// owner identity, duplicate-id detection, sell coverage — so this package
// has no knowledge of hands, cash, or rooms.
//
// Grounded on hakimelghazi-exchange-core/internal/engine/matcher.go's
// Matcher.Submit/matchBuy/matchSell, generalized from a single market to
// per-suit books, and extended with the self-cross cancellation policy
// the teacher's matcher never implemented.
package engine

import (
	"github.com/figgie-game/figgie/internal/book"
	"github.com/figgie-game/figgie/internal/market"
)

// Fill is an atomic transfer of size at price between the inbound
// (taker) order and a resting (maker) order.
type Fill struct {
	CounterpartyID    market.OrderId
	CounterpartyOwner market.Username
	Size              market.Size
	Price             market.Price
}

// Exec is the record produced by matching an inbound order.
type Exec struct {
	Order           market.Order
	Fills           []Fill
	RemainderPosted market.Size
}

// Out indicates a resting order was fully removed from the book, either
// cancelled by the self-cross policy (Result.Outs) or emptied by a fill
// against the current taker (Result.FillOuts).
type Out struct {
	Order market.Order
}

// Result bundles everything produced by a single Submit call. Outs holds
// self-cross cancellations encountered while walking the book — these
// precede the Exec, since they happen before the taker's own order is
// resolved. FillOuts holds every resting maker order fully consumed by a
// fill against the taker; per the specification's Exec-then-Out
// ordering, these must be broadcast after the Exec they were emptied by.
type Result struct {
	Outs     []Out
	Exec     Exec
	FillOuts []Out
}

// Submit matches inbound order o against the opposite half-book for its
// suit, applying price-time priority and the self-cross policy, then
// rests any remainder on o's own side. o.Remaining must already equal
// o.Size (the caller passes a fresh order).
func Submit(b *book.Book, o *market.Order) Result {
	opp := b.Side(o.Symbol, o.Dir.Other())
	own := b.Side(o.Symbol, o.Dir)

	var res Result

	for o.Remaining > 0 {
		bo := opp.PeekBest()
		if bo == nil || !o.Crosses(*bo) {
			break
		}

		if bo.Owner == o.Owner {
			// Self-cross policy: cancel the resting order without a fill.
			opp.Remove(bo.Owner, bo.ID)
			res.Outs = append(res.Outs, Out{Order: *bo})
			continue
		}

		size := min(o.Remaining, bo.Remaining)
		res.Exec.Fills = append(res.Exec.Fills, Fill{
			CounterpartyID:    bo.ID,
			CounterpartyOwner: bo.Owner,
			Size:              size,
			Price:             bo.Price, // resting order's price stands
		})

		o.Remaining -= size
		bo.Remaining -= size
		if bo.Remaining == 0 {
			maker := *bo
			opp.Remove(bo.Owner, bo.ID)
			res.FillOuts = append(res.FillOuts, Out{Order: maker})
		}
	}

	if o.Remaining > 0 {
		own.Add(o)
		res.Exec.RemainderPosted = o.Remaining
	}
	res.Exec.Order = *o
	return res
}

func min(a, b market.Size) market.Size {
	if a < b {
		return a
	}
	return b
}
