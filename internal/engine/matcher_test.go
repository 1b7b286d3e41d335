package engine

import (
	"testing"

	"github.com/figgie-game/figgie/internal/book"
	"github.com/figgie-game/figgie/internal/market"
)

func newOrder(id market.OrderId, owner market.Username, dir market.Dir, price, size market.Price, seq uint64) *market.Order {
	return &market.Order{
		ID:        id,
		Owner:     owner,
		Symbol:    market.Hearts,
		Dir:       dir,
		Price:     market.Price(price),
		Size:      market.Size(size),
		Remaining: market.Size(size),
		Seq:       seq,
	}
}

func TestSubmitPartialFillRestsRemainder(t *testing.T) {
	b := book.NewBook()
	resting := newOrder(1, "A", market.Buy, 10, 3, 1)
	Submit(b, resting)

	taker := newOrder(2, "B", market.Sell, 8, 2, 2)
	res := Submit(b, taker)

	if len(res.Exec.Fills) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(res.Exec.Fills))
	}
	fill := res.Exec.Fills[0]
	if fill.Size != 2 || fill.Price != 10 || fill.CounterpartyID != 1 {
		t.Fatalf("unexpected fill: %+v", fill)
	}
	if res.Exec.RemainderPosted != 0 {
		t.Fatalf("taker should be fully filled, got remainder %d", res.Exec.RemainderPosted)
	}
	rest := b.BestBuy(market.Hearts)
	if rest == nil || rest.Remaining != 1 {
		t.Fatalf("expected resting buy with remaining 1, got %+v", rest)
	}
}

func TestSubmitFullFillEmitsFillOut(t *testing.T) {
	b := book.NewBook()
	Submit(b, newOrder(1, "A", market.Buy, 10, 2, 1))

	taker := newOrder(2, "B", market.Sell, 8, 2, 2)
	res := Submit(b, taker)

	if len(res.Exec.Fills) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(res.Exec.Fills))
	}
	if len(res.FillOuts) != 1 || res.FillOuts[0].Order.ID != 1 || res.FillOuts[0].Order.Owner != "A" {
		t.Fatalf("expected a FillOut for fully-consumed resting order 1, got %+v", res.FillOuts)
	}
	if res.FillOuts[0].Order.Remaining != 0 {
		t.Fatalf("expected the Out's order to show Remaining 0, got %+v", res.FillOuts[0].Order)
	}
	if b.BestBuy(market.Hearts) != nil {
		t.Fatalf("expected the fully-filled resting buy to be gone from the book")
	}
}

func TestSubmitSelfCrossCancelsWithoutFill(t *testing.T) {
	b := book.NewBook()
	Submit(b, newOrder(1, "A", market.Buy, 9, 5, 1))

	sell := newOrder(2, "A", market.Sell, 9, 2, 2)
	res := Submit(b, sell)

	if len(res.Exec.Fills) != 0 {
		t.Fatalf("expected no fills on self-cross, got %+v", res.Exec.Fills)
	}
	if len(res.Outs) != 1 || res.Outs[0].Order.ID != 1 {
		t.Fatalf("expected Out for resting order 1, got %+v", res.Outs)
	}
	if b.BestBuy(market.Hearts) != nil {
		t.Fatalf("expected resting buy to be cancelled")
	}
	rest := b.BestSell(market.Hearts)
	if rest == nil || rest.Remaining != 2 {
		t.Fatalf("expected sell to rest at size 2, got %+v", rest)
	}
}

func TestSubmitPriceTimePriority(t *testing.T) {
	b := book.NewBook()
	Submit(b, newOrder(1, "A", market.Sell, 10, 1, 1))
	Submit(b, newOrder(2, "B", market.Sell, 10, 1, 2))
	Submit(b, newOrder(3, "C", market.Sell, 9, 1, 3)) // better price, later seq

	taker := newOrder(4, "D", market.Buy, 10, 2, 4)
	res := Submit(b, taker)

	if len(res.Exec.Fills) != 2 {
		t.Fatalf("expected 2 fills, got %d", len(res.Exec.Fills))
	}
	if res.Exec.Fills[0].CounterpartyID != 3 {
		t.Fatalf("expected best price (order 3) to fill first, got %+v", res.Exec.Fills[0])
	}
	if res.Exec.Fills[1].CounterpartyID != 1 {
		t.Fatalf("expected earliest same-price order (order 1) to fill next, got %+v", res.Exec.Fills[1])
	}
}

func TestSubmitNoCrossRestsOnBothSides(t *testing.T) {
	b := book.NewBook()
	Submit(b, newOrder(1, "A", market.Sell, 13, 3, 1))
	Submit(b, newOrder(2, "B", market.Buy, 11, 1, 2))

	if b.BestSell(market.Hearts) == nil || b.BestBuy(market.Hearts) == nil {
		t.Fatalf("expected both sides resting")
	}
	if !b.NoCross() {
		t.Fatalf("book should not be crossed")
	}
}
