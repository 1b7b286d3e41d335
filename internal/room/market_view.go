package room

import (
	"github.com/figgie-game/figgie/internal/book"
	"github.com/figgie-game/figgie/internal/market"
)

// MarketSnapshot is the public book view delivered to a subscriber on
// request, per §6's get-update(Market) query. Unlike Hand, it carries no
// private information: every resting order's owner, price, and size are
// already public per §9's design note that the book is canonical and
// un-filtered.
type MarketSnapshot struct {
	Buys  [4][]market.Order
	Sells [4][]market.Order
}

func snapshotMarket(b *book.Book) MarketSnapshot {
	var snap MarketSnapshot
	for _, s := range market.Suits {
		for _, o := range b.Side(s, market.Buy).Orders() {
			snap.Buys[s] = append(snap.Buys[s], *o)
		}
		for _, o := range b.Side(s, market.Sell).Orders() {
			snap.Sells[s] = append(snap.Sells[s], *o)
		}
	}
	return snap
}
