package book

import "github.com/figgie-game/figgie/internal/market"

// Book is the collection of all resting orders for all suits: a
// per-suit pair of half-books (Buy side, Sell side).
type Book struct {
	sides [4]market.DirPair[*HalfBook]
}

// NewBook constructs an empty book with all eight half-books allocated.
func NewBook() *Book {
	var b Book
	for _, s := range market.Suits {
		pair := market.NewDirPair(NewHalfBook(market.Buy), NewHalfBook(market.Sell))
		b.sides[s] = pair
	}
	return &b
}

// Side returns the half-book for the given suit and direction.
func (b *Book) Side(suit market.Suit, dir market.Dir) *HalfBook {
	return b.sides[suit].Get(dir)
}

// BestBuy returns the best resting buy for suit, or nil.
func (b *Book) BestBuy(suit market.Suit) *market.Order {
	return b.Side(suit, market.Buy).PeekBest()
}

// BestSell returns the best resting sell for suit, or nil.
func (b *Book) BestSell(suit market.Suit) *market.Order {
	return b.Side(suit, market.Sell).PeekBest()
}

// CancelByOwner removes every resting order owned by u across all suits
// and both sides, returning them all.
func (b *Book) CancelByOwner(u market.Username) []*market.Order {
	var removed []*market.Order
	for _, s := range market.Suits {
		removed = append(removed, b.Side(s, market.Buy).CancelByOwner(u)...)
		removed = append(removed, b.Side(s, market.Sell).CancelByOwner(u)...)
	}
	return removed
}

// RestingSellSize returns the total resting sell size for (owner, suit),
// used by the Not_enough_to_sell precheck.
func (b *Book) RestingSellSize(owner market.Username, suit market.Suit) market.Size {
	return b.Side(suit, market.Sell).RestingSizeForOwner(owner)
}

// NoCross reports whether the book satisfies the non-cross invariant for
// every suit: best buy price < best sell price whenever both sides are
// non-empty.
func (b *Book) NoCross() bool {
	for _, s := range market.Suits {
		buy := b.BestBuy(s)
		sell := b.BestSell(s)
		if buy != nil && sell != nil && buy.Price >= sell.Price {
			return false
		}
	}
	return true
}

// NoSelfCrossResting reports whether any resting buy and resting sell
// share an owner and cross (buy.Price >= sell.Price) on the same suit.
func (b *Book) NoSelfCrossResting() bool {
	for _, s := range market.Suits {
		buys := b.Side(s, market.Buy).Orders()
		sells := b.Side(s, market.Sell).Orders()
		for _, buy := range buys {
			for _, sell := range sells {
				if buy.Owner == sell.Owner && buy.Price >= sell.Price {
					return false
				}
			}
		}
	}
	return true
}
