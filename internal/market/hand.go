package market

// Hand maps each suit to the count of cards of that suit held. The deck
// invariant is sum(hand) == HandSize at all times for a seated player with
// an active round.
type Hand [4]Size

// Get returns the count of s held.
func (h Hand) Get(s Suit) Size {
	return h[s]
}

// Add returns a copy of h with n more cards of s (n may be negative).
func (h Hand) Add(s Suit, n Size) Hand {
	out := h
	out[s] += n
	return out
}

// Sum returns the total card count across all suits.
func (h Hand) Sum() Size {
	var total Size
	for _, s := range Suits {
		total += h[s]
	}
	return total
}

// Map2 applies f pointwise over two hands, suit by suit.
func Map2(a, b Hand, f func(x, y Size) Size) Hand {
	var out Hand
	for _, s := range Suits {
		out[s] = f(a[s], b[s])
	}
	return out
}

// PartialHand is an observer's view of another player's hand: the suits
// revealed so far (via market executions) plus a count of unknown cards.
// Invariant: Sum(Known) + Unknown == HandSize.
type PartialHand struct {
	Known   Hand
	Unknown Size
}
