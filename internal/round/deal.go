package round

import (
	"math/rand"

	"github.com/figgie-game/figgie/internal/market"
)

// HandSize is the fixed number of cards dealt to each player.
const HandSize = market.Size(10)

// DeckSize is the total card count across all four suits.
const DeckSize = market.Size(40)

// deckSizes is the fixed multiset of per-suit counts for a 40-card deck:
// one suit of 12, two of 10, and one of 8, per §4.4/§9's resolved Open
// Question. The 8-count and 12-count suits always share a color.
var deckSizes = [4]market.Size{12, 10, 10, 8}

// dealtDeck is the per-suit card count plus the gold suit for one round.
type dealtDeck struct {
	counts market.Hand
	gold   market.Suit
}

// newDeck picks a random valid deck composition: which color gets the
// {8,12} pair and which suit of that color is the 8 vs. the 12. The other
// color's two suits both get 10, so no choice is made for them. Gold is
// the 8-suit's same-color partner — the 12-suit.
func newDeck(rng *rand.Rand) dealtDeck {
	var d dealtDeck

	// Choose which color carries {8,12}: true => {Spades,Clubs}, false =>
	// {Hearts,Diamonds}.
	blackHasEightTwelve := rng.Intn(2) == 0
	var eightTwelveColor, tenTenColor [2]market.Suit
	if blackHasEightTwelve {
		eightTwelveColor = [2]market.Suit{market.Spades, market.Clubs}
		tenTenColor = [2]market.Suit{market.Hearts, market.Diamonds}
	} else {
		eightTwelveColor = [2]market.Suit{market.Hearts, market.Diamonds}
		tenTenColor = [2]market.Suit{market.Spades, market.Clubs}
	}

	eightSuit, twelveSuit := eightTwelveColor[0], eightTwelveColor[1]
	if rng.Intn(2) == 0 {
		eightSuit, twelveSuit = twelveSuit, eightSuit
	}

	d.counts[eightSuit] = deckSizes[3]
	d.counts[twelveSuit] = deckSizes[0]
	d.counts[tenTenColor[0]] = deckSizes[1]
	d.counts[tenTenColor[1]] = deckSizes[2]
	d.gold = twelveSuit // the 8-suit's same-color partner
	return d
}

// dealHands shuffles a deck matching d.counts and deals HandSize cards to
// each of the given players, returning each player's hand.
func dealHands(rng *rand.Rand, d dealtDeck, players []market.Username) map[market.Username]market.Hand {
	var cards []market.Suit
	for _, s := range market.Suits {
		for i := market.Size(0); i < d.counts[s]; i++ {
			cards = append(cards, s)
		}
	}
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })

	hands := make(map[market.Username]market.Hand, len(players))
	idx := 0
	for _, p := range players {
		var h market.Hand
		for i := market.Size(0); i < HandSize; i++ {
			h[cards[idx]]++
			idx++
		}
		hands[p] = h
	}
	return hands
}
