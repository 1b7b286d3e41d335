// Package round implements one deal-to-scoring cycle: dealing hands,
// running the order-matching engine on behalf of its seated players,
// tracking cash/card deltas, and scoring at timeout. It knows nothing
// about lobby/seating or the broadcast fabric — internal/room drives a
// Round purely through its exported methods and fans out the events
// each method returns.
//
// Grounded on hakimelghazi-exchange-core/internal/engine/order.go's
// plain-struct, no-interfaces style, extended with the hand/cash
// bookkeeping and scoring the teacher's single-market exchange has no
// analogue for.
package round

import (
	"math/rand"
	"time"

	"github.com/figgie-game/figgie/internal/book"
	"github.com/figgie-game/figgie/internal/config"
	"github.com/figgie-game/figgie/internal/engine"
	"github.com/figgie-game/figgie/internal/market"
	"github.com/figgie-game/figgie/internal/reject"
)

// Event is implemented by every value a Round's methods hand back to the
// caller for broadcast. It is a closed, marker-only interface: callers
// switch on the concrete type.
type Event interface{ isRoundEvent() }

// Started is the round-start event type. New does not return it and no
// Round method emits it; internal/room announces a new round with its own
// NewRound broadcast. It carries no payload: gold is not disclosed until
// Ended.
type Started struct{}

// Exec mirrors engine.Exec for broadcast.
type Exec struct {
	Order           market.Order
	Fills           []engine.Fill
	RemainderPosted market.Size
}

// Out mirrors engine.Out for broadcast.
type Out struct {
	Order market.Order
}

// Ended carries the round-over payload: the revealed gold suit, every
// player's final hand, and this round's scores (pot split + bonuses,
// trading P&L is already reflected in Cash and is added by the caller).
type Ended struct {
	Gold            market.Suit
	Hands           map[market.Username]market.Hand
	ScoresThisRound map[market.Username]market.Price
}

func (Started) isRoundEvent() {}
func (Exec) isRoundEvent()    {}
func (Out) isRoundEvent()     {}
func (Ended) isRoundEvent()   {}

// Round holds all state for one deal-to-scoring cycle.
type Round struct {
	Gold  market.Suit
	Hands map[market.Username]market.Hand
	Cash  map[market.Username]market.Price
	Book  *book.Book

	players []market.Username
	nextSeq uint64
	usedIDs map[market.Username]map[market.OrderId]bool

	start    time.Time
	duration time.Duration
	cfg      config.RoundConfig
}

// New deals a fresh round for players (must have exactly
// cfg.PlayersPerRoom entries) and starts its clock.
func New(clk Clock, cfg config.RoundConfig, rng *rand.Rand, players []market.Username) *Round {
	deck := newDeck(rng)
	hands := dealHands(rng, deck, players)

	cash := make(map[market.Username]market.Price, len(players))
	used := make(map[market.Username]map[market.OrderId]bool, len(players))
	for _, p := range players {
		cash[p] = 0
		used[p] = make(map[market.OrderId]bool)
	}

	return &Round{
		Gold:     deck.gold,
		Hands:    hands,
		Cash:     cash,
		Book:     book.NewBook(),
		players:  append([]market.Username(nil), players...),
		usedIDs:  used,
		start:    clk.Now(),
		duration: cfg.RoundDuration,
		cfg:      cfg,
	}
}

// TimeRemaining returns the time left in the round as of now, or false if
// the round is already over.
func (r *Round) TimeRemaining(clk Clock) (time.Duration, bool) {
	elapsed := clk.Now().Sub(r.start)
	left := r.duration - elapsed
	if left <= 0 {
		return 0, false
	}
	return left, true
}

// IsOver reports whether the round's duration has elapsed as of now.
func (r *Round) IsOver(clk Clock) bool {
	_, ok := r.TimeRemaining(clk)
	return !ok
}

// PlaceOrder runs the §4.3 prechecks for an inbound order from owner, then
// submits it to the matching engine and applies every resulting hand/cash
// delta. o.Owner must equal owner; this is the only place that check is
// made, and a mismatch is rejected with Owner_is_not_sender. On success
// it returns the
// broadcastable events in emission order: any self-cross cancellation
// Outs first (they happen before o is resolved), then o's own Exec,
// then an Out for every resting maker order o's fill fully emptied.
func (r *Round) PlaceOrder(owner market.Username, o market.Order) ([]Event, error) {
	if o.Owner != owner {
		return nil, reject.New(reject.OwnerIsNotSender)
	}
	if o.Price < 0 {
		return nil, reject.New(reject.PriceMustBeNonnegative)
	}
	if o.Price > market.Price(r.cfg.MaxPrice) {
		return nil, reject.New(reject.PriceTooHigh)
	}
	if o.Size <= 0 {
		return nil, reject.New(reject.SizeMustBePositive)
	}
	if r.usedIDs[owner][o.ID] {
		return nil, reject.New(reject.DuplicateOrderID)
	}
	if !o.Symbol.Valid() {
		return nil, reject.New(reject.NoSuchOrder)
	}
	if o.Dir == market.Sell {
		held := r.Hands[owner].Get(o.Symbol)
		resting := r.Book.RestingSellSize(owner, o.Symbol)
		if held-resting < o.Size {
			return nil, reject.New(reject.NotEnoughToSell)
		}
	}

	r.usedIDs[owner][o.ID] = true
	r.nextSeq++
	o.Seq = r.nextSeq
	o.Remaining = o.Size

	result := engine.Submit(r.Book, &o)

	events := make([]Event, 0, len(result.Outs)+len(result.FillOuts)+1)
	for _, out := range result.Outs {
		events = append(events, Out{Order: out.Order})
	}

	for _, f := range result.Exec.Fills {
		r.applyFill(result.Exec.Order, f)
	}

	events = append(events, Exec{
		Order:           result.Exec.Order,
		Fills:           result.Exec.Fills,
		RemainderPosted: result.Exec.RemainderPosted,
	})

	// Every maker fully consumed by a fill against o is broadcast as an
	// Out only after o's own Exec, per the Exec-then-Out ordering
	// guarantee for a single order command.
	for _, out := range result.FillOuts {
		events = append(events, Out{Order: out.Order})
	}
	return events, nil
}

// applyFill moves cards and cash between the taker (order) and the maker
// (fill's counterparty), per §4.3 step 5: buyer gains size of symbol and
// pays size*price; seller loses size and receives size*price.
func (r *Round) applyFill(order market.Order, f engine.Fill) {
	buyer, seller := order.Owner, f.CounterpartyOwner
	if order.Dir == market.Sell {
		buyer, seller = f.CounterpartyOwner, order.Owner
	}

	cost := market.Price(f.Size) * f.Price
	r.Hands[buyer] = r.Hands[buyer].Add(order.Symbol, f.Size)
	r.Hands[seller] = r.Hands[seller].Add(order.Symbol, -f.Size)
	r.Cash[buyer] -= cost
	r.Cash[seller] += cost
}

// CancelOrder removes owner's resting order id, if present. Ids are only
// unique per owner (§3), so the search never needs to inspect, let alone
// mutate, another owner's resting orders.
func (r *Round) CancelOrder(owner market.Username, id market.OrderId) (*market.Order, error) {
	for _, s := range market.Suits {
		for _, d := range [2]market.Dir{market.Buy, market.Sell} {
			if o := r.Book.Side(s, d).Remove(owner, id); o != nil {
				return o, nil
			}
		}
	}
	return nil, reject.New(reject.NoSuchOrder)
}

// CancelAll removes every order owner has resting across all suits.
func (r *Round) CancelAll(owner market.Username) []*market.Order {
	return r.Book.CancelByOwner(owner)
}

// End flushes every resting order as an Out, then computes and returns
// this round's scoring event, per §4.4's termination ordering.
func (r *Round) End() []Event {
	var events []Event
	for _, s := range market.Suits {
		for _, d := range [2]market.Dir{market.Buy, market.Sell} {
			hb := r.Book.Side(s, d)
			for {
				o := hb.PopBest()
				if o == nil {
					break
				}
				events = append(events, Out{Order: *o})
			}
		}
	}

	events = append(events, Ended{
		Gold:            r.Gold,
		Hands:           r.Hands,
		ScoresThisRound: r.score(),
	})
	return events
}

// score implements §4.4's pot + per-gold-card-bonus rule: the pot is split
// evenly (truncated) among whoever holds the most gold-suit cards; every
// player additionally earns PerGoldCardBonus per gold card held, from the
// common pool. Trading P&L already lives in r.Cash and is added by the
// caller.
func (r *Round) score() map[market.Username]market.Price {
	scores := make(map[market.Username]market.Price, len(r.players))

	var most market.Size
	for _, p := range r.players {
		if n := r.Hands[p].Get(r.Gold); n > most {
			most = n
		}
	}

	var leaders []market.Username
	if most > 0 {
		for _, p := range r.players {
			if r.Hands[p].Get(r.Gold) == most {
				leaders = append(leaders, p)
			}
		}
	}

	share := market.Price(0)
	if len(leaders) > 0 {
		share = market.Price(r.cfg.Pot) / market.Price(len(leaders))
	}
	for _, p := range leaders {
		scores[p] += share
	}

	for _, p := range r.players {
		scores[p] += market.Price(r.cfg.PerGoldCardBonus) * market.Price(r.Hands[p].Get(r.Gold))
	}

	return scores
}
