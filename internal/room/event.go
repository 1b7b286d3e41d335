package room

import (
	"github.com/figgie-game/figgie/internal/engine"
	"github.com/figgie-game/figgie/internal/market"
	"github.com/figgie-game/figgie/internal/round"
)

// Broadcast is implemented by every value fanned out to every subscriber
// of a room, per §6's PlayerUpdate.Broadcast variants. It is a closed,
// marker-only interface; consumers switch on the concrete type.
type Broadcast interface{ isBroadcast() }

// PlayerJoined announces a new Observer has logged into the room.
type PlayerJoined struct{ Who market.Username }

// PlayerReady announces a seated player's readiness changed.
type PlayerReady struct {
	Who     market.Username
	IsReady bool
}

// Chat relays a chat message from Who to every subscriber.
type Chat struct {
	Who market.Username
	Msg string
}

// NewRound announces a round has started. Gold is deliberately withheld
// until RoundOver.
type NewRound struct{}

// Exec relays a matched order and its fills.
type Exec struct {
	Order           market.Order
	Fills           []engine.Fill
	RemainderPosted market.Size
}

// Out relays a fully-removed resting order.
type Out struct {
	Order market.Order
}

// RoundOver relays the revealed gold suit, every player's final hand, and
// this round's scores (trading P&L plus the pot/bonus award).
type RoundOver struct {
	Gold            market.Suit
	Hands           map[market.Username]market.Hand
	ScoresThisRound map[market.Username]market.Price
}

// Scores relays cumulative scores across every round played in the room
// so far.
type Scores struct {
	Cumulative map[market.Username]market.Price
}

func (PlayerJoined) isBroadcast() {}
func (PlayerReady) isBroadcast()  {}
func (Chat) isBroadcast()         {}
func (NewRound) isBroadcast()     {}
func (Exec) isBroadcast()         {}
func (Out) isBroadcast()          {}
func (RoundOver) isBroadcast()    {}
func (Scores) isBroadcast()       {}

// fromRoundEvent converts a round-level event into its broadcast form.
// round.Ended is handled separately by the caller since it also needs to
// fold in the room's cumulative scores and emit a trailing Scores event.
func fromRoundEvent(e round.Event) Broadcast {
	switch ev := e.(type) {
	case round.Exec:
		return Exec{Order: ev.Order, Fills: ev.Fills, RemainderPosted: ev.RemainderPosted}
	case round.Out:
		return Out{Order: ev.Order}
	default:
		return nil
	}
}
