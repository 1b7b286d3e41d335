package wire

import (
	"github.com/figgie-game/figgie/internal/market"
	"github.com/figgie-game/figgie/internal/room"
)

// ToWireOrder converts a market.Order to its wire representation.
func ToWireOrder(o market.Order) WireOrder {
	return WireOrder{
		ID:        uint64(o.ID),
		Owner:     string(o.Owner),
		Symbol:    int(o.Symbol),
		Dir:       int(o.Dir),
		Price:     int64(o.Price),
		Size:      int64(o.Size),
		Remaining: int64(o.Remaining),
	}
}

// FromWireOrder converts a wire order back to market.Order.
func FromWireOrder(w WireOrder) market.Order {
	return market.Order{
		ID:        market.OrderId(w.ID),
		Owner:     market.Username(w.Owner),
		Symbol:    market.Suit(w.Symbol),
		Dir:       market.Dir(w.Dir),
		Price:     market.Price(w.Price),
		Size:      market.Size(w.Size),
		Remaining: market.Size(w.Remaining),
	}
}

func toHandCounts(h market.Hand) [4]int64 {
	return [4]int64{int64(h[0]), int64(h[1]), int64(h[2]), int64(h[3])}
}

// FromHandCounts converts a wire HandFrame's counts back into a
// market.Hand, for clients (e.g. internal/bot) that need to work with
// the domain type rather than the wire one.
func FromHandCounts(c [4]int64) market.Hand {
	return market.Hand{market.Size(c[0]), market.Size(c[1]), market.Size(c[2]), market.Size(c[3])}
}

// ToUpdate converts a room-level broadcast, a player's own privately
// delivered Hand, or a public MarketSnapshot into the wire Update frame
// sent on the PlayerUpdate stream. Any other type of v is a programmer
// error in the caller and yields a zero Update.
func ToUpdate(v any) Update {
	switch x := v.(type) {
	case room.PlayerJoined:
		return Update{Broadcast: &BroadcastFrame{PlayerJoined: &PlayerJoinedFrame{Who: string(x.Who)}}}
	case room.PlayerReady:
		return Update{Broadcast: &BroadcastFrame{PlayerReady: &PlayerReadyFrame{Who: string(x.Who), IsReady: x.IsReady}}}
	case room.Chat:
		return Update{Broadcast: &BroadcastFrame{Chat: &ChatFrame{Who: string(x.Who), Msg: x.Msg}}}
	case room.NewRound:
		return Update{Broadcast: &BroadcastFrame{NewRound: &NewRoundFrame{}}}
	case room.Exec:
		fills := make([]FillFrame, len(x.Fills))
		for i, f := range x.Fills {
			fills[i] = FillFrame{
				CounterpartyID:    uint64(f.CounterpartyID),
				CounterpartyOwner: string(f.CounterpartyOwner),
				Size:              int64(f.Size),
				Price:             int64(f.Price),
			}
		}
		return Update{Broadcast: &BroadcastFrame{Exec: &ExecFrame{
			Order:           ToWireOrder(x.Order),
			Fills:           fills,
			RemainderPosted: int64(x.RemainderPosted),
		}}}
	case room.Out:
		return Update{Broadcast: &BroadcastFrame{Out: &OutFrame{Order: ToWireOrder(x.Order)}}}
	case room.RoundOver:
		hands := make(map[string][4]int64, len(x.Hands))
		for who, h := range x.Hands {
			hands[string(who)] = toHandCounts(h)
		}
		scores := make(map[string]int64, len(x.ScoresThisRound))
		for who, s := range x.ScoresThisRound {
			scores[string(who)] = int64(s)
		}
		return Update{Broadcast: &BroadcastFrame{RoundOver: &RoundOverFrame{
			Gold:            int(x.Gold),
			Hands:           hands,
			ScoresThisRound: scores,
		}}}
	case room.Scores:
		cum := make(map[string]int64, len(x.Cumulative))
		for who, s := range x.Cumulative {
			cum[string(who)] = int64(s)
		}
		return Update{Broadcast: &BroadcastFrame{Scores: &ScoresFrame{Cumulative: cum}}}
	case market.Hand:
		counts := toHandCounts(x)
		return Update{Hand: &HandFrame{Counts: counts}}
	case room.MarketSnapshot:
		var mf MarketFrame
		for s := range x.Buys {
			for _, o := range x.Buys[s] {
				mf.Buys[s] = append(mf.Buys[s], ToWireOrder(o))
			}
			for _, o := range x.Sells[s] {
				mf.Sells[s] = append(mf.Sells[s], ToWireOrder(o))
			}
		}
		return Update{Market: &mf}
	default:
		return Update{}
	}
}
