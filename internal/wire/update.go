package wire

// Update is the PlayerUpdate stream's payload, mirroring §6's
// Broadcast(B) | Hand(h) | Market(book) stream variants as a struct
// with exactly one non-nil field rather than an interface, so it
// travels over gob without any type registration.
type Update struct {
	Broadcast *BroadcastFrame
	Hand      *HandFrame
	Market    *MarketFrame
}

// BroadcastFrame is exactly one non-nil field, mirroring §6's
// Broadcast variant list: Player_joined, Player_ready, Chat, New_round,
// Exec, Out, Round_over, Scores.
type BroadcastFrame struct {
	PlayerJoined *PlayerJoinedFrame
	PlayerReady  *PlayerReadyFrame
	Chat         *ChatFrame
	NewRound     *NewRoundFrame
	Exec         *ExecFrame
	Out          *OutFrame
	RoundOver    *RoundOverFrame
	Scores       *ScoresFrame
}

type PlayerJoinedFrame struct {
	Who string
}

type PlayerReadyFrame struct {
	Who     string
	IsReady bool
}

type ChatFrame struct {
	Who string
	Msg string
}

type NewRoundFrame struct{}

type FillFrame struct {
	CounterpartyID    uint64
	CounterpartyOwner string
	Size              int64
	Price             int64
}

type ExecFrame struct {
	Order           WireOrder
	Fills           []FillFrame
	RemainderPosted int64
}

type OutFrame struct {
	Order WireOrder
}

// RoundOverFrame reveals the gold suit, every player's final hand (as
// four per-suit counts, indexed the way market.Suits orders them), and
// this round's combined (pot+bonus+trading) scores.
type RoundOverFrame struct {
	Gold            int
	Hands           map[string][4]int64
	ScoresThisRound map[string]int64
}

type ScoresFrame struct {
	Cumulative map[string]int64
}

// HandFrame carries a player's own hand as four per-suit counts.
type HandFrame struct {
	Counts [4]int64
}

// MarketFrame carries the public resting-order book, per suit and side.
type MarketFrame struct {
	Buys  [4][]WireOrder
	Sells [4][]WireOrder
}
