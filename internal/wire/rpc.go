package wire

import "time"

// RPC names, one per §6 wire-protocol table row, plus the stream frame
// name used for PlayerUpdate messages (not itself a request/response
// RPC, but framed the same way).
const (
	RPCLogin        = "login"
	RPCStartPlaying = "start-playing"
	RPCSetReady     = "ready"
	RPCPlaceOrder   = "order"
	RPCCancelOrder  = "cancel"
	RPCCancelAll    = "cxl-all"
	RPCChat         = "chat"
	RPCGetUpdate    = "get-update"
	RPCTimeLeft     = "time-left"

	FramePlayerUpdate = "player-update"
)

// V1 is every RPC's current version; the table has no v2 entries yet.
const V1 = 1

// WireOrder is market.Order's wire representation.
type WireOrder struct {
	ID        uint64
	Owner     string
	Symbol    int
	Dir       int
	Price     int64
	Size      int64
	Remaining int64
}

// LoginQuery is the login v1 request: a Username plus the room-choice
// parameter from §6's CLI surface (an exact room name, or "" to
// auto-join).
type LoginQuery struct {
	Username string
	Room     string
}

// LoginResponse correlates the login RPC with the PlayerUpdate stream
// connection the client opens alongside it.
type LoginResponse struct {
	SessionID string
}

// StartPlayingQuery is Sit_anywhere | Sit_in(Seat).
type StartPlayingQuery struct {
	Anywhere bool
	Seat     int // meaningful only when !Anywhere
}

type StartPlayingResponse struct {
	Seat int
}

type SetReadyQuery struct {
	Ready bool
}

// PlaceOrderQuery carries the client's inbound order.
type PlaceOrderQuery struct {
	Order WireOrder
}

type CancelOrderQuery struct {
	OrderID uint64
}

type ChatQuery struct {
	Msg string
}

// GetUpdateQuery is Hand | Market: exactly one of the two is true.
type GetUpdateQuery struct {
	Hand   bool
	Market bool
}

// TimeLeftResponse carries the remaining round duration as nanoseconds,
// since time.Duration itself is just an int64 underneath but gob wants
// a concrete, version-stable field.
type TimeLeftResponse struct {
	RemainingNanos int64
}

func (r TimeLeftResponse) Remaining() time.Duration { return time.Duration(r.RemainingNanos) }

// Ack is the unit success response for RPCs whose table entry is `Ack`
// or `unit`.
type Ack struct{}

// RejectionFrame carries a non-fatal rejection kind back to the sender,
// drawn from internal/reject's closed taxonomy, in place of the
// RPC's normal response payload.
type RejectionFrame struct {
	Kind string
}
