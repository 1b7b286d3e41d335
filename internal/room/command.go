package room

import (
	"time"

	"github.com/google/uuid"

	"github.com/figgie-game/figgie/internal/market"
)

// cmdType enumerates every command the room's single command-loop
// goroutine accepts, mirroring §4.5's command set plus the internal
// round-timeout tick and disconnect notifications.
//
// Grounded on hakimelghazi-exchange-core/internal/engine/command.go's
// CommandType/Command shape, extended from two command kinds to the
// full §6 RPC surface.
type cmdType int

const (
	cmdLogin cmdType = iota
	cmdStartPlaying
	cmdSetReady
	cmdPlaceOrder
	cmdCancelOrder
	cmdCancelAll
	cmdChat
	cmdGetHand
	cmdGetMarket
	cmdTimeRemaining
	cmdDisconnect
	cmdTick
	cmdStats
)

// SitChoice is the start-playing query: either an explicit seat or
// "anywhere", per §6's Sit_anywhere | Sit_in(Seat).
type SitChoice struct {
	Anywhere bool
	Seat     Seat
}

// command is the single envelope type sent to a room's command loop.
// Only the fields relevant to Type are populated; resp always receives
// exactly one reply before the call returns.
type command struct {
	typ     cmdType
	conn    uuid.UUID
	who     market.Username
	sit     SitChoice
	ready   bool
	order   market.Order
	orderID market.OrderId
	chatMsg string
	resp    chan response
}

// response is the single reply type for every command.
type response struct {
	err      error
	seat     Seat
	duration time.Duration
	sub      *subscriber
	stats    Stats
}

// Stats is a point-in-time snapshot used by internal/registry to pick an
// auto-join target without reaching into a Room's internals.
type Stats struct {
	Users      int
	OpenSeats  int
	InProgress bool
}
