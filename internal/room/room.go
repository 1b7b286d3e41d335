// Package room implements a single game room: its lobby/seating state
// machine, the single-writer command loop that serializes every mutation,
// the round it owns while a game is in progress, and the per-subscriber
// broadcast fan-out. A Room knows nothing about transport — callers drive
// it through the exported methods below, which block until the room's
// loop goroutine has processed the command and return whatever that
// goroutine decided.
//
// Grounded on hakimelghazi-exchange-core/internal/engine/loop.go's
// Engine.Run: a select over a buffered command channel, with each command
// carrying its own reply channel. Figgie generalizes the two-command
// exchange-core loop to the full §6 command set and adds a timer branch
// for round countdown plus a broadcast fan-out step after every mutating
// command.
package room

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/figgie-game/figgie/internal/config"
	"github.com/figgie-game/figgie/internal/market"
	"github.com/figgie-game/figgie/internal/round"
)

// maxUsers bounds total logged-in users (players + observers) in a room,
// the threshold for §6's Game_is_full login error. Observers are
// otherwise unlimited, so this is set generously.
const maxUsers = 64

// Room is one lobby + its current round, if any.
type Room struct {
	name   string
	cfg    config.RoundConfig
	clock  round.Clock
	rng    *rand.Rand
	logger *slog.Logger

	cmds chan *command
	done chan struct{}

	users   map[market.Username]*user
	seating [4]market.Username // empty string means the seat is open
	subs    map[uuid.UUID]*subscriber

	current    *round.Round
	timer      *time.Timer
	cumulative map[market.Username]market.Price
}

// New constructs a room and starts its command-loop goroutine.
func New(name string, cfg config.RoundConfig, clk round.Clock, rng *rand.Rand, logger *slog.Logger) *Room {
	r := &Room{
		name:       name,
		cfg:        cfg,
		clock:      clk,
		rng:        rng,
		logger:     logger.With("room", name),
		cmds:       make(chan *command, 256),
		done:       make(chan struct{}),
		users:      make(map[market.Username]*user),
		subs:       make(map[uuid.UUID]*subscriber),
		cumulative: make(map[market.Username]market.Price),
	}
	go r.run()
	return r
}

// Close stops the room's command loop and closes every subscriber's
// outbound queue.
func (r *Room) Close() {
	close(r.done)
}

func (r *Room) timerChan() <-chan time.Time {
	if r.timer == nil {
		return nil
	}
	return r.timer.C
}

func (r *Room) run() {
	for {
		select {
		case cmd := <-r.cmds:
			r.dispatch(cmd)
		case <-r.timerChan():
			r.endRound()
		case <-r.done:
			for _, sub := range r.subs {
				sub.closeLocked()
			}
			return
		}
	}
}

// send submits cmd and blocks for its response. It is the only way any
// exported method reaches the command loop.
func (r *Room) send(cmd *command) response {
	cmd.resp = make(chan response, 1)
	r.cmds <- cmd
	return <-cmd.resp
}

// Subscription is the transport-facing handle for one logged-in
// connection's outbound update stream.
type Subscription struct {
	ID  uuid.UUID
	Out <-chan any
}

// Login creates a new Observer in the room and returns their update
// subscription.
func (r *Room) Login(who market.Username) (*Subscription, error) {
	connID := uuid.New()
	res := r.send(&command{typ: cmdLogin, who: who, conn: connID})
	if res.err != nil {
		return nil, res.err
	}
	return &Subscription{ID: connID, Out: res.sub.out}, nil
}

func (r *Room) StartPlaying(who market.Username, sit SitChoice) (Seat, error) {
	res := r.send(&command{typ: cmdStartPlaying, who: who, sit: sit})
	return res.seat, res.err
}

func (r *Room) SetReady(who market.Username, ready bool) error {
	return r.send(&command{typ: cmdSetReady, who: who, ready: ready}).err
}

func (r *Room) PlaceOrder(who market.Username, o market.Order) error {
	return r.send(&command{typ: cmdPlaceOrder, who: who, order: o}).err
}

func (r *Room) CancelOrder(who market.Username, id market.OrderId) error {
	return r.send(&command{typ: cmdCancelOrder, who: who, orderID: id}).err
}

func (r *Room) CancelAll(who market.Username) error {
	return r.send(&command{typ: cmdCancelAll, who: who}).err
}

func (r *Room) Chat(who market.Username, msg string) error {
	return r.send(&command{typ: cmdChat, who: who, chatMsg: msg}).err
}

// GetHand requests the caller's own hand be pushed onto their stream.
func (r *Room) GetHand(who market.Username) error {
	return r.send(&command{typ: cmdGetHand, who: who}).err
}

// GetMarket requests the current book be pushed onto the caller's stream.
func (r *Room) GetMarket(who market.Username) error {
	return r.send(&command{typ: cmdGetMarket, who: who}).err
}

func (r *Room) TimeRemaining(who market.Username) (time.Duration, error) {
	res := r.send(&command{typ: cmdTimeRemaining, who: who})
	return res.duration, res.err
}

// Stats reports a point-in-time snapshot for internal/registry's
// auto-join selection. It never fails.
func (r *Room) Stats() Stats {
	return r.send(&command{typ: cmdStats}).stats
}

// Disconnect marks who's connection as gone, per §5's cancellation rule:
// a Player is kept alive but marked disconnected until the round ends;
// an Observer is removed immediately.
func (r *Room) Disconnect(who market.Username) {
	r.send(&command{typ: cmdDisconnect, who: who})
}

func (r *Room) dispatch(cmd *command) {
	switch cmd.typ {
	case cmdLogin:
		r.handleLogin(cmd)
	case cmdStartPlaying:
		r.handleStartPlaying(cmd)
	case cmdSetReady:
		r.handleSetReady(cmd)
	case cmdPlaceOrder:
		r.handlePlaceOrder(cmd)
	case cmdCancelOrder:
		r.handleCancelOrder(cmd)
	case cmdCancelAll:
		r.handleCancelAll(cmd)
	case cmdChat:
		r.handleChat(cmd)
	case cmdGetHand:
		r.handleGetHand(cmd)
	case cmdGetMarket:
		r.handleGetMarket(cmd)
	case cmdTimeRemaining:
		r.handleTimeRemaining(cmd)
	case cmdDisconnect:
		r.handleDisconnect(cmd)
	case cmdStats:
		r.handleStats(cmd)
	}
}

func (r *Room) reply(cmd *command, res response) {
	cmd.resp <- res
}
