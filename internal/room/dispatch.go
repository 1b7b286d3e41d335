package room

import (
	"time"

	"github.com/figgie-game/figgie/internal/market"
	"github.com/figgie-game/figgie/internal/reject"
	"github.com/figgie-game/figgie/internal/round"
)

func (r *Room) handleLogin(cmd *command) {
	if len(r.users) >= maxUsers {
		r.reply(cmd, response{err: reject.New(reject.GameIsFull)})
		return
	}
	if cmd.who == "" {
		r.reply(cmd, response{err: reject.New(reject.InvalidUsername)})
		return
	}
	if _, exists := r.users[cmd.who]; exists {
		r.reply(cmd, response{err: reject.New(reject.AlreadyLoggedIn)})
		return
	}

	r.users[cmd.who] = &user{name: cmd.who, connected: true}
	sub := newSubscriber(cmd.conn, cmd.who)
	r.subs[cmd.conn] = sub

	r.broadcast(PlayerJoined{Who: cmd.who})
	r.reply(cmd, response{sub: sub})
}

func (r *Room) handleStartPlaying(cmd *command) {
	u, ok := r.users[cmd.who]
	if !ok {
		r.reply(cmd, response{err: reject.New(reject.NotLoggedIn)})
		return
	}
	if u.isSeated() {
		r.reply(cmd, response{err: reject.New(reject.YoureAlreadyPlaying)})
		return
	}
	if r.current != nil {
		r.reply(cmd, response{err: reject.New(reject.GameAlreadyStarted)})
		return
	}

	seat, err := r.assignSeat(cmd.sit)
	if err != nil {
		r.reply(cmd, response{err: err})
		return
	}

	u.player = &playerState{seat: seat}
	r.seating[seat] = cmd.who
	r.reply(cmd, response{seat: seat})
}

func (r *Room) assignSeat(sit SitChoice) (Seat, error) {
	if !sit.Anywhere {
		if r.seating[sit.Seat] != "" {
			return 0, reject.New(reject.SeatOccupied)
		}
		return sit.Seat, nil
	}
	for _, s := range Seats {
		if r.seating[s] == "" {
			return s, nil
		}
	}
	return 0, reject.New(reject.SeatOccupied)
}

func (r *Room) handleSetReady(cmd *command) {
	u, ok := r.users[cmd.who]
	if !ok {
		r.reply(cmd, response{err: reject.New(reject.NotLoggedIn)})
		return
	}
	if u.player == nil {
		r.reply(cmd, response{err: reject.New(reject.YoureNotPlaying)})
		return
	}
	if r.current != nil {
		r.reply(cmd, response{err: reject.New(reject.AlreadyPlaying)})
		return
	}

	u.player.ready = cmd.ready
	r.broadcast(PlayerReady{Who: cmd.who, IsReady: cmd.ready})

	if r.allSeatedAndReady() {
		r.startRound()
	}
	r.reply(cmd, response{})
}

func (r *Room) allSeatedAndReady() bool {
	for _, name := range r.seating {
		if name == "" {
			return false
		}
		if !r.users[name].player.ready {
			return false
		}
	}
	return true
}

func (r *Room) startRound() {
	players := make([]market.Username, 0, 4)
	for _, s := range Seats {
		players = append(players, r.seating[s])
	}

	r.current = round.New(r.clock, r.cfg, r.rng, players)
	r.timer = time.NewTimer(r.cfg.RoundDuration)

	for _, name := range players {
		u := r.users[name]
		u.player.playing = true
		u.player.ready = false
	}

	r.broadcast(NewRound{})
	for _, name := range players {
		r.sendHand(name, r.current.Hands[name])
	}
}

func (r *Room) handlePlaceOrder(cmd *command) {
	u, ok := r.users[cmd.who]
	if !ok {
		r.reply(cmd, response{err: reject.New(reject.NotLoggedIn)})
		return
	}
	if !u.isPlaying() {
		r.reply(cmd, response{err: reject.New(reject.YoureNotPlaying)})
		return
	}
	if r.current == nil {
		r.reply(cmd, response{err: reject.New(reject.GameNotInProgress)})
		return
	}

	events, err := r.current.PlaceOrder(cmd.who, cmd.order)
	if err != nil {
		r.reply(cmd, response{err: err})
		return
	}

	touched := map[market.Username]bool{cmd.order.Owner: true}
	for _, ev := range events {
		if bc := fromRoundEvent(ev); bc != nil {
			r.broadcast(bc)
		}
		if exec, ok := ev.(round.Exec); ok {
			for _, f := range exec.Fills {
				touched[f.CounterpartyOwner] = true
			}
		}
	}
	for name := range touched {
		r.sendHand(name, r.current.Hands[name])
	}

	// The ack is only observable to the sender after every broadcast
	// caused by this command has been enqueued to all subscribers.
	r.reply(cmd, response{})
}

func (r *Room) handleCancelOrder(cmd *command) {
	u, ok := r.users[cmd.who]
	if !ok {
		r.reply(cmd, response{err: reject.New(reject.NotLoggedIn)})
		return
	}
	if !u.isPlaying() {
		r.reply(cmd, response{err: reject.New(reject.YoureNotPlaying)})
		return
	}
	if r.current == nil {
		r.reply(cmd, response{err: reject.New(reject.GameNotInProgress)})
		return
	}

	o, err := r.current.CancelOrder(cmd.who, cmd.orderID)
	if err != nil {
		r.reply(cmd, response{err: err})
		return
	}
	r.broadcast(Out{Order: *o})
	r.reply(cmd, response{})
}

func (r *Room) handleCancelAll(cmd *command) {
	u, ok := r.users[cmd.who]
	if !ok {
		r.reply(cmd, response{err: reject.New(reject.NotLoggedIn)})
		return
	}
	if !u.isPlaying() {
		r.reply(cmd, response{err: reject.New(reject.YoureNotPlaying)})
		return
	}
	if r.current == nil {
		r.reply(cmd, response{err: reject.New(reject.GameNotInProgress)})
		return
	}

	removed := r.current.CancelAll(cmd.who)
	for _, o := range removed {
		r.broadcast(Out{Order: *o})
	}
	r.reply(cmd, response{})
}

func (r *Room) handleChat(cmd *command) {
	if _, ok := r.users[cmd.who]; !ok {
		r.reply(cmd, response{err: reject.New(reject.LoginFirst)})
		return
	}
	r.broadcast(Chat{Who: cmd.who, Msg: cmd.chatMsg})
	r.reply(cmd, response{})
}

func (r *Room) handleGetHand(cmd *command) {
	u, ok := r.users[cmd.who]
	if !ok || !u.isPlaying() || r.current == nil {
		r.reply(cmd, response{err: reject.New(reject.YoureNotPlaying)})
		return
	}
	r.sendHand(cmd.who, r.current.Hands[cmd.who])
	r.reply(cmd, response{})
}

func (r *Room) handleGetMarket(cmd *command) {
	u, ok := r.users[cmd.who]
	if !ok || !u.isPlaying() || r.current == nil {
		r.reply(cmd, response{err: reject.New(reject.YoureNotPlaying)})
		return
	}
	snap := snapshotMarket(r.current.Book)
	for id, sub := range r.subs {
		if sub.who != cmd.who {
			continue
		}
		if !sub.enqueue(snap) {
			r.logger.Warn("dropping stalled subscriber on market update", "subscriber", id)
			sub.closeLocked()
			delete(r.subs, id)
		}
	}
	r.reply(cmd, response{})
}

func (r *Room) handleTimeRemaining(cmd *command) {
	if r.current == nil {
		r.reply(cmd, response{err: reject.New(reject.GameNotInProgress)})
		return
	}
	left, ok := r.current.TimeRemaining(r.clock)
	if !ok {
		r.reply(cmd, response{err: reject.New(reject.GameNotInProgress)})
		return
	}
	r.reply(cmd, response{duration: left})
}

func (r *Room) handleDisconnect(cmd *command) {
	u, ok := r.users[cmd.who]
	if !ok {
		r.reply(cmd, response{})
		return
	}
	u.connected = false
	for id, sub := range r.subs {
		if sub.who == cmd.who {
			sub.closeLocked()
			delete(r.subs, id)
		}
	}
	if u.player == nil {
		delete(r.users, cmd.who)
	}
	r.reply(cmd, response{})
}

func (r *Room) handleStats(cmd *command) {
	open := 0
	for _, name := range r.seating {
		if name == "" {
			open++
		}
	}
	r.reply(cmd, response{stats: Stats{
		Users:      len(r.users),
		OpenSeats:  open,
		InProgress: r.current != nil,
	}})
}

// endRound flushes every resting order, computes and broadcasts this
// round's scores plus the updated cumulative totals, then resets every
// player to Waiting{is_ready=false}, per §4.4's termination ordering.
func (r *Room) endRound() {
	if r.current == nil {
		return
	}

	players := make([]market.Username, 0, 4)
	for _, s := range Seats {
		players = append(players, r.seating[s])
	}

	events := r.current.End()
	for _, ev := range events {
		if out, ok := ev.(round.Out); ok {
			r.broadcast(Out{Order: out.Order})
		}
	}

	ended := events[len(events)-1].(round.Ended)
	combined := make(map[market.Username]market.Price, len(players))
	for _, p := range players {
		combined[p] = ended.ScoresThisRound[p] + r.current.Cash[p]
		r.cumulative[p] += combined[p]
	}

	r.broadcast(RoundOver{Gold: ended.Gold, Hands: ended.Hands, ScoresThisRound: combined})
	r.broadcast(Scores{Cumulative: copyScores(r.cumulative)})

	for _, name := range players {
		u := r.users[name]
		if !u.connected {
			delete(r.users, name)
			r.seating[u.player.seat] = ""
			continue
		}
		u.player.playing = false
		u.player.ready = false
	}

	r.current = nil
	r.timer = nil
}

func copyScores(m map[market.Username]market.Price) map[market.Username]market.Price {
	out := make(map[market.Username]market.Price, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
