package room

import (
	"github.com/google/uuid"

	"github.com/figgie-game/figgie/internal/market"
)

// outboundQueueSize bounds each subscriber's pending update backlog.
// Grounded on reusable_online_card_game_framework/server/internal/ws/hub.go's
// Client.send buffer size.
const outboundQueueSize = 64

// subscriber is one connected participant's outbound update queue. The
// room's command loop never blocks on a subscriber: enqueue is
// non-blocking and reports whether the subscriber should be dropped.
type subscriber struct {
	id  uuid.UUID
	who market.Username
	out chan any
}

// newSubscriber allocates a subscriber with its outbound queue.
func newSubscriber(id uuid.UUID, who market.Username) *subscriber {
	return &subscriber{id: id, who: who, out: make(chan any, outboundQueueSize)}
}

// enqueue attempts a non-blocking send. It reports false if the queue was
// full, which the caller treats as a disconnect signal per §5's
// backpressure rule: drop the stalled subscriber rather than stall the
// room.
func (s *subscriber) enqueue(v any) bool {
	select {
	case s.out <- v:
		return true
	default:
		return false
	}
}

// broadcast fans a single event out to every currently-subscribed
// connection, in room order, dropping any subscriber whose queue is full.
// It never blocks.
func (r *Room) broadcast(ev Broadcast) {
	for id, sub := range r.subs {
		if !sub.enqueue(ev) {
			r.logger.Warn("dropping stalled subscriber", "room", r.name, "subscriber", id)
			sub.closeLocked()
			delete(r.subs, id)
		}
	}
}

// sendHand delivers a player's own hand privately to their subscriber
// only, per §9's design note that the only truly private datum is each
// player's own Hand.
func (r *Room) sendHand(who market.Username, h market.Hand) {
	for id, sub := range r.subs {
		if sub.who != who {
			continue
		}
		if !sub.enqueue(h) {
			r.logger.Warn("dropping stalled subscriber on hand update", "room", r.name, "subscriber", id)
			sub.closeLocked()
			delete(r.subs, id)
		}
	}
}

// closeLocked closes the outbound queue so the connection's writer
// goroutine observes the drop and tears the connection down. Must only be
// called from the room's single command-loop goroutine.
func (s *subscriber) closeLocked() {
	close(s.out)
}
