package room

import (
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/figgie-game/figgie/internal/config"
	"github.com/figgie-game/figgie/internal/market"
	"github.com/figgie-game/figgie/internal/reject"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestRoom(t *testing.T) *Room {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(nil, &slog.HandlerOptions{Level: slog.LevelError + 100}))
	clk := &fakeClock{now: time.Unix(0, 0)}
	r := New("test", config.Defaults(), clk, rand.New(rand.NewSource(1)), logger)
	t.Cleanup(r.Close)
	return r
}

// drain reads a single value off sub.Out, failing the test if none
// arrives promptly.
func drain(t *testing.T, sub *Subscription) any {
	t.Helper()
	select {
	case v, ok := <-sub.Out:
		if !ok {
			t.Fatalf("subscriber %s was disconnected", sub.ID)
		}
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for a broadcast")
		return nil
	}
}

// drainAll empties sub's queue, for clearing backlog a test doesn't care
// about before asserting on what comes next.
func drainAll(sub *Subscription) {
	for {
		select {
		case <-sub.Out:
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}

// seatFour logs in and seats four players (in seat order North..West, so
// players[0] is names[0] and so on), leaving every subscriber's backlog
// drained of the resulting Player_joined broadcasts.
func seatFour(t *testing.T, r *Room, names ...market.Username) map[market.Username]*Subscription {
	t.Helper()
	subs := make(map[market.Username]*Subscription, len(names))
	for _, name := range names {
		sub, err := r.Login(name)
		if err != nil {
			t.Fatalf("login %s: %v", name, err)
		}
		subs[name] = sub
	}
	for _, sub := range subs {
		drainAll(sub)
	}
	for _, name := range names {
		if _, err := r.StartPlaying(name, SitChoice{Anywhere: true}); err != nil {
			t.Fatalf("start-playing %s: %v", name, err)
		}
	}
	return subs
}

// readyAllAndDrain readies every player (triggering auto-start) and
// drains the resulting Player_ready / New_round / Hand backlog from every
// subscriber, leaving queues empty for the test's own assertions.
func readyAllAndDrain(t *testing.T, r *Room, subs map[market.Username]*Subscription, names []market.Username) {
	t.Helper()
	for _, name := range names {
		if err := r.SetReady(name, true); err != nil {
			t.Fatalf("set-ready %s: %v", name, err)
		}
	}
	for _, sub := range subs {
		drainAll(sub)
	}
}

func TestLoginRejectsDuplicateAndInvalid(t *testing.T) {
	r := newTestRoom(t)
	if _, err := r.Login("A"); err != nil {
		t.Fatalf("first login rejected: %v", err)
	}
	if _, err := r.Login("A"); !reject.Is(err, reject.AlreadyLoggedIn) {
		t.Fatalf("expected Already_logged_in, got %v", err)
	}
	if _, err := r.Login(""); !reject.Is(err, reject.InvalidUsername) {
		t.Fatalf("expected Invalid_username, got %v", err)
	}
}

func TestStartPlayingRejectsSeatOccupied(t *testing.T) {
	r := newTestRoom(t)
	r.Login("A")
	r.Login("B")
	if _, err := r.StartPlaying("A", SitChoice{Seat: North}); err != nil {
		t.Fatalf("A's start-playing rejected: %v", err)
	}
	if _, err := r.StartPlaying("B", SitChoice{Seat: North}); !reject.Is(err, reject.SeatOccupied) {
		t.Fatalf("expected Seat_occupied, got %v", err)
	}
}

func TestStartPlayingRejectsAlreadySeated(t *testing.T) {
	r := newTestRoom(t)
	r.Login("A")
	r.StartPlaying("A", SitChoice{Anywhere: true})
	if _, err := r.StartPlaying("A", SitChoice{Anywhere: true}); !reject.Is(err, reject.YoureAlreadyPlaying) {
		t.Fatalf("expected You're_already_playing, got %v", err)
	}
}

func TestSetReadyRejectsWhenNotSeated(t *testing.T) {
	r := newTestRoom(t)
	r.Login("A")
	if err := r.SetReady("A", true); !reject.Is(err, reject.YoureNotPlaying) {
		t.Fatalf("expected You're_not_playing, got %v", err)
	}
}

// TestAllReadyStartsRound exercises the full seating sequence and checks
// that a round auto-starts, broadcasting New_round to everyone and each
// player's own Hand privately.
func TestAllReadyStartsRound(t *testing.T) {
	r := newTestRoom(t)
	names := []market.Username{"A", "B", "C", "D"}
	subs := seatFour(t, r, names...)

	for i, name := range names {
		if err := r.SetReady(name, true); err != nil {
			t.Fatalf("set-ready %s: %v", name, err)
		}
		if i < len(names)-1 {
			// Every SetReady before the last broadcasts only Player_ready,
			// observed by every subscriber.
			for _, sub := range subs {
				if _, ok := drain(t, sub).(PlayerReady); !ok {
					t.Fatalf("expected Player_ready")
				}
			}
		}
	}

	// The fourth ready triggers auto-start: every subscriber observes
	// Player_ready then New_round, then each player receives their own
	// private Hand.
	for _, sub := range subs {
		if _, ok := drain(t, sub).(PlayerReady); !ok {
			t.Fatalf("expected Player_ready")
		}
		if _, ok := drain(t, sub).(NewRound); !ok {
			t.Fatalf("expected New_round")
		}
	}
	for _, name := range names {
		hand := drain(t, subs[name])
		h, ok := hand.(market.Hand)
		if !ok {
			t.Fatalf("expected a private Hand update for %s, got %T", name, hand)
		}
		if got := h.Sum(); got != 10 {
			t.Fatalf("expected hand size 10 for %s, got %d", name, got)
		}
	}
}

// TestPlaceOrderSimpleCross implements scenario S1 at the room level.
func TestPlaceOrderSimpleCross(t *testing.T) {
	r := newTestRoom(t)
	names := []market.Username{"A", "B", "C", "D"}
	subs := seatFour(t, r, names...)
	readyAllAndDrain(t, r, subs, names)

	if err := r.PlaceOrder("A", market.Order{ID: 1, Owner: "A", Symbol: market.Hearts, Dir: market.Buy, Price: 10, Size: 3}); err != nil {
		t.Fatalf("A's buy rejected: %v", err)
	}
	drainAll(subs["A"])
	drainAll(subs["C"])
	r.current.Hands["B"] = market.Hand{}.Add(market.Hearts, 2)
	if err := r.PlaceOrder("B", market.Order{ID: 1, Owner: "B", Symbol: market.Hearts, Dir: market.Sell, Price: 8, Size: 2}); err != nil {
		t.Fatalf("B's sell rejected: %v", err)
	}

	ev := drain(t, subs["C"]) // an uninvolved subscriber still observes the Exec
	exec, ok := ev.(Exec)
	if !ok {
		t.Fatalf("expected Exec, got %T", ev)
	}
	if len(exec.Fills) != 1 || exec.Fills[0].Size != 2 || exec.Fills[0].Price != 10 {
		t.Fatalf("unexpected fills: %+v", exec.Fills)
	}
}

// TestSelfCrossCancelsResting implements scenario S2 at the room level.
func TestSelfCrossCancelsResting(t *testing.T) {
	r := newTestRoom(t)
	names := []market.Username{"A", "B", "C", "D"}
	subs := seatFour(t, r, names...)
	readyAllAndDrain(t, r, subs, names)

	r.current.Hands["A"] = market.Hand{}.Add(market.Spades, 2)
	r.PlaceOrder("A", market.Order{ID: 1, Owner: "A", Symbol: market.Spades, Dir: market.Buy, Price: 9, Size: 5})
	drainAll(subs["A"])
	drainAll(subs["C"])
	r.PlaceOrder("A", market.Order{ID: 2, Owner: "A", Symbol: market.Spades, Dir: market.Sell, Price: 9, Size: 2})

	ev := drain(t, subs["C"])
	if _, ok := ev.(Out); !ok {
		t.Fatalf("expected Out for the self-crossed resting buy, got %T", ev)
	}
	ev = drain(t, subs["C"])
	exec, ok := ev.(Exec)
	if !ok || len(exec.Fills) != 0 {
		t.Fatalf("expected a fill-less Exec, got %+v", ev)
	}
}

// TestOrderingAcrossSubscribers implements scenario S6: every subscriber
// observes the same broadcasts in the same order.
func TestOrderingAcrossSubscribers(t *testing.T) {
	r := newTestRoom(t)
	names := []market.Username{"A", "B", "C", "D"}
	subs := seatFour(t, r, names...)
	readyAllAndDrain(t, r, subs, names)

	r.PlaceOrder("A", market.Order{ID: 1, Owner: "A", Symbol: market.Diamonds, Dir: market.Buy, Price: 7, Size: 5})
	for _, sub := range subs {
		drainAll(sub)
	}
	r.PlaceOrder("A", market.Order{ID: 2, Owner: "A", Symbol: market.Diamonds, Dir: market.Sell, Price: 7, Size: 5})

	var kinds []string
	for _, name := range []market.Username{"B", "C", "D"} {
		var got []string
		for i := 0; i < 2; i++ {
			switch drain(t, subs[name]).(type) {
			case Out:
				got = append(got, "Out")
			case Exec:
				got = append(got, "Exec")
			}
		}
		if kinds == nil {
			kinds = got
		} else if got[0] != kinds[0] || got[1] != kinds[1] {
			t.Fatalf("subscriber %s saw a different order: %v != %v", name, got, kinds)
		}
	}
	if kinds[0] != "Out" || kinds[1] != "Exec" {
		t.Fatalf("expected [Out, Exec], got %v", kinds)
	}
}

func TestCancelOrderRejectsWrongOwnerAndMissing(t *testing.T) {
	r := newTestRoom(t)
	names := []market.Username{"A", "B", "C", "D"}
	subs := seatFour(t, r, names...)
	readyAllAndDrain(t, r, subs, names)

	r.PlaceOrder("A", market.Order{ID: 1, Owner: "A", Symbol: market.Clubs, Dir: market.Buy, Price: 5, Size: 1})
	for _, sub := range subs {
		drainAll(sub)
	}

	if err := r.CancelOrder("B", 1); !reject.Is(err, reject.NoSuchOrder) {
		t.Fatalf("expected No_such_order for wrong owner, got %v", err)
	}
	if err := r.CancelOrder("A", 99); !reject.Is(err, reject.NoSuchOrder) {
		t.Fatalf("expected No_such_order for unknown id, got %v", err)
	}
}

func TestDisconnectObserverIsRemoved(t *testing.T) {
	r := newTestRoom(t)
	sub, _ := r.Login("A")
	drainAll(sub) // A's own Player_joined
	r.Disconnect("A")
	if _, ok := <-sub.Out; ok {
		t.Fatalf("expected the subscriber's stream to be closed on disconnect")
	}
	// A fresh login with the same name should now succeed.
	if _, err := r.Login("A"); err != nil {
		t.Fatalf("expected re-login to succeed after disconnect, got %v", err)
	}
}

func TestChatRequiresLogin(t *testing.T) {
	r := newTestRoom(t)
	if err := r.Chat("ghost", "hi"); !reject.Is(err, reject.LoginFirst) {
		t.Fatalf("expected Login_first, got %v", err)
	}
	sub, _ := r.Login("A")
	drainAll(sub) // A's own Player_joined
	if err := r.Chat("A", "hello"); err != nil {
		t.Fatalf("chat rejected: %v", err)
	}
	ev := drain(t, sub)
	chat, ok := ev.(Chat)
	if !ok || chat.Msg != "hello" {
		t.Fatalf("expected Chat{hello}, got %+v", ev)
	}
}

// TestEndRoundScoring implements scenario S5's broadcast sequence:
// resting Outs, then Round_over, then cumulative Scores.
func TestEndRoundScoring(t *testing.T) {
	r := newTestRoom(t)
	names := []market.Username{"A", "B", "C", "D"}
	subs := seatFour(t, r, names...)
	readyAllAndDrain(t, r, subs, names)

	r.PlaceOrder("A", market.Order{ID: 1, Owner: "A", Symbol: market.Diamonds, Dir: market.Buy, Price: 7, Size: 5})
	for _, sub := range subs {
		drainAll(sub)
	}

	r.current.Gold = market.Spades
	r.current.Hands["A"] = market.Hand{}.Add(market.Spades, 5)
	r.current.Hands["B"] = market.Hand{}.Add(market.Spades, 3)
	r.current.Hands["C"] = market.Hand{}.Add(market.Spades, 1)
	r.current.Hands["D"] = market.Hand{}.Add(market.Spades, 1)

	r.endRound()

	ev := drain(t, subs["A"])
	if _, ok := ev.(Out); !ok {
		t.Fatalf("expected the resting buy to be flushed as Out, got %T", ev)
	}
	ev = drain(t, subs["A"])
	over, ok := ev.(RoundOver)
	if !ok {
		t.Fatalf("expected RoundOver, got %T", ev)
	}
	if over.Gold != market.Spades {
		t.Fatalf("expected gold Spades, got %v", over.Gold)
	}
	if over.ScoresThisRound["A"] != 150 {
		t.Fatalf("expected A's score 150, got %d", over.ScoresThisRound["A"])
	}

	ev = drain(t, subs["A"])
	scores, ok := ev.(Scores)
	if !ok {
		t.Fatalf("expected Scores, got %T", ev)
	}
	if scores.Cumulative["A"] != 150 {
		t.Fatalf("expected cumulative A score 150, got %d", scores.Cumulative["A"])
	}

	// Every player should be back to Waiting{is_ready=false}.
	if r.users["A"].player.playing {
		t.Fatalf("expected A to be reset to Waiting after round end")
	}
}
