package registry

import (
	"log/slog"
	"testing"
	"time"

	"github.com/figgie-game/figgie/internal/config"
	"github.com/figgie-game/figgie/internal/market"
	"github.com/figgie-game/figgie/internal/reject"
	"github.com/figgie-game/figgie/internal/room"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(nil, &slog.HandlerOptions{Level: slog.LevelError + 100}))
	return New(config.Defaults(), &fakeClock{now: time.Unix(0, 0)}, logger)
}

func TestLoginAutoJoinCreatesARoom(t *testing.T) {
	g := newTestRegistry(t)
	r, sub, err := g.Login("A", "")
	if err != nil {
		t.Fatalf("login rejected: %v", err)
	}
	if r == nil || sub == nil {
		t.Fatalf("expected a room and subscription")
	}
	if names := g.RoomNames(); len(names) != 1 {
		t.Fatalf("expected exactly one room, got %v", names)
	}
}

func TestLoginRejectsDuplicateUsernameAcrossRooms(t *testing.T) {
	g := newTestRegistry(t)
	if _, _, err := g.Login("A", "alpha"); err != nil {
		t.Fatalf("first login rejected: %v", err)
	}
	if _, _, err := g.Login("A", "beta"); !reject.Is(err, reject.AlreadyLoggedIn) {
		t.Fatalf("expected Already_logged_in for a duplicate username in a different room, got %v", err)
	}
}

func TestLoginWithExplicitRoomNameReusesIt(t *testing.T) {
	g := newTestRegistry(t)
	r1, _, err := g.Login("A", "alpha")
	if err != nil {
		t.Fatalf("login rejected: %v", err)
	}
	r2, _, err := g.Login("B", "alpha")
	if err != nil {
		t.Fatalf("second login rejected: %v", err)
	}
	if r1 != r2 {
		t.Fatalf("expected both users in the same room")
	}
}

// TestLoginAutoJoinFillsBeforeCreating checks that auto-join fills an
// existing room's open seats before spinning up a new one, and only
// starts a new room once the prior one's seats are gone.
func TestLoginAutoJoinFillsBeforeCreating(t *testing.T) {
	g := newTestRegistry(t)
	names := []market.Username{"A", "B", "C", "D"}

	for _, name := range names {
		r, _, err := g.Login(name, "")
		if err != nil {
			t.Fatalf("login %s rejected: %v", name, err)
		}
		if _, err := r.StartPlaying(name, room.SitChoice{Anywhere: true}); err != nil {
			t.Fatalf("start-playing %s rejected: %v", name, err)
		}
	}
	if len(g.RoomNames()) != 1 {
		t.Fatalf("expected all four auto-joins to land in one room while seats remain open")
	}

	// A fifth auto-join has no open seat left once all four are seated,
	// so it should start a second room.
	if _, _, err := g.Login("E", ""); err != nil {
		t.Fatalf("fifth login rejected: %v", err)
	}
	if len(g.RoomNames()) != 2 {
		t.Fatalf("expected a second room once the first filled its seats, got %v", g.RoomNames())
	}
}

func TestDisconnectFreesUsername(t *testing.T) {
	g := newTestRegistry(t)
	if _, _, err := g.Login("A", "alpha"); err != nil {
		t.Fatalf("login rejected: %v", err)
	}
	g.Disconnect("A")
	if _, _, err := g.Login("A", "beta"); err != nil {
		t.Fatalf("expected re-login after disconnect to succeed, got %v", err)
	}
}
