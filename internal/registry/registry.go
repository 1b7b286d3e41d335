// Package registry implements the one process-wide mutable structure
// allowed by the specification: the set of live rooms plus the
// username registry that enforces server-wide login uniqueness. It is
// touched only on Login and room creation/destruction, never on a
// room's hot path.
//
// Grounded on hakimelghazi-exchange-core/cmd/server/main.go's use of a
// single shared pgxpool.Pool as the one resource every request reaches
// through outside the engine's own task; here replaced by a
// sync.Mutex-guarded map since persistence across restarts is a
// non-goal.
package registry

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/figgie-game/figgie/internal/config"
	"github.com/figgie-game/figgie/internal/market"
	"github.com/figgie-game/figgie/internal/reject"
	"github.com/figgie-game/figgie/internal/room"
	"github.com/figgie-game/figgie/internal/round"
)

// Registry owns every room in the process plus the username→room map
// used to reject a second Login under the same name anywhere on the
// server, not just within one room.
type Registry struct {
	mu        sync.Mutex
	cfg       config.RoundConfig
	clock     round.Clock
	logger    *slog.Logger
	rooms     map[string]*room.Room
	order     []string // room names in creation order, for auto-join scanning
	usernames map[market.Username]string
	nextID    int
}

// New constructs an empty Registry. clk is shared by every room it
// creates; pass round.RealClock{} in production and a fake in tests.
func New(cfg config.RoundConfig, clk round.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		cfg:       cfg,
		clock:     clk,
		logger:    logger,
		rooms:     make(map[string]*room.Room),
		usernames: make(map[market.Username]string),
	}
}

// Login resolves roomName to a room (creating it if named and absent,
// or picking/creating one if roomName is empty, i.e. auto-join), then
// logs who into it, after checking server-wide username uniqueness.
// The returned room is the one the caller should address every
// subsequent command for who to.
func (g *Registry) Login(who market.Username, roomName string) (*room.Room, *room.Subscription, error) {
	g.mu.Lock()
	if _, taken := g.usernames[who]; taken {
		g.mu.Unlock()
		return nil, nil, reject.New(reject.AlreadyLoggedIn)
	}
	r, name := g.resolveRoomLocked(roomName)
	g.mu.Unlock()

	sub, err := r.Login(who)
	if err != nil {
		return nil, nil, err
	}

	g.mu.Lock()
	g.usernames[who] = name
	g.mu.Unlock()
	return r, sub, nil
}

// Disconnect releases who's username reservation and tells their room
// to tear down their connection.
func (g *Registry) Disconnect(who market.Username) {
	g.mu.Lock()
	name, ok := g.usernames[who]
	delete(g.usernames, who)
	r := g.rooms[name]
	g.mu.Unlock()

	if ok && r != nil {
		r.Disconnect(who)
	}
}

// resolveRoomLocked must be called with g.mu held. An explicit
// roomName is created on first use and reused afterward. An empty
// roomName auto-joins the first room (in creation order) with an open
// seat, falling back to a freshly created room if none qualifies.
func (g *Registry) resolveRoomLocked(roomName string) (*room.Room, string) {
	if roomName != "" {
		if r, ok := g.rooms[roomName]; ok {
			return r, roomName
		}
		return g.createRoomLocked(roomName), roomName
	}

	for _, name := range g.order {
		r := g.rooms[name]
		if stats := r.Stats(); stats.OpenSeats > 0 {
			return r, name
		}
	}
	name := g.nextAutoNameLocked()
	return g.createRoomLocked(name), name
}

func (g *Registry) createRoomLocked(name string) *room.Room {
	seed := rand.Int63()
	r := room.New(name, g.cfg, g.clock, rand.New(rand.NewSource(seed)), g.logger)
	g.rooms[name] = r
	g.order = append(g.order, name)
	g.logger.Info("room created", "room", name)
	return r
}

func (g *Registry) nextAutoNameLocked() string {
	g.nextID++
	return fmt.Sprintf("room-%d", g.nextID)
}

// Room looks up a room by name for transport-layer queries (e.g.
// listing rooms on a lobby page). Returns nil if no such room exists.
func (g *Registry) Room(name string) *room.Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rooms[name]
}

// RoomNames lists every room in creation order.
func (g *Registry) RoomNames() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.order...)
}
