package transport

import (
	"sync"

	"github.com/google/uuid"

	"github.com/figgie-game/figgie/internal/market"
	"github.com/figgie-game/figgie/internal/room"
)

// session binds one logged-in connection's RPC calls and PlayerUpdate
// stream to the room and username it logged in as. Every RPC after
// login carries the session's id in an X-Figgie-Session header; the
// websocket stream carries it as a "session" query parameter, since
// browsers cannot set custom headers on a WebSocket handshake.
type session struct {
	id   uuid.UUID
	who  market.Username
	room *room.Room
	sub  *room.Subscription
}

// sessionStore is the RPC listener's only piece of shared mutable
// state, grounded on the same coarse-lock discipline
// internal/registry uses for cross-room state: written at login and read
// once per RPC and stream handshake to look the session up.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[uuid.UUID]*session)}
}

func (s *sessionStore) create(who market.Username, r *room.Room, sub *room.Subscription) *session {
	sess := &session{id: uuid.New(), who: who, room: r, sub: sub}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess
}

func (s *sessionStore) get(id uuid.UUID) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *sessionStore) remove(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
