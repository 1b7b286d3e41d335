package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/figgie-game/figgie/internal/wire"
)

// pingInterval matches the card-game framework's Client writer-goroutine
// keepalive cadence.
const pingInterval = 15 * time.Second

// serveStream upgrades the connection and pushes sess.sub.Out onto it as
// wire-encoded PlayerUpdate frames until the subscription closes or the
// client disconnects. A browser cannot set a custom header on a
// WebSocket handshake, so the session id travels as a query parameter
// instead of the X-Figgie-Session header the RPC listener uses.
//
// Grounded on
// reusable_online_card_game_framework/server/internal/ws/hub.go's
// ServeWS: a reader goroutine detects the client going away while the
// main loop owns writes, plus a ping ticker to keep the connection
// alive through idle stretches.
func (s *Server) serveStream(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("session"))
	if err != nil {
		http.Error(w, "missing or invalid session", http.StatusBadRequest)
		return
	}
	sess, ok := s.sessions.get(id)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	// The RPC listener (58828) and this stream listener (58829) are
	// different origins to a browser even on localhost; §6 draws the
	// line at unique usernames for auth, so origin checking is skipped
	// rather than standing up an allowlist for a boundary the spec
	// doesn't ask this server to guard.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	defer conn.CloseNow()
	ctx := r.Context()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-gone:
			s.registry.Disconnect(sess.who)
			return
		case v, ok := <-sess.sub.Out:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "subscription closed")
				return
			}
			data, err := wire.Encode(wire.FramePlayerUpdate, wire.V1, wire.ToUpdate(v))
			if err != nil {
				s.logger.Error("encode player update", "err", err)
				continue
			}
			if err := conn.Write(ctx, websocket.MessageBinary, data); err != nil {
				return
			}
		case <-ping.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
