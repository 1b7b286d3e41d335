package transport

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/figgie-game/figgie/internal/market"
	"github.com/figgie-game/figgie/internal/reject"
	"github.com/figgie-game/figgie/internal/room"
	"github.com/figgie-game/figgie/internal/wire"
)

type sessionCtxKey struct{}

func sessionFromContext(ctx context.Context) *session {
	sess, _ := ctx.Value(sessionCtxKey{}).(*session)
	return sess
}

// withSession requires a valid X-Figgie-Session header before running
// next, rejecting with Not_logged_in otherwise — every RPC past login
// in §6's table assumes an established session.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get("X-Figgie-Session"))
		if err != nil {
			s.writeRejection(w, r, sessionlessFrameName(r), reject.New(reject.NotLoggedIn))
			return
		}
		sess, ok := s.sessions.get(id)
		if !ok {
			s.writeRejection(w, r, sessionlessFrameName(r), reject.New(reject.NotLoggedIn))
			return
		}
		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
		next(w, r.WithContext(ctx))
	}
}

// routeRPCName maps an RPC route's path to its wire RPC name, so a
// rejection sent by withSession (before the handler even runs) still
// carries the same frame name a client expects for that route.
var routeRPCName = map[string]string{
	"/rpc/start-playing": wire.RPCStartPlaying,
	"/rpc/ready":         wire.RPCSetReady,
	"/rpc/order":         wire.RPCPlaceOrder,
	"/rpc/cancel":        wire.RPCCancelOrder,
	"/rpc/cxl-all":       wire.RPCCancelAll,
	"/rpc/chat":          wire.RPCChat,
	"/rpc/get-update":    wire.RPCGetUpdate,
	"/rpc/time-left":     wire.RPCTimeLeft,
}

func sessionlessFrameName(r *http.Request) string {
	if name, ok := routeRPCName[r.URL.Path]; ok {
		return name
	}
	return r.URL.Path
}

// ok encodes v as name's success frame and writes it with 200 OK.
func (s *Server) ok(w http.ResponseWriter, name string, v any) {
	data, err := wire.Encode(name, wire.V1, v)
	if err != nil {
		s.logger.Error("encode response", "name", name, "err", err)
		http.Error(w, "encode failure", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeRejection encodes err as name's rejection frame (name+".reject")
// and writes it with 409 Conflict, per §7's closed, non-fatal,
// recoverable rejection taxonomy.
func (s *Server) writeRejection(w http.ResponseWriter, r *http.Request, name string, err error) {
	kind := "Internal_error"
	if e, ok := err.(reject.Err); ok {
		kind = string(e.Kind)
	}
	data, encErr := wire.Encode(name+".reject", wire.V1, wire.RejectionFrame{Kind: kind})
	if encErr != nil {
		writeProblem(w, r, http.StatusInternalServerError, "encode_failure", encErr.Error())
		return
	}
	w.WriteHeader(http.StatusConflict)
	_, _ = w.Write(data)
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, "read_failed", err.Error())
		return
	}
	var q wire.LoginQuery
	if err := wire.Decode(body, wire.RPCLogin, wire.V1, &q); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "malformed_frame", err.Error())
		return
	}

	rm, sub, err := s.registry.Login(market.Username(q.Username), q.Room)
	if err != nil {
		s.writeRejection(w, r, wire.RPCLogin, err)
		return
	}
	sess := s.sessions.create(market.Username(q.Username), rm, sub)
	s.ok(w, wire.RPCLogin, wire.LoginResponse{SessionID: sess.id.String()})
}

func (s *Server) handleStartPlaying(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	body, err := readBody(r)
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, "read_failed", err.Error())
		return
	}
	var q wire.StartPlayingQuery
	if err := wire.Decode(body, wire.RPCStartPlaying, wire.V1, &q); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "malformed_frame", err.Error())
		return
	}

	sit := room.SitChoice{Anywhere: q.Anywhere, Seat: room.Seat(q.Seat)}
	seat, err := sess.room.StartPlaying(sess.who, sit)
	if err != nil {
		s.writeRejection(w, r, wire.RPCStartPlaying, err)
		return
	}
	s.ok(w, wire.RPCStartPlaying, wire.StartPlayingResponse{Seat: int(seat)})
}

func (s *Server) handleSetReady(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	body, err := readBody(r)
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, "read_failed", err.Error())
		return
	}
	var q wire.SetReadyQuery
	if err := wire.Decode(body, wire.RPCSetReady, wire.V1, &q); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "malformed_frame", err.Error())
		return
	}
	if err := sess.room.SetReady(sess.who, q.Ready); err != nil {
		s.writeRejection(w, r, wire.RPCSetReady, err)
		return
	}
	s.ok(w, wire.RPCSetReady, wire.Ack{})
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	body, err := readBody(r)
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, "read_failed", err.Error())
		return
	}
	var q wire.PlaceOrderQuery
	if err := wire.Decode(body, wire.RPCPlaceOrder, wire.V1, &q); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "malformed_frame", err.Error())
		return
	}
	o := wire.FromWireOrder(q.Order)
	o.Owner = sess.who
	if err := sess.room.PlaceOrder(sess.who, o); err != nil {
		s.writeRejection(w, r, wire.RPCPlaceOrder, err)
		return
	}
	s.ok(w, wire.RPCPlaceOrder, wire.Ack{})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	body, err := readBody(r)
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, "read_failed", err.Error())
		return
	}
	var q wire.CancelOrderQuery
	if err := wire.Decode(body, wire.RPCCancelOrder, wire.V1, &q); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "malformed_frame", err.Error())
		return
	}
	if err := sess.room.CancelOrder(sess.who, market.OrderId(q.OrderID)); err != nil {
		s.writeRejection(w, r, wire.RPCCancelOrder, err)
		return
	}
	s.ok(w, wire.RPCCancelOrder, wire.Ack{})
}

func (s *Server) handleCancelAll(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if err := sess.room.CancelAll(sess.who); err != nil {
		s.writeRejection(w, r, wire.RPCCancelAll, err)
		return
	}
	s.ok(w, wire.RPCCancelAll, wire.Ack{})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	body, err := readBody(r)
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, "read_failed", err.Error())
		return
	}
	var q wire.ChatQuery
	if err := wire.Decode(body, wire.RPCChat, wire.V1, &q); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "malformed_frame", err.Error())
		return
	}
	if err := sess.room.Chat(sess.who, q.Msg); err != nil {
		s.writeRejection(w, r, wire.RPCChat, err)
		return
	}
	s.ok(w, wire.RPCChat, wire.Ack{})
}

func (s *Server) handleGetUpdate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	body, err := readBody(r)
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, "read_failed", err.Error())
		return
	}
	var q wire.GetUpdateQuery
	if err := wire.Decode(body, wire.RPCGetUpdate, wire.V1, &q); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "malformed_frame", err.Error())
		return
	}

	var rpcErr error
	switch {
	case q.Hand:
		rpcErr = sess.room.GetHand(sess.who)
	case q.Market:
		rpcErr = sess.room.GetMarket(sess.who)
	}
	if rpcErr != nil {
		s.writeRejection(w, r, wire.RPCGetUpdate, rpcErr)
		return
	}
	s.ok(w, wire.RPCGetUpdate, wire.Ack{})
}

func (s *Server) handleTimeLeft(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	left, err := sess.room.TimeRemaining(sess.who)
	if err != nil {
		s.writeRejection(w, r, wire.RPCTimeLeft, err)
		return
	}
	s.ok(w, wire.RPCTimeLeft, wire.TimeLeftResponse{RemainingNanos: int64(left)})
}
