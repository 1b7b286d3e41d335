// Package bot implements a thin network client against
// internal/transport's RPC and PlayerUpdate-stream surface, playing the
// same role for an automated player that a browser's JS would for a
// human: it only ever calls the public wire protocol, never reaches
// into internal/room or internal/registry directly.
//
// Grounded on LarryBui-ThirteenV4/Server/internal/bot's separation of an
// Agent (decision loop) from the authoritative match state it can only
// observe and act on through a public interface — here the public
// interface is internal/wire's RPC frames over HTTP plus the websocket
// stream, rather than an in-process domain.Game.
package bot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/figgie-game/figgie/internal/wire"
)

// Client is one logged-in bot connection's RPC handle.
type Client struct {
	httpClient *http.Client
	rpcBase    string
	wsBase     string
	sessionID  string
	nextOrder  uint64
}

// Dial builds a Client pointed at the given RPC and websocket listener
// addresses (host:port, no scheme).
func Dial(rpcAddr, wsAddr string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		rpcBase:    "http://" + rpcAddr,
		wsBase:     "ws://" + wsAddr,
	}
}

// call POSTs a wire-encoded query to name's RPC route and decodes the
// response into out (pass nil if the response carries no payload the
// caller needs, e.g. wire.Ack). A rejection frame is surfaced as a
// *RejectedError carrying the frame's Kind.
func (c *Client) call(ctx context.Context, name string, query any, out any) error {
	body, err := wire.Encode(name, wire.V1, query)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcBase+"/rpc/"+name, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if c.sessionID != "" {
		req.Header.Set("X-Figgie-Session", c.sessionID)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", name, err)
	}

	if resp.StatusCode == http.StatusConflict {
		var rf wire.RejectionFrame
		if decErr := wire.Decode(data, name+".reject", wire.V1, &rf); decErr != nil {
			return fmt.Errorf("%s: rejected, undecodable frame: %w", name, decErr)
		}
		return &RejectedError{RPC: name, Kind: rf.Kind}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", name, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return wire.Decode(data, name, wire.V1, out)
}

// RejectedError is returned by Client's RPC methods when the server
// replied with a rejection frame rather than a success frame.
type RejectedError struct {
	RPC  string
	Kind string
}

func (e *RejectedError) Error() string { return fmt.Sprintf("%s rejected: %s", e.RPC, e.Kind) }

// Login logs in and, on success, binds every subsequent call on this
// Client to the returned session.
func (c *Client) Login(ctx context.Context, username, room string) error {
	var resp wire.LoginResponse
	if err := c.call(ctx, wire.RPCLogin, wire.LoginQuery{Username: username, Room: room}, &resp); err != nil {
		return err
	}
	c.sessionID = resp.SessionID
	return nil
}

// StartPlaying sits the bot down, returning its assigned seat.
func (c *Client) StartPlaying(ctx context.Context, anywhere bool, seat int) (int, error) {
	var resp wire.StartPlayingResponse
	err := c.call(ctx, wire.RPCStartPlaying, wire.StartPlayingQuery{Anywhere: anywhere, Seat: seat}, &resp)
	return resp.Seat, err
}

// SetReady flips the bot's readiness.
func (c *Client) SetReady(ctx context.Context, ready bool) error {
	return c.call(ctx, wire.RPCSetReady, wire.SetReadyQuery{Ready: ready}, nil)
}

// PlaceOrder submits a resting order, assigning it the next densely
// increasing order id this Client hasn't used yet.
func (c *Client) PlaceOrder(ctx context.Context, symbol, dir int, price, size int64) error {
	c.nextOrder++
	o := wire.WireOrder{ID: c.nextOrder, Symbol: symbol, Dir: dir, Price: price, Size: size, Remaining: size}
	return c.call(ctx, wire.RPCPlaceOrder, wire.PlaceOrderQuery{Order: o}, nil)
}

// CancelAll cancels every order this bot has resting.
func (c *Client) CancelAll(ctx context.Context) error {
	return c.call(ctx, wire.RPCCancelAll, struct{}{}, nil)
}

// Chat sends a chat message.
func (c *Client) Chat(ctx context.Context, msg string) error {
	return c.call(ctx, wire.RPCChat, wire.ChatQuery{Msg: msg}, nil)
}

// OpenStream dials the PlayerUpdate stream for this Client's session.
func (c *Client) OpenStream(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, c.wsBase+"/stream?session="+c.sessionID, nil)
	return conn, err
}

// ReadUpdate blocks for the next PlayerUpdate frame on conn.
func ReadUpdate(ctx context.Context, conn *websocket.Conn) (wire.Update, error) {
	var upd wire.Update
	_, data, err := conn.Read(ctx)
	if err != nil {
		return upd, err
	}
	err = wire.Decode(data, wire.FramePlayerUpdate, wire.V1, &upd)
	return upd, err
}
