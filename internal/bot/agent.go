package bot

import (
	"context"
	"log/slog"

	"github.com/figgie-game/figgie/internal/market"
	"github.com/figgie-game/figgie/internal/wire"
)

// reservationPrice is the naive fixed price every suit's resting buy
// order uses. It is not an estimate of any suit's true value — real
// valuation would need hand composition and market depth, which is out
// of scope for a bot whose only job is exercising the wire protocol
// end-to-end.
const reservationPrice = 3

// reservationSize is the size of each naive resting order.
const reservationSize = 1

// Agent drives one bot connection's full lifecycle: log in, sit down,
// ready up, then react to the stream by placing one resting buy order
// per suit at the start of every round.
type Agent struct {
	client *Client
	who    string
	logger *slog.Logger
}

// NewAgent wraps client for who, logging through logger.
func NewAgent(client *Client, who string, logger *slog.Logger) *Agent {
	return &Agent{client: client, who: who, logger: logger}
}

// Run logs in, sits, readies up, opens the stream, and reacts to
// broadcasts until ctx is cancelled or the stream closes.
func (a *Agent) Run(ctx context.Context, room string) error {
	if err := a.client.Login(ctx, a.who, room); err != nil {
		return err
	}
	a.logger.Info("logged in", "who", a.who)

	if _, err := a.client.StartPlaying(ctx, true, 0); err != nil {
		return err
	}
	if err := a.client.SetReady(ctx, true); err != nil {
		return err
	}
	a.logger.Info("seated and ready", "who", a.who)

	conn, err := a.client.OpenStream(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(1000, "done")

	for {
		upd, err := ReadUpdate(ctx, conn)
		if err != nil {
			return err
		}
		a.onUpdate(ctx, upd)
	}
}

func (a *Agent) onUpdate(ctx context.Context, upd wire.Update) {
	if upd.Broadcast == nil {
		return
	}
	switch {
	case upd.Broadcast.NewRound != nil:
		a.placeOpeningOrders(ctx)
	case upd.Broadcast.RoundOver != nil:
		a.logger.Info("round over", "who", a.who, "score", upd.Broadcast.RoundOver.ScoresThisRound[a.who])
	case upd.Broadcast.Exec != nil:
		a.logger.Debug("exec", "who", a.who, "order", upd.Broadcast.Exec.Order)
	}
}

// placeOpeningOrders places one naive resting buy order per suit, the
// bot's entire trading strategy.
func (a *Agent) placeOpeningOrders(ctx context.Context) {
	for _, suit := range market.Suits {
		if err := a.client.PlaceOrder(ctx, int(suit), int(market.Buy), reservationPrice, reservationSize); err != nil {
			a.logger.Warn("opening order rejected", "who", a.who, "suit", suit, "err", err)
		}
	}
}
