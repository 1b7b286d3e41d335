package room

import "github.com/figgie-game/figgie/internal/market"

// playerState holds the seating/readiness/phase data for a User who has
// taken a seat, per §3's PlayerRole{seat, phase, score, hand}.
type playerState struct {
	seat    Seat
	playing bool // Waiting{is_ready} vs. Playing
	ready   bool // only meaningful while !playing
}

// user is a logged-in connection's server-side state. A user with
// player == nil is an Observer, per §3's PlayerRole enum.
type user struct {
	name      market.Username
	connected bool
	player    *playerState
}

func (u *user) isPlaying() bool {
	return u.player != nil && u.player.playing
}

func (u *user) isSeated() bool {
	return u.player != nil
}
