// Package race implements the snail race mini-game: an in-memory, per-guild
// state machine driven by a tick loop. Sessions are transient; only the
// winner's leaderboard row outlives the process.
package race

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// FinishLine is the position a snail must reach to win.
const FinishLine = 10

// Delay bounds for the recruiting window.
const (
	MinDelay = 5 * time.Second
	MaxDelay = 30 * time.Second
)

var (
	ErrRaceInProgress = errors.New("a race is already running in this guild")
	ErrBadDelay       = errors.New("delay must be between 5 and 30 seconds")
	ErrNoRace         = errors.New("no race is recruiting in this guild")
	ErrAlreadyJoined  = errors.New("already joined the race")
	ErrNotJoined      = errors.New("not in the race")
	ErrRaceClosed     = errors.New("the race has already started")
)

// State of a guild's session. Idle is represented by the absence of a
// session in the manager's registry.
type State int

const (
	Recruiting State = iota
	Racing
	Finished
)

// Session is one guild's race. All access goes through the owning Manager.
type Session struct {
	ID      string
	GuildID int64
	Delay   time.Duration

	state        State
	participants []int64
	joined       map[int64]struct{}
	positions    map[int64]int
}

func newSession(guildID int64, delay time.Duration) *Session {
	return &Session{
		ID:      uuid.NewString(),
		GuildID: guildID,
		Delay:   delay,
		state:   Recruiting,
		joined:  make(map[int64]struct{}),
	}
}

// Position is one racer's progress at a tick.
type Position struct {
	UserID int64
	Steps  int
}

// Result of a finished (or cancelled) race.
type Result struct {
	SessionID string
	Winner    int64
	BotWon    bool
	Cancelled bool
	Ticks     int
}

// Renderer receives a progress snapshot each tick, in racing order.
type Renderer func(positions []Position)

// Leaderboard persists race outcomes.
type Leaderboard interface {
	RecordWin(ctx context.Context, discordID, locationID int64) error
}
