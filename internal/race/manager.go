package race

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager owns every guild's session. One race per guild at a time; the
// registry is mutex-guarded because discordgo dispatches events on separate
// goroutines.
type Manager struct {
	logger *zap.SugaredLogger
	board  Leaderboard

	mu       sync.Mutex
	sessions map[int64]*Session

	rng *rand.Rand

	// test seams
	sleep func(ctx context.Context, d time.Duration) bool
	roll  func(min, max int) int
}

func NewManager(logger *zap.SugaredLogger, board Leaderboard) *Manager {
	m := &Manager{
		logger:   logger,
		board:    board,
		sessions: make(map[int64]*Session),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	m.sleep = func(ctx context.Context, d time.Duration) bool {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(d):
			return true
		}
	}
	m.roll = func(min, max int) int {
		m.mu.Lock()
		defer m.mu.Unlock()
		return min + m.rng.Intn(max-min+1)
	}
	return m
}

// Start opens a recruiting window for the guild.
func (m *Manager) Start(guildID int64, delay time.Duration) (*Session, error) {
	if delay < MinDelay || delay > MaxDelay {
		return nil, ErrBadDelay
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, running := m.sessions[guildID]; running {
		return nil, ErrRaceInProgress
	}

	s := newSession(guildID, delay)
	m.sessions[guildID] = s
	return s, nil
}

// Join registers a participant while the session is recruiting.
func (m *Manager) Join(guildID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[guildID]
	if !ok {
		return ErrNoRace
	}
	if s.state != Recruiting {
		return ErrRaceClosed
	}
	if _, joined := s.joined[userID]; joined {
		return ErrAlreadyJoined
	}

	s.joined[userID] = struct{}{}
	s.participants = append(s.participants, userID)
	return nil
}

// Leave removes a participant while the session is recruiting.
func (m *Manager) Leave(guildID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[guildID]
	if !ok {
		return ErrNoRace
	}
	if s.state != Recruiting {
		return ErrRaceClosed
	}
	if _, joined := s.joined[userID]; !joined {
		return ErrNotJoined
	}

	delete(s.joined, userID)
	for i, p := range s.participants {
		if p == userID {
			s.participants = append(s.participants[:i], s.participants[i+1:]...)
			break
		}
	}
	return nil
}

// Run closes recruiting and drives the simulation until a snail crosses the
// finish line, invoking render after every tick. With no joiners the race is
// cancelled and nothing is persisted; with fewer than two the bot itself is
// entered so the race still terminates with a show. The session always
// returns to idle, whatever happens.
func (m *Manager) Run(ctx context.Context, guildID, botID int64, render Renderer) (*Result, error) {
	m.mu.Lock()
	s, ok := m.sessions[guildID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNoRace
	}
	s.state = Racing
	racers := append([]int64(nil), s.participants...)
	m.mu.Unlock()

	defer m.clear(guildID)

	if len(racers) == 0 {
		return &Result{SessionID: s.ID, Cancelled: true}, nil
	}
	if len(racers) < 2 {
		racers = append(racers, botID)
	}

	m.shuffle(racers)
	positions := make(map[int64]int, len(racers))
	for _, id := range racers {
		positions[id] = 0
	}

	var winner int64
	var ticks int
	for winner == 0 {
		ticks++
		for _, id := range racers {
			positions[id] += m.roll(1, 3)
			if positions[id] >= FinishLine {
				winner = id
				break
			}
		}

		snapshot := make([]Position, len(racers))
		for i, id := range racers {
			snapshot[i] = Position{UserID: id, Steps: positions[id]}
		}
		if render != nil {
			render(snapshot)
		}

		if winner == 0 && !m.sleep(ctx, time.Duration(m.roll(1, 3))*time.Second) {
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	s.state = Finished
	m.mu.Unlock()

	res := &Result{SessionID: s.ID, Winner: winner, BotWon: winner == botID, Ticks: ticks}
	if !res.BotWon {
		// The outcome was already shown to users; a leaderboard failure is
		// logged and swallowed.
		if err := m.board.RecordWin(ctx, winner, guildID); err != nil {
			m.logger.Errorf("Failed to update race leaderboard: %s.", err)
		}
	}
	return res, nil
}

// Cancel drops the guild's session, if any.
func (m *Manager) Cancel(guildID int64) {
	m.clear(guildID)
}

func (m *Manager) clear(guildID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, guildID)
}

func (m *Manager) shuffle(ids []int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
}
