package race

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testGuild = int64(1001)
	botID     = int64(99)
	alice     = int64(1)
	bob       = int64(2)
)

type fakeBoard struct {
	mu   sync.Mutex
	wins map[int64]int
	err  error
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{wins: make(map[int64]int)}
}

func (f *fakeBoard) RecordWin(_ context.Context, discordID, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.wins[discordID]++
	return nil
}

func newTestManager(board Leaderboard) *Manager {
	m := NewManager(zap.NewNop().Sugar(), board)
	m.sleep = func(context.Context, time.Duration) bool { return true }
	return m
}

func TestStartValidatesDelay(t *testing.T) {
	m := newTestManager(newFakeBoard())

	_, err := m.Start(testGuild, 2*time.Second)
	assert.ErrorIs(t, err, ErrBadDelay)

	_, err = m.Start(testGuild, time.Minute)
	assert.ErrorIs(t, err, ErrBadDelay)

	s, err := m.Start(testGuild, 10*time.Second)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
}

func TestStartOneRacePerGuild(t *testing.T) {
	m := newTestManager(newFakeBoard())

	_, err := m.Start(testGuild, 10*time.Second)
	require.NoError(t, err)

	_, err = m.Start(testGuild, 10*time.Second)
	assert.ErrorIs(t, err, ErrRaceInProgress)

	// another guild is unaffected
	_, err = m.Start(testGuild+1, 10*time.Second)
	assert.NoError(t, err)
}

func TestJoinLeave(t *testing.T) {
	m := newTestManager(newFakeBoard())

	assert.ErrorIs(t, m.Join(testGuild, alice), ErrNoRace)

	_, err := m.Start(testGuild, 10*time.Second)
	require.NoError(t, err)

	require.NoError(t, m.Join(testGuild, alice))
	assert.ErrorIs(t, m.Join(testGuild, alice), ErrAlreadyJoined)

	assert.ErrorIs(t, m.Leave(testGuild, bob), ErrNotJoined)
	require.NoError(t, m.Leave(testGuild, alice))
	assert.NoError(t, m.Join(testGuild, alice))
}

func TestRunNoJoinersCancels(t *testing.T) {
	board := newFakeBoard()
	m := newTestManager(board)

	_, err := m.Start(testGuild, 10*time.Second)
	require.NoError(t, err)

	res, err := m.Run(context.Background(), testGuild, botID, nil)
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Zero(t, res.Winner)
	assert.Empty(t, board.wins)

	// guild is idle again
	_, err = m.Start(testGuild, 10*time.Second)
	assert.NoError(t, err)
}

func TestRunSingleJoinerGetsBotFiller(t *testing.T) {
	board := newFakeBoard()
	m := newTestManager(board)

	_, err := m.Start(testGuild, 10*time.Second)
	require.NoError(t, err)
	require.NoError(t, m.Join(testGuild, alice))

	var sawBot bool
	res, err := m.Run(context.Background(), testGuild, botID, func(positions []Position) {
		assert.Len(t, positions, 2)
		for _, p := range positions {
			if p.UserID == botID {
				sawBot = true
			}
		}
	})
	require.NoError(t, err)
	assert.False(t, res.Cancelled)
	assert.True(t, sawBot)
	assert.Contains(t, []int64{alice, botID}, res.Winner)
}

func TestRunTerminatesInBoundedTicks(t *testing.T) {
	board := newFakeBoard()
	m := newTestManager(board)
	m.roll = func(min, max int) int { return min } // slowest snails possible

	_, err := m.Start(testGuild, 10*time.Second)
	require.NoError(t, err)
	require.NoError(t, m.Join(testGuild, alice))
	require.NoError(t, m.Join(testGuild, bob))

	res, err := m.Run(context.Background(), testGuild, botID, nil)
	require.NoError(t, err)
	assert.NotZero(t, res.Winner)
	// advancing one step per tick, the finish line bounds the tick count
	assert.LessOrEqual(t, res.Ticks, FinishLine)
}

func TestRunJoinRejectedWhileRacing(t *testing.T) {
	m := newTestManager(newFakeBoard())
	started := make(chan struct{})
	release := make(chan struct{})
	m.sleep = func(context.Context, time.Duration) bool {
		select {
		case <-started:
		default:
			close(started)
		}
		<-release
		return true
	}

	_, err := m.Start(testGuild, 10*time.Second)
	require.NoError(t, err)
	require.NoError(t, m.Join(testGuild, alice))
	require.NoError(t, m.Join(testGuild, bob))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = m.Run(context.Background(), testGuild, botID, nil)
	}()

	<-started
	assert.ErrorIs(t, m.Join(testGuild, alice+100), ErrRaceClosed)
	assert.ErrorIs(t, m.Leave(testGuild, alice), ErrRaceClosed)
	close(release)
	<-done
}

func TestRunWinnerRecordedOnce(t *testing.T) {
	board := newFakeBoard()
	m := newTestManager(board)

	for i := 0; i < 5; i++ {
		_, err := m.Start(testGuild, 10*time.Second)
		require.NoError(t, err)
		require.NoError(t, m.Join(testGuild, alice))
		require.NoError(t, m.Join(testGuild, bob))

		res, err := m.Run(context.Background(), testGuild, botID, nil)
		require.NoError(t, err)
		require.NotZero(t, res.Winner)
		assert.False(t, res.BotWon)
	}

	assert.Equal(t, 5, board.wins[alice]+board.wins[bob])
}

func TestRunBotWinNotPersisted(t *testing.T) {
	board := newFakeBoard()
	m := newTestManager(board)
	// bias the dice so whoever moves first wins immediately
	m.roll = func(min, max int) int { return FinishLine }

	_, err := m.Start(testGuild, 10*time.Second)
	require.NoError(t, err)
	require.NoError(t, m.Join(testGuild, alice))

	res, err := m.Run(context.Background(), testGuild, botID, nil)
	require.NoError(t, err)
	if res.BotWon {
		assert.Empty(t, board.wins)
	} else {
		assert.Equal(t, 1, board.wins[alice])
	}
}

func TestRunLeaderboardFailureStillFinishes(t *testing.T) {
	board := newFakeBoard()
	board.err = context.DeadlineExceeded
	m := newTestManager(board)

	_, err := m.Start(testGuild, 10*time.Second)
	require.NoError(t, err)
	require.NoError(t, m.Join(testGuild, alice))
	require.NoError(t, m.Join(testGuild, bob))

	res, err := m.Run(context.Background(), testGuild, botID, nil)
	require.NoError(t, err)
	assert.NotZero(t, res.Winner)
}

func TestRunContextCancelled(t *testing.T) {
	m := newTestManager(newFakeBoard())
	m.sleep = func(ctx context.Context, _ time.Duration) bool { return false }
	m.roll = func(min, max int) int { return min }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Start(testGuild, 10*time.Second)
	require.NoError(t, err)
	require.NoError(t, m.Join(testGuild, alice))
	require.NoError(t, m.Join(testGuild, bob))

	_, err = m.Run(ctx, testGuild, botID, nil)
	assert.Error(t, err)

	// session cleared even on cancellation
	_, err = m.Start(testGuild, 10*time.Second)
	assert.NoError(t, err)
}
