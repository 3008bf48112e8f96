// Package levels awards per-guild XP on messages and answers rank queries.
// Writes use a compare-and-swap on the previously read XP value so two
// near-simultaneous messages cannot silently drop an award.
package levels

import (
	"context"
	"errors"
	"time"

	"pkg.twizy.sh/konikotaka/internal/storage/model"
)

const (
	xpPerMessage = 5
	maxRetries   = 3
)

var ErrUnranked = errors.New("user has no level yet")

// XPNeeded is the XP required to clear the given level.
func XPNeeded(level int32) int32 {
	return 100 * level
}

// Store is the slice of the repository the level service needs.
type Store interface {
	UpsertUser(ctx context.Context, u *model.User) error
	User(ctx context.Context, discordID, guildID int64) (*model.User, error)
	UpdateUserProgress(ctx context.Context, u *model.User, prevXP int32) (bool, error)
	TopUsers(ctx context.Context, guildID int64, limit int) ([]*model.User, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// OnMessage awards XP for one message and reports whether the author
// levelled up. New authors get a starting row at level 1.
func (s *Service) OnMessage(ctx context.Context, guildID, authorID int64, username string, joined time.Time) (levelledUp bool, newLevel int32, err error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		u, err := s.store.User(ctx, authorID, guildID)
		if err != nil {
			return false, 0, err
		}

		if u == nil {
			// creates the row at zero (or finds the one a concurrent message
			// just created), then the award goes through the CAS below
			if err := s.store.UpsertUser(ctx, model.NewUser(authorID, guildID, username, joined)); err != nil {
				return false, 0, err
			}
			continue
		}

		prev := u.XP
		u.XP += xpPerMessage
		u.Username = username
		if u.Level == 0 {
			u.Level = 1
		}
		if u.XP >= XPNeeded(u.Level) {
			u.XP -= XPNeeded(u.Level)
			u.Level++
			levelledUp = true
		}

		ok, err := s.store.UpdateUserProgress(ctx, u, prev)
		if err != nil {
			return false, 0, err
		}
		if ok {
			return levelledUp, u.Level, nil
		}
		levelledUp = false
	}
	// lost the CAS race every attempt; the other writers awarded their XP,
	// this message's award is dropped rather than double-counted
	return false, 0, nil
}

// Rank returns the member's row.
func (s *Service) Rank(ctx context.Context, guildID, userID int64) (*model.User, error) {
	u, err := s.store.User(ctx, userID, guildID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnranked
	}
	return u, nil
}

// Leaderboard returns the guild's members ordered by level.
func (s *Service) Leaderboard(ctx context.Context, guildID int64, limit int) ([]*model.User, error) {
	return s.store.TopUsers(ctx, guildID, limit)
}

// OnMemberJoin seeds a row for a new member.
func (s *Service) OnMemberJoin(ctx context.Context, guildID, userID int64, username string, joined time.Time) error {
	return s.store.UpsertUser(ctx, model.NewUser(userID, guildID, username, joined))
}
