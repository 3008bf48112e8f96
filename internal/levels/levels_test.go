package levels

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pkg.twizy.sh/konikotaka/internal/storage/model"
)

const guild = int64(42)

type userKey struct {
	discordID, guildID int64
}

type fakeStore struct {
	users    map[userKey]*model.User
	casFails int // force this many CAS rejections
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[userKey]*model.User)}
}

func (f *fakeStore) UpsertUser(_ context.Context, u *model.User) error {
	k := userKey{u.DiscordID, u.GuildID}
	if existing, ok := f.users[k]; ok {
		u.XP, u.Level = existing.XP, existing.Level
		return nil
	}
	cp := *u
	f.users[k] = &cp
	return nil
}

func (f *fakeStore) User(_ context.Context, discordID, guildID int64) (*model.User, error) {
	u, ok := f.users[userKey{discordID, guildID}]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpdateUserProgress(_ context.Context, u *model.User, prevXP int32) (bool, error) {
	if f.casFails > 0 {
		f.casFails--
		return false, nil
	}
	existing, ok := f.users[userKey{u.DiscordID, u.GuildID}]
	if !ok || existing.XP != prevXP {
		return false, nil
	}
	existing.XP, existing.Level, existing.Username = u.XP, u.Level, u.Username
	return true, nil
}

func (f *fakeStore) TopUsers(_ context.Context, guildID int64, limit int) ([]*model.User, error) {
	var out []*model.User
	for k, u := range f.users {
		if k.guildID == guildID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func TestXPNeeded(t *testing.T) {
	assert.Equal(t, int32(100), XPNeeded(1))
	assert.Equal(t, int32(700), XPNeeded(7))
}

func TestOnMessageCreatesThenAwards(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	up, level, err := svc.OnMessage(context.Background(), guild, 1, "alex", time.Now())
	require.NoError(t, err)
	assert.False(t, up)
	assert.Equal(t, int32(1), level)

	u := store.users[userKey{1, guild}]
	assert.Equal(t, int32(5), u.XP)
	assert.Equal(t, int32(1), u.Level)
}

func TestOnMessageLevelUpRollsOver(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	store.users[userKey{1, guild}] = &model.User{DiscordID: 1, GuildID: guild, Username: "alex", XP: 97, Level: 1}

	up, level, err := svc.OnMessage(context.Background(), guild, 1, "alex", time.Now())
	require.NoError(t, err)
	assert.True(t, up)
	assert.Equal(t, int32(2), level)

	u := store.users[userKey{1, guild}]
	assert.Equal(t, int32(2), u.XP) // 97 + 5 - 100
	assert.Equal(t, int32(2), u.Level)
}

func TestOnMessageRetriesLostCAS(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	store.users[userKey{1, guild}] = &model.User{DiscordID: 1, GuildID: guild, Username: "alex", XP: 10, Level: 1}
	store.casFails = 1

	_, _, err := svc.OnMessage(context.Background(), guild, 1, "alex", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int32(15), store.users[userKey{1, guild}].XP)
}

func TestRank(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	_, err := svc.Rank(context.Background(), guild, 1)
	assert.ErrorIs(t, err, ErrUnranked)

	store.users[userKey{1, guild}] = &model.User{DiscordID: 1, GuildID: guild, Username: "alex", XP: 40, Level: 3}
	u, err := svc.Rank(context.Background(), guild, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(3), u.Level)
}

func TestOnMemberJoinIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	store.users[userKey{1, guild}] = &model.User{DiscordID: 1, GuildID: guild, Username: "alex", XP: 40, Level: 3}

	require.NoError(t, svc.OnMemberJoin(context.Background(), guild, 1, "alex", time.Now()))
	// rejoining does not reset progress
	assert.Equal(t, int32(40), store.users[userKey{1, guild}].XP)
}
