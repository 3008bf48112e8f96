package tags

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pkg.twizy.sh/konikotaka/internal/storage/model"
)

const (
	guild = int64(7777)
	owner = int64(1)
	other = int64(2)
)

type tagKey struct {
	loc  int64
	name string
}

type fakeStore struct {
	tags map[tagKey]*model.Tag
}

func newFakeStore() *fakeStore {
	return &fakeStore{tags: make(map[tagKey]*model.Tag)}
}

func (f *fakeStore) CreateTag(_ context.Context, t *model.Tag) (bool, error) {
	k := tagKey{t.LocationID, t.Name}
	if _, ok := f.tags[k]; ok {
		return false, nil
	}
	t.DateAdded = time.Now()
	f.tags[k] = t
	return true, nil
}

func (f *fakeStore) TouchTag(_ context.Context, locationID int64, name string) (*model.Tag, error) {
	t, ok := f.tags[tagKey{locationID, name}]
	if !ok {
		return nil, nil
	}
	t.Called++
	cp := *t
	return &cp, nil
}

func (f *fakeStore) Tag(_ context.Context, locationID int64, name string) (*model.Tag, error) {
	t, ok := f.tags[tagKey{locationID, name}]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) SimilarTags(_ context.Context, locationID int64, fragment string) ([]*model.Tag, error) {
	var out []*model.Tag
	for k, t := range f.tags {
		if k.loc == locationID && strings.Contains(k.name, fragment) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateTagContent(_ context.Context, t *model.Tag) (bool, error) {
	existing, ok := f.tags[tagKey{t.LocationID, t.Name}]
	if !ok || existing.DiscordID != t.DiscordID {
		return false, nil
	}
	existing.Content = t.Content
	return true, nil
}

func (f *fakeStore) DeleteTag(_ context.Context, t *model.Tag) (bool, error) {
	k := tagKey{t.LocationID, t.Name}
	existing, ok := f.tags[k]
	if !ok || existing.DiscordID != t.DiscordID {
		return false, nil
	}
	delete(f.tags, k)
	return true, nil
}

func (f *fakeStore) TransferTag(_ context.Context, t *model.Tag, newOwner int64) (bool, error) {
	existing, ok := f.tags[tagKey{t.LocationID, t.Name}]
	if !ok || existing.DiscordID != t.DiscordID {
		return false, nil
	}
	existing.DiscordID = newOwner
	return true, nil
}

func (f *fakeStore) AllTags(_ context.Context, locationID int64) ([]*model.Tag, error) {
	var out []*model.Tag
	for k, t := range f.tags {
		if k.loc == locationID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func TestAddThenGet(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, guild, owner, "rules", "Be nice"))

	tag, _, err := svc.Get(ctx, guild, "rules")
	require.NoError(t, err)
	assert.Equal(t, "Be nice", tag.Content)
	assert.Equal(t, int32(1), tag.Called)

	tag, _, err = svc.Get(ctx, guild, "rules")
	require.NoError(t, err)
	assert.Equal(t, "Be nice", tag.Content)
	assert.Equal(t, int32(2), tag.Called)
}

func TestAddDuplicateRejected(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, guild, owner, "rules", "Be nice"))
	assert.ErrorIs(t, svc.Add(ctx, guild, other, "rules", "Be naughty"), ErrExists)

	// same name in a different guild is fine
	assert.NoError(t, svc.Add(ctx, guild+1, other, "rules", "Be naughty"))
}

func TestAddValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	assert.ErrorIs(t, svc.Add(ctx, guild, owner, "", "x"), ErrEmptyName)
	assert.ErrorIs(t, svc.Add(ctx, guild, owner, gofakeit.LetterN(256), "x"), ErrNameTooLong)
	assert.ErrorIs(t, svc.Add(ctx, guild, owner, "delete everything", "x"), ErrReservedName)
	assert.ErrorIs(t, svc.Add(ctx, guild, owner, "rules", ""), ErrContentTooLong)
	assert.ErrorIs(t, svc.Add(ctx, guild, owner, "rules", gofakeit.LetterN(2001)), ErrContentTooLong)
}

func TestNameNormalized(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, guild, owner, "  Rules  ", "Be nice"))
	tag, _, err := svc.Get(ctx, guild, "RULES")
	require.NoError(t, err)
	assert.Equal(t, "Be nice", tag.Content)
}

func TestGetMissSuggestsSimilar(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, guild, owner, "house rules", "Be nice"))
	require.NoError(t, svc.Add(ctx, guild, owner, "ruleset", "The set"))

	tag, suggestions, err := svc.Get(ctx, guild, "rule")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, tag)
	assert.ElementsMatch(t, []string{"house rules", "ruleset"}, suggestions)
}

func TestEditOwnerGated(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, guild, owner, "rules", "Be nice"))

	assert.ErrorIs(t, svc.Edit(ctx, guild, other, "rules", "changed"), ErrNotOwner)
	assert.Equal(t, "Be nice", store.tags[tagKey{guild, "rules"}].Content)

	require.NoError(t, svc.Edit(ctx, guild, owner, "rules", "Be kind"))
	assert.Equal(t, "Be kind", store.tags[tagKey{guild, "rules"}].Content)
}

func TestDeleteOwnerGated(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, guild, owner, "rules", "Be nice"))

	assert.ErrorIs(t, svc.Delete(ctx, guild, other, "rules"), ErrNotOwner)
	assert.Len(t, store.tags, 1)

	require.NoError(t, svc.Delete(ctx, guild, owner, "rules"))
	assert.Empty(t, store.tags)

	assert.ErrorIs(t, svc.Delete(ctx, guild, owner, "rules"), ErrNotFound)
}

func TestTransfer(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, guild, owner, "rules", "Be nice"))

	assert.ErrorIs(t, svc.Transfer(ctx, guild, other, owner, "rules"), ErrNotOwner)

	require.NoError(t, svc.Transfer(ctx, guild, owner, other, "rules"))
	assert.Equal(t, other, store.tags[tagKey{guild, "rules"}].DiscordID)

	// previous owner lost edit rights with the transfer
	assert.ErrorIs(t, svc.Edit(ctx, guild, owner, "rules", "mine again"), ErrNotOwner)
}

func TestStatsDoesNotTouchCounter(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, guild, owner, "rules", "Be nice"))

	tag, _, err := svc.Stats(ctx, guild, "rules")
	require.NoError(t, err)
	assert.Equal(t, int32(0), tag.Called)
	assert.Equal(t, owner, tag.DiscordID)
}
