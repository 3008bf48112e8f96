// Package tags implements guild-scoped named text snippets with owner-gated
// mutation and a substring "did you mean" lookup on misses.
package tags

import (
	"context"
	"errors"
	"strings"

	"pkg.twizy.sh/konikotaka/internal/storage/model"
)

var (
	ErrNotFound       = errors.New("tag not found")
	ErrExists         = errors.New("tag already exists")
	ErrNotOwner       = errors.New("not the tag owner")
	ErrNameTooLong    = errors.New("tag name is a maximum of 255 characters")
	ErrContentTooLong = errors.New("tag content is a maximum of 2000 characters")
	ErrReservedName   = errors.New("tag name starts with a reserved word")
	ErrEmptyName      = errors.New("missing tag name")
)

const (
	maxNameLen    = 255
	maxContentLen = 2000
)

// reservedWords are subcommand names a tag must not shadow.
var reservedWords = map[string]struct{}{
	"get": {}, "add": {}, "edit": {}, "delete": {}, "transfer": {}, "stats": {}, "all": {},
}

// Store is the slice of the repository the tag service needs.
type Store interface {
	CreateTag(ctx context.Context, t *model.Tag) (bool, error)
	TouchTag(ctx context.Context, locationID int64, name string) (*model.Tag, error)
	Tag(ctx context.Context, locationID int64, name string) (*model.Tag, error)
	SimilarTags(ctx context.Context, locationID int64, fragment string) ([]*model.Tag, error)
	UpdateTagContent(ctx context.Context, t *model.Tag) (bool, error)
	DeleteTag(ctx context.Context, t *model.Tag) (bool, error)
	TransferTag(ctx context.Context, t *model.Tag, newOwner int64) (bool, error)
	AllTags(ctx context.Context, locationID int64) ([]*model.Tag, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// normalizeName lowercases and validates a tag name.
func normalizeName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", ErrEmptyName
	}
	if len(name) > maxNameLen {
		return "", ErrNameTooLong
	}
	first, _, _ := strings.Cut(name, " ")
	if _, reserved := reservedWords[first]; reserved {
		return "", ErrReservedName
	}
	return name, nil
}

// Get returns the tag content, bumping its call counter. On a miss the
// returned slice carries similarly named tags, and the error is ErrNotFound.
func (s *Service) Get(ctx context.Context, guildID int64, name string) (*model.Tag, []string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	t, err := s.store.TouchTag(ctx, guildID, name)
	if err != nil {
		return nil, nil, err
	}
	if t != nil {
		return t, nil, nil
	}

	similar, err := s.store.SimilarTags(ctx, guildID, name)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(similar))
	for i, st := range similar {
		names[i] = st.Name
	}
	return nil, names, ErrNotFound
}

// Add creates a tag owned by ownerID.
func (s *Service) Add(ctx context.Context, guildID, ownerID int64, name, content string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	if len(content) == 0 || len(content) > maxContentLen {
		return ErrContentTooLong
	}

	ok, err := s.store.CreateTag(ctx, model.NewTag(name, content, ownerID, guildID))
	if err != nil {
		return err
	}
	if !ok {
		return ErrExists
	}
	return nil
}

// Edit rewrites a tag's content. Only the owner may edit.
func (s *Service) Edit(ctx context.Context, guildID, callerID int64, name, content string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	if len(content) == 0 || len(content) > maxContentLen {
		return ErrContentTooLong
	}

	if err := s.checkOwner(ctx, guildID, callerID, name); err != nil {
		return err
	}
	ok, err := s.store.UpdateTagContent(ctx, &model.Tag{Name: name, LocationID: guildID, DiscordID: callerID, Content: content})
	if err != nil {
		return err
	}
	if !ok {
		// owned a moment ago but gone or transferred since
		return ErrNotFound
	}
	return nil
}

// Delete removes a tag. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, guildID, callerID int64, name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if err := s.checkOwner(ctx, guildID, callerID, name); err != nil {
		return err
	}
	ok, err := s.store.DeleteTag(ctx, &model.Tag{Name: name, LocationID: guildID, DiscordID: callerID})
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Transfer hands a tag to a new owner. Only the current owner may transfer.
func (s *Service) Transfer(ctx context.Context, guildID, callerID, newOwnerID int64, name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if err := s.checkOwner(ctx, guildID, callerID, name); err != nil {
		return err
	}
	ok, err := s.store.TransferTag(ctx, &model.Tag{Name: name, LocationID: guildID, DiscordID: callerID}, newOwnerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Stats returns the tag row without touching the call counter, with
// suggestions on a miss.
func (s *Service) Stats(ctx context.Context, guildID int64, name string) (*model.Tag, []string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	t, err := s.store.Tag(ctx, guildID, name)
	if err != nil {
		return nil, nil, err
	}
	if t != nil {
		return t, nil, nil
	}

	similar, err := s.store.SimilarTags(ctx, guildID, name)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(similar))
	for i, st := range similar {
		names[i] = st.Name
	}
	return nil, names, ErrNotFound
}

// All lists every tag in the guild.
func (s *Service) All(ctx context.Context, guildID int64) ([]*model.Tag, error) {
	return s.store.AllTags(ctx, guildID)
}

func (s *Service) checkOwner(ctx context.Context, guildID, callerID int64, name string) error {
	t, err := s.store.Tag(ctx, guildID, name)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNotFound
	}
	if t.DiscordID != callerID {
		return ErrNotOwner
	}
	return nil
}
