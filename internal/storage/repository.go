package storage

import (
	"context"

	"github.com/jackc/pgx/v4"
	"pkg.twizy.sh/konikotaka/internal/storage/model"
)

// Repository exposes every persisted operation behind plain method calls,
// one short-lived transaction per call. The domain packages each consume the
// narrow slice of it they declare as an interface.
type Repository struct {
	s *Storage
}

func NewRepository(s *Storage) *Repository {
	return &Repository{s: s}
}

// Users

func (r *Repository) UpsertUser(ctx context.Context, u *model.User) error {
	return r.s.Begin(ctx, func(tx pgx.Tx) error {
		return model.FindOrCreateUser(ctx, tx, u)
	})
}

func (r *Repository) User(ctx context.Context, discordID, guildID model.Snowflake) (*model.User, error) {
	u := &model.User{DiscordID: discordID, GuildID: guildID}
	if err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		return model.FindUser(ctx, tx, u)
	}); err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, nil
	}
	return u, nil
}

func (r *Repository) UpdateUserProgress(ctx context.Context, u *model.User, prevXP int32) (bool, error) {
	var ok bool
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		ok, err = model.UpdateUserProgress(ctx, tx, u, prevXP)
		return err
	})
	return ok, err
}

func (r *Repository) TopUsers(ctx context.Context, guildID model.Snowflake, limit int) ([]*model.User, error) {
	var users []*model.User
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		users, err = model.FindTopUsers(ctx, tx, guildID, limit)
		return err
	})
	return users, err
}

// Tags

func (r *Repository) CreateTag(ctx context.Context, t *model.Tag) (bool, error) {
	var ok bool
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		ok, err = model.CreateTag(ctx, tx, t)
		return err
	})
	return ok, err
}

func (r *Repository) TouchTag(ctx context.Context, locationID model.Snowflake, name string) (*model.Tag, error) {
	t := &model.Tag{Name: name, LocationID: locationID}
	if err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		return model.TouchTag(ctx, tx, t)
	}); err != nil {
		return nil, err
	}
	if t.ID == 0 {
		return nil, nil
	}
	return t, nil
}

func (r *Repository) Tag(ctx context.Context, locationID model.Snowflake, name string) (*model.Tag, error) {
	t := &model.Tag{Name: name, LocationID: locationID}
	if err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		return model.FindTag(ctx, tx, t)
	}); err != nil {
		return nil, err
	}
	if t.ID == 0 {
		return nil, nil
	}
	return t, nil
}

func (r *Repository) SimilarTags(ctx context.Context, locationID model.Snowflake, fragment string) ([]*model.Tag, error) {
	var tags []*model.Tag
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		tags, err = model.FindSimilarTags(ctx, tx, locationID, fragment)
		return err
	})
	return tags, err
}

func (r *Repository) UpdateTagContent(ctx context.Context, t *model.Tag) (bool, error) {
	var ok bool
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		ok, err = model.UpdateTagContent(ctx, tx, t)
		return err
	})
	return ok, err
}

func (r *Repository) DeleteTag(ctx context.Context, t *model.Tag) (bool, error) {
	var ok bool
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		ok, err = model.DeleteTag(ctx, tx, t)
		return err
	})
	return ok, err
}

func (r *Repository) TransferTag(ctx context.Context, t *model.Tag, newOwner model.Snowflake) (bool, error) {
	var ok bool
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		ok, err = model.TransferTag(ctx, tx, t, newOwner)
		return err
	})
	return ok, err
}

func (r *Repository) AllTags(ctx context.Context, locationID model.Snowflake) ([]*model.Tag, error) {
	var tags []*model.Tag
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		tags, err = model.FindAllTags(ctx, tx, locationID)
		return err
	})
	return tags, err
}

// Pets

func (r *Repository) CreatePet(ctx context.Context, p *model.Pet) (bool, error) {
	var ok bool
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		ok, err = model.CreatePet(ctx, tx, p)
		return err
	})
	return ok, err
}

func (r *Repository) Pet(ctx context.Context, ownerID model.Snowflake) (*model.Pet, error) {
	p := &model.Pet{DiscordID: ownerID}
	if err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		return model.FindPet(ctx, tx, p)
	}); err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return p, nil
}

func (r *Repository) FeedPet(ctx context.Context, ownerID model.Snowflake, treats int32) (bool, error) {
	var ok bool
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		ok, err = model.FeedPet(ctx, tx, ownerID, treats)
		return err
	})
	return ok, err
}

func (r *Repository) PlayWithPet(ctx context.Context, ownerID model.Snowflake) (bool, error) {
	var ok bool
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		ok, err = model.PlayWithPet(ctx, tx, ownerID)
		return err
	})
	return ok, err
}

func (r *Repository) GiveTreat(ctx context.Context, ownerID model.Snowflake) (bool, error) {
	var ok bool
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		ok, err = model.GiveTreat(ctx, tx, ownerID)
		return err
	})
	return ok, err
}

func (r *Repository) DecayHunger(ctx context.Context) (int64, error) {
	var n int64
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		n, err = model.DecayHunger(ctx, tx)
		return err
	})
	return n, err
}

func (r *Repository) AdjustHappiness(ctx context.Context) (int64, error) {
	var n int64
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		n, err = model.AdjustHappiness(ctx, tx)
		return err
	})
	return n, err
}

func (r *Repository) AllPets(ctx context.Context) ([]*model.Pet, error) {
	var pets []*model.Pet
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		pets, err = model.FindAllPets(ctx, tx)
		return err
	})
	return pets, err
}

// Racers

func (r *Repository) RecordWin(ctx context.Context, discordID, locationID model.Snowflake) error {
	return r.s.Begin(ctx, func(tx pgx.Tx) error {
		return model.RecordWin(ctx, tx, discordID, locationID)
	})
}

func (r *Repository) TopRacers(ctx context.Context, locationID model.Snowflake, limit int) ([]*model.Racer, error) {
	var racers []*model.Racer
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		racers, err = model.FindTopRacers(ctx, tx, locationID, limit)
		return err
	})
	return racers, err
}

// Pings

func (r *Repository) AddPing(ctx context.Context, p *model.Ping) error {
	return r.s.Begin(ctx, func(tx pgx.Tx) error {
		return model.CreatePing(ctx, tx, p)
	})
}

func (r *Repository) RecentPings(ctx context.Context, limit int) ([]*model.Ping, error) {
	var pings []*model.Ping
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		pings, err = model.FindRecentPings(ctx, tx, limit)
		return err
	})
	return pings, err
}

// Words

func (r *Repository) CreateWord(ctx context.Context, w *model.Word) (bool, error) {
	var ok bool
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		ok, err = model.CreateWord(ctx, tx, w)
		return err
	})
	return ok, err
}

func (r *Repository) DeleteWord(ctx context.Context, word string) (bool, error) {
	var ok bool
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		ok, err = model.DeleteWord(ctx, tx, word)
		return err
	})
	return ok, err
}

func (r *Repository) IncrementWord(ctx context.Context, word string) (int64, error) {
	w := &model.Word{Word: word}
	if err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		return model.IncrementWord(ctx, tx, w)
	}); err != nil {
		return 0, err
	}
	return w.Count, nil
}

func (r *Repository) AllWords(ctx context.Context) ([]*model.Word, error) {
	var words []*model.Word
	err := r.s.Begin(ctx, func(tx pgx.Tx) error {
		var err error
		words, err = model.FindAllWords(ctx, tx)
		return err
	})
	return words, err
}
