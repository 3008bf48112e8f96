// Package pets implements the virtual pet subsystem: command-driven
// mutations plus the periodic hunger and happiness loops. All stat math
// happens inside single SQL statements, so a decay tick and a concurrent
// feed cannot lose each other's update.
package pets

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"pkg.twizy.sh/konikotaka/internal/storage/model"
)

var (
	ErrPetExists       = errors.New("owner already has a pet")
	ErrNoPet           = errors.New("owner has no pet")
	ErrNotEnoughTreats = errors.New("not enough treats")
	ErrNameTooLong     = errors.New("pet name is a maximum of 50 characters")
)

const maxNameLen = 50

// Store is the slice of the repository the pet service needs.
type Store interface {
	CreatePet(ctx context.Context, p *model.Pet) (bool, error)
	Pet(ctx context.Context, ownerID int64) (*model.Pet, error)
	FeedPet(ctx context.Context, ownerID int64, treats int32) (bool, error)
	PlayWithPet(ctx context.Context, ownerID int64) (bool, error)
	GiveTreat(ctx context.Context, ownerID int64) (bool, error)
	DecayHunger(ctx context.Context) (int64, error)
	AdjustHappiness(ctx context.Context) (int64, error)
	AllPets(ctx context.Context) ([]*model.Pet, error)
}

type Service struct {
	logger *zap.SugaredLogger
	store  Store

	rngMu sync.Mutex
	rng   *rand.Rand

	// test seam
	roll func(min, max int) int
}

func NewService(logger *zap.SugaredLogger, store Store) *Service {
	s := &Service{
		logger: logger,
		store:  store,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.roll = func(min, max int) int {
		s.rngMu.Lock()
		defer s.rngMu.Unlock()
		return min + s.rng.Intn(max-min+1)
	}
	return s
}

// Create adopts a pet for the owner. One pet per owner.
func (s *Service) Create(ctx context.Context, ownerID int64, name string) (*model.Pet, error) {
	if len(name) == 0 || len(name) > maxNameLen {
		return nil, ErrNameTooLong
	}

	p := &model.Pet{DiscordID: ownerID, PetName: name}
	ok, err := s.store.CreatePet(ctx, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPetExists
	}
	return p, nil
}

// Feed spends a random 1-10 treats on the owner's pet, raising hunger by the
// same amount. The whole mutation is rejected when the stash is too small.
func (s *Service) Feed(ctx context.Context, ownerID int64) (int32, error) {
	pet, err := s.store.Pet(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if pet == nil {
		return 0, ErrNoPet
	}

	treats := int32(s.roll(1, 10))
	ok, err := s.store.FeedPet(ctx, ownerID, treats)
	if err != nil {
		return 0, err
	}
	if !ok {
		return treats, ErrNotEnoughTreats
	}
	return treats, nil
}

// Play raises the pet's happiness.
func (s *Service) Play(ctx context.Context, ownerID int64) error {
	ok, err := s.store.PlayWithPet(ctx, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoPet
	}
	return nil
}

// Treat adds one treat to the owner's stash.
func (s *Service) Treat(ctx context.Context, ownerID int64) error {
	ok, err := s.store.GiveTreat(ctx, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoPet
	}
	return nil
}

// Stats returns the owner's pet.
func (s *Service) Stats(ctx context.Context, ownerID int64) (*model.Pet, error) {
	pet, err := s.store.Pet(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, ErrNoPet
	}
	return pet, nil
}

// Leaderboard returns every pet, happiest first.
func (s *Service) Leaderboard(ctx context.Context) ([]*model.Pet, error) {
	return s.store.AllPets(ctx)
}

// RunDecay drops all hunger by one every interval until ctx is done.
func (s *Service) RunDecay(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := s.store.DecayHunger(ctx); err != nil {
				s.logger.Errorf("Failed to decay pet hunger: %s.", err)
			} else {
				s.logger.Debugf("Decayed hunger for %d pets.", n)
			}
		}
	}
}

// RunHappiness nudges all happiness toward hunger every interval until ctx
// is done.
func (s *Service) RunHappiness(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := s.store.AdjustHappiness(ctx); err != nil {
				s.logger.Errorf("Failed to adjust pet happiness: %s.", err)
			} else {
				s.logger.Debugf("Adjusted happiness for %d pets.", n)
			}
		}
	}
}
