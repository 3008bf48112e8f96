package model

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
)

// Stat bounds shared by commands and the decay tasks.
const (
	PetStatMax      = 100
	HungerThreshold = 5
)

// Pet is a virtual pet, one per owner across all guilds.
type Pet struct {
	ID         ID
	DiscordID  Snowflake // owner
	PetName    string
	Hunger     int32
	Happiness  int32
	TreatCount int32
	LastFed    time.Time
}

// CreatePet inserts the pet; false means the owner already has one.
func CreatePet(ctx context.Context, tx pgx.Tx, p *Pet) (bool, error) {
	return queryUpdateDelete(
		ctx,
		tx,
		`insert into pet (discord_id, pet_name) values ($1, $2) on conflict do nothing`,
		[]interface{}{p.DiscordID, p.PetName},
	)
}

// FindPet fills the owner's pet row; p.ID stays 0 when the owner has none.
func FindPet(ctx context.Context, tx pgx.Tx, p *Pet) error {
	return query(
		ctx,
		tx,
		`select id, pet_name, hunger, happiness, treat_count, last_fed from pet where discord_id = $1`,
		[]interface{}{p.DiscordID},
		[]interface{}{&p.ID, &p.PetName, &p.Hunger, &p.Happiness, &p.TreatCount, &p.LastFed},
	)
}

// FeedPet spends treats to raise hunger, capped at PetStatMax, in one
// statement. False means the owner has no pet or too few treats.
func FeedPet(ctx context.Context, tx pgx.Tx, ownerID Snowflake, treats int32) (bool, error) {
	return queryUpdateDelete(
		ctx,
		tx,
		`update pet set treat_count = treat_count - $2, hunger = least(hunger + $2, $3), last_fed = now() where discord_id = $1 and treat_count >= $2`,
		[]interface{}{ownerID, treats, int32(PetStatMax)},
	)
}

// PlayWithPet raises happiness by 10, capped.
func PlayWithPet(ctx context.Context, tx pgx.Tx, ownerID Snowflake) (bool, error) {
	return queryUpdateDelete(
		ctx,
		tx,
		`update pet set happiness = least(happiness + 10, $2) where discord_id = $1`,
		[]interface{}{ownerID, int32(PetStatMax)},
	)
}

// GiveTreat adds one treat to the owner's stash.
func GiveTreat(ctx context.Context, tx pgx.Tx, ownerID Snowflake) (bool, error) {
	return queryUpdateDelete(
		ctx,
		tx,
		`update pet set treat_count = treat_count + 1 where discord_id = $1`,
		[]interface{}{ownerID},
	)
}

// DecayHunger drops every pet's hunger by one, floored at zero.
func DecayHunger(ctx context.Context, tx pgx.Tx) (int64, error) {
	ct, err := tx.Exec(ctx, `update pet set hunger = greatest(hunger - 1, 0)`)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// AdjustHappiness moves every pet's happiness toward its hunger: fed pets
// (hunger above the threshold) cheer up, hungry ones sulk.
func AdjustHappiness(ctx context.Context, tx pgx.Tx) (int64, error) {
	ct, err := tx.Exec(
		ctx,
		`update pet set happiness = case when hunger > $1 then least(happiness + 1, $2) else greatest(happiness - 1, 0) end`,
		int32(HungerThreshold), int32(PetStatMax),
	)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// FindAllPets returns every pet, happiest first.
func FindAllPets(ctx context.Context, tx pgx.Tx) ([]*Pet, error) {
	var pets []*Pet
	q, err := tx.Query(ctx, `select id, discord_id, pet_name, hunger, happiness, treat_count, last_fed from pet order by happiness desc, hunger desc`)
	if err != nil {
		return nil, err
	}

	defer q.Close()
	for q.Next() {
		ep := &Pet{}
		if err := q.Scan(&ep.ID, &ep.DiscordID, &ep.PetName, &ep.Hunger, &ep.Happiness, &ep.TreatCount, &ep.LastFed); err != nil {
			return nil, err
		}

		pets = append(pets, ep)
	}

	return pets, q.Err()
}
