package model

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Racer is a guild-scoped snail race leaderboard row.
type Racer struct {
	ID         ID
	DiscordID  Snowflake
	LocationID Snowflake
	Wins       int32
	Points     int32
}

// RecordWin upserts the winner's row, bumping wins and points by one.
func RecordWin(ctx context.Context, tx pgx.Tx, discordID, locationID Snowflake) error {
	_, err := tx.Exec(
		ctx,
		`insert into racer (discord_id, location_id, wins, points) values ($1, $2, 1, 1)
		on conflict (discord_id, location_id) do update set wins = racer.wins + 1, points = racer.points + 1`,
		discordID, locationID,
	)
	return err
}

// FindTopRacers returns the guild's leaderboard, highest points first.
func FindTopRacers(ctx context.Context, tx pgx.Tx, locationID Snowflake, limit int) ([]*Racer, error) {
	r := make([]*Racer, 0, limit)
	q, err := tx.Query(ctx, `select id, discord_id, wins, points from racer where location_id = $1 order by points desc limit $2`, locationID, limit)
	if err != nil {
		return nil, err
	}

	defer q.Close()
	for q.Next() {
		er := &Racer{LocationID: locationID}
		if err := q.Scan(&er.ID, &er.DiscordID, &er.Wins, &er.Points); err != nil {
			return nil, err
		}

		r = append(r, er)
	}

	return r, q.Err()
}
