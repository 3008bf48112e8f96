package model

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
)

// User is one guild member's row, one per (discord_id, guild_id).
type User struct {
	ID        ID
	DiscordID Snowflake
	GuildID   Snowflake
	Username  string
	Joined    time.Time
	XP        int32
	Level     int32
}

func NewUser(discordID, guildID Snowflake, username string, joined time.Time) *User {
	return &User{DiscordID: discordID, GuildID: guildID, Username: username, Joined: joined}
}

// FindOrCreateUser looks the user up by (discord_id, guild_id), creating the
// row when absent, and fills ID, XP and Level.
func FindOrCreateUser(ctx context.Context, tx pgx.Tx, u *User) error {
	return query(
		ctx,
		tx,
		`with e as (insert into discord_user (discord_id, guild_id, username, joined) values ($1, $2, $3, $4) on conflict do nothing returning id, xp, level)
		select id, xp, level from e union select id, xp, level from discord_user where discord_id = $1 and guild_id = $2`,
		[]interface{}{u.DiscordID, u.GuildID, u.Username, u.Joined},
		[]interface{}{&u.ID, &u.XP, &u.Level},
	)
}

// FindUser fills the row for (discord_id, guild_id); u.ID stays 0 when absent.
func FindUser(ctx context.Context, tx pgx.Tx, u *User) error {
	return query(
		ctx,
		tx,
		`select id, username, joined, xp, level from discord_user where discord_id = $1 and guild_id = $2`,
		[]interface{}{u.DiscordID, u.GuildID},
		[]interface{}{&u.ID, &u.Username, &u.Joined, &u.XP, &u.Level},
	)
}

// UpdateUserProgress writes xp/level guarded by the previously observed xp
// value. A false return means another writer got there first; reload and retry.
func UpdateUserProgress(ctx context.Context, tx pgx.Tx, u *User, prevXP int32) (bool, error) {
	return queryUpdateDelete(
		ctx,
		tx,
		`update discord_user set xp = $3, level = $4, username = $5 where discord_id = $1 and guild_id = $2 and xp = $6`,
		[]interface{}{u.DiscordID, u.GuildID, u.XP, u.Level, u.Username, prevXP},
	)
}

// FindTopUsers returns the guild's users ordered by level, then xp.
func FindTopUsers(ctx context.Context, tx pgx.Tx, guildID Snowflake, limit int) ([]*User, error) {
	u := make([]*User, 0, limit)
	q, err := tx.Query(ctx, `select id, discord_id, username, joined, xp, level from discord_user where guild_id = $1 order by level desc, xp desc limit $2`, guildID, limit)
	if err != nil {
		return nil, err
	}

	defer q.Close()
	for q.Next() {
		eu := &User{GuildID: guildID}
		if err := q.Scan(&eu.ID, &eu.DiscordID, &eu.Username, &eu.Joined, &eu.XP, &eu.Level); err != nil {
			return nil, err
		}

		u = append(u, eu)
	}

	return u, q.Err()
}
