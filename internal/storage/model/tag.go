package model

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
)

// Tag is a named text snippet scoped to a guild (location_id).
type Tag struct {
	ID         ID
	Name       string
	Content    string
	DiscordID  Snowflake // owner
	LocationID Snowflake // guild
	Called     int32
	DateAdded  time.Time
}

func NewTag(name, content string, ownerID, locationID Snowflake) *Tag {
	return &Tag{Name: name, Content: content, DiscordID: ownerID, LocationID: locationID}
}

// CreateTag inserts the tag; false means a tag with that name already exists
// in the guild.
func CreateTag(ctx context.Context, tx pgx.Tx, t *Tag) (bool, error) {
	return queryUpdateDelete(
		ctx,
		tx,
		`insert into tag (name, content, discord_id, location_id) values ($1, $2, $3, $4) on conflict do nothing`,
		[]interface{}{t.Name, t.Content, t.DiscordID, t.LocationID},
	)
}

// TouchTag atomically bumps the call counter and fills the row; t.ID stays 0
// on a miss.
func TouchTag(ctx context.Context, tx pgx.Tx, t *Tag) error {
	return query(
		ctx,
		tx,
		`update tag set called = called + 1 where name = $1 and location_id = $2 returning id, content, discord_id, called, date_added`,
		[]interface{}{t.Name, t.LocationID},
		[]interface{}{&t.ID, &t.Content, &t.DiscordID, &t.Called, &t.DateAdded},
	)
}

// FindTag fills the row without touching the call counter; t.ID stays 0 on a miss.
func FindTag(ctx context.Context, tx pgx.Tx, t *Tag) error {
	return query(
		ctx,
		tx,
		`select id, content, discord_id, called, date_added from tag where name = $1 and location_id = $2`,
		[]interface{}{t.Name, t.LocationID},
		[]interface{}{&t.ID, &t.Content, &t.DiscordID, &t.Called, &t.DateAdded},
	)
}

// FindSimilarTags returns guild tags whose name contains the fragment.
func FindSimilarTags(ctx context.Context, tx pgx.Tx, locationID Snowflake, fragment string) ([]*Tag, error) {
	var tags []*Tag
	q, err := tx.Query(ctx, `select id, name, content, discord_id, called, date_added from tag where location_id = $1 and name like '%' || $2 || '%' order by called desc limit 10`, locationID, fragment)
	if err != nil {
		return nil, err
	}

	defer q.Close()
	for q.Next() {
		et := &Tag{LocationID: locationID}
		if err := q.Scan(&et.ID, &et.Name, &et.Content, &et.DiscordID, &et.Called, &et.DateAdded); err != nil {
			return nil, err
		}

		tags = append(tags, et)
	}

	return tags, q.Err()
}

// UpdateTagContent rewrites the content, gated on ownership in the statement
// itself.
func UpdateTagContent(ctx context.Context, tx pgx.Tx, t *Tag) (bool, error) {
	return queryUpdateDelete(
		ctx,
		tx,
		`update tag set content = $4 where name = $1 and location_id = $2 and discord_id = $3`,
		[]interface{}{t.Name, t.LocationID, t.DiscordID, t.Content},
	)
}

// DeleteTag removes the tag, gated on ownership.
func DeleteTag(ctx context.Context, tx pgx.Tx, t *Tag) (bool, error) {
	return queryUpdateDelete(
		ctx,
		tx,
		`delete from tag where name = $1 and location_id = $2 and discord_id = $3`,
		[]interface{}{t.Name, t.LocationID, t.DiscordID},
	)
}

// TransferTag hands the tag to newOwner, gated on current ownership.
func TransferTag(ctx context.Context, tx pgx.Tx, t *Tag, newOwner Snowflake) (bool, error) {
	return queryUpdateDelete(
		ctx,
		tx,
		`update tag set discord_id = $4 where name = $1 and location_id = $2 and discord_id = $3`,
		[]interface{}{t.Name, t.LocationID, t.DiscordID, newOwner},
	)
}

// FindAllTags returns every tag in the guild, most called first.
func FindAllTags(ctx context.Context, tx pgx.Tx, locationID Snowflake) ([]*Tag, error) {
	var tags []*Tag
	q, err := tx.Query(ctx, `select id, name, content, discord_id, called, date_added from tag where location_id = $1 order by called desc`, locationID)
	if err != nil {
		return nil, err
	}

	defer q.Close()
	for q.Next() {
		et := &Tag{LocationID: locationID}
		if err := q.Scan(&et.ID, &et.Name, &et.Content, &et.DiscordID, &et.Called, &et.DateAdded); err != nil {
			return nil, err
		}

		tags = append(tags, et)
	}

	return tags, q.Err()
}
