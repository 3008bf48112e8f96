package model

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Word is a tracked phrase counter.
type Word struct {
	ID        ID
	Word      string
	Count     int64
	DiscordID Snowflake // who started tracking it
}

// CreateWord starts tracking a word; false means it is already tracked.
func CreateWord(ctx context.Context, tx pgx.Tx, w *Word) (bool, error) {
	return queryUpdateDelete(
		ctx,
		tx,
		`insert into tracked_word (word, discord_id) values ($1, $2) on conflict do nothing`,
		[]interface{}{w.Word, w.DiscordID},
	)
}

// DeleteWord stops tracking a word.
func DeleteWord(ctx context.Context, tx pgx.Tx, word string) (bool, error) {
	return queryUpdateDelete(
		ctx,
		tx,
		`delete from tracked_word where word = $1`,
		[]interface{}{word},
	)
}

// IncrementWord bumps the counter and returns the new count; w.ID stays 0
// when the word is no longer tracked.
func IncrementWord(ctx context.Context, tx pgx.Tx, w *Word) error {
	return query(
		ctx,
		tx,
		`update tracked_word set count = count + 1 where word = $1 returning id, count`,
		[]interface{}{w.Word},
		[]interface{}{&w.ID, &w.Count},
	)
}

// FindAllWords returns every tracked word, highest count first.
func FindAllWords(ctx context.Context, tx pgx.Tx) ([]*Word, error) {
	var words []*Word
	q, err := tx.Query(ctx, `select id, word, count, discord_id from tracked_word order by count desc`)
	if err != nil {
		return nil, err
	}

	defer q.Close()
	for q.Next() {
		ew := &Word{}
		if err := q.Scan(&ew.ID, &ew.Word, &ew.Count, &ew.DiscordID); err != nil {
			return nil, err
		}

		words = append(words, ew)
	}

	return words, q.Err()
}
