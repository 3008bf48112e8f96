package model

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
)

// Ping is an append-only latency sample in milliseconds.
type Ping struct {
	ID       ID
	PingWS   int32
	PingREST int32
	Date     time.Time
}

func CreatePing(ctx context.Context, tx pgx.Tx, p *Ping) error {
	return query(
		ctx,
		tx,
		`insert into ping (ping_ws, ping_rest) values ($1, $2) returning id, date`,
		[]interface{}{p.PingWS, p.PingREST},
		[]interface{}{&p.ID, &p.Date},
	)
}

// FindRecentPings returns the newest samples first.
func FindRecentPings(ctx context.Context, tx pgx.Tx, limit int) ([]*Ping, error) {
	p := make([]*Ping, 0, limit)
	q, err := tx.Query(ctx, `select id, ping_ws, ping_rest, date from ping order by date desc limit $1`, limit)
	if err != nil {
		return nil, err
	}

	defer q.Close()
	for q.Next() {
		ep := &Ping{}
		if err := q.Scan(&ep.ID, &ep.PingWS, &ep.PingREST, &ep.Date); err != nil {
			return nil, err
		}

		p = append(p, ep)
	}

	return p, q.Err()
}
