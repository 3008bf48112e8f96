package model

import (
	"context"

	"github.com/jackc/pgx/v4"
)

func queryRowFuncNoOp(row pgx.QueryFuncRow) error { return nil }

func query(ctx context.Context, tx pgx.Tx, sql string, args []interface{}, scans []interface{}) error {
	_, err := tx.QueryFunc(ctx, sql, args, scans, queryRowFuncNoOp)
	return err
}

func queryUpdateDelete(ctx context.Context, tx pgx.Tx, sql string, args []interface{}) (bool, error) {
	ct, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
