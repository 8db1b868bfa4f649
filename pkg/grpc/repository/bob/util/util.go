package util

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/racemetrics/pkg/grpc/repository/api"
)

// MapErr translates driver specific errors into repository errors.
func MapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return api.ErrNoRows
	}
	return err
}

// Count executes a query selecting a single count(*) column.
func Count(ctx context.Context, exec bob.Executor, q bob.Query) (int, error) {
	n, err := bob.One(ctx, exec, q, scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Affected executes a query with a RETURNING clause and reports the number
// of returned rows.
func Affected(ctx context.Context, exec bob.Executor, q bob.Query) (int, error) {
	res, err := bob.All(ctx, exec, q, scan.SingleColumnMapper[string])
	if err != nil {
		return 0, err
	}
	return len(res), nil
}
