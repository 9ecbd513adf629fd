package postgres

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
)

// Next reserves the next number of the day with a single upsert, so
// concurrent callers always observe distinct values.
func (a *sequenceAllocator) Next(ctx context.Context, day time.Time) (int, error) {
	const query = `INSERT INTO daily_order_counters (order_date, last_number)
                   VALUES ($1, 1)
                   ON CONFLICT (order_date) DO UPDATE
                   SET last_number = daily_order_counters.last_number + 1
                   RETURNING last_number`
	var next int
	if err := a.storage.pool.QueryRow(ctx, query, day).Scan(&next); err != nil {
		return 0, fmt.Errorf("%w: %v", domainErrors.ErrSequenceUnavailable, err)
	}
	return next, nil
}
