package redisstore

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
)

const (
	dailyOrderCounter = "daily_order"
	counterTTL        = 48 * time.Hour
)

// SequenceAllocator hands out daily order numbers with atomic INCR.
type SequenceAllocator struct {
	client *Client
}

// NewSequenceAllocator builds SequenceAllocator over client.
func NewSequenceAllocator(client *Client) *SequenceAllocator {
	return &SequenceAllocator{client: client}
}

// Next increments the counter of day. The key expires two days after its
// first use so stale days do not accumulate.
func (a *SequenceAllocator) Next(ctx context.Context, day time.Time) (int, error) {
	key := a.client.CounterKey(dailyOrderCounter, day.Format("20060102"))
	n, err := a.client.IncrWithTTL(ctx, key, counterTTL)
	if err != nil && n == 0 {
		return 0, fmt.Errorf("%w: %v", domainErrors.ErrSequenceUnavailable, err)
	}
	return int(n), nil
}

// HealthCheck verifies the counter store is reachable.
func (a *SequenceAllocator) HealthCheck(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}
