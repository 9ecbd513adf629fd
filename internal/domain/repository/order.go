package repository

import (
	"context"
	"time"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their items.
type OrderRepository interface {
	// Create inserts the order row. Tracking columns are written only when
	// order.TrackingToken is set; ErrTrackingUnsupported reports a schema without them.
	Create(ctx context.Context, order *model.Order) error
	InsertItems(ctx context.Context, orderID string, items []model.OrderItem) error
	Delete(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByTrackingToken(ctx context.Context, token string) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	ListByOrderDate(ctx context.Context, from, to time.Time) ([]model.Order, error)
	UpdateStatus(ctx context.Context, change model.StatusChange) error
	ClearExpiredTracking(ctx context.Context, before time.Time, limit int) (int, error)
}

// HistoryRepository stores the append-only status log.
type HistoryRepository interface {
	Append(ctx context.Context, entry model.StatusHistoryEntry) error
	ListByOrder(ctx context.Context, orderID string) ([]model.StatusHistoryEntry, error)
	ListByOrders(ctx context.Context, orderIDs []string) (map[string][]model.StatusHistoryEntry, error)
}

// SequenceAllocator reserves the next daily order number atomically.
type SequenceAllocator interface {
	Next(ctx context.Context, day time.Time) (int, error)
}

// SchemaCapabilities reports optional features of the backing schema.
type SchemaCapabilities interface {
	TrackingEnabled() bool
	DisableTracking()
}
