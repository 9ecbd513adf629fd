package handlers

import (
	"context"
	"time"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// AuthFacade describes admin authentication capabilities required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (string, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, in model.NewOrder) (*model.Order, error)
	OrderByTrackingToken(ctx context.Context, token string) (*model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	SetOrderStatus(ctx context.Context, id, status, actorID, notes string) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// AuditFacade provides lifecycle trails and reports.
type AuditFacade interface {
	AuditTrail(ctx context.Context, id string) (*model.AuditTrail, error)
	AuditTrails(ctx context.Context, from, to time.Time) ([]model.AuditTrail, error)
	Report(ctx context.Context, from, to time.Time) (*model.ReportMetrics, error)
}

// HealthChecker reports backend availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	OrderFacade
	AuditFacade
	HealthChecker
}
