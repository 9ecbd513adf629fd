package app

import (
	"context"
	"time"

	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/usecase"
)

// HealthChecker reports whether backing storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade is the single entry point the transport layer and the
// background sweeper talk to.
type StorefrontFacade struct {
	auth    *usecase.AuthUseCase
	orders  *usecase.OrderUseCase
	audit   *usecase.AuditUseCase
	reports *usecase.ReportUseCase
	health  HealthChecker
}

func NewStorefrontFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, audit *usecase.AuditUseCase, reports *usecase.ReportUseCase, health HealthChecker) *StorefrontFacade {
	return &StorefrontFacade{auth: auth, orders: orders, audit: audit, reports: reports, health: health}
}

func (f *StorefrontFacade) Login(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *StorefrontFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *StorefrontFacade) CreateOrder(ctx context.Context, in model.NewOrder) (*model.Order, error) {
	return f.orders.Create(ctx, in)
}

func (f *StorefrontFacade) OrderByTrackingToken(ctx context.Context, token string) (*model.Order, error) {
	return f.orders.ByTrackingToken(ctx, token)
}

func (f *StorefrontFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *StorefrontFacade) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	return f.orders.List(ctx, filter)
}

func (f *StorefrontFacade) SetOrderStatus(ctx context.Context, id, status, actorID, notes string) (*model.Order, error) {
	return f.orders.SetStatus(ctx, id, status, actorID, notes)
}

func (f *StorefrontFacade) DeleteOrder(ctx context.Context, id string) error {
	return f.orders.SoftDelete(ctx, id)
}

func (f *StorefrontFacade) AuditTrail(ctx context.Context, id string) (*model.AuditTrail, error) {
	return f.audit.Trail(ctx, id)
}

func (f *StorefrontFacade) AuditTrails(ctx context.Context, from, to time.Time) ([]model.AuditTrail, error) {
	return f.audit.Trails(ctx, from, to)
}

func (f *StorefrontFacade) Report(ctx context.Context, from, to time.Time) (*model.ReportMetrics, error) {
	return f.reports.Metrics(ctx, from, to)
}

func (f *StorefrontFacade) SweepExpiredTracking(ctx context.Context, retention time.Duration, limit int) (int, error) {
	return f.orders.SweepExpiredTracking(ctx, retention, limit)
}

func (f *StorefrontFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}

// EnsureAdmin seeds the first administrator account when credentials are configured.
func (f *StorefrontFacade) EnsureAdmin(ctx context.Context, email, password, fullName string) (bool, error) {
	return f.auth.EnsureAdmin(ctx, email, password, fullName)
}
