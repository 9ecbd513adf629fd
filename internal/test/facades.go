package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// SampleOrder returns a fully populated order for presentation tests.
func SampleOrder() model.Order {
	placed := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
	expires := placed.Add(30 * time.Minute)
	token := "5b0f7c1e-7d7a-4f59-9a53-0c1f0e3b9f10"
	return model.Order{
		ID:                     "2f0b7c1e-0000-4000-8000-000000000001",
		DailyOrderNumber:       5,
		OrderDate:              time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
		CustomerName:           "Karim",
		CustomerPhone:          "01711000000",
		OrderType:              model.OrderTypePickup,
		Status:                 model.OrderStatusReceived,
		PickupTime:             "ASAP",
		DeliveryFee:            decimal.Zero,
		Subtotal:               decimal.NewFromInt(250),
		VATAmount:              decimal.NewFromInt(25),
		Total:                  decimal.NewFromInt(275),
		PaymentMethod:          model.PaymentMethodPickup,
		PaymentStatus:          model.PaymentStatusPending,
		EstimatedPrepTime:      20,
		ReceivedAt:             &placed,
		PlacedAt:               placed,
		TrackingToken:          &token,
		TrackingTokenExpiresAt: &expires,
		CreatedAt:              placed,
		UpdatedAt:              placed,
		Items: []model.OrderItem{{
			ID:             "item-1",
			LineNo:         1,
			MenuItemID:     "burger",
			Quantity:       2,
			UnitPrice:      decimal.NewFromInt(100),
			TotalPrice:     decimal.NewFromInt(200),
			SelectedAddOns: []string{"cheese"},
			MenuItemNameEN: "Burger",
			MenuItemNameBN: "বার্গার",
		}},
	}
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn    func(context.Context, model.NewOrder) (*model.Order, error)
	TrackFn     func(context.Context, string) (*model.Order, error)
	OrderFn     func(context.Context, string) (*model.Order, error)
	OrdersFn    func(context.Context, model.OrderFilter) ([]model.Order, error)
	SetStatusFn func(context.Context, string, string, string, string) (*model.Order, error)
	DeleteFn    func(context.Context, string) error
}

// CreateOrder delegates to provided function or returns the sample order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, in model.NewOrder) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, in)
	}
	order := SampleOrder()
	return &order, nil
}

// OrderByTrackingToken resolves a tracking link.
func (s OrderFacadeStub) OrderByTrackingToken(ctx context.Context, token string) (*model.Order, error) {
	if s.TrackFn != nil {
		return s.TrackFn(ctx, token)
	}
	order := SampleOrder()
	return &order, nil
}

// Order returns a single order.
func (s OrderFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	order := SampleOrder()
	order.ID = id
	return &order, nil
}

// Orders returns predefined orders.
func (s OrderFacadeStub) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, filter)
	}
	return []model.Order{SampleOrder()}, nil
}

// SetOrderStatus applies a status change.
func (s OrderFacadeStub) SetOrderStatus(ctx context.Context, id, status, actorID, notes string) (*model.Order, error) {
	if s.SetStatusFn != nil {
		return s.SetStatusFn(ctx, id, status, actorID, notes)
	}
	order := SampleOrder()
	order.ID = id
	order.Status = model.OrderStatus(status)
	return &order, nil
}

// DeleteOrder soft deletes an order.
func (s OrderFacadeStub) DeleteOrder(ctx context.Context, id string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// AuditFacadeStub simulates audit and reporting reads.
type AuditFacadeStub struct {
	TrailFn  func(context.Context, string) (*model.AuditTrail, error)
	TrailsFn func(context.Context, time.Time, time.Time) ([]model.AuditTrail, error)
	ReportFn func(context.Context, time.Time, time.Time) (*model.ReportMetrics, error)
}

// AuditTrail returns a trail for the order.
func (s AuditFacadeStub) AuditTrail(ctx context.Context, id string) (*model.AuditTrail, error) {
	if s.TrailFn != nil {
		return s.TrailFn(ctx, id)
	}
	prep := 12.0
	return &model.AuditTrail{
		OrderID:          id,
		DailyOrderNumber: "20250307-005",
		Timeline:         model.Timeline{PrepTimeMinutes: &prep},
	}, nil
}

// AuditTrails returns trails for a date range.
func (s AuditFacadeStub) AuditTrails(ctx context.Context, from, to time.Time) ([]model.AuditTrail, error) {
	if s.TrailsFn != nil {
		return s.TrailsFn(ctx, from, to)
	}
	return []model.AuditTrail{}, nil
}

// Report returns aggregated metrics.
func (s AuditFacadeStub) Report(ctx context.Context, from, to time.Time) (*model.ReportMetrics, error) {
	if s.ReportFn != nil {
		return s.ReportFn(ctx, from, to)
	}
	return &model.ReportMetrics{From: from, To: to, TotalRevenue: decimal.Zero, AvgOrderValue: decimal.Zero}, nil
}

// StorefrontFacadeStub aggregates facade dependencies for HTTP layer tests.
type StorefrontFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	AuditFacadeStub
	HealthErr error
}

// HealthCheck reports the configured health error.
func (s StorefrontFacadeStub) HealthCheck(ctx context.Context) error {
	return s.HealthErr
}

// SweepCall stores information about SweepExpiredTracking invocations.
type SweepCall struct {
	Retention time.Duration
	Limit     int
}

// SweeperFacadeStub mimics the sweeper's interactions with the facade.
type SweeperFacadeStub struct {
	Results []int
	SweepFn func(context.Context, time.Duration, int) (int, error)
	Calls   []SweepCall

	mu    sync.Mutex
	count int32
}

// Lock exposes internal mutex for external synchronization.
func (s *SweeperFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweeperFacadeStub) Unlock() { s.mu.Unlock() }

// SweepExpiredTracking returns queued results, then zero.
func (s *SweeperFacadeStub) SweepExpiredTracking(ctx context.Context, retention time.Duration, limit int) (int, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, SweepCall{Retention: retention, Limit: limit})
	s.mu.Unlock()
	if s.SweepFn != nil {
		return s.SweepFn(ctx, retention, limit)
	}
	call := atomic.AddInt32(&s.count, 1)
	if int(call) <= len(s.Results) {
		return s.Results[call-1], nil
	}
	return 0, nil
}
