package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/pkg/tracking"
	testhelpers "github.com/polkiloo/ordertrack/internal/test"
	"github.com/polkiloo/ordertrack/internal/usecase"
)

type healthStub struct{ err error }

func (h healthStub) HealthCheck(context.Context) error { return h.err }

type facadeDeps struct {
	orders  *testhelpers.OrderRepositoryStub
	history *testhelpers.HistoryRepositoryStub
	admins  *testhelpers.AdminRepositoryStub
}

var facadeNow = time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)

func newFacade(health HealthChecker) (*StorefrontFacade, facadeDeps) {
	deps := facadeDeps{
		orders:  testhelpers.NewOrderRepositoryStub(),
		history: &testhelpers.HistoryRepositoryStub{},
		admins:  testhelpers.NewAdminRepositoryStub(),
	}
	issuer := tracking.NewIssuer(tracking.Options{Now: func() time.Time { return facadeNow }})
	menu := &testhelpers.MenuRepositoryStub{Items: map[string]model.MenuItem{
		"burger": {ID: "burger", NameEN: "Burger", Price: decimal.NewFromInt(100), PrepTimeMinutes: 15, IsAvailable: true},
	}}

	authUC := usecase.NewAuthUseCase(deps.admins, testhelpers.HasherStub{}, testhelpers.StrategyStub{})
	orderUC := usecase.NewOrderUseCase(usecase.OrderDependencies{
		Orders:   deps.orders,
		History:  deps.history,
		Menu:     menu,
		Sequence: &testhelpers.SequenceStub{},
		Schema:   &testhelpers.CapabilitiesStub{Enabled: true},
		Issuer:   issuer,
	}, usecase.OrderOptions{EnforceMenuPrices: true})
	auditUC := usecase.NewAuditUseCase(deps.orders, deps.history, nil)
	reportUC := usecase.NewReportUseCase(deps.orders, time.UTC)

	return NewStorefrontFacade(authUC, orderUC, auditUC, reportUC, health), deps
}

func newOrderInput() model.NewOrder {
	return model.NewOrder{
		CustomerName:  "Karim",
		CustomerPhone: "01711000000",
		OrderType:     model.OrderTypePickup,
		PickupTime:    "ASAP",
		PaymentMethod: model.PaymentMethodPickup,
		Items:         []model.NewOrderItem{{MenuItemID: "burger", Quantity: 2}},
	}
}

func TestStorefrontFacadeAuth(t *testing.T) {
	facade, deps := newFacade(nil)
	created, err := facade.EnsureAdmin(context.Background(), "owner@shop.test", "secret", "Owner")
	if err != nil || !created {
		t.Fatalf("ensure admin returned %v %v", created, err)
	}

	token, err := facade.Login(context.Background(), "OWNER@shop.test", "secret")
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	admin, err := deps.admins.GetByEmail(context.Background(), "owner@shop.test")
	if err != nil {
		t.Fatalf("admin not stored: %v", err)
	}
	if token != "token-"+admin.ID {
		t.Fatalf("unexpected token %q", token)
	}

	id, err := facade.ParseToken(token)
	if err != nil || id != admin.ID {
		t.Fatalf("parse token returned %q %v", id, err)
	}

	if _, err := facade.Login(context.Background(), "owner@shop.test", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestStorefrontFacadeOrderLifecycle(t *testing.T) {
	facade, deps := newFacade(nil)
	ctx := context.Background()

	order, err := facade.CreateOrder(ctx, newOrderInput())
	if err != nil {
		t.Fatalf("create order returned error: %v", err)
	}
	if order.DailyOrderNumber != 1 || !order.Total.Equal(decimal.NewFromInt(220)) {
		t.Fatalf("unexpected order %d %s", order.DailyOrderNumber, order.Total)
	}

	tracked, err := facade.OrderByTrackingToken(ctx, *order.TrackingToken)
	if err != nil || tracked.ID != order.ID {
		t.Fatalf("tracking lookup returned %v %v", tracked, err)
	}

	fetched, err := facade.Order(ctx, order.ID)
	if err != nil || fetched.ID != order.ID {
		t.Fatalf("get order returned %v %v", fetched, err)
	}

	list, err := facade.Orders(ctx, model.OrderFilter{})
	if err != nil || len(list) != 1 {
		t.Fatalf("list returned %d %v", len(list), err)
	}

	updated, err := facade.SetOrderStatus(ctx, order.ID, "preparing", "admin-1", "")
	if err != nil {
		t.Fatalf("set status returned error: %v", err)
	}
	if updated.Status != model.OrderStatusPreparing {
		t.Fatalf("expected preparing, got %s", updated.Status)
	}
	if len(deps.history.Entries) != 2 {
		t.Fatalf("expected two history entries, got %d", len(deps.history.Entries))
	}

	trail, err := facade.AuditTrail(ctx, order.ID)
	if err != nil {
		t.Fatalf("audit trail returned error: %v", err)
	}
	if trail.DailyOrderNumber != "20250307-001" || len(trail.StatusHistory) != 2 {
		t.Fatalf("unexpected trail %+v", trail)
	}

	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	trails, err := facade.AuditTrails(ctx, day, day)
	if err != nil || len(trails) != 1 {
		t.Fatalf("audit trails returned %d %v", len(trails), err)
	}

	report, err := facade.Report(ctx, day, day)
	if err != nil {
		t.Fatalf("report returned error: %v", err)
	}
	if report.TotalOrders != 1 || report.TotalItemsSold != 2 {
		t.Fatalf("unexpected report %+v", report)
	}

	if err := facade.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if _, err := facade.Order(ctx, order.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected deleted order to be hidden, got %v", err)
	}
}

func TestStorefrontFacadeSweepExpiredTracking(t *testing.T) {
	facade, deps := newFacade(nil)
	token := "stale"
	expired := facadeNow.Add(-48 * time.Hour)
	deps.orders.Put(model.Order{ID: "o-1", Status: model.OrderStatusCompleted, TrackingToken: &token, TrackingTokenExpiresAt: &expired})
	open := "still-cooking"
	deps.orders.Put(model.Order{ID: "o-2", Status: model.OrderStatusPreparing, TrackingToken: &open, TrackingTokenExpiresAt: &expired})

	cleared, err := facade.SweepExpiredTracking(context.Background(), 24*time.Hour, 10)
	if err != nil {
		t.Fatalf("sweep returned error: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected one cleared token, got %d", cleared)
	}
	if len(deps.orders.Swept) != 1 || !deps.orders.Swept[0].Equal(facadeNow.Add(-24*time.Hour)) {
		t.Fatalf("unexpected sweep cutoff %v", deps.orders.Swept)
	}
	if kept, _ := deps.orders.Stored("o-2"); kept.TrackingToken == nil {
		t.Fatal("expected open order to keep its token")
	}
}

func TestStorefrontFacadeHealthCheck(t *testing.T) {
	facade, _ := newFacade(nil)
	if err := facade.HealthCheck(context.Background()); err != nil {
		t.Fatalf("expected nil health error without checker, got %v", err)
	}

	boom := errors.New("db down")
	facade, _ = newFacade(healthStub{err: boom})
	if err := facade.HealthCheck(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected health error, got %v", err)
	}
}
