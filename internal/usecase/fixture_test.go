package usecase

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/metrics"
	"github.com/polkiloo/ordertrack/internal/pkg/tracking"
	testhelpers "github.com/polkiloo/ordertrack/internal/test"
)

var fixtureStart = time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type orderFixture struct {
	clock    *fakeClock
	orders   *testhelpers.OrderRepositoryStub
	history  *testhelpers.HistoryRepositoryStub
	menu     *testhelpers.MenuRepositoryStub
	sequence *testhelpers.SequenceStub
	schema   *testhelpers.CapabilitiesStub
	issuer   *tracking.Issuer
	registry *prometheus.Registry
	logs     *bytes.Buffer
	uc       *OrderUseCase
}

func testMenu() map[string]model.MenuItem {
	return map[string]model.MenuItem{
		"burger":  {ID: "burger", NameEN: "Burger", NameBN: "বার্গার", Price: decimal.NewFromInt(100), PrepTimeMinutes: 15, IsAvailable: true},
		"fries":   {ID: "fries", NameEN: "Fries", NameBN: "ফ্রাইজ", Price: decimal.NewFromInt(50), PrepTimeMinutes: 20, IsAvailable: true},
		"lassi":   {ID: "lassi", NameEN: "Lassi", NameBN: "লাচ্ছি", Price: decimal.NewFromInt(30), PrepTimeMinutes: 10, IsAvailable: true},
		"soldout": {ID: "soldout", NameEN: "Kacchi", Price: decimal.NewFromInt(300), PrepTimeMinutes: 40, IsAvailable: false},
	}
}

func testPromotions() map[string]model.Promotion {
	lunchEnds := fixtureStart.Add(-time.Hour)
	return map[string]model.Promotion{
		"happy-hour": {ID: "happy-hour", NameEN: "Happy Hour", IsForSale: true, Prices: map[string]decimal.Decimal{
			"fries": decimal.NewFromInt(40),
			"lassi": decimal.NewFromInt(35),
		}},
		"lunch-deal": {ID: "lunch-deal", NameEN: "Lunch Deal", IsForSale: true, EndsAt: &lunchEnds, Prices: map[string]decimal.Decimal{
			"burger": decimal.NewFromInt(80),
		}},
		"paused": {ID: "paused", NameEN: "Paused Combo", IsForSale: false, Prices: map[string]decimal.Decimal{
			"burger": decimal.NewFromInt(70),
		}},
	}
}

func newOrderFixture(t *testing.T, opts OrderOptions) *orderFixture {
	t.Helper()

	clock := &fakeClock{now: fixtureStart}
	logs := &bytes.Buffer{}
	registry := prometheus.NewRegistry()
	f := &orderFixture{
		clock:    clock,
		orders:   testhelpers.NewOrderRepositoryStub(),
		history:  &testhelpers.HistoryRepositoryStub{AdminNames: map[string]string{"admin-1": "Rahim Uddin"}},
		menu:     &testhelpers.MenuRepositoryStub{Items: testMenu(), Promos: testPromotions()},
		sequence: &testhelpers.SequenceStub{},
		schema:   &testhelpers.CapabilitiesStub{Enabled: true},
		issuer:   tracking.NewIssuer(tracking.Options{Now: clock.Now}),
		registry: registry,
		logs:     logs,
	}
	f.uc = NewOrderUseCase(OrderDependencies{
		Orders:   f.orders,
		History:  f.history,
		Menu:     f.menu,
		Sequence: f.sequence,
		Schema:   f.schema,
		Issuer:   f.issuer,
		Metrics:  metrics.NewOrderMetrics(registry),
		Logger:   slog.New(slog.NewJSONHandler(logs, nil)),
	}, opts)
	return f
}

type storeFixture struct {
	orders  *testhelpers.OrderRepositoryStub
	history *testhelpers.HistoryRepositoryStub
}

func newStoreFixture() storeFixture {
	return storeFixture{
		orders:  testhelpers.NewOrderRepositoryStub(),
		history: &testhelpers.HistoryRepositoryStub{},
	}
}

func pickupOrder(lines ...model.NewOrderItem) model.NewOrder {
	return model.NewOrder{
		CustomerName:  "Karim",
		CustomerPhone: "01711000000",
		OrderType:     model.OrderTypePickup,
		PickupTime:    "ASAP",
		PaymentMethod: model.PaymentMethodPickup,
		Items:         lines,
	}
}

func line(menuItemID string, price int64, qty int) model.NewOrderItem {
	return model.NewOrderItem{MenuItemID: menuItemID, UnitPrice: decimal.NewFromInt(price), Quantity: qty}
}

// counterValue sums a counter family, optionally restricted to one label value.
func counterValue(t *testing.T, reg *prometheus.Registry, name, labelValue string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue != "" {
				matched := false
				for _, lp := range m.GetLabel() {
					if lp.GetValue() == labelValue {
						matched = true
					}
				}
				if !matched {
					continue
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}
