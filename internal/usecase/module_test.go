package usecase

import (
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
	"github.com/polkiloo/ordertrack/internal/metrics"
	pkgAuth "github.com/polkiloo/ordertrack/internal/pkg/auth"
	"github.com/polkiloo/ordertrack/internal/pkg/tracking"
	testhelpers "github.com/polkiloo/ordertrack/internal/test"
)

func TestModuleProvidesUseCases(t *testing.T) {
	var (
		orders  *OrderUseCase
		audit   *AuditUseCase
		reports *ReportUseCase
		auth    *AuthUseCase
	)

	app := fxtest.New(t,
		fx.Supply(
			&config.Config{StoreLocation: time.UTC, PriceSource: config.PriceSourceMenu, AllowStatusCorrections: true},
			slog.New(slog.DiscardHandler),
			tracking.NewIssuer(tracking.Options{}),
			metrics.NewOrderMetrics(prometheus.NewRegistry()),
		),
		fx.Provide(
			func() repository.OrderRepository { return testhelpers.NewOrderRepositoryStub() },
			func() repository.HistoryRepository { return &testhelpers.HistoryRepositoryStub{} },
			func() repository.MenuRepository { return &testhelpers.MenuRepositoryStub{} },
			func() repository.AdminRepository { return testhelpers.NewAdminRepositoryStub() },
			func() repository.SequenceAllocator { return &testhelpers.SequenceStub{} },
			func() repository.SchemaCapabilities { return &testhelpers.CapabilitiesStub{} },
			func() pkgAuth.PasswordHasher { return testhelpers.HasherStub{} },
			func() pkgAuth.Strategy { return testhelpers.StrategyStub{} },
		),
		Module,
		fx.Populate(&orders, &audit, &reports, &auth),
	)
	app.RequireStart()
	defer app.RequireStop()

	if orders == nil || audit == nil || reports == nil || auth == nil {
		t.Fatal("expected all use cases to be provided")
	}
	if !orders.enforceMenuPrices || !orders.allowCorrections {
		t.Fatal("expected options taken from config")
	}
}
