package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/ordertrack/internal/config"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
	"github.com/polkiloo/ordertrack/internal/metrics"
	"github.com/polkiloo/ordertrack/internal/pkg/tracking"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	newOrderUseCase,
	newAuditUseCase,
	newReportUseCase,
)

type orderParams struct {
	fx.In

	Config   *config.Config
	Orders   repository.OrderRepository
	History  repository.HistoryRepository
	Menu     repository.MenuRepository
	Sequence repository.SequenceAllocator
	Schema   repository.SchemaCapabilities
	Issuer   *tracking.Issuer
	Metrics  *metrics.OrderMetrics
	Logger   *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(OrderDependencies{
		Orders:   p.Orders,
		History:  p.History,
		Menu:     p.Menu,
		Sequence: p.Sequence,
		Schema:   p.Schema,
		Issuer:   p.Issuer,
		Metrics:  p.Metrics,
		Logger:   p.Logger,
	}, OrderOptions{
		Location:               p.Config.StoreLocation,
		EnforceMenuPrices:      p.Config.PriceSource == config.PriceSourceMenu,
		DeliveryFee:            p.Config.DeliveryFee,
		AllowStatusCorrections: p.Config.AllowStatusCorrections,
	})
}

func newAuditUseCase(orders repository.OrderRepository, history repository.HistoryRepository, logger *slog.Logger) *AuditUseCase {
	return NewAuditUseCase(orders, history, logger)
}

func newReportUseCase(cfg *config.Config, orders repository.OrderRepository) *ReportUseCase {
	return NewReportUseCase(orders, cfg.StoreLocation)
}
