package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
	"github.com/polkiloo/ordertrack/internal/metrics"
	"github.com/polkiloo/ordertrack/internal/pkg/tracking"
)

// OrderDependencies groups collaborators of OrderUseCase.
type OrderDependencies struct {
	Orders   repository.OrderRepository
	History  repository.HistoryRepository
	Menu     repository.MenuRepository
	Sequence repository.SequenceAllocator
	Schema   repository.SchemaCapabilities
	Issuer   *tracking.Issuer
	Metrics  *metrics.OrderMetrics
	Logger   *slog.Logger
}

// OrderOptions tunes order placement and status policy.
type OrderOptions struct {
	// Location decides which calendar day an order belongs to.
	Location               *time.Location
	EnforceMenuPrices      bool
	// DeliveryFee is charged on delivery orders when menu prices are enforced.
	DeliveryFee            decimal.Decimal
	AllowStatusCorrections bool
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders   repository.OrderRepository
	history  repository.HistoryRepository
	menu     repository.MenuRepository
	sequence repository.SequenceAllocator
	schema   repository.SchemaCapabilities
	issuer   *tracking.Issuer
	metrics  *metrics.OrderMetrics
	logger   *slog.Logger

	location          *time.Location
	enforceMenuPrices bool
	deliveryFee       decimal.Decimal
	allowCorrections  bool
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(deps OrderDependencies, opts OrderOptions) *OrderUseCase {
	issuer := deps.Issuer
	if issuer == nil {
		issuer = tracking.NewIssuer(tracking.Options{})
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	location := opts.Location
	if location == nil {
		location = time.UTC
	}
	return &OrderUseCase{
		orders:            deps.Orders,
		history:           deps.History,
		menu:              deps.Menu,
		sequence:          deps.Sequence,
		schema:            deps.Schema,
		issuer:            issuer,
		metrics:           deps.Metrics,
		logger:            logger,
		location:          location,
		enforceMenuPrices: opts.EnforceMenuPrices,
		deliveryFee:       opts.DeliveryFee,
		allowCorrections:  opts.AllowStatusCorrections,
	}
}

// Get returns a live order with its items.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domainErrors.ErrNotFound
	}
	return u.orders.GetByID(ctx, id)
}

// List returns live orders matching filter, newest first.
func (u *OrderUseCase) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Status != "" {
		if _, ok := model.ParseOrderStatus(string(filter.Status)); !ok {
			return nil, domainErrors.NewValidationError("status", "is not a known order status")
		}
	}
	if filter.OrderType != "" && filter.OrderType != model.OrderTypePickup && filter.OrderType != model.OrderTypeDelivery {
		return nil, domainErrors.NewValidationError("order_type", "must be one of pickup, delivery")
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domainErrors.NewValidationError("to", "must not be before from")
	}
	return u.orders.List(ctx, filter.Normalize())
}

// ByTrackingToken resolves a public tracking link. Unknown, expired and
// unsupported tokens all report ErrNotFound.
func (u *OrderUseCase) ByTrackingToken(ctx context.Context, token string) (*model.Order, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		u.metrics.IncTrackingLookup(false)
		return nil, domainErrors.ErrNotFound
	}

	order, err := u.orders.GetByTrackingToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) || errors.Is(err, domainErrors.ErrTrackingUnsupported) {
			u.metrics.IncTrackingLookup(false)
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if !u.issuer.IsValid(order) {
		u.metrics.IncTrackingLookup(false)
		return nil, domainErrors.ErrNotFound
	}

	u.metrics.IncTrackingLookup(true)
	return order, nil
}

// SoftDelete hides an order from every read path.
func (u *OrderUseCase) SoftDelete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domainErrors.ErrNotFound
	}
	if err := u.orders.SoftDelete(ctx, id, u.issuer.Now()); err != nil {
		return err
	}
	u.logger.Info("order soft deleted", slog.String("order_id", id))
	return nil
}

// SweepExpiredTracking clears tokens that expired more than retention ago.
func (u *OrderUseCase) SweepExpiredTracking(ctx context.Context, retention time.Duration, limit int) (int, error) {
	cleared, err := u.orders.ClearExpiredTracking(ctx, u.issuer.Now().Add(-retention), limit)
	if err != nil {
		return 0, fmt.Errorf("clear expired tracking: %w", err)
	}
	u.metrics.AddSwept(cleared)
	return cleared, nil
}

// appendHistory writes a history entry. Failures are logged and counted only.
func (u *OrderUseCase) appendHistory(ctx context.Context, entry model.StatusHistoryEntry) {
	if err := u.history.Append(ctx, entry); err != nil {
		u.metrics.IncFailure(metrics.StageHistory)
		u.logger.Warn("status history append failed",
			slog.String("order_id", entry.OrderID),
			slog.String("status", string(entry.Status)),
			slog.String("error", err.Error()),
		)
	}
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
