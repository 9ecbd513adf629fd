package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/metrics"
)

// Create validates and prices the cart, reserves the daily number and
// persists the order with its items.
func (u *OrderUseCase) Create(ctx context.Context, in model.NewOrder) (*model.Order, error) {
	in = normalizeNewOrder(in)
	if err := validateNewOrder(in); err != nil {
		return nil, err
	}

	now := u.issuer.Now()
	items, prepTime, err := u.priceLines(ctx, in.Items, now)
	if err != nil {
		return nil, err
	}
	deliveryFee := u.deliveryFeeFor(in)
	subtotal, vat, total := computeTotals(items, deliveryFee)

	orderDate := model.OrderDateIn(now, u.location)
	number, err := u.sequence.Next(ctx, orderDate)
	if err != nil {
		u.metrics.IncFailure(metrics.StageSequence)
		if errors.Is(err, domainErrors.ErrSequenceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrSequenceUnavailable, err)
	}

	receivedAt := now
	order := &model.Order{
		ID:                uuid.NewString(),
		DailyOrderNumber:  number,
		OrderDate:         orderDate,
		CustomerName:      in.CustomerName,
		CustomerPhone:     in.CustomerPhone,
		CustomerEmail:     optionalString(in.CustomerEmail),
		OrderType:         in.OrderType,
		Status:            model.OrderStatusReceived,
		PickupTime:        in.PickupTime,
		DeliveryAddress:   in.DeliveryAddress,
		DeliveryFee:       deliveryFee,
		Subtotal:          subtotal,
		VATAmount:         vat,
		Total:             total,
		PaymentMethod:     in.PaymentMethod,
		PaymentStatus:     model.PaymentStatusPending,
		CustomerNotes:     optionalString(in.CustomerNotes),
		EstimatedPrepTime: prepTime,
		ReceivedAt:        &receivedAt,
		PlacedAt:          now,
	}
	if u.schema.TrackingEnabled() {
		token := u.issuer.Generate()
		expiresAt := u.issuer.Expiry(nil)
		order.TrackingToken = &token
		order.TrackingTokenExpiresAt = &expiresAt
	}

	if err := u.insertOrder(ctx, order); err != nil {
		u.metrics.IncFailure(metrics.StageInsert)
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := u.orders.InsertItems(ctx, order.ID, items); err != nil {
		return nil, u.rollbackOrder(ctx, order.ID, err)
	}
	order.Items = items

	u.appendHistory(ctx, model.StatusHistoryEntry{
		OrderID:         order.ID,
		Status:          model.OrderStatusReceived,
		StatusTimestamp: now,
	})
	u.metrics.IncCreated(string(order.OrderType))
	u.logger.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("display_number", order.DisplayNumber()),
		slog.Int("items", len(items)),
	)

	stored, err := u.orders.GetByID(ctx, order.ID)
	if err != nil {
		u.logger.Warn("reload created order failed", slog.String("order_id", order.ID), slog.String("error", err.Error()))
		return order, nil
	}
	return stored, nil
}

// insertOrder writes the order row. A schema without tracking columns turns
// the capability off and the insert is retried once without them.
func (u *OrderUseCase) insertOrder(ctx context.Context, order *model.Order) error {
	err := u.orders.Create(ctx, order)
	if err == nil || order.TrackingToken == nil || !errors.Is(err, domainErrors.ErrTrackingUnsupported) {
		return err
	}

	u.schema.DisableTracking()
	u.metrics.IncFailure(metrics.StageTracking)
	u.logger.Warn("tracking columns missing, placing order without tracking token", slog.String("order_id", order.ID))

	order.TrackingToken = nil
	order.TrackingTokenExpiresAt = nil
	return u.orders.Create(ctx, order)
}

// rollbackOrder removes an order whose items could not be stored.
func (u *OrderUseCase) rollbackOrder(ctx context.Context, orderID string, cause error) error {
	u.metrics.IncFailure(metrics.StageItems)

	deleteErr := u.orders.Delete(context.WithoutCancel(ctx), orderID)
	if deleteErr == nil || errors.Is(deleteErr, domainErrors.ErrNotFound) {
		u.logger.Warn("order rolled back after item insert failure",
			slog.String("order_id", orderID),
			slog.String("error", cause.Error()),
		)
		return fmt.Errorf("insert order items: %w", cause)
	}

	u.metrics.IncFailure(metrics.StageOrphaned)
	u.logger.Error("order left without items",
		slog.String("order_id", orderID),
		slog.Bool("needs_manual_intervention", true),
		slog.String("items_error", cause.Error()),
		slog.String("delete_error", deleteErr.Error()),
	)
	return multierr.Combine(
		fmt.Errorf("%w: order %s", domainErrors.ErrOrphanedOrder, orderID),
		cause,
		deleteErr,
	)
}
