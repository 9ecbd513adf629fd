package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/metrics"
)

// SetStatus moves an order to status and records who did it.
// In strict mode only forward edges and cancellation of open orders are accepted.
func (u *OrderUseCase) SetStatus(ctx context.Context, id, status, actorID, notes string) (*model.Order, error) {
	next, ok := model.ParseOrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !ok {
		return nil, domainErrors.NewValidationError("status", "must be one of received, preparing, ready, completed, cancelled")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domainErrors.ErrNotFound
	}

	now := u.issuer.Now()
	change := model.StatusChange{OrderID: id, Status: next, At: now}
	if !u.allowCorrections {
		change.AllowedFrom = append([]model.OrderStatus{}, model.PredecessorsOf(next)...)
	}
	if next == model.OrderStatusCompleted && u.schema.TrackingEnabled() {
		expiresAt := u.issuer.Expiry(&now)
		change.TrackingExpiresAt = &expiresAt
	}

	if err := u.applyStatus(ctx, change); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) || errors.Is(err, domainErrors.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	u.metrics.IncStatusChange(string(next))

	u.appendHistory(ctx, model.StatusHistoryEntry{
		OrderID:         id,
		Status:          next,
		StatusTimestamp: now,
		ChangedBy:       optionalString(actorID),
		Notes:           optionalString(notes),
	})
	u.logger.Info("order status changed",
		slog.String("order_id", id),
		slog.String("status", string(next)),
		slog.String("actor", actorID),
	)

	return u.orders.GetByID(ctx, id)
}

func (u *OrderUseCase) applyStatus(ctx context.Context, change model.StatusChange) error {
	err := u.orders.UpdateStatus(ctx, change)
	if err == nil || change.TrackingExpiresAt == nil || !errors.Is(err, domainErrors.ErrTrackingUnsupported) {
		return err
	}

	u.schema.DisableTracking()
	u.metrics.IncFailure(metrics.StageTracking)
	u.logger.Warn("tracking columns missing, completing order without expiry", slog.String("order_id", change.OrderID))

	change.TrackingExpiresAt = nil
	return u.orders.UpdateStatus(ctx, change)
}
