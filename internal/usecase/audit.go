package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
)

var errIncompleteOrder = errors.New("order lacks a daily number")

// AuditUseCase derives read-only lifecycle timelines from stored orders.
type AuditUseCase struct {
	orders  repository.OrderRepository
	history repository.HistoryRepository
	logger  *slog.Logger
}

// NewAuditUseCase constructs AuditUseCase.
func NewAuditUseCase(orders repository.OrderRepository, history repository.HistoryRepository, logger *slog.Logger) *AuditUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuditUseCase{orders: orders, history: history, logger: logger}
}

// Trail assembles the audit trail of one live order.
func (u *AuditUseCase) Trail(ctx context.Context, orderID string) (*model.AuditTrail, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, domainErrors.ErrNotFound
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	history, err := u.history.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load status history: %w", err)
	}

	trail, err := buildTrail(*order, history)
	if err != nil {
		return nil, err
	}
	return &trail, nil
}

// Trails assembles trails of every live order with order_date in [from, to].
func (u *AuditUseCase) Trails(ctx context.Context, from, to time.Time) ([]model.AuditTrail, error) {
	from, to, err := dateRange(from, to)
	if err != nil {
		return nil, err
	}

	orders, err := u.orders.ListByOrderDate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []model.AuditTrail{}, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	history, err := u.history.ListByOrders(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load status history: %w", err)
	}

	trails := make([]model.AuditTrail, 0, len(orders))
	for _, o := range orders {
		trail, err := buildTrail(o, history[o.ID])
		if err != nil {
			u.logger.Warn("skipping order in audit range", slog.String("order_id", o.ID), slog.String("error", err.Error()))
			continue
		}
		trails = append(trails, trail)
	}
	return trails, nil
}

func buildTrail(order model.Order, history []model.StatusHistoryEntry) (model.AuditTrail, error) {
	if order.DailyOrderNumber < 1 || order.OrderDate.IsZero() {
		return model.AuditTrail{}, fmt.Errorf("%w: %s", errIncompleteOrder, order.ID)
	}

	entries := make([]model.AuditEntry, 0, len(history))
	for _, h := range history {
		changedBy := h.ChangedByName
		if changedBy == nil {
			changedBy = h.ChangedBy
		}
		entries = append(entries, model.AuditEntry{
			Status:       h.Status,
			Timestamp:    h.StatusTimestamp,
			ChangedBy:    changedBy,
			Notes:        h.Notes,
			WhatsAppSent: h.WhatsAppSent,
		})
	}

	receivedAt := order.PlacedAt
	if order.ReceivedAt != nil {
		receivedAt = *order.ReceivedAt
	}

	return model.AuditTrail{
		OrderID:          order.ID,
		DailyOrderNumber: order.DisplayNumber(),
		StatusHistory:    entries,
		Timeline: model.Timeline{
			ReceivedAt:             receivedAt,
			PreparingStartedAt:     order.PreparingStartedAt,
			ReadyAt:                order.ReadyAt,
			CollectedAt:            order.CollectedAt,
			TimeToPreparingMinutes: model.MinutesBetween(&receivedAt, order.PreparingStartedAt),
			TimeToReadyMinutes:     model.MinutesBetween(&receivedAt, order.ReadyAt),
			TimeToCompletedMinutes: model.MinutesBetween(&receivedAt, order.CollectedAt),
			PrepTimeMinutes:        model.MinutesBetween(order.PreparingStartedAt, order.ReadyAt),
		},
	}, nil
}

// dateRange truncates both ends to calendar days and rejects inverted ranges.
func dateRange(from, to time.Time) (time.Time, time.Time, error) {
	if from.IsZero() || to.IsZero() {
		return time.Time{}, time.Time{}, domainErrors.NewValidationError("from", "and to are required")
	}
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	if to.Before(from) {
		return time.Time{}, time.Time{}, domainErrors.NewValidationError("to", "must not be before from")
	}
	return from, to, nil
}
