package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
)

const codeInvalidTextRepresentation = "22P02"

const baseOrderColumns = `o.id, o.daily_order_number, o.order_date, o.customer_name, o.customer_phone,
       o.customer_email, o.order_type, o.status, o.pickup_time, o.delivery_address,
       o.delivery_fee, o.subtotal, o.vat_amount, o.total, o.payment_method, o.payment_status,
       o.customer_notes, o.estimated_prep_time, o.received_at, o.preparing_started_at,
       o.ready_at, o.collected_at, o.cancelled_at, o.completed_at, o.placed_at,
       o.is_deleted, o.deleted_at, o.created_at, o.updated_at`

func (s *Storage) orderColumns() string {
	if s.TrackingEnabled() {
		return baseOrderColumns + `, o.tracking_token, o.tracking_token_expires_at`
	}
	return baseOrderColumns + `, NULL::text AS tracking_token, NULL::timestamptz AS tracking_token_expires_at`
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o       model.Order
		address []byte
	)
	err := row.Scan(
		&o.ID, &o.DailyOrderNumber, &o.OrderDate, &o.CustomerName, &o.CustomerPhone,
		&o.CustomerEmail, &o.OrderType, &o.Status, &o.PickupTime, &address,
		&o.DeliveryFee, &o.Subtotal, &o.VATAmount, &o.Total, &o.PaymentMethod, &o.PaymentStatus,
		&o.CustomerNotes, &o.EstimatedPrepTime, &o.ReceivedAt, &o.PreparingStartedAt,
		&o.ReadyAt, &o.CollectedAt, &o.CancelledAt, &o.CompletedAt, &o.PlacedAt,
		&o.IsDeleted, &o.DeletedAt, &o.CreatedAt, &o.UpdatedAt,
		&o.TrackingToken, &o.TrackingTokenExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	if len(address) > 0 {
		var addr model.DeliveryAddress
		if err := json.Unmarshal(address, &addr); err != nil {
			return nil, fmt.Errorf("decode delivery address: %w", err)
		}
		o.DeliveryAddress = &addr
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	var address any
	if order.DeliveryAddress != nil {
		encoded, err := json.Marshal(order.DeliveryAddress)
		if err != nil {
			return fmt.Errorf("encode delivery address: %w", err)
		}
		address = encoded
	}

	columns := []string{
		"id", "daily_order_number", "order_date", "customer_name", "customer_phone",
		"customer_email", "order_type", "status", "pickup_time", "delivery_address",
		"delivery_fee", "subtotal", "vat_amount", "total", "payment_method", "payment_status",
		"customer_notes", "estimated_prep_time", "received_at", "placed_at",
	}
	args := []any{
		order.ID, order.DailyOrderNumber, order.OrderDate, order.CustomerName, order.CustomerPhone,
		order.CustomerEmail, string(order.OrderType), string(order.Status), order.PickupTime, address,
		order.DeliveryFee, order.Subtotal, order.VATAmount, order.Total, string(order.PaymentMethod), string(order.PaymentStatus),
		order.CustomerNotes, order.EstimatedPrepTime, order.ReceivedAt, order.PlacedAt,
	}
	if order.TrackingToken != nil {
		columns = append(columns, "tracking_token", "tracking_token_expires_at")
		args = append(args, *order.TrackingToken, order.TrackingTokenExpiresAt)
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := `INSERT INTO orders (` + strings.Join(columns, ", ") + `)
              VALUES (` + strings.Join(placeholders, ", ") + `)
              RETURNING created_at, updated_at`

	err := r.storage.pool.QueryRow(ctx, query, args...).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == codeUniqueViolation {
			return fmt.Errorf("%w: %v", domainErrors.ErrSequenceUnavailable, err)
		}
		return mapTrackingError(err)
	}
	return nil
}

func (r *orderRepository) InsertItems(ctx context.Context, orderID string, items []model.OrderItem) error {
	const query = `INSERT INTO order_items (id, order_id, line_no, menu_item_id, promotion_id, quantity,
                       unit_price, total_price, selected_add_ons, special_notes)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                   RETURNING created_at`
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for i := range items {
			item := &items[i]
			addOns := item.SelectedAddOns
			if addOns == nil {
				addOns = []string{}
			}
			err := tx.QueryRow(ctx, query,
				item.ID, orderID, item.LineNo, item.MenuItemID, item.PromotionID, item.Quantity,
				item.UnitPrice, item.TotalPrice, addOns, item.SpecialNotes,
			).Scan(&item.CreatedAt)
			if err != nil {
				return fmt.Errorf("insert item %d: %w", item.LineNo, err)
			}
			item.OrderID = orderID
		}
		return nil
	})
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE orders SET is_deleted = TRUE, deleted_at = $2, updated_at = $2
                   WHERE id = $1 AND NOT is_deleted`
	tag, err := r.storage.pool.Exec(ctx, query, id, at)
	if err != nil {
		if pgErrorCode(err) == codeInvalidTextRepresentation {
			return domainErrors.ErrNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + r.storage.orderColumns() + `
              FROM orders o
              WHERE o.id = $1 AND NOT o.is_deleted`
	return r.getOne(ctx, query, id)
}

func (r *orderRepository) GetByTrackingToken(ctx context.Context, token string) (*model.Order, error) {
	if !r.storage.TrackingEnabled() {
		return nil, domainErrors.ErrTrackingUnsupported
	}
	query := `SELECT ` + r.storage.orderColumns() + `
              FROM orders o
              WHERE o.tracking_token = $1 AND NOT o.is_deleted`
	return r.getOne(ctx, query, token)
}

func (r *orderRepository) getOne(ctx context.Context, query string, arg any) (*model.Order, error) {
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == codeInvalidTextRepresentation {
			return nil, domainErrors.ErrNotFound
		}
		return nil, mapTrackingError(err)
	}

	items, err := r.loadItems(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	filter = filter.Normalize()

	conds := []string{"NOT o.is_deleted"}
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != "" {
		add("o.status = $%d", string(filter.Status))
	}
	if filter.OrderType != "" {
		add("o.order_type = $%d", string(filter.OrderType))
	}
	if filter.From != nil {
		add("o.order_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("o.order_date <= $%d", *filter.To)
	}
	if filter.CustomerPhone != "" {
		add("o.customer_phone = $%d", filter.CustomerPhone)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s
              FROM orders o
              WHERE %s
              ORDER BY o.placed_at DESC
              LIMIT $%d OFFSET $%d`,
		r.storage.orderColumns(), strings.Join(conds, " AND "), len(args)-1, len(args))

	return r.queryOrders(ctx, query, args...)
}

func (r *orderRepository) ListByOrderDate(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	query := `SELECT ` + r.storage.orderColumns() + `
              FROM orders o
              WHERE NOT o.is_deleted AND o.order_date >= $1 AND o.order_date <= $2
              ORDER BY o.order_date, o.daily_order_number`
	return r.queryOrders(ctx, query, from, to)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapTrackingError(err)
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	ids := make([]string, len(result))
	for i := range result {
		ids[i] = result[i].ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]model.OrderItem, error) {
	const query = `SELECT i.id, i.order_id, i.line_no, i.menu_item_id, i.promotion_id, i.quantity,
                          i.unit_price, i.total_price, i.selected_add_ons, i.special_notes,
                          COALESCE(m.name_en, ''), COALESCE(m.name_bn, ''), i.created_at
                   FROM order_items i
                   LEFT JOIN menu_items m ON m.id = i.menu_item_id
                   WHERE i.order_id = ANY($1)
                   ORDER BY i.order_id, i.line_no`
	rows, err := r.storage.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.LineNo, &item.MenuItemID, &item.PromotionID, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &item.SelectedAddOns, &item.SpecialNotes,
			&item.MenuItemNameEN, &item.MenuItemNameBN, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, change model.StatusChange) error {
	sets := []string{"status = $1", "updated_at = $2"}
	args := []any{string(change.Status), change.At}

	switch change.Status {
	case model.OrderStatusPreparing:
		sets = append(sets, "preparing_started_at = COALESCE(preparing_started_at, $2)")
	case model.OrderStatusReady:
		sets = append(sets, "ready_at = COALESCE(ready_at, $2)")
	case model.OrderStatusCompleted:
		sets = append(sets, "completed_at = $2", "collected_at = COALESCE(collected_at, $2)")
		if change.TrackingExpiresAt != nil && r.storage.TrackingEnabled() {
			args = append(args, *change.TrackingExpiresAt)
			sets = append(sets, fmt.Sprintf(
				"tracking_token_expires_at = CASE WHEN tracking_token IS NULL THEN NULL ELSE $%d::timestamptz END", len(args)))
		}
	case model.OrderStatusCancelled:
		sets = append(sets, "cancelled_at = $2")
	}

	args = append(args, change.OrderID)
	where := fmt.Sprintf("id = $%d AND NOT is_deleted", len(args))
	if change.AllowedFrom != nil {
		allowed := make([]string, len(change.AllowedFrom))
		for i, s := range change.AllowedFrom {
			allowed[i] = string(s)
		}
		args = append(args, allowed)
		where += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}

	query := `UPDATE orders SET ` + strings.Join(sets, ", ") + ` WHERE ` + where
	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		if pgErrorCode(err) == codeInvalidTextRepresentation {
			return domainErrors.ErrNotFound
		}
		return mapTrackingError(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current string
	err = r.storage.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 AND NOT is_deleted`, change.OrderID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, current, change.Status)
}

// ClearExpiredTracking only touches finished orders; open ones keep their
// token so a later terminal transition can still extend it.
func (r *orderRepository) ClearExpiredTracking(ctx context.Context, before time.Time, limit int) (int, error) {
	if !r.storage.TrackingEnabled() {
		return 0, nil
	}
	const query = `UPDATE orders SET tracking_token = NULL, tracking_token_expires_at = NULL
                   WHERE id IN (
                       SELECT id FROM orders
                       WHERE tracking_token IS NOT NULL AND tracking_token_expires_at < $1
                         AND status IN ('completed', 'cancelled')
                       ORDER BY tracking_token_expires_at
                       LIMIT $2
                   )`
	tag, err := r.storage.pool.Exec(ctx, query, before, limit)
	if err != nil {
		return 0, mapTrackingError(err)
	}
	return int(tag.RowsAffected()), nil
}
