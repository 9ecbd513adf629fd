package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

const historyColumns = `h.id, h.order_id, h.status, h.status_timestamp, h.changed_by::text,
       a.full_name, h.notes, COALESCE(h.whatsapp_sent, FALSE)`

func (r *historyRepository) Append(ctx context.Context, entry model.StatusHistoryEntry) error {
	const query = `INSERT INTO order_status_history (order_id, status, status_timestamp, changed_by, notes)
                   VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.storage.pool.Exec(ctx, query,
		entry.OrderID, string(entry.Status), entry.StatusTimestamp, entry.ChangedBy, entry.Notes,
	); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *historyRepository) ListByOrder(ctx context.Context, orderID string) ([]model.StatusHistoryEntry, error) {
	query := `SELECT ` + historyColumns + `
              FROM order_status_history h
              LEFT JOIN admins a ON a.id = h.changed_by
              WHERE h.order_id = $1
              ORDER BY h.status_timestamp, h.id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var result []model.StatusHistoryEntry
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return result, nil
}

func (r *historyRepository) ListByOrders(ctx context.Context, orderIDs []string) (map[string][]model.StatusHistoryEntry, error) {
	result := make(map[string][]model.StatusHistoryEntry, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + historyColumns + `
              FROM order_status_history h
              LEFT JOIN admins a ON a.id = h.changed_by
              WHERE h.order_id = ANY($1)
              ORDER BY h.order_id, h.status_timestamp, h.id`
	rows, err := r.storage.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		result[entry.OrderID] = append(result[entry.OrderID], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return result, nil
}

func scanHistory(rows pgx.Rows) (model.StatusHistoryEntry, error) {
	var e model.StatusHistoryEntry
	err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.StatusTimestamp, &e.ChangedBy,
		&e.ChangedByName, &e.Notes, &e.WhatsAppSent)
	if err != nil {
		return e, fmt.Errorf("scan history: %w", err)
	}
	return e, nil
}
