package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

func (r *menuRepository) Lookup(ctx context.Context, ids []string) (map[string]model.MenuItem, error) {
	result := make(map[string]model.MenuItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	const query = `SELECT id, name_en, name_bn, price, prep_time_minutes, is_available
                   FROM menu_items
                   WHERE id::text = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup menu items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.MenuItem
		if err := rows.Scan(&item.ID, &item.NameEN, &item.NameBN, &item.Price, &item.PrepTimeMinutes, &item.IsAvailable); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		result[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lookup menu items: %w", err)
	}
	return result, nil
}

func (r *menuRepository) Promotions(ctx context.Context, ids []string) (map[string]model.Promotion, error) {
	result := make(map[string]model.Promotion, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	const query = `SELECT p.id, p.name_en, p.is_for_sale, p.starts_at, p.ends_at, pi.menu_item_id, pi.unit_price
                   FROM promotions p
                   LEFT JOIN promotion_items pi ON pi.promotion_id = p.id
                   WHERE p.id::text = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup promotions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			promo      model.Promotion
			menuItemID *string
			unitPrice  decimal.NullDecimal
		)
		if err := rows.Scan(&promo.ID, &promo.NameEN, &promo.IsForSale, &promo.StartsAt, &promo.EndsAt, &menuItemID, &unitPrice); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		stored, ok := result[promo.ID]
		if !ok {
			promo.Prices = make(map[string]decimal.Decimal)
			stored = promo
		}
		if menuItemID != nil && unitPrice.Valid {
			stored.Prices[*menuItemID] = unitPrice.Decimal
		}
		result[promo.ID] = stored
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lookup promotions: %w", err)
	}
	return result, nil
}
