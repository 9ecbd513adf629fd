package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// vatRate is the fixed VAT applied to every order subtotal.
var vatRate = decimal.New(10, -2)

// priceLines resolves menu data for the cart and builds persisted lines.
// It returns the lines and the estimated prep time of the order.
func (u *OrderUseCase) priceLines(ctx context.Context, lines []model.NewOrderItem, now time.Time) ([]model.OrderItem, int, error) {
	menuIDs := make([]string, 0, len(lines))
	promoIDs := make([]string, 0)
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen["m:"+line.MenuItemID]; !ok {
			seen["m:"+line.MenuItemID] = struct{}{}
			menuIDs = append(menuIDs, line.MenuItemID)
		}
		if line.PromotionID == "" {
			continue
		}
		if _, ok := seen["p:"+line.PromotionID]; !ok {
			seen["p:"+line.PromotionID] = struct{}{}
			promoIDs = append(promoIDs, line.PromotionID)
		}
	}

	menu, err := u.menu.Lookup(ctx, menuIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("lookup menu items: %w", err)
	}
	var promos map[string]model.Promotion
	if u.enforceMenuPrices && len(promoIDs) > 0 {
		if promos, err = u.menu.Promotions(ctx, promoIDs); err != nil {
			return nil, 0, fmt.Errorf("lookup promotions: %w", err)
		}
	}

	invalid := &domainErrors.ValidationError{Fields: map[string]string{}}
	items := make([]model.OrderItem, 0, len(lines))
	for i, line := range lines {
		menuItem, known := menu[line.MenuItemID]
		if u.enforceMenuPrices && (!known || !menuItem.IsAvailable) {
			invalid.Fields[fmt.Sprintf("items[%d].menu_item_id", i)] = "is not available"
			continue
		}

		unit := line.UnitPrice
		if u.enforceMenuPrices {
			price, problem := resolveUnitPrice(line, menuItem, promos, now)
			if problem != "" {
				invalid.Fields[fmt.Sprintf("items[%d].promotion_id", i)] = problem
				continue
			}
			unit = price
		}

		item := model.OrderItem{
			ID:             uuid.NewString(),
			LineNo:         i + 1,
			MenuItemID:     line.MenuItemID,
			Quantity:       line.Quantity,
			UnitPrice:      unit,
			TotalPrice:     unit.Mul(decimal.NewFromInt(int64(line.Quantity))),
			SelectedAddOns: append([]string{}, line.SelectedAddOns...),
			PromotionID:    optionalString(line.PromotionID),
			SpecialNotes:   optionalString(line.SpecialNotes),
		}
		if known {
			item.MenuItemNameEN = menuItem.NameEN
			item.MenuItemNameBN = menuItem.NameBN
		}
		items = append(items, item)
	}
	if len(invalid.Fields) > 0 {
		return nil, 0, invalid
	}

	return items, estimatePrepTime(menu), nil
}

// resolveUnitPrice prices a line from server-side data only. A promotional
// line pays the promotion's price for the item, capped at the menu price.
// A non-empty problem explains why the promotion cannot be applied.
func resolveUnitPrice(line model.NewOrderItem, menuItem model.MenuItem, promos map[string]model.Promotion, now time.Time) (decimal.Decimal, string) {
	if line.PromotionID == "" {
		return menuItem.Price, ""
	}
	promo, ok := promos[line.PromotionID]
	if !ok || !promo.ActiveAt(now) {
		return decimal.Zero, "is not an active promotion"
	}
	price, ok := promo.PriceFor(line.MenuItemID)
	if !ok {
		return decimal.Zero, "does not include this menu item"
	}
	return decimal.Min(price, menuItem.Price), ""
}

// deliveryFeeFor returns the fee charged for the order. With menu prices the
// store's configured fee applies to delivery orders and the client's is ignored.
func (u *OrderUseCase) deliveryFeeFor(in model.NewOrder) decimal.Decimal {
	if !u.enforceMenuPrices {
		return in.DeliveryFee
	}
	if in.OrderType != model.OrderTypeDelivery {
		return decimal.Zero
	}
	return u.deliveryFee
}

// estimatePrepTime is the slowest referenced item; kitchens prepare lines in parallel.
func estimatePrepTime(menu map[string]model.MenuItem) int {
	prep := 0
	for _, item := range menu {
		if item.PrepTimeMinutes > prep {
			prep = item.PrepTimeMinutes
		}
	}
	return prep
}

// computeTotals returns subtotal, VAT and grand total of the lines.
func computeTotals(items []model.OrderItem, deliveryFee decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	vat := subtotal.Mul(vatRate).Round(2)
	return subtotal, vat, subtotal.Add(vat).Add(deliveryFee)
}
