package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is the read-only catalog view the order flow needs.
type MenuItem struct {
	ID              string
	NameEN          string
	NameBN          string
	Price           decimal.Decimal
	PrepTimeMinutes int
	IsAvailable     bool
}

// AdminRole distinguishes back-office permission levels.
type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "super_admin"
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleStaff      AdminRole = "staff"
)

// Admin is a back-office operator allowed to change order status.
type Admin struct {
	ID           string
	Email        string
	FullName     string
	Role         AdminRole
	PasswordHash string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// Promotion is a bundle sold at server-defined prices for its menu items.
type Promotion struct {
	ID        string
	NameEN    string
	IsForSale bool
	StartsAt  *time.Time
	EndsAt    *time.Time
	// Prices maps a menu item id to its promotional unit price.
	Prices map[string]decimal.Decimal
}

// ActiveAt reports whether the promotion can be ordered at t.
func (p Promotion) ActiveAt(t time.Time) bool {
	if !p.IsForSale {
		return false
	}
	if p.StartsAt != nil && t.Before(*p.StartsAt) {
		return false
	}
	return p.EndsAt == nil || t.Before(*p.EndsAt)
}

// PriceFor returns the promotional unit price of menuItemID.
func (p Promotion) PriceFor(menuItemID string) (decimal.Decimal, bool) {
	price, ok := p.Prices[menuItemID]
	return price, ok
}
