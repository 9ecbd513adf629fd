package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// OrderFilter narrows order listings. Zero values mean "no filter".
type OrderFilter struct {
	Status        OrderStatus
	OrderType     OrderType
	From          *time.Time
	To            *time.Time
	CustomerPhone string
	Page          int
	Limit         int
}

// Normalize clamps paging to supported bounds.
func (f OrderFilter) Normalize() OrderFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	return f
}

// Offset returns the row offset for the current page.
func (f OrderFilter) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.Limit
}

// HourlyBucket aggregates orders placed within one hour of the day.
type HourlyBucket struct {
	Hour    int
	Orders  int
	Revenue decimal.Decimal
}

// ReportMetrics summarizes orders over an inclusive order_date range.
type ReportMetrics struct {
	From                  time.Time
	To                    time.Time
	TotalOrders           int
	TotalRevenue          decimal.Decimal
	TotalItemsSold        int
	AvgOrderValue         decimal.Decimal
	AvgPrepTimeMinutes    float64
	AvgTimeToReadyMinutes float64
	AvgTimeToCompleted    float64
	PickupOrders          int
	DeliveryOrders        int
	CancelledOrders       int
	Hourly                []HourlyBucket
}
