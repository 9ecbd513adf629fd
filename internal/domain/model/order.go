package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType describes how the customer receives the order.
type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

// PaymentMethod describes how the order is paid.
type PaymentMethod string

const (
	PaymentMethodPickup PaymentMethod = "pickup"
	PaymentMethodOnline PaymentMethod = "online"
)

// PaymentStatus tracks payment state of the order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// DateLayout is the calendar date format used for order_date.
const DateLayout = "2006-01-02"

// DeliveryAddress is stored as a JSON document on the order row.
type DeliveryAddress struct {
	Street   string `json:"street" validate:"required"`
	City     string `json:"city" validate:"required"`
	Landmark string `json:"landmark,omitempty"`
	Zone     string `json:"zone,omitempty"`
}

// Order is the root aggregate of a storefront purchase.
type Order struct {
	ID                     string
	DailyOrderNumber       int
	OrderDate              time.Time
	CustomerName           string
	CustomerPhone          string
	CustomerEmail          *string
	OrderType              OrderType
	Status                 OrderStatus
	PickupTime             string
	DeliveryAddress        *DeliveryAddress
	DeliveryFee            decimal.Decimal
	Subtotal               decimal.Decimal
	VATAmount              decimal.Decimal
	Total                  decimal.Decimal
	PaymentMethod          PaymentMethod
	PaymentStatus          PaymentStatus
	CustomerNotes          *string
	EstimatedPrepTime      int
	ReceivedAt             *time.Time
	PreparingStartedAt     *time.Time
	ReadyAt                *time.Time
	CollectedAt            *time.Time
	CancelledAt            *time.Time
	CompletedAt            *time.Time
	PlacedAt               time.Time
	TrackingToken          *string
	TrackingTokenExpiresAt *time.Time
	IsDeleted              bool
	DeletedAt              *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
	Items                  []OrderItem
}

// DisplayNumber returns the human-facing YYYYMMDD-NNN identifier.
func (o Order) DisplayNumber() string {
	return FormatDailyOrderNumber(o.OrderDate, o.DailyOrderNumber)
}

// OrderItem is a single cart line persisted with the order.
type OrderItem struct {
	ID             string
	OrderID        string
	LineNo         int
	MenuItemID     string
	PromotionID    *string
	Quantity       int
	UnitPrice      decimal.Decimal
	TotalPrice     decimal.Decimal
	SelectedAddOns []string
	SpecialNotes   *string
	MenuItemNameEN string
	MenuItemNameBN string
	CreatedAt      time.Time
}

// NewOrder is the validated input of order creation.
type NewOrder struct {
	CustomerName    string           `validate:"required,max=120"`
	CustomerPhone   string           `validate:"required,max=32"`
	CustomerEmail   string           `validate:"omitempty,email"`
	OrderType       OrderType        `validate:"required,oneof=pickup delivery"`
	PickupTime      string           `validate:"required,max=64"`
	DeliveryAddress *DeliveryAddress `validate:"omitempty"`
	DeliveryFee     decimal.Decimal
	PaymentMethod   PaymentMethod `validate:"required,oneof=pickup online"`
	CustomerNotes   string        `validate:"max=500"`
	Items           []NewOrderItem `validate:"required,min=1,dive"`
}

// NewOrderItem is a requested cart line.
type NewOrderItem struct {
	MenuItemID     string `validate:"required"`
	PromotionID    string
	Quantity       int `validate:"min=1"`
	UnitPrice      decimal.Decimal
	SelectedAddOns []string
	SpecialNotes   string `validate:"max=300"`
}
