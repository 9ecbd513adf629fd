package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddressPayload is a delivery address in requests and responses.
type AddressPayload struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	Landmark string `json:"landmark,omitempty"`
	Zone     string `json:"zone,omitempty"`
}

// OrderItemRequest is one cart line of a checkout.
type OrderItemRequest struct {
	MenuItemID     string          `json:"menu_item_id"`
	PromotionID    string          `json:"promotion_id,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	SelectedAddOns []string        `json:"selected_add_ons,omitempty"`
	SpecialNotes   string          `json:"special_notes,omitempty"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerEmail   string             `json:"customer_email,omitempty"`
	OrderType       string             `json:"order_type"`
	PickupTime      string             `json:"pickup_time"`
	DeliveryAddress *AddressPayload    `json:"delivery_address,omitempty"`
	DeliveryFee     decimal.Decimal    `json:"delivery_fee"`
	PaymentMethod   string             `json:"payment_method"`
	CustomerNotes   string             `json:"customer_notes,omitempty"`
	Items           []OrderItemRequest `json:"items"`
}

// StatusUpdateRequest changes an order status from the admin panel.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes,omitempty"`
}

// OrderItemResponse is a persisted order line.
type OrderItemResponse struct {
	ID             string          `json:"id"`
	LineNo         int             `json:"line_no"`
	MenuItemID     string          `json:"menu_item_id"`
	MenuItemNameEN string          `json:"menu_item_name_en,omitempty"`
	MenuItemNameBN string          `json:"menu_item_name_bn,omitempty"`
	PromotionID    *string         `json:"promotion_id,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	SelectedAddOns []string        `json:"selected_add_ons"`
	SpecialNotes   *string         `json:"special_notes,omitempty"`
}

// OrderResponse is the admin representation of an order.
type OrderResponse struct {
	ID                     string              `json:"id"`
	DailyOrderNumber       int                 `json:"daily_order_number"`
	DisplayNumber          string              `json:"display_number"`
	OrderDate              string              `json:"order_date"`
	CustomerName           string              `json:"customer_name"`
	CustomerPhone          string              `json:"customer_phone"`
	CustomerEmail          *string             `json:"customer_email,omitempty"`
	OrderType              string              `json:"order_type"`
	Status                 string              `json:"status"`
	PickupTime             string              `json:"pickup_time"`
	DeliveryAddress        *AddressPayload     `json:"delivery_address,omitempty"`
	DeliveryFee            decimal.Decimal     `json:"delivery_fee"`
	Subtotal               decimal.Decimal     `json:"subtotal"`
	VATAmount              decimal.Decimal     `json:"vat_amount"`
	Total                  decimal.Decimal     `json:"total"`
	PaymentMethod          string              `json:"payment_method"`
	PaymentStatus          string              `json:"payment_status"`
	CustomerNotes          *string             `json:"customer_notes,omitempty"`
	EstimatedPrepTime      int                 `json:"estimated_prep_time"`
	ReceivedAt             *time.Time          `json:"received_at,omitempty"`
	PreparingStartedAt     *time.Time          `json:"preparing_started_at,omitempty"`
	ReadyAt                *time.Time          `json:"ready_at,omitempty"`
	CollectedAt            *time.Time          `json:"collected_at,omitempty"`
	CompletedAt            *time.Time          `json:"completed_at,omitempty"`
	CancelledAt            *time.Time          `json:"cancelled_at,omitempty"`
	PlacedAt               time.Time           `json:"placed_at"`
	TrackingToken          *string             `json:"tracking_token,omitempty"`
	TrackingTokenExpiresAt *time.Time          `json:"tracking_token_expires_at,omitempty"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
	Items                  []OrderItemResponse `json:"items"`
}

// TrackingResponse is what a customer sees behind a tracking link.
// Contact details are left out.
type TrackingResponse struct {
	DisplayNumber      string              `json:"display_number"`
	CustomerName       string              `json:"customer_name"`
	OrderType          string              `json:"order_type"`
	Status             string              `json:"status"`
	PickupTime         string              `json:"pickup_time"`
	EstimatedPrepTime  int                 `json:"estimated_prep_time"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	VATAmount          decimal.Decimal     `json:"vat_amount"`
	DeliveryFee        decimal.Decimal     `json:"delivery_fee"`
	Total              decimal.Decimal     `json:"total"`
	PlacedAt           time.Time           `json:"placed_at"`
	ReceivedAt         *time.Time          `json:"received_at,omitempty"`
	PreparingStartedAt *time.Time          `json:"preparing_started_at,omitempty"`
	ReadyAt            *time.Time          `json:"ready_at,omitempty"`
	CompletedAt        *time.Time          `json:"completed_at,omitempty"`
	CancelledAt        *time.Time          `json:"cancelled_at,omitempty"`
	ExpiresAt          *time.Time          `json:"expires_at,omitempty"`
	Items              []OrderItemResponse `json:"items"`
}

// OrderListResponse wraps one page of orders.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}
