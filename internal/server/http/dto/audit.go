package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type AuditEntryResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	ChangedBy    *string   `json:"changed_by"`
	Notes        *string   `json:"notes"`
	WhatsAppSent bool      `json:"whatsapp_sent"`
}

type TimelineResponse struct {
	ReceivedAt             time.Time  `json:"received_at"`
	PreparingStartedAt     *time.Time `json:"preparing_started_at"`
	ReadyAt                *time.Time `json:"ready_at"`
	CollectedAt            *time.Time `json:"collected_at"`
	TimeToPreparingMinutes *float64   `json:"time_to_preparing_minutes"`
	TimeToReadyMinutes     *float64   `json:"time_to_ready_minutes"`
	TimeToCompletedMinutes *float64   `json:"time_to_completed_minutes"`
	PrepTimeMinutes        *float64   `json:"prep_time_minutes"`
}

// AuditTrailResponse is the lifecycle view of one order.
type AuditTrailResponse struct {
	OrderID          string               `json:"order_id"`
	DailyOrderNumber string               `json:"daily_order_number"`
	StatusHistory    []AuditEntryResponse `json:"status_history"`
	Timeline         TimelineResponse     `json:"timeline"`
}

type HourlyBucketResponse struct {
	Hour    int             `json:"hour"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ReportResponse summarizes orders over a date range.
type ReportResponse struct {
	From                      string                 `json:"from"`
	To                        string                 `json:"to"`
	TotalOrders               int                    `json:"total_orders"`
	TotalRevenue              decimal.Decimal        `json:"total_revenue"`
	TotalItemsSold            int                    `json:"total_items_sold"`
	AvgOrderValue             decimal.Decimal        `json:"avg_order_value"`
	AvgPrepTimeMinutes        float64                `json:"avg_prep_time_minutes"`
	AvgTimeToReadyMinutes     float64                `json:"avg_time_to_ready_minutes"`
	AvgTimeToCompletedMinutes float64                `json:"avg_time_to_completed_minutes"`
	PickupOrders              int                    `json:"pickup_orders"`
	DeliveryOrders            int                    `json:"delivery_orders"`
	CancelledOrders           int                    `json:"cancelled_orders"`
	Hourly                    []HourlyBucketResponse `json:"hourly"`
}
