package model

import "time"

// AuditEntry is one rendered history record of a trail.
type AuditEntry struct {
	Status       OrderStatus
	Timestamp    time.Time
	ChangedBy    *string
	Notes        *string
	WhatsAppSent bool
}

// Timeline holds stamped lifecycle times and the deltas derived from them.
type Timeline struct {
	ReceivedAt             time.Time
	PreparingStartedAt     *time.Time
	ReadyAt                *time.Time
	CollectedAt            *time.Time
	TimeToPreparingMinutes *float64
	TimeToReadyMinutes     *float64
	TimeToCompletedMinutes *float64
	PrepTimeMinutes        *float64
}

// AuditTrail is a read-only view of how an order moved through its lifecycle.
type AuditTrail struct {
	OrderID          string
	DailyOrderNumber string
	StatusHistory    []AuditEntry
	Timeline         Timeline
}

// MinutesBetween returns end-start in minutes, or nil when either side is unknown.
func MinutesBetween(start, end *time.Time) *float64 {
	if start == nil || end == nil {
		return nil
	}
	minutes := end.Sub(*start).Minutes()
	return &minutes
}
