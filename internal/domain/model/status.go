package model

import "time"

// OrderStatus describes the kitchen lifecycle of an order.
type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var statusRank = map[OrderStatus]int{
	OrderStatusReceived:  0,
	OrderStatusPreparing: 1,
	OrderStatusReady:     2,
	OrderStatusCompleted: 3,
}

// AllOrderStatuses lists statuses in lifecycle order.
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusReceived,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
}

// ParseOrderStatus validates a raw status value.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	status := OrderStatus(raw)
	for _, s := range AllOrderStatuses() {
		if s == status {
			return status, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transition is expected.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo reports whether next is a legal forward edge from s.
// Forward skips are allowed, cancellation is reachable from every non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() || s == next {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	from, okFrom := statusRank[s]
	to, okTo := statusRank[next]
	return okFrom && okTo && to > from
}

// PredecessorsOf returns every status that may legally move to next.
func PredecessorsOf(next OrderStatus) []OrderStatus {
	var result []OrderStatus
	for _, s := range AllOrderStatuses() {
		if s.CanTransitionTo(next) {
			result = append(result, s)
		}
	}
	return result
}

// StatusChange describes a status write together with the timestamps it stamps.
type StatusChange struct {
	OrderID           string
	Status            OrderStatus
	At                time.Time
	AllowedFrom       []OrderStatus
	TrackingExpiresAt *time.Time
}

// StatusHistoryEntry is an append-only log record of a status change.
type StatusHistoryEntry struct {
	ID              int64
	OrderID         string
	Status          OrderStatus
	StatusTimestamp time.Time
	ChangedBy       *string
	ChangedByName   *string
	Notes           *string
	WhatsAppSent    bool
}
