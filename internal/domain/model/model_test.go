package model

import (
	"testing"
	"time"
)

func TestOrderStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   OrderStatus
		value string
	}{
		{"received", OrderStatusReceived, "received"},
		{"preparing", OrderStatusPreparing, "preparing"},
		{"ready", OrderStatusReady, "ready"},
		{"completed", OrderStatusCompleted, "completed"},
		{"cancelled", OrderStatusCancelled, "cancelled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
			parsed, ok := ParseOrderStatus(tc.value)
			if !ok || parsed != tc.got {
				t.Fatalf("parse %q returned %q %v", tc.value, parsed, ok)
			}
		})
	}

	if _, ok := ParseOrderStatus("shipped"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusReceived, OrderStatusPreparing, true},
		{OrderStatusReceived, OrderStatusReady, true},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusReceived, OrderStatusCancelled, true},
		{OrderStatusReady, OrderStatusCancelled, true},
		{OrderStatusPreparing, OrderStatusReceived, false},
		{OrderStatusReady, OrderStatusReady, false},
		{OrderStatusCompleted, OrderStatusReceived, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPreparing, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestPredecessorsOf(t *testing.T) {
	got := PredecessorsOf(OrderStatusReady)
	if len(got) != 2 || got[0] != OrderStatusReceived || got[1] != OrderStatusPreparing {
		t.Fatalf("unexpected predecessors of ready: %v", got)
	}
	if len(PredecessorsOf(OrderStatusReceived)) != 0 {
		t.Fatal("received must not be reachable")
	}
	if len(PredecessorsOf(OrderStatusCancelled)) != 3 {
		t.Fatalf("unexpected predecessors of cancelled: %v", PredecessorsOf(OrderStatusCancelled))
	}
}

func TestFormatDailyOrderNumber(t *testing.T) {
	got, err := FormatDailyOrderNumberString("2025-03-07", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "20250307-005" {
		t.Fatalf("expected 20250307-005, got %s", got)
	}

	if got := FormatDailyOrderNumber(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 1234); got != "20241231-1234" {
		t.Fatalf("unexpected wide number %s", got)
	}

	if _, err := FormatDailyOrderNumberString("07/03/2025", 1); err == nil {
		t.Fatal("expected parse error")
	}

	order := Order{OrderDate: time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), DailyOrderNumber: 42}
	if order.DisplayNumber() != "20250307-042" {
		t.Fatalf("unexpected display number %s", order.DisplayNumber())
	}
}

func TestOrderDateIn(t *testing.T) {
	dhaka := time.FixedZone("BDT", 6*3600)
	instant := time.Date(2025, 3, 6, 20, 30, 0, 0, time.UTC)
	if got := OrderDateIn(instant, dhaka); got.Format(DateLayout) != "2025-03-07" {
		t.Fatalf("expected local next day, got %s", got.Format(DateLayout))
	}
	if got := OrderDateIn(instant, nil); got.Format(DateLayout) != "2025-03-06" {
		t.Fatalf("expected utc day, got %s", got.Format(DateLayout))
	}
}

func TestMinutesBetween(t *testing.T) {
	start := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
	end := start.Add(12 * time.Minute)
	got := MinutesBetween(&start, &end)
	if got == nil || *got != 12 {
		t.Fatalf("expected 12 minutes, got %v", got)
	}
	if MinutesBetween(nil, &end) != nil || MinutesBetween(&start, nil) != nil {
		t.Fatal("expected nil for missing endpoint")
	}
}

func TestOrderFilterNormalize(t *testing.T) {
	f := OrderFilter{}.Normalize()
	if f.Page != 1 || f.Limit != DefaultPageLimit {
		t.Fatalf("unexpected defaults %+v", f)
	}
	f = OrderFilter{Page: 3, Limit: 1000}.Normalize()
	if f.Limit != MaxPageLimit {
		t.Fatalf("expected limit clamp, got %d", f.Limit)
	}
	if off := (OrderFilter{Page: 3, Limit: 20}).Offset(); off != 40 {
		t.Fatalf("expected offset 40, got %d", off)
	}
}
