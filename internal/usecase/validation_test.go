package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
)

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"CustomerName":   "customer_name",
		"MenuItemID":     "menu_item_id",
		"VATAmount":      "vat_amount",
		"Items":          "items",
		"SelectedAddOns": "selected_add_ons",
	}
	for in, want := range cases {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateNewOrderAcceptsValidInput(t *testing.T) {
	in := pickupOrder(line("burger", 100, 1))
	in.CustomerEmail = "karim@example.com"
	if err := validateNewOrder(in); err != nil {
		t.Fatalf("expected valid order, got %v", err)
	}
}

func TestValidateNewOrderReportsNestedAddressFields(t *testing.T) {
	in := pickupOrder(line("burger", 100, 1))
	in.OrderType = model.OrderTypeDelivery
	in.DeliveryAddress = &model.DeliveryAddress{City: "Dhaka"}

	err := validateNewOrder(in)
	var vErr *domainErrors.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if msg := vErr.Fields["delivery_address.street"]; msg != "is required" {
		t.Fatalf("expected street required, got %v", vErr.Fields)
	}
}

func TestNormalizeNewOrderDropsAddressForPickup(t *testing.T) {
	in := pickupOrder(line(" burger ", 100, 1))
	in.CustomerName = "  Karim "
	in.OrderType = " Pickup "
	in.DeliveryAddress = &model.DeliveryAddress{Street: "x", City: "y"}

	out := normalizeNewOrder(in)
	if out.CustomerName != "Karim" || out.OrderType != model.OrderTypePickup {
		t.Fatalf("unexpected normalized input %+v", out)
	}
	if out.DeliveryAddress != nil {
		t.Fatal("expected address dropped for pickup")
	}
	if out.Items[0].MenuItemID != "burger" {
		t.Fatalf("expected trimmed menu id, got %q", out.Items[0].MenuItemID)
	}
	if in.Items[0].MenuItemID != " burger " {
		t.Fatal("normalization must not mutate caller input")
	}
}
