package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
)

var orderValidator = newOrderValidator()

func newOrderValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; tag != "" && tag != "-" {
			return tag
		}
		return snakeCase(f.Name)
	})
	v.RegisterStructValidation(newOrderStructValidation, model.NewOrder{})
	v.RegisterStructValidation(newOrderItemStructValidation, model.NewOrderItem{})
	return v
}

// newOrderStructValidation enforces rules spanning several fields of the order.
func newOrderStructValidation(sl validator.StructLevel) {
	in := sl.Current().Interface().(model.NewOrder)

	if in.OrderType == model.OrderTypeDelivery && in.DeliveryAddress == nil {
		sl.ReportError(in.DeliveryAddress, "delivery_address", "DeliveryAddress", "required_for_delivery", "")
	}
	if in.DeliveryFee.IsNegative() {
		sl.ReportError(in.DeliveryFee, "delivery_fee", "DeliveryFee", "nonnegative", "")
	}
}

func newOrderItemStructValidation(sl validator.StructLevel) {
	item := sl.Current().Interface().(model.NewOrderItem)
	if item.UnitPrice.IsNegative() {
		sl.ReportError(item.UnitPrice, "unit_price", "UnitPrice", "nonnegative", "")
	}
}

// validateNewOrder returns a ValidationError listing every rejected field.
func validateNewOrder(in model.NewOrder) error {
	err := orderValidator.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domainErrors.ErrValidation, err)
	}

	result := &domainErrors.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		result.Fields[fieldPath(fe.Namespace())] = validationMessage(fe)
	}
	return result
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_for_delivery":
		return "is required for delivery orders"
	case "nonnegative":
		return "must not be negative"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "is invalid"
}

func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalizeNewOrder trims free-text input before validation.
func normalizeNewOrder(in model.NewOrder) model.NewOrder {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.PickupTime = strings.TrimSpace(in.PickupTime)
	in.CustomerNotes = strings.TrimSpace(in.CustomerNotes)
	in.OrderType = model.OrderType(strings.ToLower(strings.TrimSpace(string(in.OrderType))))
	in.PaymentMethod = model.PaymentMethod(strings.ToLower(strings.TrimSpace(string(in.PaymentMethod))))
	if in.OrderType != model.OrderTypeDelivery {
		in.DeliveryAddress = nil
	}

	items := make([]model.NewOrderItem, len(in.Items))
	for i, item := range in.Items {
		item.MenuItemID = strings.TrimSpace(item.MenuItemID)
		item.PromotionID = strings.TrimSpace(item.PromotionID)
		item.SpecialNotes = strings.TrimSpace(item.SpecialNotes)
		items[i] = item
	}
	if in.Items != nil {
		in.Items = items
	}
	return in
}
