// Package validation normalizes raw order submissions into order drafts.
// It has no side effects.
package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"food-order-service/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	MinNameLen         = 2
	MaxNameLen         = 100
	MinPhoneLen        = 10
	MaxPhoneLen        = 20
	MinAddressLen      = 5
	MaxAddressLen      = 500
	MaxInstructionsLen = 500
	MaxItems           = 50
	MaxQuantity        = 100
	MaxAmount          = 100000.0
)

var ErrInvalid = errors.New("invalid order")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every rule an order submission broke.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid order: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return ErrInvalid }

func (e *Error) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

type OrderSubmission struct {
	CustomerName        string           `json:"customerName"`
	CustomerPhone       string           `json:"customerPhone"`
	DeliveryAddress     string           `json:"deliveryAddress"`
	FulfillmentType     string           `json:"fulfillmentType"`
	Subtotal            float64          `json:"subtotal"`
	DeliveryFee         float64          `json:"deliveryFee"`
	Total               float64          `json:"total"`
	PaymentMethod       string           `json:"paymentMethod"`
	PaymentReference    string           `json:"paymentReference"`
	SpecialInstructions string           `json:"specialInstructions"`
	Items               []ItemSubmission `json:"items"`
}

type ItemSubmission struct {
	MenuItemID   *string `json:"menuItemId"`
	Name         string  `json:"name" validate:"required,max=200"`
	Quantity     int     `json:"quantity" validate:"gte=1,lte=100"`
	UnitPrice    float64 `json:"unitPrice" validate:"gte=0"`
	Instructions string  `json:"instructions"`
}

type DroppedItem struct {
	Index  int
	Reason string
}

// Draft is a normalized order ready for the lifecycle service. Status and
// payment status are left for the service to decide.
type Draft struct {
	Order   domain.Order
	Dropped []DroppedItem
}

var validate = validator.New()

// ValidateOrder applies the submission rules. Invalid items are dropped
// rather than failing the whole order; an order left without items fails.
func ValidateOrder(sub OrderSubmission) (*Draft, error) {
	verr := &Error{}
	o := domain.Order{}

	o.CustomerName = sanitize(sub.CustomerName)
	if n := utf8.RuneCountInString(o.CustomerName); n < MinNameLen || n > MaxNameLen {
		verr.add("customerName", fmt.Sprintf("must be between %d and %d characters", MinNameLen, MaxNameLen))
	}

	o.CustomerPhone = sanitize(sub.CustomerPhone)
	if n := utf8.RuneCountInString(o.CustomerPhone); n < MinPhoneLen || n > MaxPhoneLen {
		verr.add("customerPhone", fmt.Sprintf("must be between %d and %d characters", MinPhoneLen, MaxPhoneLen))
	}

	ft, ok := domain.ParseFulfillmentType(strings.TrimSpace(sub.FulfillmentType))
	if !ok {
		verr.add("fulfillmentType", "must be delivery or pickup")
	}
	o.FulfillmentType = ft

	o.DeliveryAddress = truncate(sanitize(sub.DeliveryAddress), MaxAddressLen)
	if ft == domain.FulfillmentDelivery && utf8.RuneCountInString(o.DeliveryAddress) < MinAddressLen {
		verr.add("deliveryAddress", fmt.Sprintf("required for delivery, at least %d characters", MinAddressLen))
	}

	pm, ok := domain.ParsePaymentMethod(strings.TrimSpace(sub.PaymentMethod))
	if !ok {
		verr.add("paymentMethod", "unrecognized payment method")
	}
	o.PaymentMethod = pm
	o.PaymentReference = strings.TrimSpace(sub.PaymentReference)
	o.SpecialInstructions = truncate(sanitize(sub.SpecialInstructions), MaxInstructionsLen)

	subtotal, ok := amount(sub.Subtotal)
	if !ok || !subtotal.IsPositive() {
		verr.add("subtotal", "must be a positive amount")
	}
	total, ok := amount(sub.Total)
	if !ok || !total.IsPositive() {
		verr.add("total", "must be a positive amount")
	}
	fee, ok := amount(sub.DeliveryFee)
	if !ok || fee.IsNegative() {
		verr.add("deliveryFee", "must be a non-negative amount")
	}
	o.Subtotal, o.DeliveryFee, o.Total = subtotal, fee, total
	if subtotal.IsPositive() && total.IsPositive() && !fee.IsNegative() &&
		domain.ToMinorUnits(subtotal)+domain.ToMinorUnits(fee) != domain.ToMinorUnits(total) {
		verr.add("total", "must equal subtotal plus delivery fee")
	}

	var dropped []DroppedItem
	switch {
	case len(sub.Items) == 0:
		verr.add("items", "at least one item is required")
	case len(sub.Items) > MaxItems:
		verr.add("items", fmt.Sprintf("at most %d items are allowed", MaxItems))
	default:
		for i, raw := range sub.Items {
			item, reason := normalizeItem(raw)
			if reason != "" {
				dropped = append(dropped, DroppedItem{Index: i, Reason: reason})
				continue
			}
			o.Items = append(o.Items, item)
		}
		if len(o.Items) == 0 {
			verr.add("items", "no valid items")
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return &Draft{Order: o, Dropped: dropped}, nil
}

func normalizeItem(raw ItemSubmission) (domain.OrderItem, string) {
	if math.IsNaN(raw.UnitPrice) || math.IsInf(raw.UnitPrice, 0) {
		return domain.OrderItem{}, "unit price is not a number"
	}
	raw.Name = sanitize(raw.Name)
	raw.Instructions = truncate(sanitize(raw.Instructions), MaxInstructionsLen)
	if raw.Quantity > MaxQuantity {
		raw.Quantity = MaxQuantity
	}
	if raw.UnitPrice > MaxAmount {
		raw.UnitPrice = MaxAmount
	}
	if err := validate.Struct(raw); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return domain.OrderItem{}, fmt.Sprintf("%s failed %s", strings.ToLower(ve[0].Field()), ve[0].Tag())
		}
		return domain.OrderItem{}, err.Error()
	}

	item := domain.OrderItem{
		Name:         raw.Name,
		Quantity:     raw.Quantity,
		UnitPrice:    decimal.NewFromFloat(raw.UnitPrice).Round(2),
		Instructions: raw.Instructions,
	}
	if raw.MenuItemID != nil {
		if id := strings.TrimSpace(*raw.MenuItemID); id != "" {
			item.MenuItemID = &id
		}
	}
	return item, ""
}

func amount(v float64) (decimal.Decimal, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, false
	}
	if v > MaxAmount {
		v = MaxAmount
	}
	return decimal.NewFromFloat(v).Round(2), true
}

var angleBrackets = strings.NewReplacer("<", "", ">", "")

func sanitize(s string) string {
	return strings.TrimSpace(angleBrackets.Replace(s))
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
