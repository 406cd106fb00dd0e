package services

import (
	"context"
	"fmt"
	"strings"

	"food-order-service/internal/domain"
	"food-order-service/internal/infra/paystack"
	"food-order-service/internal/validation"

	"github.com/shopspring/decimal"
)

type PaymentInit struct {
	Email       string
	Amount      decimal.Decimal
	CallbackURL string
}

// InitializePayment starts a gateway checkout for the given amount in the
// service currency.
func (s *OrderService) InitializePayment(ctx context.Context, in PaymentInit) (*paystack.InitializeResult, error) {
	var fields []validation.FieldError
	email := strings.TrimSpace(in.Email)
	if !strings.Contains(email, "@") {
		fields = append(fields, validation.FieldError{Field: "email", Message: "must be a valid email"})
	}
	if !in.Amount.IsPositive() || in.Amount.GreaterThan(decimal.NewFromFloat(validation.MaxAmount)) {
		fields = append(fields, validation.FieldError{Field: "amount", Message: fmt.Sprintf("must be between 0 and %.0f", validation.MaxAmount)})
	}
	if len(fields) > 0 {
		return nil, &validation.Error{Fields: fields}
	}

	return s.gateway.Initialize(ctx, paystack.InitializeRequest{
		Email:       email,
		AmountMinor: domain.ToMinorUnits(in.Amount),
		Currency:    s.currency,
		CallbackURL: in.CallbackURL,
	})
}
