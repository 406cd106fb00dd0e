package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusReady, StatusCancelled, true},
		{StatusOutForDelivery, StatusCancelled, true},

		{StatusDelivered, StatusPreparing, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusPending, StatusReady, false},
		{StatusPending, StatusPending, false},
		{StatusReady, StatusPreparing, false},
		{StatusPreparing, StatusDelivered, false},
		{StatusPending, OrderStatus("refunded"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestParseEnums(t *testing.T) {
	_, ok := ParseOrderStatus("out_for_delivery")
	assert.True(t, ok)
	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)

	_, ok = ParseFulfillmentType("pickup")
	assert.True(t, ok)
	_, ok = ParseFulfillmentType("dine_in")
	assert.False(t, ok)

	pm, ok := ParsePaymentMethod("paystack")
	assert.True(t, ok)
	assert.Equal(t, PaymentGateway, pm)
	_, ok = ParsePaymentMethod("bitcoin")
	assert.False(t, ok)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(8000), ToMinorUnits(decimal.RequireFromString("80.00")))
	assert.Equal(t, int64(1999), ToMinorUnits(decimal.NewFromFloat(19.99)))
	assert.Equal(t, int64(1), ToMinorUnits(decimal.RequireFromString("0.005")))
	assert.True(t, FromMinorUnits(8050).Equal(decimal.RequireFromString("80.50")))
}

func TestOrderFilterOffset(t *testing.T) {
	assert.Equal(t, 0, OrderFilter{Page: 0, Limit: 20}.Offset())
	assert.Equal(t, 0, OrderFilter{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, OrderFilter{Page: 3, Limit: 20}.Offset())
}
