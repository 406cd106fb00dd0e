package services

import (
	"time"

	"food-order-service/internal/domain"
	"food-order-service/internal/validation"

	"github.com/shopspring/decimal"
)

const (
	TestOrderID    = "3f6c2a5e-1b2d-4c8e-9a7f-5d4e3c2b1a00"
	TestCustomerID = "customer-1"
	TestReference  = "ref_abc123"
)

func strPtr(s string) *string { return &s }

func CreateMockSubmission(method string) validation.OrderSubmission {
	return validation.OrderSubmission{
		CustomerName:    "Ama Mensah",
		CustomerPhone:   "0241234567",
		DeliveryAddress: "12 Oxford Street, Osu",
		FulfillmentType: "delivery",
		Subtotal:        70,
		DeliveryFee:     10,
		Total:           80,
		PaymentMethod:   method,
		Items: []validation.ItemSubmission{
			{MenuItemID: strPtr("m-1"), Name: "Jollof Rice", Quantity: 2, UnitPrice: 25},
			{MenuItemID: strPtr("m-2"), Name: "Kelewele", Quantity: 1, UnitPrice: 20},
		},
	}
}

func CreateMockOrder(id string, userID *string, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:              id,
		UserID:          userID,
		CustomerName:    "Ama Mensah",
		CustomerPhone:   "0241234567",
		FulfillmentType: domain.FulfillmentDelivery,
		Subtotal:        decimal.NewFromInt(70),
		DeliveryFee:     decimal.NewFromInt(10),
		Total:           decimal.NewFromInt(80),
		PaymentMethod:   domain.PaymentMTNMoMo,
		PaymentStatus:   domain.PaymentPending,
		Status:          status,
		CreatedAt:       time.Now(),
	}
}
