package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// next holds the forward edge of the fulfillment state machine.
var next = map[OrderStatus]OrderStatus{
	StatusPending:        StatusPreparing,
	StatusPreparing:      StatusReady,
	StatusReady:          StatusOutForDelivery,
	StatusOutForDelivery: StatusDelivered,
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	switch st {
	case StatusPending, StatusPreparing, StatusReady, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether from -> to is an edge of the state machine.
// Any non-terminal status may move to cancelled.
func CanTransition(from, to OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return next[from] == to
}

type FulfillmentType string

const (
	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
)

func ParseFulfillmentType(s string) (FulfillmentType, bool) {
	switch ft := FulfillmentType(s); ft {
	case FulfillmentDelivery, FulfillmentPickup:
		return ft, true
	}
	return "", false
}

type PaymentMethod string

const (
	PaymentMTNMoMo       PaymentMethod = "mtn_momo"
	PaymentTelecelCash   PaymentMethod = "telecel_cash"
	PaymentAirtelTigo    PaymentMethod = "airteltigo_money"
	PaymentOnFulfillment PaymentMethod = "pay_on_delivery"
	PaymentGateway       PaymentMethod = "paystack"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch pm := PaymentMethod(s); pm {
	case PaymentMTNMoMo, PaymentTelecelCash, PaymentAirtelTigo, PaymentOnFulfillment, PaymentGateway:
		return pm, true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type Order struct {
	ID                  string          `json:"id" gorm:"primaryKey;type:char(36)"`
	UserID              *string         `json:"userId" gorm:"type:varchar(64);index"`
	CustomerName        string          `json:"customerName" gorm:"type:varchar(100);not null"`
	CustomerPhone       string          `json:"customerPhone" gorm:"type:varchar(32);not null"`
	DeliveryAddress     string          `json:"deliveryAddress" gorm:"type:varchar(500)"`
	FulfillmentType     FulfillmentType `json:"fulfillmentType" gorm:"type:varchar(16);not null"`
	Subtotal            decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	DeliveryFee         decimal.Decimal `json:"deliveryFee" gorm:"type:decimal(12,2);not null"`
	Total               decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	PaymentMethod       PaymentMethod   `json:"paymentMethod" gorm:"type:varchar(32);not null"`
	PaymentStatus       PaymentStatus   `json:"paymentStatus" gorm:"type:varchar(16);not null;default:'pending'"`
	PaymentReference    string          `json:"paymentReference,omitempty" gorm:"type:varchar(128)"`
	// GatewayReference is set only once the gateway has confirmed the
	// payment. A reference can settle at most one order.
	GatewayReference    *string         `json:"-" gorm:"type:varchar(128);uniqueIndex"`
	Status              OrderStatus     `json:"status" gorm:"type:varchar(32);not null;default:'pending';index"`
	SpecialInstructions string          `json:"specialInstructions" gorm:"type:varchar(500)"`
	Items               []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt           time.Time       `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt           time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is a snapshot of a menu line at purchase time. MenuItemID is a
// display-only back reference and may dangle.
type OrderItem struct {
	ID           string          `json:"id" gorm:"primaryKey;type:char(36)"`
	OrderID      string          `json:"orderId" gorm:"type:char(36);not null;index"`
	MenuItemID   *string         `json:"menuItemId,omitempty" gorm:"type:varchar(64)"`
	Name         string          `json:"name" gorm:"type:varchar(200);not null"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	UnitPrice    decimal.Decimal `json:"unitPrice" gorm:"type:decimal(12,2);not null"`
	Instructions string          `json:"instructions,omitempty" gorm:"type:varchar(500)"`
	CreatedAt    time.Time       `json:"createdAt" gorm:"autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// OrderFilter narrows a paginated order listing. Zero values mean "any".
type OrderFilter struct {
	Status *OrderStatus
	UserID *string
	Page   int
	Limit  int
}

func (f OrderFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
