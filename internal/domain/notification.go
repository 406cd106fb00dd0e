package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type NotificationType string

const NotificationOrderCancelled NotificationType = "order_cancelled"

// AdminNotification is a denormalized snapshot; it does not reference the
// orders table and survives an order purge.
type AdminNotification struct {
	ID            string           `json:"id" gorm:"primaryKey;type:char(36)"`
	Type          NotificationType `json:"type" gorm:"type:varchar(32);not null"`
	OrderID       string           `json:"orderId" gorm:"type:char(36);not null"`
	CustomerName  string           `json:"customerName" gorm:"type:varchar(100)"`
	CustomerPhone string           `json:"customerPhone" gorm:"type:varchar(32)"`
	Total         decimal.Decimal  `json:"total" gorm:"type:decimal(12,2)"`
	Read          bool             `json:"read" gorm:"column:is_read;not null;default:false;index"`
	CreatedAt     time.Time        `json:"createdAt" gorm:"autoCreateTime;index"`
}

func (n *AdminNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

func NewCancellationNotification(o *Order) *AdminNotification {
	return &AdminNotification{
		Type:          NotificationOrderCancelled,
		OrderID:       o.ID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Total:         o.Total,
	}
}
