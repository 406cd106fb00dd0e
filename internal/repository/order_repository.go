package repository

import (
	"context"
	"errors"

	"food-order-service/internal/domain"
)

// ErrDuplicatePaymentReference is returned by Create when the gateway
// reference already settled another order.
var ErrDuplicatePaymentReference = errors.New("payment reference already used")

type OrderRepository interface {
	// Create writes the order row only. Items are written separately.
	Create(ctx context.Context, order *domain.Order) error
	CreateItem(ctx context.Context, item *domain.OrderItem) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	PaymentReferenceUsed(ctx context.Context, ref string) (bool, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error)
	// UpdateStatus moves id from one status to another and reports whether a
	// row matched.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.AdminNotification) error
	List(ctx context.Context, limit int) ([]domain.AdminNotification, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id string) (bool, error)
	MarkAllRead(ctx context.Context) error
	ClearAll(ctx context.Context) error
}
