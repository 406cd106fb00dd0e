package cache

import (
	"context"

	"food-order-service/internal/domain"
	"food-order-service/internal/infra/catalog"
)

// OrderCache holds rendered orders for GET /orders/{id}. A miss or a broken
// backend both read as a miss.
type OrderCache interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, bool)
	SetOrder(ctx context.Context, o *domain.Order)
	InvalidateOrder(ctx context.Context, id string)
}

type MenuCache interface {
	GetMenuItem(ctx context.Context, id string) (*catalog.MenuItem, bool)
	SetMenuItem(ctx context.Context, item *catalog.MenuItem)
}
