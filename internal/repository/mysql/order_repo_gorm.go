package mysql

import (
	"context"
	"errors"
	"time"

	"food-order-service/internal/domain"
	"food-order-service/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Omit("Items").Create(order).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) && order.GatewayReference != nil {
		return repository.ErrDuplicatePaymentReference
	}
	return err
}

func (r *orderRepo) CreateItem(ctx context.Context, item *domain.OrderItem) error {
	if item.OrderID == "" {
		return errors.New("order item without order id")
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) PaymentReferenceUsed(ctx context.Context, ref string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("gateway_reference = ?", ref).Count(&n).Error
	return n > 0, err
}

func (r *orderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int64, error) {
	filtered := func(db *gorm.DB) *gorm.DB {
		if f.Status != nil {
			db = db.Where("status = ?", *f.Status)
		}
		if f.UserID != nil {
			db = db.Where("user_id = ?", *f.UserID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Order{}).Scopes(filtered).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Order
	err := r.db.WithContext(ctx).
		Scopes(filtered).
		Preload("Items").
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset()).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Delete removes the order's items, then the order.
func (r *orderRepo) Delete(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Order{})
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	return found, err
}
