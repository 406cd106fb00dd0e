package mysql

import (
	"context"

	"food-order-service/internal/domain"
	"food-order-service/internal/repository"

	"gorm.io/gorm"
)

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *domain.AdminNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) List(ctx context.Context, limit int) ([]domain.AdminNotification, error) {
	var out []domain.AdminNotification
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *notificationRepo) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.AdminNotification{}).Where("is_read = ?", false).Count(&n).Error
	return n, err
}

// MarkRead is idempotent; it reports false only when the id is unknown.
func (r *notificationRepo) MarkRead(ctx context.Context, id string) (bool, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&domain.AdminNotification{})
	if err := db.Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	err := r.db.WithContext(ctx).Model(&domain.AdminNotification{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true).Error
	return err == nil, err
}

func (r *notificationRepo) MarkAllRead(ctx context.Context) error {
	return r.db.WithContext(ctx).Model(&domain.AdminNotification{}).
		Where("is_read = ?", false).
		Update("is_read", true).Error
}

func (r *notificationRepo) ClearAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.AdminNotification{}).Error
}
