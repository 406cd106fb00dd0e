package services

import (
	"context"
	"log/slog"

	"food-order-service/internal/domain"
	"food-order-service/internal/repository"
)

const (
	DefaultNotificationLimit = 50
	MaxNotificationLimit     = 200
)

type NotificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(r repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: r}
}

type NotificationFeed struct {
	Notifications []domain.AdminNotification `json:"notifications"`
	Unread        int64                      `json:"unread"`
}

// List returns the newest notifications first along with the unread count.
func (s *NotificationService) List(ctx context.Context, limit int) (*NotificationFeed, error) {
	if limit < 1 {
		limit = DefaultNotificationLimit
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}

	items, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.AdminNotification{}
	}
	unread, err := s.repo.CountUnread(ctx)
	if err != nil {
		return nil, err
	}
	return &NotificationFeed{Notifications: items, Unread: unread}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	found, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}

func (s *NotificationService) ClearAll(ctx context.Context) error {
	if err := s.repo.ClearAll(ctx); err != nil {
		return err
	}
	slog.Info("admin notifications cleared")
	return nil
}
