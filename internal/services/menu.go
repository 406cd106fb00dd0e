package services

import (
	"context"
	"log/slog"

	"food-order-service/internal/domain"
	"food-order-service/internal/infra/catalog"

	"golang.org/x/sync/errgroup"
)

const catalogLookupConcurrency = 8

// checkCatalog drops items the catalog reports as unavailable or unknown.
// A catalog error skips the check for that item.
func (s *OrderService) checkCatalog(ctx context.Context, items []domain.OrderItem) []domain.OrderItem {
	if s.catalog == nil {
		return items
	}

	found := make([]*catalog.MenuItem, len(items))
	failed := make([]bool, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(catalogLookupConcurrency)
	for i, it := range items {
		if it.MenuItemID == nil || *it.MenuItemID == "" {
			continue
		}
		i, id := i, *it.MenuItemID
		g.Go(func() error {
			m, err := s.getMenuItem(gctx, id)
			if err != nil {
				slog.Warn("catalog lookup failed, skipping check", "menu_item_id", id, "err", err)
				failed[i] = true
				return nil
			}
			found[i] = m
			return nil
		})
	}
	_ = g.Wait()

	kept := items[:0:0]
	for i, it := range items {
		if it.MenuItemID == nil || *it.MenuItemID == "" || failed[i] {
			kept = append(kept, it)
			continue
		}
		m := found[i]
		if m == nil || !m.Available {
			slog.Info("order item dropped", "menu_item_id", *it.MenuItemID, "reason", "unavailable")
			continue
		}
		if !m.Price.Equal(it.UnitPrice) {
			slog.Warn("menu price drift", "menu_item_id", m.ID, "submitted", it.UnitPrice.StringFixed(2), "catalog", m.Price.StringFixed(2))
		}
		kept = append(kept, it)
	}
	return kept
}

func (s *OrderService) getMenuItem(ctx context.Context, id string) (*catalog.MenuItem, error) {
	if s.menuCache != nil {
		if m, ok := s.menuCache.GetMenuItem(ctx, id); ok {
			return m, nil
		}
	}

	m, err := s.catalog.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.menuCache != nil && m != nil {
		s.menuCache.SetMenuItem(ctx, m)
	}
	return m, nil
}

// WarmupMenuCache preloads the menu cache. Failures are logged per item.
func (s *OrderService) WarmupMenuCache(ctx context.Context, ids []string) error {
	if s.catalog == nil || s.menuCache == nil {
		return nil
	}

	for _, id := range ids {
		m, err := s.catalog.GetMenuItem(ctx, id)
		if err != nil {
			slog.Warn("menu cache warmup failed", "menu_item_id", id, "err", err)
			continue
		}
		if m != nil {
			s.menuCache.SetMenuItem(ctx, m)
		}
	}
	return ctx.Err()
}
