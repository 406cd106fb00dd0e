package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"food-order-service/internal/auth"
	"food-order-service/internal/domain"
	"food-order-service/internal/infra/cache"
	"food-order-service/internal/infra/catalog"
	"food-order-service/internal/infra/events"
	"food-order-service/internal/infra/paystack"
	"food-order-service/internal/repository"
	"food-order-service/internal/validation"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type OrderService struct {
	repo          repository.OrderRepository
	gateway       paystack.GatewayInterface
	publisher     events.PublisherInterface
	notifications repository.NotificationRepository

	catalog    catalog.ClientInterface
	menuCache  cache.MenuCache
	orderCache cache.OrderCache
	loads      singleflight.Group

	currency string
}

func NewOrderService(r repository.OrderRepository, gw paystack.GatewayInterface, pub events.PublisherInterface, notes repository.NotificationRepository) *OrderService {
	return &OrderService{
		repo:          r,
		gateway:       gw,
		publisher:     pub,
		notifications: notes,
		currency:      "GHS",
	}
}

func (s *OrderService) SetCatalog(c catalog.ClientInterface, mc cache.MenuCache) {
	s.catalog = c
	s.menuCache = mc
}

func (s *OrderService) SetOrderCache(c cache.OrderCache) {
	s.orderCache = c
}

func (s *OrderService) SetCurrency(code string) {
	if code != "" {
		s.currency = code
	}
}

// CreateOrder validates, verifies gateway payment, then persists the order
// row followed by its items. Once the order row is written nothing after it
// can fail the call.
func (s *OrderService) CreateOrder(ctx context.Context, sub validation.OrderSubmission, caller auth.Caller) (*domain.Order, error) {
	draft, err := validation.ValidateOrder(sub)
	if err != nil {
		return nil, err
	}
	for _, d := range draft.Dropped {
		slog.Info("order item dropped", "index", d.Index, "reason", d.Reason)
	}

	order := draft.Order
	order.Items = s.checkCatalog(ctx, order.Items)
	if len(order.Items) == 0 {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "items", Message: "no available items"}}}
	}

	order.Status = domain.StatusPending
	order.PaymentStatus = domain.PaymentPending
	if !caller.IsAnonymous() {
		uid := caller.UserID
		order.UserID = &uid
	}

	if order.PaymentMethod == domain.PaymentGateway {
		if err := s.verifyPayment(ctx, &order); err != nil {
			return nil, err
		}
	}

	items := order.Items
	order.Items = nil
	if err := s.repo.Create(ctx, &order); err != nil {
		if errors.Is(err, repository.ErrDuplicatePaymentReference) {
			return nil, ErrPaymentReferenceUsed
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The order is committed; the caller's cancellation must not cut item
	// inserts short.
	postCtx := context.WithoutCancel(ctx)
	order.Items = make([]domain.OrderItem, 0, len(items))
	for i := range items {
		item := items[i]
		item.OrderID = order.ID
		if err := s.repo.CreateItem(postCtx, &item); err != nil {
			slog.Error("order item insert failed", "order_id", order.ID, "item", item.Name, "err", err)
			continue
		}
		order.Items = append(order.Items, item)
	}
	if len(order.Items) == 0 {
		slog.Error("order persisted without items", "order_id", order.ID, "items_submitted", len(items))
	}

	slog.Info("order created", "order_id", order.ID, "payment_method", order.PaymentMethod, "total", order.Total.StringFixed(2))
	s.emit(postCtx, domain.NewOrderEvent(domain.EventOrderCreated, order.ID))
	return &order, nil
}

func (s *OrderService) verifyPayment(ctx context.Context, order *domain.Order) error {
	if order.PaymentReference == "" {
		return ErrPaymentReferenceRequired
	}
	res, err := s.gateway.Verify(ctx, order.PaymentReference)
	if err != nil {
		return err
	}
	if !res.OK {
		slog.Warn("gateway payment not completed", "reference", order.PaymentReference)
		return ErrPaymentNotCompleted
	}
	if expected := domain.ToMinorUnits(order.Total); res.AmountMinor != expected {
		slog.Warn("gateway amount mismatch", "reference", order.PaymentReference, "paid", res.AmountMinor, "expected", expected)
		return ErrPaymentAmountMismatch
	}
	if res.Currency != "" && !strings.EqualFold(res.Currency, s.currency) {
		slog.Warn("gateway currency mismatch", "reference", order.PaymentReference, "paid", res.Currency, "expected", s.currency)
		return ErrPaymentCurrencyMismatch
	}

	ref := order.PaymentReference
	if res.Reference != "" {
		ref = res.Reference
	}
	used, err := s.repo.PaymentReferenceUsed(ctx, ref)
	if err != nil {
		return fmt.Errorf("check payment reference: %w", err)
	}
	if used {
		slog.Warn("gateway reference reused", "reference", ref)
		return ErrPaymentReferenceUsed
	}

	order.PaymentStatus = domain.PaymentPaid
	order.PaymentReference = ref
	order.GatewayReference = &ref
	return nil
}

// GetOrder returns ErrOrderNotFound when the id is unknown.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if s.orderCache != nil {
		if o, ok := s.orderCache.GetOrder(ctx, id); ok {
			return o, nil
		}
	}

	// The load is shared by every concurrent caller, so one caller going
	// away must not fail the rest.
	v, err, _ := s.loads.Do(id, func() (any, error) {
		return s.repo.FindByID(context.WithoutCancel(ctx), id)
	})
	if err != nil {
		return nil, err
	}
	o, _ := v.(*domain.Order)
	if o == nil {
		return nil, ErrOrderNotFound
	}

	if s.orderCache != nil {
		s.orderCache.SetOrder(ctx, o)
	}
	return o, nil
}

type OrderPage struct {
	Orders []domain.Order `json:"orders"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

// ListOrders is staff-only unless the filter is pinned to the caller's own
// user id.
func (s *OrderService) ListOrders(ctx context.Context, f domain.OrderFilter, caller auth.Caller) (*OrderPage, error) {
	if !caller.IsStaff() {
		if caller.IsAnonymous() || f.UserID == nil || *f.UserID != caller.UserID {
			return nil, ErrForbidden
		}
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}

	orders, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return &OrderPage{Orders: orders, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// UpdateStatus is the staff transition. It is a compare-and-set against the
// status read, so two racing writers cannot both succeed.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string, caller auth.Caller) (*domain.Order, error) {
	if !caller.IsStaff() {
		return nil, ErrForbidden
	}
	to, ok := domain.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !domain.CanTransition(order.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
	}

	return s.transition(ctx, order, to)
}

// CancelOrder is the customer-initiated cancel: owner only, pending only.
func (s *OrderService) CancelOrder(ctx context.Context, id string, caller auth.Caller) (*domain.Order, error) {
	if caller.IsAnonymous() {
		return nil, ErrForbidden
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID == nil || *order.UserID != caller.UserID {
		return nil, ErrForbidden
	}
	if order.Status != domain.StatusPending {
		return nil, ErrNotCancellable
	}

	return s.transition(ctx, order, domain.StatusCancelled)
}

func (s *OrderService) transition(ctx context.Context, order *domain.Order, to domain.OrderStatus) (*domain.Order, error) {
	from := order.Status
	ok, err := s.repo.UpdateStatus(ctx, order.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if !ok {
		return nil, ErrStatusConflict
	}
	order.Status = to
	slog.Info("order status changed", "order_id", order.ID, "from", from, "to", to)

	postCtx := context.WithoutCancel(ctx)
	if s.orderCache != nil {
		s.orderCache.InvalidateOrder(postCtx, order.ID)
	}

	evt := domain.NewOrderEvent(domain.EventOrderStatusUpdated, order.ID)
	evt.Status, evt.OldStatus = to, from
	s.emit(postCtx, evt)

	if to == domain.StatusCancelled {
		cancelled := domain.NewOrderEvent(domain.EventOrderCancelled, order.ID)
		cancelled.Status, cancelled.OldStatus = to, from
		s.emit(postCtx, cancelled)
		s.notifyCancelled(postCtx, order)
	}
	return order, nil
}

// DeleteOrder is the staff purge: items, then the order.
func (s *OrderService) DeleteOrder(ctx context.Context, id string, caller auth.Caller) error {
	if !caller.IsStaff() {
		return ErrForbidden
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if !found {
		return ErrOrderNotFound
	}
	slog.Info("order deleted", "order_id", id)
	if s.orderCache != nil {
		s.orderCache.InvalidateOrder(context.WithoutCancel(ctx), id)
	}
	return nil
}

func (s *OrderService) emit(ctx context.Context, evt domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, string(evt.Type), evt); err != nil {
		slog.Warn("order event publish failed", "event", evt.Type, "order_id", evt.OrderID, "err", err)
	}
}

func (s *OrderService) notifyCancelled(ctx context.Context, order *domain.Order) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Create(ctx, domain.NewCancellationNotification(order)); err != nil {
		slog.Error("cancellation notification write failed", "order_id", order.ID, "err", err)
	}
}
