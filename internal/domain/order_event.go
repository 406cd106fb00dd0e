package domain

import "time"

type EventType string

const (
	EventInit               EventType = "init"
	EventOrderCreated       EventType = "order_created"
	EventOrderStatusUpdated EventType = "order_status_updated"
	EventOrderCancelled     EventType = "order_cancelled"
)

// OrderEvent is the payload fanned out to stream subscribers and mirrored to
// the message broker.
type OrderEvent struct {
	Type      EventType   `json:"type"`
	OrderID   string      `json:"orderId,omitempty"`
	Status    OrderStatus `json:"status,omitempty"`
	OldStatus OrderStatus `json:"oldStatus,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewOrderEvent(t EventType, orderID string) OrderEvent {
	return OrderEvent{Type: t, OrderID: orderID, Timestamp: time.Now().UTC()}
}
