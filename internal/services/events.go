package services

import (
	"context"
	"time"
)

// Routing keys of the events the store publishes.
const (
	EventOrderCreated   = "order.created"
	EventPaymentUpdated = "payment.updated"
)

// EventPublisher delivers domain events. Publishing is best effort, a failure
// never undoes the write that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type OrderCreatedEvent struct {
	OrderID       uint      `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	TotalAmount   string    `json:"total_amount"`
	ItemCount     int       `json:"item_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type PaymentUpdatedEvent struct {
	OrderID   uint      `json:"order_id"`
	PaymentID uint      `json:"payment_id"`
	Status    string    `json:"status"`
	Code      string    `json:"code,omitempty"`
	Paid      bool      `json:"paid"`
	UpdatedAt time.Time `json:"updated_at"`
}
