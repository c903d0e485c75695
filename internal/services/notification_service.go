package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// NotificationService reacts to published domain events.
type NotificationService struct {
	notifier Notifier
	log      *zap.Logger
}

func NewNotificationService(notifier Notifier, log *zap.Logger) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{notifier: notifier, log: log}
}

// HandleEvent processes one event. Unknown routing keys are acknowledged and ignored.
func (s *NotificationService) HandleEvent(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case EventOrderCreated:
		var ev OrderCreatedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("malformed %s event: %w", routingKey, err)
		}
		return s.orderCreated(ctx, ev)
	case EventPaymentUpdated:
		var ev PaymentUpdatedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("malformed %s event: %w", routingKey, err)
		}
		s.log.Info("payment updated", zap.Uint("order_id", ev.OrderID), zap.String("status", ev.Status), zap.Bool("paid", ev.Paid))
		return nil
	default:
		s.log.Debug("ignoring event", zap.String("routing_key", routingKey))
		return nil
	}
}

func (s *NotificationService) orderCreated(ctx context.Context, ev OrderCreatedEvent) error {
	if s.notifier == nil {
		return nil
	}
	subject := fmt.Sprintf("New order #%d", ev.OrderID)
	body := fmt.Sprintf("Customer: %s\nEmail: %s\nPhone: %s\nItems: %d\nTotal: %s\n",
		ev.CustomerName, ev.CustomerEmail, ev.CustomerPhone, ev.ItemCount, ev.TotalAmount)
	return s.notifier.Notify(ctx, subject, body)
}
