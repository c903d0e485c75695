package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"farmstore/internal/models"
	"farmstore/internal/repositories"
	"farmstore/pkg/hubtel"

	"go.uber.org/zap"
)

// PaymentMethodCashOnDelivery skips the gateway. Every other method goes through it.
const PaymentMethodCashOnDelivery = "cash_on_delivery"

// Gateway is the payment provider as seen by the store.
type Gateway interface {
	Configured() bool
	Initiate(ctx context.Context, req hubtel.InitiateRequest) (*hubtel.Initiation, error)
	CheckStatus(ctx context.Context, orderID uint, clientReference string) (*hubtel.Result, error)
}

// PaymentObserver is told about every gateway result applied to a payment.
type PaymentObserver interface {
	ObservePaymentResult(provider, status string)
}

type PayInput struct {
	PaymentMethod string
	PhoneNumber   string
	Description   string
}

// PayResult is the answer to a pay request. Status is "pending" for cash on
// delivery and the normalized gateway status otherwise.
type PayResult struct {
	OrderID         uint
	PaymentID       uint
	Status          string
	Message         string
	CheckoutURL     string
	ClientReference string
}

// PaymentStatusResult describes an order's latest payment attempt.
type PaymentStatusResult struct {
	OrderID       uint
	Paid          bool
	PaymentID     uint
	PaymentStatus models.PaymentStatus
	GatewayStatus hubtel.Status
	Message       string
}

// PaymentService drives payment attempts through the gateway.
type PaymentService struct {
	orders    repositories.OrderRepository
	payments  repositories.PaymentRepository
	gateway   Gateway
	publisher EventPublisher
	observer  PaymentObserver
	log       *zap.Logger
}

// NewPaymentService creates a PaymentService. publisher and observer may be nil.
func NewPaymentService(orders repositories.OrderRepository, payments repositories.PaymentRepository, gateway Gateway, publisher EventPublisher, observer PaymentObserver, log *zap.Logger) *PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentService{
		orders:    orders,
		payments:  payments,
		gateway:   gateway,
		publisher: publisher,
		observer:  observer,
		log:       log,
	}
}

// Pay starts payment of an order. Cash on delivery never contacts the gateway
// and leaves the order unpaid. Gateway attempts always create a new Payment row.
// A paid order is reported as is and nothing is written.
func (s *PaymentService) Pay(ctx context.Context, orderID uint, in PayInput) (*PayResult, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: orderID}
		}
		return nil, err
	}

	if order.Paid {
		return &PayResult{
			OrderID: order.ID,
			Status:  string(models.PaymentCompleted),
			Message: "Order already paid",
		}, nil
	}

	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = PaymentMethodCashOnDelivery
	}
	if method == PaymentMethodCashOnDelivery {
		if err := s.orders.SetPaid(ctx, order.ID, false); err != nil {
			return nil, err
		}
		return &PayResult{
			OrderID: order.ID,
			Status:  string(models.PaymentPending),
			Message: "Cash on delivery selected",
		}, nil
	}

	if !s.gateway.Configured() {
		return nil, hubtel.ErrNotConfigured
	}

	payment := &models.Payment{
		OrderID:           order.ID,
		Provider:          models.DefaultPaymentProvider,
		ProviderReference: hubtel.ClientReference(order.ID),
		Amount:            order.TotalAmount,
		Status:            models.PaymentPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(in.PhoneNumber)
	if phone == "" {
		phone = order.CustomerPhone
	}
	initiation, err := s.gateway.Initiate(ctx, hubtel.InitiateRequest{
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: phone,
		Description:   in.Description,
	})
	if err != nil {
		return nil, err
	}

	if initiation.CheckoutURL != "" {
		payment.CheckoutURL = initiation.CheckoutURL
	}
	if initiation.CheckoutID != "" {
		payment.CheckoutToken = initiation.CheckoutID
	}
	if err := s.ApplyResult(ctx, payment, initiation.Result); err != nil {
		return nil, err
	}

	s.log.Info("payment initiated",
		zap.Uint("order_id", order.ID),
		zap.Uint("payment_id", payment.ID),
		zap.String("gateway_status", string(initiation.Status)),
		zap.String("code", initiation.CodeString()),
	)
	return &PayResult{
		OrderID:         order.ID,
		PaymentID:       payment.ID,
		Status:          string(initiation.Status),
		Message:         initiation.Message,
		CheckoutURL:     initiation.CheckoutURL,
		ClientReference: initiation.ClientReference,
	}, nil
}

// PaymentStatusFor maps a normalized gateway status onto the payment row vocabulary.
func PaymentStatusFor(status hubtel.Status) models.PaymentStatus {
	switch status {
	case hubtel.StatusFinal:
		return models.PaymentCompleted
	case hubtel.StatusPending:
		return models.PaymentProcessing
	default:
		return models.PaymentFailed
	}
}

// ApplyResult stores a gateway result on the payment. A completed payment
// marks its order paid in the same transaction. Settled payments only move
// to completed, never back.
func (s *PaymentService) ApplyResult(ctx context.Context, payment *models.Payment, res hubtel.Result) error {
	next := PaymentStatusFor(res.Status)
	if payment.Settled() && next != models.PaymentCompleted {
		s.log.Debug("ignoring gateway result for settled payment",
			zap.Uint("payment_id", payment.ID),
			zap.String("current", string(payment.Status)),
			zap.String("gateway_status", string(res.Status)),
		)
		return nil
	}

	payment.Status = next
	payment.ResponseCode = res.CodeString()
	payment.ResponseMessage = res.Message
	if url := res.DataString("checkoutUrl", "CheckoutUrl"); url != "" {
		payment.CheckoutURL = url
	}
	if token := res.DataString("checkoutId", "CheckoutId"); token != "" {
		payment.CheckoutToken = token
	}

	paid := next == models.PaymentCompleted
	if err := s.payments.SaveResult(ctx, payment, paid); err != nil {
		return err
	}

	if s.observer != nil {
		s.observer.ObservePaymentResult(payment.Provider, string(next))
	}
	if s.publisher != nil {
		event := PaymentUpdatedEvent{
			OrderID:   payment.OrderID,
			PaymentID: payment.ID,
			Status:    string(next),
			Code:      payment.ResponseCode,
			Paid:      paid,
			UpdatedAt: time.Now(),
		}
		if err := s.publisher.Publish(ctx, EventPaymentUpdated, event); err != nil {
			s.log.Warn("failed to publish payment updated event", zap.Uint("payment_id", payment.ID), zap.Error(err))
		}
	}
	return nil
}

// CheckPaymentStatus refreshes the latest attempt of an order from the gateway.
// Settled attempts are returned as stored.
func (s *PaymentService) CheckPaymentStatus(ctx context.Context, orderID uint) (*PaymentStatusResult, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: orderID}
		}
		return nil, err
	}

	payment, err := s.payments.LatestForOrder(ctx, order.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "payment for order", ID: orderID}
		}
		return nil, err
	}

	out := &PaymentStatusResult{
		OrderID:       order.ID,
		Paid:          order.Paid,
		PaymentID:     payment.ID,
		PaymentStatus: payment.Status,
		Message:       payment.ResponseMessage,
	}
	if payment.Settled() {
		return out, nil
	}

	res, err := s.gateway.CheckStatus(ctx, order.ID, payment.ProviderReference)
	if err != nil {
		return nil, err
	}
	out.GatewayStatus = res.Status
	out.Message = res.Message
	// An unreachable gateway says nothing about the attempt itself.
	if res.Status == hubtel.StatusError {
		return out, nil
	}
	if err := s.ApplyResult(ctx, payment, *res); err != nil {
		return nil, err
	}

	out.PaymentStatus = payment.Status
	out.Paid = order.Paid || payment.Status == models.PaymentCompleted
	return out, nil
}

// HandleCallback applies a provider callback body to the latest attempt of
// the order named by its client reference. A callback that normalizes to an
// error leaves the attempt untouched.
func (s *PaymentService) HandleCallback(ctx context.Context, raw []byte) (*models.Payment, error) {
	res := hubtel.Normalize(raw)
	reference := res.DataString("ClientReference", "clientReference")
	if reference == "" {
		reference = topLevelReference(raw)
	}

	orderID, err := ParseClientReference(reference)
	if err != nil {
		return nil, err
	}

	payment, err := s.payments.LatestForOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "payment for order", ID: orderID}
		}
		return nil, err
	}
	// An unreadable callback says nothing about the attempt, same as a failed status check.
	if res.Status == hubtel.StatusError {
		s.log.Warn("ignoring hubtel callback without a usable result",
			zap.Uint("order_id", orderID),
			zap.Uint("payment_id", payment.ID),
			zap.String("code", res.CodeString()),
			zap.String("message", res.Message),
		)
		return payment, nil
	}
	if err := s.ApplyResult(ctx, payment, res); err != nil {
		return nil, err
	}

	s.log.Info("payment callback applied",
		zap.Uint("order_id", orderID),
		zap.Uint("payment_id", payment.ID),
		zap.String("status", string(payment.Status)),
	)
	return payment, nil
}

// ReconcileStale re-checks attempts not written since the cutoff that are still
// waiting on the gateway. Every checked attempt is written, so a batch full of
// abandoned checkouts rotates instead of starving newer ones. Per-payment
// failures are logged and skipped.
func (s *PaymentService) ReconcileStale(ctx context.Context, before time.Time, limit int) (int, error) {
	stale, err := s.payments.FindProcessingBefore(ctx, before, limit)
	if err != nil {
		return 0, err
	}

	checked := 0
	for i := range stale {
		if ctx.Err() != nil {
			return checked, ctx.Err()
		}
		payment := &stale[i]
		res, err := s.gateway.CheckStatus(ctx, payment.OrderID, payment.ProviderReference)
		if err != nil {
			s.log.Warn("status check failed", zap.Uint("payment_id", payment.ID), zap.Error(err))
			s.touch(ctx, payment.ID)
			continue
		}
		if res.Status == hubtel.StatusError {
			s.log.Warn("status check returned an error", zap.Uint("payment_id", payment.ID), zap.String("message", res.Message))
			s.touch(ctx, payment.ID)
			continue
		}
		if err := s.ApplyResult(ctx, payment, *res); err != nil {
			s.log.Warn("failed to apply reconciled status", zap.Uint("payment_id", payment.ID), zap.Error(err))
			continue
		}
		checked++
	}
	return checked, nil
}

func (s *PaymentService) touch(ctx context.Context, id uint) {
	if err := s.payments.Touch(ctx, id); err != nil {
		s.log.Warn("failed to mark payment checked", zap.Uint("payment_id", id), zap.Error(err))
	}
}

// ParseClientReference extracts the order id from an "order_<id>" reference.
func ParseClientReference(reference string) (uint, error) {
	digits, ok := strings.CutPrefix(strings.TrimSpace(reference), "order_")
	if !ok {
		return 0, newValidationError(KindInvalidRequest, "unknown client reference %q", reference)
	}
	id, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || id == 0 {
		return 0, newValidationError(KindInvalidRequest, "unknown client reference %q", reference)
	}
	return uint(id), nil
}

func topLevelReference(raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	for _, k := range []string{"ClientReference", "clientReference"} {
		if s, ok := body[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

