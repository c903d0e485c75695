package handlers

import (
	"errors"

	"farmstore/internal/services"
	"farmstore/pkg/hubtel"
	"farmstore/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PaymentHandler serves payment initiation, status checks and gateway callbacks.
type PaymentHandler struct {
	service *services.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service *services.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/orders/:id/pay", h.HandlePay)
	router.Get("/orders/:id/payment-status", h.HandlePaymentStatus)
	router.Post("/payments/hubtel/callback", h.HandleHubtelCallback)
}

type payRequest struct {
	PaymentMethod string     `json:"payment_method"`
	PhoneNumber   flexString `json:"phone_number"`
	Description   string     `json:"description"`
}

// HandlePay starts payment of an order. An unreadable body is treated as
// empty, which selects cash on delivery.
func (h *PaymentHandler) HandlePay(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}

	var req payRequest
	if len(c.Body()) > 0 {
		if err := decodeJSON(c, &req); err != nil {
			logger.FromCtx(c, h.log).Warn("unreadable pay body, using defaults", zap.Uint("order_id", id), zap.Error(err))
			req = payRequest{}
		}
	}

	res, err := h.service.Pay(c.UserContext(), id, services.PayInput{
		PaymentMethod: req.PaymentMethod,
		PhoneNumber:   req.PhoneNumber.String(),
		Description:   req.Description,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}

	if res.PaymentID == 0 {
		return c.JSON(fiber.Map{
			"status":   res.Status,
			"message":  res.Message,
			"order_id": res.OrderID,
		})
	}
	if res.Status == string(hubtel.StatusError) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  res.Status,
			"message": res.Message,
		})
	}
	return c.JSON(fiber.Map{
		"status":           res.Status,
		"checkout_url":     res.CheckoutURL,
		"client_reference": res.ClientReference,
		"order_id":         res.OrderID,
	})
}

// HandlePaymentStatus refreshes and reports the latest payment attempt.
func (h *PaymentHandler) HandlePaymentStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}

	res, err := h.service.CheckPaymentStatus(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"order_id":       res.OrderID,
		"paid":           res.Paid,
		"payment_id":     res.PaymentID,
		"payment_status": res.PaymentStatus,
		"gateway_status": res.GatewayStatus,
		"message":        res.Message,
	})
}

// HandleHubtelCallback applies an asynchronous gateway notification.
func (h *PaymentHandler) HandleHubtelCallback(c *fiber.Ctx) error {
	payment, err := h.service.HandleCallback(c.UserContext(), c.Body())
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			logger.FromCtx(c, h.log).Warn("rejected hubtel callback", zap.String("reason", verr.Message))
		}
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"ok":       true,
		"order_id": payment.OrderID,
		"status":   payment.Status,
	})
}
