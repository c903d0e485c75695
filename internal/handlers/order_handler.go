package handlers

import (
	"farmstore/internal/services"
	"farmstore/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
	log     *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Post("/create", h.HandleCreateOrder)
	orderRoutes.Post("/fish-sales", h.HandleFishSalesOrder)
	orderRoutes.Post("/fish-sales-order", h.HandleFishSalesOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

type orderItemRequest struct {
	Product     flexString `json:"product"`
	ProductName string     `json:"product_name"`
	Name        string     `json:"name"`
	Quantity    flexString `json:"quantity"`
	UnitPrice   flexString `json:"unit_price"`
}

type customerRequest struct {
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Phone   flexString `json:"phone"`
	Address string     `json:"address"`
	Notes   string     `json:"notes"`
}

type createOrderRequest struct {
	Items    []orderItemRequest `json:"items"`
	Customer customerRequest    `json:"customer"`

	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email"`
	CustomerPhone   flexString `json:"customer_phone"`
	ShippingAddress string     `json:"shipping_address"`
	Notes           string     `json:"notes"`
}

// toInput merges nested customer fields with their top-level fallbacks.
func (r createOrderRequest) toInput() services.CreateOrderInput {
	in := services.CreateOrderInput{
		Customer: services.CustomerInput{
			Name:    firstNonEmpty(r.Customer.Name, r.CustomerName),
			Email:   firstNonEmpty(r.Customer.Email, r.CustomerEmail),
			Phone:   firstNonEmpty(r.Customer.Phone.String(), r.CustomerPhone.String()),
			Address: firstNonEmpty(r.Customer.Address, r.ShippingAddress),
			Notes:   firstNonEmpty(r.Customer.Notes, r.Notes),
		},
		Items: make([]services.LineItemInput, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, services.LineItemInput{
			ProductID:   it.Product.optionalID(),
			ProductName: firstNonEmpty(it.ProductName, it.Name),
			Quantity:    it.Quantity.String(),
			UnitPrice:   it.UnitPrice.String(),
		})
	}
	return in
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// HandleCreateOrder prices the cart and creates the order with its items.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := decodeJSON(c, &req); err != nil {
		logger.FromCtx(c, h.log).Debug("invalid order body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.CreateOrder(c.UserContext(), req.toInput())
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":           order.ID,
		"total_amount": order.TotalAmount.StringFixed(2),
	})
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}

	order, err := h.service.GetOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(newOrderResponse(order))
}

type fishSalesRequest struct {
	CustomerName  string     `json:"customer_name"`
	PhoneNumber   flexString `json:"phone_number"`
	AverageWeight flexString `json:"average_weight"`
	Quantity      flexString `json:"quantity"`
	Location      string     `json:"location"`
	UnitPrice     flexString `json:"unit_price"`
}

// HandleFishSalesOrder books an order from the process page form.
func (h *OrderHandler) HandleFishSalesOrder(c *fiber.Ctx) error {
	var req fishSalesRequest
	if err := decodeJSON(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.CreateFishSalesOrder(c.UserContext(), services.FishSalesInput{
		CustomerName:  req.CustomerName,
		PhoneNumber:   req.PhoneNumber.String(),
		AverageWeight: req.AverageWeight.String(),
		Quantity:      req.Quantity.String(),
		Location:      req.Location,
		UnitPrice:     req.UnitPrice.String(),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"ok": true, "order_id": order.ID})
}
