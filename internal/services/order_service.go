package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farmstore/internal/models"
	"farmstore/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultCustomerName = "Guest"
	fishSalesItemName   = "Fish Sales"
)

// CustomerInput carries the buyer details of an order. Values are stored as
// given; only the column sizes are enforced.
type CustomerInput struct {
	Name    string `validate:"max=200"`
	Email   string `validate:"max=254"`
	Phone   string `validate:"max=50"`
	Address string
	Notes   string
}

type CreateOrderInput struct {
	Customer CustomerInput
	Items    []LineItemInput
}

// FishSalesInput is the short order form of the process page.
type FishSalesInput struct {
	CustomerName  string `validate:"required,max=200"`
	PhoneNumber   string `validate:"required,max=50"`
	AverageWeight string `validate:"required"`
	Quantity      string `validate:"required"`
	Location      string `validate:"required"`
	UnitPrice     string
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	pricer      *Pricer
	publisher   EventPublisher
	validate    *validator.Validate
	log         *zap.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, pricer *Pricer, publisher EventPublisher, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		pricer:      pricer,
		publisher:   publisher,
		validate:    validator.New(),
		log:         log,
	}
}

// customerFieldError renders the first failed rule of a CustomerInput.
func customerFieldError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "malformed input"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	if fe.Tag() == "max" {
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return field + " is invalid"
}

// GetOrder retrieves a single order with its items and payments.
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: id}
		}
		return nil, err
	}
	return order, nil
}

// CreateOrder prices the cart and stores order, items and total together.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	customer := in.Customer
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.TrimSpace(customer.Email)
	if customer.Name == "" {
		customer.Name = defaultCustomerName
	}
	if err := s.validate.Struct(customer); err != nil {
		return nil, newValidationError(KindInvalidCustomer, "invalid customer details: %s", customerFieldError(err))
	}

	priced, err := s.pricer.Price(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   strings.TrimSpace(customer.Phone),
		ShippingAddress: customer.Address,
		Notes:           customer.Notes,
	}
	if err := s.orderRepo.CreateWithItems(ctx, order, priced.Items, priced.Total); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.log.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.String("subtotal", priced.Subtotal.StringFixed(2)),
		zap.String("tax", priced.Tax.StringFixed(2)),
		zap.String("total", priced.Total.StringFixed(2)),
	)
	s.publishCreated(ctx, order)
	return order, nil
}

// CreateFishSalesOrder books a single catfish line for the process page form.
func (s *OrderService) CreateFishSalesOrder(ctx context.Context, in FishSalesInput) (*models.Order, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, newValidationError(KindInvalidRequest, "Missing required fields")
	}

	line := LineItemInput{
		ProductName: fishSalesItemName,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
	}
	// A zero price means "use the catalog price", the same as no price.
	if p, err := decimal.NewFromString(strings.TrimSpace(in.UnitPrice)); err == nil && p.IsZero() {
		line.UnitPrice = ""
	}

	product, err := s.fishProduct(ctx)
	if err != nil {
		return nil, err
	}
	if product != nil {
		id := product.ID
		line.ProductID = &id
	}

	priced, err := s.pricer.Price(ctx, []LineItemInput{line})
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerPhone:   strings.TrimSpace(in.PhoneNumber),
		ShippingAddress: in.Location,
		Notes:           fmt.Sprintf("Fish sales order - avg_weight:%s", in.AverageWeight),
	}
	if err := s.orderRepo.CreateWithItems(ctx, order, priced.Items, priced.Total); err != nil {
		return nil, fmt.Errorf("failed to create fish sales order: %w", err)
	}

	s.log.Info("fish sales order created", zap.Uint("order_id", order.ID), zap.String("total", priced.Total.StringFixed(2)))
	s.publishCreated(ctx, order)
	return order, nil
}

// fishProduct returns the catfish product, else the first product, else nil.
func (s *OrderService) fishProduct(ctx context.Context) (*models.Product, error) {
	product, err := s.productRepo.FindFirstByName(ctx, "Catfish")
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	all, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return &all[0], nil
}

func (s *OrderService) publishCreated(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := OrderCreatedEvent{
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: order.CustomerPhone,
		TotalAmount:   order.TotalAmount.StringFixed(2),
		ItemCount:     len(order.Items),
		CreatedAt:     order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, EventOrderCreated, event); err != nil {
		s.log.Warn("failed to publish order created event", zap.Uint("order_id", order.ID), zap.Error(err))
	}
}
