package services_test

import (
	"context"
	"time"

	"farmstore/internal/models"
	"farmstore/pkg/hubtel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) FindFirstByName(ctx context.Context, fragment string) (*models.Product, error) {
	args := m.Called(ctx, fragment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem, total decimal.Decimal) error {
	args := m.Called(ctx, order, items, total)
	if args.Error(0) == nil {
		order.ID = 1
		order.Items = items
		order.TotalAmount = total
	}
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) SetPaid(ctx context.Context, id uint, paid bool) error {
	args := m.Called(ctx, id, paid)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of repositories.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	if args.Error(0) == nil && payment.ID == 0 {
		payment.ID = 10
	}
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveResult(ctx context.Context, payment *models.Payment, markOrderPaid bool) error {
	args := m.Called(ctx, payment, markOrderPaid)
	return args.Error(0)
}

func (m *MockPaymentRepository) LatestForOrder(ctx context.Context, orderID uint) (*models.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindProcessingBefore(ctx context.Context, before time.Time, limit int) ([]models.Payment, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Touch(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockContactRepository is a mock implementation of repositories.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = 5
	}
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockGateway) Initiate(ctx context.Context, req hubtel.InitiateRequest) (*hubtel.Initiation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hubtel.Initiation), args.Error(1)
}

func (m *MockGateway) CheckStatus(ctx context.Context, orderID uint, clientReference string) (*hubtel.Result, error) {
	args := m.Called(ctx, orderID, clientReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hubtel.Result), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObservePaymentResult(provider, status string) {
	m.Called(provider, status)
}

// decimalEq matches a decimal argument by value rather than representation.
func decimalEq(want string) any {
	w := decimal.RequireFromString(want)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(w) })
}
