package repositories

import (
	"context"

	"farmstore/internal/models"

	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// CreateWithItems writes the order row, its item rows and the final total in one transaction.
	CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem, total decimal.Decimal) error
	// GetByID returns the order with its items and payment attempts loaded.
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	SetPaid(ctx context.Context, id uint, paid bool) error
}
