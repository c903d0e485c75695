package repositories

import (
	"context"
	"errors"
	"fmt"

	"farmstore/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

var _ OrderRepository = (*GORMOrderRepository)(nil)

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// CreateWithItems persists order, items and total as one unit. On any
// failure nothing is left behind.
func (r *GORMOrderRepository) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem, total decimal.Decimal) error {
	if len(items) == 0 {
		return errors.New("refusing to create an order without items")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order.TotalAmount = decimal.Zero
		if err := tx.Omit("Items", "Payments").Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Omit("Product").Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		if err := tx.Model(order).Update("total_amount", total).Error; err != nil {
			return fmt.Errorf("failed to write order total: %w", err)
		}
		return nil
	})
	if err != nil {
		order.ID = 0
		return err
	}

	order.TotalAmount = total
	order.Items = items
	return nil
}

// GetByID retrieves an order with its items and payments.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// SetPaid updates the paid flag of an order.
func (r *GORMOrderRepository) SetPaid(ctx context.Context, id uint, paid bool) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("paid", paid)
	if res.Error != nil {
		return fmt.Errorf("failed to update paid flag for order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %d for paid update: %w", id, ErrNotFound)
	}
	return nil
}
