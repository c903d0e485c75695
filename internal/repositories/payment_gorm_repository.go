package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmstore/internal/models"

	"gorm.io/gorm"
)

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

var _ PaymentRepository = (*GORMPaymentRepository)(nil)

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

func (r *GORMPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.Provider == "" {
		payment.Provider = models.DefaultPaymentProvider
	}
	if payment.Status == "" {
		payment.Status = models.PaymentPending
	}
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment for order %d: %w", payment.OrderID, err)
	}
	return nil
}

func (r *GORMPaymentRepository) SaveResult(ctx context.Context, payment *models.Payment, markOrderPaid bool) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(map[string]any{
			"status":             payment.Status,
			"provider_reference": payment.ProviderReference,
			"checkout_url":       payment.CheckoutURL,
			"checkout_token":     payment.CheckoutToken,
			"response_code":      payment.ResponseCode,
			"response_message":   payment.ResponseMessage,
			"updated_at":         now,
		})
		if res.Error != nil {
			return fmt.Errorf("failed to update payment %d: %w", payment.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("payment with ID %d for update: %w", payment.ID, ErrNotFound)
		}

		if markOrderPaid {
			if err := tx.Model(&models.Order{}).Where("id = ?", payment.OrderID).Update("paid", true).Error; err != nil {
				return fmt.Errorf("failed to mark order %d paid: %w", payment.OrderID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	payment.UpdatedAt = now
	return nil
}

func (r *GORMPaymentRepository) LatestForOrder(ctx context.Context, orderID uint) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id DESC").First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment for order %d: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest payment for order %d: %w", orderID, err)
	}
	return &p, nil
}

// FindProcessingBefore returns attempts still waiting on the gateway that were
// last written before the given time, least recently checked first.
func (r *GORMPaymentRepository) FindProcessingBefore(ctx context.Context, before time.Time, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", []models.PaymentStatus{models.PaymentPending, models.PaymentProcessing}, before).
		Order("updated_at").
		Order("id").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find processing payments: %w", err)
	}
	return payments, nil
}

// Touch records that an attempt was checked without changing its state.
func (r *GORMPaymentRepository) Touch(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Update("updated_at", time.Now())
	if res.Error != nil {
		return fmt.Errorf("failed to touch payment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment with ID %d for touch: %w", id, ErrNotFound)
	}
	return nil
}
