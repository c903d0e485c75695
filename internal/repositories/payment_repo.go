package repositories

import (
	"context"
	"time"

	"farmstore/internal/models"
)

// PaymentRepository defines the interface for payment attempt data access.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	// SaveResult stores the gateway outcome of an attempt and, when markOrderPaid
	// is set, flips the owning order to paid in the same transaction.
	SaveResult(ctx context.Context, payment *models.Payment, markOrderPaid bool) error
	LatestForOrder(ctx context.Context, orderID uint) (*models.Payment, error)
	// FindProcessingBefore returns unsettled attempts not written since before,
	// least recently checked first.
	FindProcessingBefore(ctx context.Context, before time.Time, limit int) ([]models.Payment, error)
	// Touch marks an attempt as checked so the next pass moves on to others.
	Touch(ctx context.Context, id uint) error
}
