package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
)

const DefaultPaymentProvider = "hubtel"

// Payment is one attempt to collect money for an order.
// Retries create a new row, existing rows are never reused.
type Payment struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	OrderID           uint            `json:"order_id" gorm:"index;not null"`
	Provider          string          `json:"provider" gorm:"size:100;not null;default:hubtel"`
	ProviderReference string          `json:"provider_reference" gorm:"size:200"`
	Amount            decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Status            PaymentStatus   `json:"status" gorm:"size:50;not null;default:pending;index"`
	CheckoutURL       string          `json:"checkout_url" gorm:"size:500"`
	CheckoutToken     string          `json:"checkout_token" gorm:"size:100"`
	ResponseCode      string          `json:"response_code" gorm:"size:10"`
	ResponseMessage   string          `json:"response_message" gorm:"type:text"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Settled reports whether the attempt reached a terminal state.
func (p Payment) Settled() bool {
	switch p.Status {
	case PaymentCompleted, PaymentFailed, PaymentCancelled:
		return true
	}
	return false
}
