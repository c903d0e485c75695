package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store catalog.
// It is only used as a name/price reference when orders are priced.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:200;not null" validate:"required,min=2,max=200"`
	Slug        string          `json:"slug" gorm:"size:200;uniqueIndex;not null" validate:"required,max=200"`
	Description string          `json:"description" gorm:"type:text"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
