package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem represents a single line within an order.
// ProductName and UnitPrice are snapshots so catalog edits never change past orders.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"index;not null"`
	ProductID   *uint           `json:"product_id" gorm:"index"`
	Product     *Product        `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	ProductName string          `json:"product_name" gorm:"size:200;not null"`
	Quantity    uint            `json:"quantity" gorm:"not null;default:1"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
}

// LineTotal returns unit price times quantity, unrounded.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a customer order.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	CustomerName    string          `json:"customer_name" gorm:"size:200;not null"`
	CustomerEmail   string          `json:"customer_email" gorm:"size:254"`
	CustomerPhone   string          `json:"customer_phone" gorm:"size:50"`
	ShippingAddress string          `json:"shipping_address" gorm:"type:text"`
	Notes           string          `json:"notes" gorm:"type:text"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	Paid            bool            `json:"paid" gorm:"not null;default:false"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments        []Payment       `json:"payments,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
