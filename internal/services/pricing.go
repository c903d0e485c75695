package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farmstore/internal/models"
	"farmstore/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultTaxRate is applied when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.05")

const defaultItemName = "Item"

// maxOrderTotal is the largest amount the decimal(12,2) total column holds.
var maxOrderTotal = decimal.RequireFromString("9999999999.99")

// LineItemInput is one requested cart line as the client sent it.
// Quantity and UnitPrice are kept as text and coerced by the Pricer.
type LineItemInput struct {
	ProductID   *uint
	ProductName string
	Quantity    string
	UnitPrice   string
}

// PricedOrder is the result of pricing a cart. Items are ready to be persisted.
type PricedOrder struct {
	Items    []models.OrderItem
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Pricer turns cart lines into order items and totals. It never writes.
type Pricer struct {
	products repositories.ProductRepository
	taxRate  decimal.Decimal
	log      *zap.Logger
}

func NewPricer(products repositories.ProductRepository, taxRate decimal.Decimal, log *zap.Logger) *Pricer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pricer{products: products, taxRate: taxRate, log: log}
}

func (p *Pricer) TaxRate() decimal.Decimal {
	return p.taxRate
}

// Price validates and prices every line. tax and total are each rounded half-up
// to two places exactly once, lines are never rounded.
func (p *Pricer) Price(ctx context.Context, lines []LineItemInput) (*PricedOrder, error) {
	if len(lines) == 0 {
		return nil, newValidationError(KindEmptyCart, "No items provided")
	}

	items := make([]models.OrderItem, 0, len(lines))
	subtotal := decimal.Zero
	for i, line := range lines {
		item, err := p.priceLine(ctx, i, line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		subtotal = subtotal.Add(item.LineTotal())
	}

	tax, total := Totals(subtotal, p.taxRate)
	if total.GreaterThan(maxOrderTotal) {
		return nil, newValidationError(KindInvalidItem, "order total %s exceeds %s", total.StringFixed(2), maxOrderTotal.StringFixed(2))
	}
	return &PricedOrder{Items: items, Subtotal: subtotal, Tax: tax, Total: total}, nil
}

// Totals applies the tax rate to an exact subtotal.
func Totals(subtotal, rate decimal.Decimal) (tax, total decimal.Decimal) {
	tax = subtotal.Mul(rate).Round(2)
	total = subtotal.Add(tax).Round(2)
	return tax, total
}

func (p *Pricer) priceLine(ctx context.Context, idx int, line LineItemInput) (models.OrderItem, error) {
	qty, err := parseQuantity(line.Quantity)
	if err != nil {
		return models.OrderItem{}, newValidationError(KindInvalidItem, "item %d: %v", idx+1, err)
	}

	var price decimal.Decimal
	priceGiven := strings.TrimSpace(line.UnitPrice) != ""
	if priceGiven {
		price, err = parseUnitPrice(line.UnitPrice)
		if err != nil {
			return models.OrderItem{}, newValidationError(KindInvalidItem, "item %d: %v", idx+1, err)
		}
	}

	item := models.OrderItem{
		ProductName: strings.TrimSpace(line.ProductName),
		Quantity:    qty,
		UnitPrice:   price,
	}

	if line.ProductID != nil {
		product, err := p.products.GetByID(ctx, *line.ProductID)
		switch {
		case err == nil:
			id := product.ID
			item.ProductID = &id
			item.ProductName = product.Name
			if !priceGiven {
				item.UnitPrice = product.UnitPrice
			}
		case errors.Is(err, repositories.ErrNotFound):
			p.log.Debug("unknown product on order line, using supplied data", zap.Uint("product_id", *line.ProductID))
		default:
			return models.OrderItem{}, fmt.Errorf("failed to look up product %d: %w", *line.ProductID, err)
		}
	}

	if item.ProductName == "" {
		item.ProductName = defaultItemName
	}
	return item, nil
}

func parseQuantity(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("quantity %q is not a whole number", raw)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("quantity must be positive, got %s", raw)
	}
	if d.GreaterThan(decimal.NewFromInt(1_000_000)) {
		return 0, fmt.Errorf("quantity %s is too large", raw)
	}
	return uint(d.IntPart()), nil
}

func parseUnitPrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unit price %q is not a number", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("unit price must not be negative, got %s", raw)
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, fmt.Errorf("unit price %s has more than two decimal places", raw)
	}
	if d.GreaterThanOrEqual(decimal.New(1, 8)) {
		return decimal.Zero, fmt.Errorf("unit price %s is too large", raw)
	}
	return d, nil
}
