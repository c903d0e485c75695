package handlers

import (
	"time"

	"farmstore/internal/models"
)

type productResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
}

func newProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice.StringFixed(2),
	}
}

type orderItemResponse struct {
	ID          uint   `json:"id"`
	ProductID   *uint  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    uint   `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

type paymentResponse struct {
	ID              uint      `json:"id"`
	Provider        string    `json:"provider"`
	Amount          string    `json:"amount"`
	Status          string    `json:"status"`
	CheckoutURL     string    `json:"checkout_url"`
	ResponseCode    string    `json:"response_code"`
	ResponseMessage string    `json:"response_message"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type orderResponse struct {
	ID              uint                `json:"id"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerPhone   string              `json:"customer_phone"`
	ShippingAddress string              `json:"shipping_address"`
	Notes           string              `json:"notes"`
	TotalAmount     string              `json:"total_amount"`
	Paid            bool                `json:"paid"`
	Items           []orderItemResponse `json:"items"`
	Payments        []paymentResponse   `json:"payments"`
	CreatedAt       time.Time           `json:"created_at"`
}

func newOrderResponse(o *models.Order) orderResponse {
	out := orderResponse{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		TotalAmount:     o.TotalAmount.StringFixed(2),
		Paid:            o.Paid,
		Items:           make([]orderItemResponse, 0, len(o.Items)),
		Payments:        make([]paymentResponse, 0, len(o.Payments)),
		CreatedAt:       o.CreatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, orderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.StringFixed(2),
		})
	}
	for _, p := range o.Payments {
		out.Payments = append(out.Payments, paymentResponse{
			ID:              p.ID,
			Provider:        p.Provider,
			Amount:          p.Amount.StringFixed(2),
			Status:          string(p.Status),
			CheckoutURL:     p.CheckoutURL,
			ResponseCode:    p.ResponseCode,
			ResponseMessage: p.ResponseMessage,
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
		})
	}
	return out
}
