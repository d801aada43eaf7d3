package dto

import (
	"time"

	"github.com/Additional-Code/orderflow/internal/entity"
)

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID             int64                   `json:"id"`
	Number         string                  `json:"number"`
	CustomerName   string                  `json:"customer_name"`
	Status         string                  `json:"status"`
	TotalAmount    float64                 `json:"total_amount"`
	PaymentDetails *PaymentDetailsResponse `json:"payment_details,omitempty"`
	Items          []ItemResponse          `json:"items"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// PaymentDetailsResponse exposes the payment instrument attached to an order.
type PaymentDetailsResponse struct {
	Method     string `json:"method"`
	CardNumber string `json:"card_number"`
}

// ItemResponse is one order line.
type ItemResponse struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// FromOrder maps an order entity onto its transport shape.
func FromOrder(order *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:           order.ID,
		Number:       order.Number,
		CustomerName: order.CustomerName,
		Status:       string(order.Status),
		TotalAmount:  order.TotalAmount,
		Items:        make([]ItemResponse, 0, len(order.Items)),
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
	if order.PaymentDetails != nil {
		resp.PaymentDetails = &PaymentDetailsResponse{
			Method:     order.PaymentDetails.Method,
			CardNumber: order.PaymentDetails.CardNumber,
		}
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, ItemResponse{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return resp
}
