package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// ContactInfo is the contact and pickup data collected at checkout.
// Everything except Notes is required.
type ContactInfo struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	PickupTime    string `json:"pickup_time"`
	Notes         string `json:"notes,omitempty"`
}

// Order is the server-owned record of a finalized selection. Clients hold
// the ID plus a denormalized copy for display.
type Order struct {
	ID               string      `json:"id"`
	Items            []CartLine  `json:"items"`
	CustomerName     string      `json:"customer_name"`
	CustomerEmail    string      `json:"customer_email"`
	CustomerPhone    string      `json:"customer_phone"`
	PickupTime       string      `json:"pickup_time"`
	Notes            string      `json:"notes"`
	Total            float64     `json:"total"`
	Status           OrderStatus `json:"status"`
	PaymentMethod    string      `json:"payment_method,omitempty"`
	PaymentSessionID string      `json:"payment_session_id,omitempty"`
	IdempotencyKey   string      `json:"idempotency_key,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}
