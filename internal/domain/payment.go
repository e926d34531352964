package domain

import "time"

// Payment providers supported at checkout.
const (
	ProviderStripe = "stripe"
	ProviderPayPal = "paypal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

// PaymentSession is the provider-issued handle used to confirm payment after
// a redirect. The embedded PayPal flow never carries a session id.
type PaymentSession struct {
	SessionID string `json:"session_id"`
	OrderID   string `json:"order_id"`
	Provider  string `json:"provider"`
}

// PaymentTransaction records one payment attempt against an order.
type PaymentTransaction struct {
	ID            string        `json:"id"`
	OrderID       string        `json:"order_id"`
	SessionID     string        `json:"session_id"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	PaymentMethod string        `json:"payment_method"`
	Status        PaymentStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}
