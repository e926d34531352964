// Package gateway talks to the external payment provider. Provider
// internals stay behind this interface; the rest of the server only sees
// sessions and their status.
package gateway

import "context"

type SessionRequest struct {
	Amount     float64           `json:"amount"`
	Currency   string            `json:"currency"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type Session struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type SessionStatus struct {
	Status        string `json:"status"`         // open, complete, expired
	PaymentStatus string `json:"payment_status"` // paid, unpaid
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}

type SessionGateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	Status(ctx context.Context, sessionID string) (*SessionStatus, error)
}
