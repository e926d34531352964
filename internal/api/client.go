// Package api is the JSON/HTTP client for the storefront backend. All
// checkout-core network access goes through it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/entusanojuicio/storefront/internal/domain"
)

type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client against base, e.g. "http://localhost:8080".
func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
	}
}

// OrderRequest is the POST /api/orders body. The idempotency key lets the
// server deduplicate retries of the same checkout session.
type OrderRequest struct {
	Items          []domain.CartLine `json:"items"`
	CustomerName   string            `json:"customer_name"`
	CustomerEmail  string            `json:"customer_email"`
	CustomerPhone  string            `json:"customer_phone"`
	PickupTime     string            `json:"pickup_time"`
	Notes          string            `json:"notes"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.doJSON(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// StripeSession is the response to a stripe checkout request: the external
// redirect target plus the session handle polled afterwards.
type StripeSession struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type stripeCheckoutRequest struct {
	OrderID       string `json:"order_id"`
	OriginURL     string `json:"origin_url"`
	PaymentMethod string `json:"payment_method"`
}

func (c *Client) CreateStripeSession(ctx context.Context, orderID, originURL string) (*StripeSession, error) {
	req := stripeCheckoutRequest{
		OrderID:       orderID,
		OriginURL:     originURL,
		PaymentMethod: domain.ProviderStripe,
	}
	var session StripeSession
	if err := c.doJSON(ctx, http.MethodPost, "/api/checkout/stripe", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CheckoutStatus mirrors GET /api/checkout/status/{session_id}.
type CheckoutStatus struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}

func (c *Client) CheckoutStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error) {
	var status CheckoutStatus
	path := "/api/checkout/status/" + url.PathEscape(sessionID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Products lists the available catalog, used by the kiosk menu.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if errDecode := json.NewDecoder(resp.Body).Decode(out); errDecode != nil {
		return fmt.Errorf("decode response failed: %w", errDecode)
	}
	return nil
}
