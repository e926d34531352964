package repository

import (
	"context"
	"errors"

	"github.com/entusanojuicio/storefront/internal/domain"
)

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrTransactionNotFound    = errors.New("payment transaction not found")
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
)

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category      string
	AvailableOnly bool
}

type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// Stats feeds the admin dashboard.
type Stats struct {
	TotalOrders   int64   `json:"total_orders"`
	PendingOrders int64   `json:"pending_orders"`
	PaidOrders    int64   `json:"paid_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	GetOrderBySession(ctx context.Context, sessionID string) (*domain.Order, error)
	ListOrders(ctx context.Context, status string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
	SetPaymentSession(ctx context.Context, orderID, sessionID, method string) error
	CreateTransaction(ctx context.Context, tx *domain.PaymentTransaction) error
	// MarkPaidBySession marks the transaction and its order paid. Returns
	// true only for the first transition, so callers can act exactly once.
	MarkPaidBySession(ctx context.Context, sessionID string) (bool, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}
