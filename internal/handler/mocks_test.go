package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/entusanojuicio/storefront/internal/domain"
	"github.com/entusanojuicio/storefront/internal/gateway"
	"github.com/entusanojuicio/storefront/internal/repository"
)

// --- Mocks ---

type orderRepoMock struct {
	orders       map[string]*domain.Order
	byIdemKey    map[string]*domain.Order
	bySession    map[string]*domain.Order
	paidSessions map[string]bool
	transactions []*domain.PaymentTransaction
	stats        *repository.Stats
	err          error
}

func newOrderRepoMock() *orderRepoMock {
	return &orderRepoMock{
		orders:       make(map[string]*domain.Order),
		byIdemKey:    make(map[string]*domain.Order),
		bySession:    make(map[string]*domain.Order),
		paidSessions: make(map[string]bool),
	}
}

func (m *orderRepoMock) CreateOrder(_ context.Context, order *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	m.orders[order.ID] = order
	if order.IdempotencyKey != "" {
		m.byIdemKey[order.IdempotencyKey] = order
	}
	return nil
}

func (m *orderRepoMock) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *orderRepoMock) GetOrderByIdempotencyKey(_ context.Context, key string) (*domain.Order, error) {
	order, ok := m.byIdemKey[key]
	if !ok {
		return nil, repository.ErrIdempotencyKeyNotFound
	}
	return order, nil
}

func (m *orderRepoMock) GetOrderBySession(_ context.Context, sessionID string) (*domain.Order, error) {
	order, ok := m.bySession[sessionID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *orderRepoMock) ListOrders(_ context.Context, status string) ([]domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Order
	for _, o := range m.orders {
		if status == "" || o.Status.String() == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *orderRepoMock) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) error {
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (m *orderRepoMock) SetPaymentSession(_ context.Context, orderID, sessionID, method string) error {
	order, ok := m.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.PaymentSessionID = sessionID
	order.PaymentMethod = method
	m.bySession[sessionID] = order
	return nil
}

func (m *orderRepoMock) CreateTransaction(_ context.Context, tx *domain.PaymentTransaction) error {
	m.transactions = append(m.transactions, tx)
	return nil
}

func (m *orderRepoMock) MarkPaidBySession(_ context.Context, sessionID string) (bool, error) {
	if m.paidSessions[sessionID] {
		return false, nil
	}
	m.paidSessions[sessionID] = true
	if order, ok := m.bySession[sessionID]; ok {
		order.Status = domain.OrderStatusPaid
	}
	return true, nil
}

func (m *orderRepoMock) Stats(_ context.Context) (*repository.Stats, error) {
	return m.stats, nil
}

func (m *orderRepoMock) Close() error { return nil }

type sessionGatewayMock struct {
	session *gateway.Session
	status  *gateway.SessionStatus
	err     error
}

func (m *sessionGatewayMock) CreateSession(_ context.Context, _ gateway.SessionRequest) (*gateway.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *sessionGatewayMock) Status(_ context.Context, _ string) (*gateway.SessionStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.status, nil
}

type publisherMock struct {
	published []*domain.Order
}

func (m *publisherMock) PublishOrderPaid(_ context.Context, order *domain.Order) error {
	m.published = append(m.published, order)
	return nil
}

// --- helpers ---

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
