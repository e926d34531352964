package service

import (
	"context"
	"sync"

	"github.com/entusanojuicio/storefront/internal/cache"
	"github.com/entusanojuicio/storefront/internal/domain"
	"github.com/entusanojuicio/storefront/internal/gateway"
	"github.com/entusanojuicio/storefront/internal/repository"
)

// MockOrderRepository implements repository.OrderRepository for testing
type MockOrderRepository struct {
	mu sync.Mutex

	Orders       map[string]*domain.Order
	ByIdemKey    map[string]*domain.Order
	BySession    map[string]*domain.Order
	Transactions []*domain.PaymentTransaction
	StatsResult  *repository.Stats

	CreateErr   error
	GetErr      error
	MarkPaidErr error

	// PaidSessions tracks sessions already transitioned, so MarkPaidBySession
	// reports a change only once per session.
	PaidSessions map[string]bool
	MarkCalls    int
}

func newMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		Orders:       make(map[string]*domain.Order),
		ByIdemKey:    make(map[string]*domain.Order),
		BySession:    make(map[string]*domain.Order),
		PaidSessions: make(map[string]bool),
	}
}

func (m *MockOrderRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Orders[order.ID] = order
	if order.IdempotencyKey != "" {
		m.ByIdemKey[order.IdempotencyKey] = order
	}
	return nil
}

func (m *MockOrderRepository) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	order, ok := m.Orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *MockOrderRepository) GetOrderByIdempotencyKey(_ context.Context, key string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.ByIdemKey[key]
	if !ok {
		return nil, repository.ErrIdempotencyKeyNotFound
	}
	return order, nil
}

func (m *MockOrderRepository) GetOrderBySession(_ context.Context, sessionID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.BySession[sessionID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *MockOrderRepository) ListOrders(_ context.Context, status string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.Orders {
		if status == "" || o.Status.String() == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *MockOrderRepository) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.Orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (m *MockOrderRepository) SetPaymentSession(_ context.Context, orderID, sessionID, method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.Orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.PaymentSessionID = sessionID
	order.PaymentMethod = method
	m.BySession[sessionID] = order
	return nil
}

func (m *MockOrderRepository) CreateTransaction(_ context.Context, tx *domain.PaymentTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions = append(m.Transactions, tx)
	return nil
}

func (m *MockOrderRepository) MarkPaidBySession(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkCalls++
	if m.MarkPaidErr != nil {
		return false, m.MarkPaidErr
	}
	if m.PaidSessions[sessionID] {
		return false, nil
	}
	m.PaidSessions[sessionID] = true
	if order, ok := m.BySession[sessionID]; ok {
		order.Status = domain.OrderStatusPaid
	}
	return true, nil
}

func (m *MockOrderRepository) Stats(_ context.Context) (*repository.Stats, error) {
	return m.StatsResult, nil
}

func (m *MockOrderRepository) Close() error {
	return nil
}

// MockSessionGateway implements gateway.SessionGateway for testing
type MockSessionGateway struct {
	Session        *gateway.Session
	SessionErr     error
	StatusResult   *gateway.SessionStatus
	StatusErr      error
	CreateRequests []gateway.SessionRequest
}

func (m *MockSessionGateway) CreateSession(_ context.Context, req gateway.SessionRequest) (*gateway.Session, error) {
	m.CreateRequests = append(m.CreateRequests, req)
	if m.SessionErr != nil {
		return nil, m.SessionErr
	}
	return m.Session, nil
}

func (m *MockSessionGateway) Status(_ context.Context, _ string) (*gateway.SessionStatus, error) {
	if m.StatusErr != nil {
		return nil, m.StatusErr
	}
	return m.StatusResult, nil
}

// MockProductRepository implements repository.ProductRepository for testing
type MockProductRepository struct {
	mu        sync.Mutex
	Products  []domain.Product
	Err       error
	ListCalls int
}

func (m *MockProductRepository) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	var out []domain.Product
	for _, p := range m.Products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.AvailableOnly && !p.IsAvailable {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *MockProductRepository) Get(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Products {
		if m.Products[i].ID == id {
			return &m.Products[i], nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *MockProductRepository) Create(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Products = append(m.Products, *p)
	return nil
}

func (m *MockProductRepository) Update(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Products {
		if m.Products[i].ID == p.ID {
			m.Products[i] = *p
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (m *MockProductRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Products {
		if m.Products[i].ID == id {
			m.Products = append(m.Products[:i], m.Products[i+1:]...)
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (m *MockProductRepository) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.Products)), nil
}

// MockProductCache implements cache.ProductCache for testing
type MockProductCache struct {
	mu      sync.Mutex
	Data    map[string][]domain.Product
	GetErr  error
	Deleted []string
}

func newMockProductCache() *MockProductCache {
	return &MockProductCache{Data: make(map[string][]domain.Product)}
}

func (m *MockProductCache) Get(_ context.Context, key string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	products, ok := m.Data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return products, nil
}

func (m *MockProductCache) Set(_ context.Context, key string, products []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = products
	return nil
}

func (m *MockProductCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

// MockPublisher implements OrderPaidPublisher for testing
type MockPublisher struct {
	mu        sync.Mutex
	Published []*domain.Order
	Err       error
}

func (m *MockPublisher) PublishOrderPaid(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, order)
	return m.Err
}
