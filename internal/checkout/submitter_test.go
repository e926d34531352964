package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entusanojuicio/storefront/internal/api"
	"github.com/entusanojuicio/storefront/internal/domain"
)

// MockOrderCreator implements OrderCreator for testing
type MockOrderCreator struct {
	mu       sync.Mutex
	Order    *domain.Order
	Err      error
	Calls    int
	Requests []api.OrderRequest // captures every request sent
}

func (m *MockOrderCreator) CreateOrder(_ context.Context, req api.OrderRequest) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Order, nil
}

func validContact() domain.ContactInfo {
	return domain.ContactInfo{
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		CustomerPhone: "600123456",
		PickupTime:    "13:30",
	}
}

func testLines() []domain.CartLine {
	return []domain.CartLine{
		{ProductID: "p1", ProductName: "Zumo verde", Price: 4.50, Quantity: 3},
	}
}

func TestSubmit_CreatesOrderOnce(t *testing.T) {
	mock := &MockOrderCreator{Order: &domain.Order{ID: "order-1"}}
	sub := NewSubmitter(mock)

	id1, err := sub.Submit(context.Background(), testLines(), validContact())
	require.NoError(t, err)

	id2, err := sub.Submit(context.Background(), testLines(), validContact())
	require.NoError(t, err)

	assert.Equal(t, "order-1", id1)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, mock.Calls)
}

func TestSubmit_ValidationBeforeNetwork(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.ContactInfo)
		field   string
	}{
		{"missing name", func(c *domain.ContactInfo) { c.CustomerName = "  " }, "customer_name"},
		{"missing email", func(c *domain.ContactInfo) { c.CustomerEmail = "" }, "customer_email"},
		{"malformed email", func(c *domain.ContactInfo) { c.CustomerEmail = "not-an-email" }, "customer_email"},
		{"email with spaces", func(c *domain.ContactInfo) { c.CustomerEmail = "a b@example.com" }, "customer_email"},
		{"missing phone", func(c *domain.ContactInfo) { c.CustomerPhone = "" }, "customer_phone"},
		{"missing pickup time", func(c *domain.ContactInfo) { c.PickupTime = "" }, "pickup_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockOrderCreator{Order: &domain.Order{ID: "order-1"}}
			sub := NewSubmitter(mock)

			contact := validContact()
			tt.mutate(&contact)

			_, err := sub.Submit(context.Background(), testLines(), contact)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, 0, mock.Calls)
		})
	}
}

func TestSubmit_FailureIsRetryable(t *testing.T) {
	mock := &MockOrderCreator{Err: errors.New("backend down")}
	sub := NewSubmitter(mock)

	_, err := sub.Submit(context.Background(), testLines(), validContact())
	var createErr *OrderCreationError
	require.ErrorAs(t, err, &createErr)
	assert.Empty(t, sub.OrderID())

	// Recovery: the retry goes out and reuses the same idempotency key.
	mock.Err = nil
	mock.Order = &domain.Order{ID: "order-2"}

	id, err := sub.Submit(context.Background(), testLines(), validContact())
	require.NoError(t, err)
	assert.Equal(t, "order-2", id)
	require.Len(t, mock.Requests, 2)
	assert.NotEmpty(t, mock.Requests[0].IdempotencyKey)
	assert.Equal(t, mock.Requests[0].IdempotencyKey, mock.Requests[1].IdempotencyKey)
}

func TestSubmit_AfterResumeSkipsCreation(t *testing.T) {
	mock := &MockOrderCreator{Order: &domain.Order{ID: "order-9"}}
	sub := NewSubmitter(mock)
	sub.Resume("order-from-cancel-url")

	id, err := sub.Submit(context.Background(), testLines(), validContact())

	require.NoError(t, err)
	assert.Equal(t, "order-from-cancel-url", id)
	assert.Equal(t, 0, mock.Calls)
}

func TestResume_EmptyIDIsNoop(t *testing.T) {
	sub := NewSubmitter(&MockOrderCreator{})
	sub.Resume("")
	assert.Empty(t, sub.OrderID())
}
