package checkout

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/entusanojuicio/storefront/internal/api"
	"github.com/entusanojuicio/storefront/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// OrderCreator is the one network call the submitter makes.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req api.OrderRequest) (*domain.Order, error)
}

// Submitter converts cart contents plus contact data into a persisted order.
// It owns the create-once decision: the first successful submission caches
// the order id for the rest of the checkout session, so retries of
// downstream steps never re-submit the order. An idempotency key minted at
// the first attempt is sent with every retry so the server can deduplicate
// even if the cached id is lost.
type Submitter struct {
	orders OrderCreator

	mu      sync.Mutex
	orderID string
	idemKey string
}

func NewSubmitter(orders OrderCreator) *Submitter {
	return &Submitter{orders: orders}
}

// Submit validates the contact info, then performs at most one
// order-creation request for this checkout session. Validation failures
// return a *ValidationError before any network call; request failures return
// a *OrderCreationError and leave the session retryable.
func (s *Submitter) Submit(ctx context.Context, lines []domain.CartLine, contact domain.ContactInfo) (string, error) {
	if err := validateContact(contact); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.orderID != "" {
		id := s.orderID
		s.mu.Unlock()
		return id, nil
	}
	if s.idemKey == "" {
		s.idemKey = uuid.New().String()
	}
	key := s.idemKey
	s.mu.Unlock()

	order, err := s.orders.CreateOrder(ctx, api.OrderRequest{
		Items:          lines,
		CustomerName:   contact.CustomerName,
		CustomerEmail:  contact.CustomerEmail,
		CustomerPhone:  contact.CustomerPhone,
		PickupTime:     contact.PickupTime,
		Notes:          contact.Notes,
		IdempotencyKey: key,
	})
	if err != nil {
		return "", &OrderCreationError{Err: err}
	}

	s.mu.Lock()
	s.orderID = order.ID
	s.mu.Unlock()
	return order.ID, nil
}

// OrderID returns the cached order id, or "" if no order has been created.
func (s *Submitter) OrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderID
}

// Resume adopts an order id carried back on the provider's cancel URL, so a
// returning customer retries payment against the existing order instead of
// creating a new one.
func (s *Submitter) Resume(orderID string) {
	if orderID == "" {
		return
	}
	s.mu.Lock()
	s.orderID = orderID
	s.mu.Unlock()
}

func validateContact(c domain.ContactInfo) error {
	if strings.TrimSpace(c.CustomerName) == "" {
		return &ValidationError{Field: "customer_name", Reason: "name is required"}
	}
	if strings.TrimSpace(c.CustomerEmail) == "" {
		return &ValidationError{Field: "customer_email", Reason: "email is required"}
	}
	if !emailPattern.MatchString(c.CustomerEmail) {
		return &ValidationError{Field: "customer_email", Reason: "email is not valid"}
	}
	if strings.TrimSpace(c.CustomerPhone) == "" {
		return &ValidationError{Field: "customer_phone", Reason: "phone is required"}
	}
	if c.PickupTime == "" {
		return &ValidationError{Field: "pickup_time", Reason: "pickup time is required"}
	}
	return nil
}
