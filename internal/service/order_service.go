package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entusanojuicio/storefront/internal/domain"
	"github.com/entusanojuicio/storefront/internal/repository"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

type CreateOrderRequest struct {
	Items          []domain.CartLine
	Contact        domain.ContactInfo
	IdempotencyKey string
}

type OrderService struct {
	repo   repository.OrderRepository
	logger *zap.Logger
}

func NewOrderService(repo repository.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger}
}

// CreateOrder persists a new pending order. A request carrying an
// idempotency key that was already used returns the stored order instead of
// creating a second one, so client retries are safe even across reloads.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	if req.IdempotencyKey != "" {
		existing, err := s.repo.GetOrderByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil && !errors.Is(err, repository.ErrIdempotencyKeyNotFound) {
			return nil, err
		}
		if existing != nil {
			s.logger.Info("Duplicate order request detected",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.String("order_id", existing.ID))
			return existing, nil
		}
	}

	var total float64
	for _, item := range req.Items {
		total += item.Subtotal()
	}

	order := &domain.Order{
		ID:             uuid.New().String(),
		Items:          req.Items,
		CustomerName:   req.Contact.CustomerName,
		CustomerEmail:  req.Contact.CustomerEmail,
		CustomerPhone:  req.Contact.CustomerPhone,
		PickupTime:     req.Contact.PickupTime,
		Notes:          req.Contact.Notes,
		Total:          round2(total),
		Status:         domain.OrderStatusPending,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		s.logger.Error("Failed to save order",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.Float64("total", order.Total),
		zap.Int("items", len(order.Items)))
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *OrderService) List(ctx context.Context, status string) ([]domain.Order, error) {
	return s.repo.ListOrders(ctx, status)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if !status.IsValid() {
		return ErrInvalidOrderStatus
	}
	if err := s.repo.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info("Order status updated",
		zap.String("order_id", id),
		zap.String("status", status.String()))
	return nil
}

func (s *OrderService) Stats(ctx context.Context) (*repository.Stats, error) {
	return s.repo.Stats(ctx)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
