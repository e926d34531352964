package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entusanojuicio/storefront/internal/domain"
	"github.com/entusanojuicio/storefront/internal/gateway"
	"github.com/entusanojuicio/storefront/internal/repository"
)

// OrderPaidPublisher emits the order-paid event to the message broker.
type OrderPaidPublisher interface {
	PublishOrderPaid(ctx context.Context, order *domain.Order) error
}

type StripeSessionResult struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type CheckoutStatusResult struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}

// CheckoutService owns the server side of the payment handoff: creating
// provider sessions for orders and converging order state when the provider
// reports payment.
type CheckoutService struct {
	orders    repository.OrderRepository
	gateway   gateway.SessionGateway
	publisher OrderPaidPublisher
	logger    *zap.Logger
}

func NewCheckoutService(orders repository.OrderRepository, gw gateway.SessionGateway, publisher OrderPaidPublisher, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		gateway:   gw,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateStripeSession builds the provider session for an order. The success
// URL carries the session id back to the client for polling; the cancel URL
// carries the order id so an abandoned payment resumes against the same
// order.
func (s *CheckoutService) CreateStripeSession(ctx context.Context, orderID, originURL string) (*StripeSessionResult, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	origin := strings.TrimRight(originURL, "/")
	session, err := s.gateway.CreateSession(ctx, gateway.SessionRequest{
		Amount:     order.Total,
		Currency:   "eur",
		SuccessURL: origin + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  origin + "/checkout?order_id=" + orderID,
		Metadata: map[string]string{
			"order_id":       orderID,
			"customer_email": order.CustomerEmail,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create provider session: %w", err)
	}

	tx := &domain.PaymentTransaction{
		ID:            uuid.New().String(),
		OrderID:       orderID,
		SessionID:     session.SessionID,
		Amount:        order.Total,
		Currency:      "eur",
		PaymentMethod: domain.ProviderStripe,
		Status:        domain.PaymentStatusPending,
		CreatedAt:     time.Now(),
	}
	if errTx := s.orders.CreateTransaction(ctx, tx); errTx != nil {
		return nil, errTx
	}

	if errSet := s.orders.SetPaymentSession(ctx, orderID, session.SessionID, domain.ProviderStripe); errSet != nil {
		return nil, errSet
	}

	s.logger.Info("Stripe checkout session created",
		zap.String("order_id", orderID),
		zap.String("session_id", session.SessionID))

	return &StripeSessionResult{URL: session.URL, SessionID: session.SessionID}, nil
}

// Status proxies the provider status and, on the first observation of
// "paid", marks the transaction and order paid and publishes the order-paid
// event. Later observations are no-ops.
func (s *CheckoutService) Status(ctx context.Context, sessionID string) (*CheckoutStatusResult, error) {
	status, err := s.gateway.Status(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query provider status: %w", err)
	}

	if status.PaymentStatus == "paid" {
		s.markPaid(ctx, sessionID)
	}

	return &CheckoutStatusResult{
		Status:        status.Status,
		PaymentStatus: status.PaymentStatus,
		AmountTotal:   status.AmountTotal,
		Currency:      status.Currency,
	}, nil
}

// ConfirmWebhook applies a provider webhook notification. Shares the paid
// transition with Status, so whichever arrives first wins.
func (s *CheckoutService) ConfirmWebhook(ctx context.Context, sessionID, paymentStatus string) {
	if paymentStatus != "paid" {
		return
	}
	s.markPaid(ctx, sessionID)
}

func (s *CheckoutService) markPaid(ctx context.Context, sessionID string) {
	changed, err := s.orders.MarkPaidBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to mark session paid",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return
	}
	if !changed {
		return
	}

	s.logger.Info("Payment confirmed",
		zap.String("session_id", sessionID))

	order, err := s.orders.GetOrderBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load order for paid event",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return
	}

	// Event publish failure is logged only; order state is already durable.
	if errPub := s.publisher.PublishOrderPaid(ctx, order); errPub != nil {
		s.logger.Error("Failed to publish order paid event",
			zap.String("order_id", order.ID),
			zap.Error(errPub))
	}
}
