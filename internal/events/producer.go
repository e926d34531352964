package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/entusanojuicio/storefront/internal/domain"
)

// OrderPaidEvent is published when a payment session is first confirmed
// paid. Keyed by order id for ordering.
type OrderPaidEvent struct {
	EventID       string    `json:"event_id"`
	OrderID       string    `json:"order_id"`
	Total         float64   `json:"total"`
	CustomerEmail string    `json:"customer_email"`
	PickupTime    string    `json:"pickup_time"`
	PaidAt        time.Time `json:"paid_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

func NewProducer(brokers ...string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: w}
}

func (p *Producer) PublishOrderPaid(ctx context.Context, order *domain.Order) error {
	event := OrderPaidEvent{
		EventID:       uuid.New().String(),
		OrderID:       order.ID,
		Total:         order.Total,
		CustomerEmail: order.CustomerEmail,
		PickupTime:    order.PickupTime,
		PaidAt:        time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order paid event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.paid")},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
