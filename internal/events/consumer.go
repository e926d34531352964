package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"
)

// Handler processes one order-paid event. Returning an error leaves the
// message committed; the kitchen feed is best-effort and never blocks the
// payment flow.
type Handler func(ctx context.Context, event OrderPaidEvent) error

// Consumer feeds paid orders to the kitchen. It reads the order-events topic
// as its own consumer group, so the server and any kitchen displays each see
// every event.
type Consumer struct {
	reader  *kafka.Reader
	handler Handler
}

func NewConsumer(handler Handler, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "order-events",
		GroupID:  "storefront-kitchen",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, handler: handler}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	if eventType(m) != "order.paid" {
		return
	}

	var event OrderPaidEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Printf("error parsing order event: %v", err)
		return
	}
	if event.OrderID == "" {
		log.Printf("order event %s has no order_id, skipping", event.EventID)
		return
	}

	if err := c.handler(ctx, event); err != nil {
		log.Printf("failed to handle paid order %s: %v", event.OrderID, err)
	}
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}
