// Package events publishes order lifecycle events to Kafka for downstream
// consumers (fulfillment, analytics). Publishing is best effort: a broker
// failure is logged by the caller and never blocks the order flow.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Event types emitted over the order lifecycle.
const (
	TypeOrderCreated = "order.created"
	TypeOrderPaid    = "order.paid"
)

// OrderEvent is the wire payload for one lifecycle event.
type OrderEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	OrderID       int       `json:"order_id"`
	PaymentMethod string    `json:"payment_method"`
	Currency      string    `json:"currency,omitempty"`
	UserID        int64     `json:"user_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher emits order lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// kafkaPublisher writes events to a single Kafka topic, keyed by order id
// so events for one order land on one partition in order.
type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafka creates a publisher for the given brokers and topic.
func NewKafka(brokers []string, topic string) Publisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// noopPublisher drops events. Used when no brokers are configured.
type noopPublisher struct{}

// NewNoop creates a publisher that discards everything.
func NewNoop() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, OrderEvent) error { return nil }
func (noopPublisher) Close() error                              { return nil }
