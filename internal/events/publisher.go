package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// OrderCreated is emitted once per successful checkout for the downstream
// order-management and notification systems.
type OrderCreated struct {
	OrderID    string    `json:"order_id"`
	StoreID    string    `json:"store_id"`
	UserID     string    `json:"user_id"`
	CurrencyID string    `json:"currency_id"`
	Total      int64     `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}

type Publisher interface {
	OrderCreated(ctx context.Context, event *OrderCreated) error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewPublisher returns a kafka-backed publisher, or a noop one when no
// brokers are configured.
func NewPublisher(brokersCSV, topic string) Publisher {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return noopPublisher{}
	}

	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *kafkaPublisher) OrderCreated(ctx context.Context, event *OrderCreated) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

type noopPublisher struct{}

func (noopPublisher) OrderCreated(context.Context, *OrderCreated) error { return nil }
