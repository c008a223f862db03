package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"printpod/internal/config"
	"printpod/internal/logger"
)

const Topic = "order-item-events"

// Event is an order item lifecycle notification published to Kafka.
type Event struct {
	Type        string                 `json:"type"`
	OrderID     string                 `json:"order_id"`
	OrderItemID string                 `json:"order_item_id"`
	Data        map[string]interface{} `json:"data,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// KafkaPublisher writes lifecycle events to the order-item-events topic.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewKafkaPublisher(cfg *config.Config, logger *logger.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderItemID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	p.logger.Debug("published %s for order item %s", event.Type, event.OrderItemID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
