package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shopfront/internal/domain"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Order event types
const (
	OrderPlaced          = "order.placed"
	OrderCancelled       = "order.cancelled"
	OrderReturnRequested = "order.return_requested"
	OrderStatusChanged   = "order.status_changed"
)

// OrderEvent describes a change in an order's lifecycle
type OrderEvent struct {
	Type       string             `json:"type"`
	OrderID    string             `json:"order_id"`
	AccountID  string             `json:"account_id"`
	ProductID  string             `json:"product_id"`
	Quantity   int                `json:"quantity"`
	Status     domain.OrderStatus `json:"status"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// NewOrderEvent builds an event of the given type from the order's current state
func NewOrderEvent(eventType string, order *domain.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		AccountID:  order.AccountID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		Status:     order.Status,
		OccurredAt: at.UTC(),
	}
}

// Publisher delivers order events
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a kafka topic keyed by order id, so the
// events of one order stay on one partition
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher for topic on brokers
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
		WriteTimeout:           2 * time.Second,
	}
	return &KafkaPublisher{writer: w}
}

// Publish writes event as a JSON message
func (p *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher records events in the log. Used when no brokers are configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event
func (p *LogPublisher) Publish(_ context.Context, event OrderEvent) error {
	p.logger.Info("Order event",
		zap.String("type", event.Type),
		zap.String("order_id", event.OrderID),
		zap.String("account_id", event.AccountID),
		zap.String("status", string(event.Status)),
	)
	return nil
}

// Close is a no-op
func (p *LogPublisher) Close() error {
	return nil
}
