// Package events emits purchase notifications for downstream consumers
// (receipts, analytics). Publishing is best-effort: a broker outage must
// never block an entitlement grant.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher emits storefront events.
type Publisher interface {
	PurchaseCompleted(ctx context.Context, courseID string, amount float64) error
	Close() error
}

// purchaseEvent is the wire format pushed to the queue.
type purchaseEvent struct {
	Type       string    `json:"type"`
	CourseID   string    `json:"courseId"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurredAt"`
}

// AMQPPublisher publishes JSON events to a durable queue.
type AMQPPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewAMQPPublisher dials the broker and declares the queue.
func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, queue: queue}, nil
}

// PurchaseCompleted publishes a purchase event.
func (p *AMQPPublisher) PurchaseCompleted(ctx context.Context, courseID string, amount float64) error {
	body, err := json.Marshal(purchaseEvent{
		Type:       "purchase.completed",
		CourseID:   courseID,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Close shuts down the channel and connection.
func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		slog.Warn("close amqp channel", "error", err)
	}
	return p.conn.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

// PurchaseCompleted drops the event.
func (NoopPublisher) PurchaseCompleted(ctx context.Context, courseID string, amount float64) error {
	return nil
}

// Close is a no-op.
func (NoopPublisher) Close() error { return nil }
