// Package amqp publishes push messages to the delivery gateway through
// RabbitMQ. The gateway owns the actual device delivery; this side only has to
// get the message onto a durable queue.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	pushExchange   = "push_notifications"
	pushRoutingKey = "push.send"
	pushQueue      = "push.q"
)

// pushMessage is the wire format consumed by the push gateway.
type pushMessage struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// PushPublisher implements PushTransport over a RabbitMQ channel. One
// publisher owns one channel; callers already serialize sends per dispatch.
type PushPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPushPublisher dials the broker and declares the push exchange and queue.
func NewPushPublisher(url string) (*PushPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening rabbitmq channel: %w", err)
	}

	publisher := &PushPublisher{conn: conn, ch: ch}
	if err := publisher.declare(); err != nil {
		publisher.Close()
		return nil, err
	}

	return publisher, nil
}

func (p *PushPublisher) declare() error {
	if err := p.ch.ExchangeDeclare(pushExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring exchange %s: %w", pushExchange, err)
	}
	if _, err := p.ch.QueueDeclare(pushQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring queue %s: %w", pushQueue, err)
	}
	if err := p.ch.QueueBind(pushQueue, pushRoutingKey, pushExchange, false, nil); err != nil {
		return fmt.Errorf("binding queue %s: %w", pushQueue, err)
	}
	return nil
}

// Send publishes one push message for the given device token.
func (p *PushPublisher) Send(ctx context.Context, token string, push ports.Push) error {
	body, err := json.Marshal(pushMessage{
		Token: token,
		Title: push.Title,
		Body:  push.Body,
		Data:  push.Data,
	})
	if err != nil {
		return fmt.Errorf("encoding push message: %w", err)
	}

	return p.ch.PublishWithContext(ctx, pushExchange, pushRoutingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Close releases the channel and connection.
func (p *PushPublisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
