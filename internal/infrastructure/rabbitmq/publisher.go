// Package rabbitmq implements the event bus contract on AMQP. Every topic is
// a durable fanout exchange so each sibling service receives its own copy of
// a broadcast. Delivery is at-least-once; no ordering is guaranteed across
// messages.
package rabbitmq

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher wraps an AMQP channel for publishing tagged JSON events.
type Publisher struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	timeout time.Duration

	mu       sync.Mutex // amqp channels are not safe for concurrent publish
	declared map[string]bool
}

func NewPublisher(url string, timeout time.Duration) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, timeout: timeout, declared: make(map[string]bool)}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// Publish JSON-encodes the payload and broadcasts it on the topic's fanout
// exchange. The exchange is declared lazily, once per topic.
func (p *Publisher) Publish(ctx context.Context, topic string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.declared[topic] {
		if err := declareExchange(p.ch, topic); err != nil {
			return err
		}
		p.declared[topic] = true
	}
	return p.ch.PublishWithContext(ctx,
		topic, // exchange
		"",    // routing key ignored by fanout
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         b,
		},
	)
}

func declareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,
		amqp.ExchangeFanout,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
}
