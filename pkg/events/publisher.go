// Package events publishes audit events to RabbitMQ. Publishing is best effort:
// callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/photoshare/api/pkg/circuit"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	UserID     uint              `json:"user_id,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewEvent stamps an id and the current time.
func NewEvent(eventType string, userID uint, subject string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
	}
}

// With returns a copy of e carrying one more attribute.
func (e Event) With(key, value string) Event {
	attrs := make(map[string]string, len(e.Attributes)+1)
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	attrs[key] = value
	e.Attributes = attrs
	return e
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Status() string
	Close() error
}

// Noop is used when events are disabled.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Status() string                       { return "disabled" }
func (Noop) Close() error                         { return nil }

const defaultDialTimeout = 2 * time.Second

type AMQPConfig struct {
	URL     string
	Queue   string
	Breaker circuit.Config
	// DialTimeout bounds connect plus handshake. The caller's deadline wins when sooner.
	DialTimeout time.Duration
}

// AMQPPublisher keeps one connection and channel open and redials after a failure.
type AMQPPublisher struct {
	cfg     AMQPConfig
	breaker *circuit.Breaker
	logger  *zap.Logger

	// lock is a one-slot semaphore so waiters can give up when their context ends.
	lock chan struct{}
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(cfg AMQPConfig, logger *zap.Logger) *AMQPPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	return &AMQPPublisher{
		cfg:     cfg,
		breaker: circuit.NewBreaker("amqp:"+cfg.Queue, cfg.Breaker, logger),
		logger:  logger,
		lock:    make(chan struct{}, 1),
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.breaker.Execute(func() error {
		select {
		case p.lock <- struct{}{}:
		case <-ctx.Done():
			return fmt.Errorf("publish %s: %w", event.Type, ctx.Err())
		}
		defer func() { <-p.lock }()

		if err := p.ensureChannel(ctx); err != nil {
			return err
		}

		err := p.ch.PublishWithContext(ctx,
			"",          // default exchange
			p.cfg.Queue, // routing key = queue name
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    event.ID,
				Type:         event.Type,
				Timestamp:    event.OccurredAt,
				Body:         body,
			},
		)
		if err != nil {
			p.resetLocked()
			return fmt.Errorf("publish %s: %w", event.Type, err)
		}
		return nil
	})
}

// must hold p.lock
func (p *AMQPPublisher) ensureChannel(ctx context.Context) error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.resetLocked()

	timeout := p.cfg.DialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmt.Errorf("rabbitmq dial: %w", context.DeadlineExceeded)
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	conn, err := amqp.DialConfig(p.cfg.URL, amqp.Config{
		Dial:   amqp.DefaultDial(timeout),
		Locale: "en_US",
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	p.conn, p.ch = conn, ch
	p.logger.Info("Connected to RabbitMQ", zap.String("queue", p.cfg.Queue))
	return nil
}

// must hold p.lock
func (p *AMQPPublisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Status reports the breaker state for health checks.
func (p *AMQPPublisher) Status() string {
	return p.breaker.State().String()
}

func (p *AMQPPublisher) Close() error {
	p.lock <- struct{}{}
	defer func() { <-p.lock }()
	p.resetLocked()
	return nil
}
