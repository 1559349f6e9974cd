package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger defines the interface for logging operations within the events package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Event types emitted by the request flows.
const (
	TypeQuery  = "query"
	TypeIngest = "ingest"
	TypeDelete = "delete"
)

// Event is one usage record for the metering pipeline.
type Event struct {
	Type        string    `json:"type"`
	UserID      uint      `json:"user_id"`
	ProjectID   string    `json:"project_id"`
	Modality    string    `json:"modality"`
	VectorDelta int64     `json:"vector_delta"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher emits usage events to a topic exchange. It is safe for
// concurrent use. A Publisher constructed without a configured broker is
// disabled: Publish succeeds without doing anything.
type Publisher struct {
	cfg     Config
	logger  Logger
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to the broker and declares the usage exchange.
// When the config carries no broker URL, it returns a disabled publisher
// and no error.
func NewPublisher(cfg Config, logger Logger) (*Publisher, error) {
	p := &Publisher{cfg: cfg, logger: logger}
	if !cfg.Enabled() {
		logger.Info("usage event publishing disabled, no broker configured", nil)
		return p, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("events: connecting to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events: opening channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("events: declaring exchange %s: %w", cfg.Exchange, err)
	}

	p.conn = conn
	p.channel = channel
	return p, nil
}

// Publish emits one event. Disabled publishers return nil immediately.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if p == nil || p.channel == nil {
		return nil
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: encoding event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx,
		p.cfg.Exchange,
		p.routingKey(event.Type),
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   event.OccurredAt,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("events: publishing %s event: %w", event.Type, err)
	}
	return nil
}

func (p *Publisher) routingKey(eventType string) string {
	return p.cfg.RoutingKeyPrefix + "." + eventType
}

// GracefulShutdown closes the channel and connection.
func (p *Publisher) GracefulShutdown() error {
	if p == nil || p.conn == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		p.logger.Warn("failed to close events channel", err, nil)
	}
	return p.conn.Close()
}
