// Package broker publishes candidate events to RabbitMQ or to the log.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/pkg/logger"
)

const publishTimeout = 5 * time.Second

// Sentinel kinds for broker errors.
var (
	ErrConnect = errors.New("broker connect")
	ErrPublish = errors.New("broker publish")
	ErrClosed  = errors.New("broker closed")
)

// AMQPPublisher publishes events as JSON onto a durable queue.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	closed  bool
}

// DialAMQP connects to url and declares queue.
func DialAMQP(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %w", ErrConnect, err)
	}
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare %s: %w", ErrConnect, queue, err)
	}
	return &AMQPPublisher{conn: conn, channel: ch, queue: q.Name}, nil
}

// Publish sends e as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, e model.CandidateEvent) error { //nolint:gocritic // hugeParam: matches relay interface
	msg, err := message(e)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.channel.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	return nil
}

// Close shuts the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return errors.Join(p.channel.Close(), p.conn.Close())
}

func message(e model.CandidateEvent) (amqp.Publishing, error) { //nolint:gocritic // hugeParam
	body, err := json.Marshal(e)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Type:         e.Kind,
		Timestamp:    e.At,
		Body:         body,
	}, nil
}

// LogPublisher writes events to the structured log. It stands in for the
// broker when none is configured.
type LogPublisher struct {
	log logger.Logger
}

// NewLogPublisher returns a publisher logging through l, or the global
// logger when l is nil.
func NewLogPublisher(l logger.Logger) *LogPublisher {
	if l == nil {
		l = logger.Get().Named("events")
	}
	return &LogPublisher{log: l}
}

// Publish logs e at info level.
func (p *LogPublisher) Publish(ctx context.Context, e model.CandidateEvent) error { //nolint:gocritic // hugeParam
	p.log.Info(ctx, "candidate event",
		logger.String("event_id", e.ID),
		logger.String("kind", e.Kind),
		logger.String("mode", e.Mode),
		logger.String("name", e.Name),
		logger.String("owner", e.Owner),
		logger.Ints("rows", e.Rows),
	)
	return nil
}
