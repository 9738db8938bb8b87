// Package worker relays queued candidate events to a publisher.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/sourceqa/internal/adapters/mq/queue"
	"github.com/okian/sourceqa/pkg/logger"
	"github.com/okian/sourceqa/pkg/metrics"
)

const (
	defaultRetries      = 3
	defaultBackoff      = 200 * time.Millisecond
	poolShutdownTimeout = 10 * time.Second
)

// Event is what relays read off the queue.
type Event = queue.Event

// Publisher delivers one event downstream.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Queue defines how relays receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Relay drains a queue into a publisher.
type Relay struct {
	queue     Queue
	publisher Publisher
	name      string
	retries   int
	backoff   time.Duration

	done chan struct{}

	logger logger.Logger
}

// NewRelay creates a relay with configuration options.
func NewRelay(q Queue, p Publisher, opts ...Option) *Relay {
	r := &Relay{
		queue:     q,
		publisher: p,
		name:      "relay",
		retries:   defaultRetries,
		backoff:   defaultBackoff,
		done:      make(chan struct{}),
		logger:    logger.Get().Named("relay"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.name != "relay" {
		r.logger = r.logger.Named(r.name)
	}
	return r
}

// Run publishes events until the queue is closed and drained or ctx ends.
func (r *Relay) Run(ctx context.Context) {
	defer close(r.done)

	events := r.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := r.deliver(ctx, e); err != nil {
				r.logger.Error(ctx, "event not delivered",
					logger.String("event_id", e.ID),
					logger.String("kind", e.Kind),
					logger.Error(err),
				)
			}
		}
	}
}

// Done is closed once Run has returned.
func (r *Relay) Done() <-chan struct{} { return r.done }

// deliver publishes e, retrying with linear backoff.
func (r *Relay) deliver(ctx context.Context, e Event) error { //nolint:gocritic // hugeParam: value semantics for channel receive
	var err error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * r.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err = r.publisher.Publish(ctx, e); err == nil {
			metrics.RecordEventPublished()
			return nil
		}
		metrics.RecordPublishError()
		r.logger.Warn(ctx, "publish failed",
			logger.String("event_id", e.ID),
			logger.Int("attempt", attempt+1),
			logger.Error(err),
		)
	}
	metrics.RecordEventDropped("publish_failed")
	metrics.RecordErrorByComponent("relay", "publish_failed")
	return fmt.Errorf("publish %s: %w", e.ID, err)
}

// Pool runs several relays over one queue.
type Pool struct {
	relays []*Relay
	queue  Queue
	logger logger.Logger
}

// NewPool creates count relays sharing q and p.
func NewPool(count int, q Queue, p Publisher, opts ...Option) *Pool {
	if count < 1 {
		count = 1
	}
	pool := &Pool{
		relays: make([]*Relay, count),
		queue:  q,
		logger: logger.Get().Named("relay-pool"),
	}
	for i := range count {
		relayOpts := append([]Option{WithName("relay-" + strconv.Itoa(i))}, opts...)
		pool.relays[i] = NewRelay(q, p, relayOpts...)
	}
	return pool
}

// Start launches every relay.
func (p *Pool) Start(ctx context.Context) {
	for _, r := range p.relays {
		go r.Run(ctx)
	}
}

// Shutdown closes the queue so relays drain the backlog, then waits.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, r := range p.relays {
		select {
		case <-r.Done():
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "relay shutdown timed out", logger.Int("relay_id", i))
		}
	}
	return nil
}
