package worker

import (
	"time"

	"github.com/okian/sourceqa/pkg/logger"
)

// Option applies a configuration option to a Relay.
type Option func(*Relay)

// WithName sets the relay name for logging.
func WithName(name string) Option {
	return func(r *Relay) {
		if name != "" {
			r.name = name
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRetries sets how many times a failed publish is retried.
func WithRetries(n int) Option {
	return func(r *Relay) {
		if n >= 0 {
			r.retries = n
		}
	}
}

// WithBackoff sets the base delay between publish attempts.
func WithBackoff(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.backoff = d
		}
	}
}
