package repository

import "time"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithMaxOpenConns caps the pool's open connections.
func WithMaxOpenConns(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxOpen = n
		}
	}
}

// WithMaxIdleConns caps the pool's idle connections.
func WithMaxIdleConns(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.maxIdle = n
		}
	}
}

// WithConnMaxLifetime recycles pooled connections after d.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.maxLifetime = d
		}
	}
}
