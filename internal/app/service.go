// Package service orchestrates the sourcing and QA flows behind the HTTP API.
package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sourceqa/internal/adapters/mq/broker"
	eventqueue "github.com/okian/sourceqa/internal/adapters/mq/queue"
	relay "github.com/okian/sourceqa/internal/adapters/mq/worker"
	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/internal/domain/sampling"
	"github.com/okian/sourceqa/internal/domain/types"
	"github.com/okian/sourceqa/pkg/logger"
	"github.com/okian/sourceqa/pkg/metrics"
)

const (
	defaultEmailDomain     = "scaleup.agency"
	defaultQueueSize       = 1024
	defaultRelayCount      = 1
	defaultPublishRetries  = 3
	defaultPublishBackoff  = 200 * time.Millisecond
	defaultHeaderRows      = 1
	runtimeMetricsInterval = 15 * time.Second
	stopTimeout            = 10 * time.Second
)

// Sheet is one tab of the tabular source.
type Sheet interface {
	Read(ctx context.Context) ([][]string, error)
	WriteRow(ctx context.Context, row int, cells []model.Cell) error
}

// Store persists users, rules, stats and reviews.
type Store interface {
	UserByEmail(ctx context.Context, email string) (model.User, error)
	AdminByEmail(ctx context.Context, email string) (model.User, error)
	Jobs(ctx context.Context) ([]model.JobRule, error)
	SkillNames(ctx context.Context) ([]string, error)
	DailyStat(ctx context.Context, userID uint, day time.Time) (model.DailyStat, error)
	UpdateDailyStat(ctx context.Context, userID uint, day time.Time, fn func(model.DailyStat) (model.DailyStat, bool)) (model.DailyStat, error)
	IncreaseReviewed(ctx context.Context, userID uint, day time.Time, url string) (bool, error)
	UpsertReview(ctx context.Context, reviewer model.User, rv model.Review) (model.Review, error)
}

// Service implements the API dependencies of the sourcing and QA extensions.
type Service struct {
	mu sync.RWMutex

	store     Store
	people    Sheet
	companies Sheet
	qa        Sheet
	publisher relay.Publisher

	emailDomain string
	headerRows  int
	queueSize   int
	relayCount  int
	retries     int
	backoff     time.Duration
	random      sampling.Source
	now         func() time.Time

	events  *eventqueue.InMemoryQueue
	relays  *relay.Pool
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the relational store.
func WithStore(st Store) Option {
	return func(s *Service) { s.store = st }
}

// WithSheets sets the people, company and QA tabs.
func WithSheets(people, companies, qa Sheet) Option {
	return func(s *Service) {
		s.people = people
		s.companies = companies
		s.qa = qa
	}
}

// WithPublisher sets where candidate events are relayed.
func WithPublisher(p relay.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithEmailDomain sets the domain appended to owner initials.
func WithEmailDomain(domain string) Option {
	return func(s *Service) {
		if domain != "" {
			s.emailDomain = domain
		}
	}
}

// WithHeaderRows sets how many leading sheet rows are headers.
func WithHeaderRows(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.headerRows = n
		}
	}
}

// WithQueueSize sets the capacity of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRelayCount sets how many relays publish events.
func WithRelayCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.relayCount = n
		}
	}
}

// WithPublishRetries sets how often a relay retries a failed publish.
func WithPublishRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// WithPublishBackoff sets the base delay between publish attempts.
func WithPublishBackoff(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.backoff = d
		}
	}
}

// WithRandom sets the source used to sample QA paths.
func WithRandom(src sampling.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.random = src
		}
	}
}

// WithClock sets the clock used to key daily records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Start must be called before events are relayed.
func New(opts ...Option) *Service {
	s := &Service{
		emailDomain: defaultEmailDomain,
		headerRows:  defaultHeaderRows,
		queueSize:   defaultQueueSize,
		relayCount:  defaultRelayCount,
		retries:     defaultPublishRetries,
		backoff:     defaultPublishBackoff,
		random:      sampling.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start launches the event relays and the runtime metrics collector.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.publisher == nil {
		s.publisher = broker.NewLogPublisher(s.logger.Named("events"))
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.events = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.relays = relay.NewPool(s.relayCount, s.events, s.publisher,
		relay.WithRetries(s.retries),
		relay.WithBackoff(s.backoff),
		relay.WithLogger(s.logger.Named("relay")),
	)
	s.relays.Start(runCtx)
	go metrics.RunRuntimeCollector(runCtx, runtimeMetricsInterval)

	s.started = true
	s.logger.Info(ctx, "service started",
		logger.Int("queue_size", s.queueSize),
		logger.Int("relays", s.relayCount),
	)
	return nil
}

// Stop drains queued events and releases the publisher.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping service...")
	if err := s.relays.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "relay shutdown", logger.Error(err))
	}
	s.cancel()
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.logger.Warn(ctx, "publisher close", logger.Error(err))
		}
	}
	s.started = false
	s.logger.Info(ctx, "service stopped")
}

// Stats reports lifecycle state for health checks.
func (s *Service) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":    s.started,
		"queue_size": s.queueSize,
		"relays":     s.relayCount,
		"retries":    s.retries,
	}
	if s.started {
		stats["queue_length"] = s.events.Len()
	}
	return stats
}

// emit enqueues an event for the relays. Events are dropped when the
// service is not started or the queue is full.
func (s *Service) emit(ctx context.Context, kind string, mode types.Mode, name, owner string, rows []int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		metrics.RecordEventDropped("not_started")
		return
	}
	e := model.CandidateEvent{
		ID:    uuid.NewString(),
		Kind:  kind,
		Mode:  string(mode),
		Name:  name,
		Owner: owner,
		Rows:  rows,
		At:    s.now().UTC(),
	}
	if !s.events.Enqueue(ctx, e) {
		s.logger.Warn(ctx, "event dropped", logger.String("kind", kind), logger.String("event_id", e.ID))
	}
}

func (s *Service) email(owner string) string {
	return model.EmailFor(owner, s.emailDomain)
}

func (s *Service) sheet(mode types.Mode) Sheet {
	if mode == types.ModeCompany {
		return s.companies
	}
	return s.people
}
