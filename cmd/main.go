package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/sourceqa/internal/adapters/http/api"
	"github.com/okian/sourceqa/internal/adapters/http/swagger"
	"github.com/okian/sourceqa/internal/adapters/mq/broker"
	"github.com/okian/sourceqa/internal/adapters/mq/worker"
	repository "github.com/okian/sourceqa/internal/adapters/repository"
	"github.com/okian/sourceqa/internal/adapters/table"
	service "github.com/okian/sourceqa/internal/app"
	"github.com/okian/sourceqa/internal/config"
	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		os.Stderr.WriteString("sourceqa: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	people, companies, qa, err := openTables(ctx, cfg)
	if err != nil {
		return err
	}

	store, err := repository.Open(ctx, cfg.DatabaseDSN,
		repository.WithMaxOpenConns(cfg.DBMaxOpenConns),
		repository.WithMaxIdleConns(cfg.DBMaxIdleConns),
	)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	publisher, err := openPublisher(cfg)
	if err != nil {
		return err
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithStore(store),
		service.WithSheets(people, companies, qa),
		service.WithPublisher(publisher),
		service.WithEmailDomain(cfg.EmailDomain),
		service.WithHeaderRows(cfg.HeaderRows),
		service.WithQueueSize(cfg.EventQueueSize),
		service.WithRelayCount(cfg.EventRelays),
		service.WithPublishRetries(cfg.EventRetries),
		service.WithPublishBackoff(cfg.EventBackoff),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc, cfg),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("table_backend", cfg.TableBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newHandler registers the business API and the API reference.
func newHandler(ctx context.Context, deps api.Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(deps, api.WithAllowedOrigins(cfg.Origins())).Register(ctx, mux)
	return mux
}

// openTables returns the people, company and QA sheets of the configured
// backend.
func openTables(ctx context.Context, cfg *config.Config) (people, companies, qa table.Sheet, err error) {
	var sourcing, review table.Book
	switch cfg.TableBackend {
	case config.BackendSheets:
		client, serr := table.NewSheetsService(ctx, cfg.CredentialsFile)
		if serr != nil {
			return nil, nil, nil, serr
		}
		sourcing = table.NewSheetsBook(client, cfg.SourcingSpreadsheetID)
		review = table.NewSheetsBook(client, cfg.QASpreadsheetID)
	case config.BackendXLSX:
		sourcing = table.NewXLSXBook(cfg.SourcingXLSXPath)
		review = table.NewXLSXBook(cfg.QAXLSXPath)
	default:
		return nil, nil, nil, fmt.Errorf("%w: unknown table_backend %q", config.ErrInvalidConfig, cfg.TableBackend)
	}
	people = sourcing.Sheet(cfg.PeopleSheet, model.PeopleLayout().LastColumn)
	companies = sourcing.Sheet(cfg.CompanySheet, model.CompanyLayout().LastColumn)
	qa = review.Sheet(cfg.QASheet, model.QALayout().LastColumn)
	return people, companies, qa, nil
}

// openPublisher dials the broker when amqp_url is set and logs events
// otherwise.
func openPublisher(cfg *config.Config) (worker.Publisher, error) {
	if cfg.AMQPURL == "" {
		return broker.NewLogPublisher(nil), nil
	}
	p, err := broker.DialAMQP(cfg.AMQPURL, cfg.AMQPQueue)
	if err != nil {
		return nil, err
	}
	return p, nil
}
