// Package config defines service configuration structures and loading hooks.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Table backends.
const (
	BackendSheets = "sheets"
	BackendXLSX   = "xlsx"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the text or json handler.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// AllowedOrigins is a comma-separated CORS allow-list; "*" allows any.
	AllowedOrigins string `koanf:"allowed_origins"`

	// EmailDomain turns owner initials into account emails.
	EmailDomain string `koanf:"email_domain"`

	// TableBackend is "sheets" for Google Sheets or "xlsx" for local workbooks.
	TableBackend          string `koanf:"table_backend"`
	CredentialsFile       string `koanf:"credentials_file"`
	SourcingSpreadsheetID string `koanf:"sourcing_spreadsheet_id"`
	QASpreadsheetID       string `koanf:"qa_spreadsheet_id"`
	SourcingXLSXPath      string `koanf:"sourcing_xlsx_path"`
	QAXLSXPath            string `koanf:"qa_xlsx_path"`

	PeopleSheet  string `koanf:"people_sheet"`
	CompanySheet string `koanf:"company_sheet"`
	QASheet      string `koanf:"qa_sheet"`
	// HeaderRows is the number of leading rows that are not candidates.
	HeaderRows int `koanf:"header_rows"`

	// DatabaseDSN is the MySQL DSN of the users, jobs, stats and reviews store.
	DatabaseDSN    string `koanf:"database_dsn"`
	DBMaxOpenConns int    `koanf:"db_max_open_conns"`
	DBMaxIdleConns int    `koanf:"db_max_idle_conns"`

	// AMQPURL enables publishing candidate events; empty logs them instead.
	AMQPURL   string `koanf:"amqp_url"`
	AMQPQueue string `koanf:"amqp_queue"`
	// EventQueueSize bounds the in-memory event queue.
	EventQueueSize int `koanf:"event_queue_size"`
	// EventRelays is the number of goroutines publishing queued events.
	EventRelays int `koanf:"event_relays"`
	// EventRetries is how often a failed publish is retried before the event is dropped.
	EventRetries int `koanf:"event_retries"`
	// EventBackoff is the base delay between publish attempts, e.g. "200ms".
	EventBackoff time.Duration `koanf:"event_backoff"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		AllowedOrigins:   "*",
		EmailDomain:      "scaleup.agency",
		TableBackend:     BackendSheets,
		CredentialsFile:  "credentials.json",
		SourcingXLSXPath: "data/sourcing.xlsx",
		QAXLSXPath:       "data/qa.xlsx",
		PeopleSheet:      "List",
		CompanySheet:     "Companies",
		QASheet:          "List of candidates for QA",
		HeaderRows:       1,
		DBMaxOpenConns:   10,
		DBMaxIdleConns:   5,
		AMQPQueue:        "candidate.events",
		EventQueueSize:   1024,
		EventRelays:      1,
		EventRetries:     3,
		EventBackoff:     200 * time.Millisecond,
	}
}

// Origins splits AllowedOrigins.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.EmailDomain == "":
		return fmt.Errorf("%w: email_domain must not be empty", ErrInvalidConfig)
	case c.DatabaseDSN == "":
		return fmt.Errorf("%w: database_dsn is required", ErrInvalidConfig)
	case c.HeaderRows < 0:
		return fmt.Errorf("%w: header_rows must not be negative", ErrInvalidConfig)
	case c.EventQueueSize <= 0:
		return fmt.Errorf("%w: event_queue_size must be positive", ErrInvalidConfig)
	case c.EventRelays <= 0:
		return fmt.Errorf("%w: event_relays must be positive", ErrInvalidConfig)
	case c.EventRetries < 0:
		return fmt.Errorf("%w: event_retries must not be negative", ErrInvalidConfig)
	case c.EventBackoff <= 0:
		return fmt.Errorf("%w: event_backoff must be positive", ErrInvalidConfig)
	case c.PeopleSheet == "" || c.CompanySheet == "" || c.QASheet == "":
		return fmt.Errorf("%w: sheet names must not be empty", ErrInvalidConfig)
	}

	switch c.TableBackend {
	case BackendSheets:
		if c.CredentialsFile == "" || c.SourcingSpreadsheetID == "" || c.QASpreadsheetID == "" {
			return fmt.Errorf("%w: sheets backend needs credentials_file, sourcing_spreadsheet_id and qa_spreadsheet_id", ErrInvalidConfig)
		}
	case BackendXLSX:
		if c.SourcingXLSXPath == "" || c.QAXLSXPath == "" {
			return fmt.Errorf("%w: xlsx backend needs sourcing_xlsx_path and qa_xlsx_path", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown table_backend %q", ErrInvalidConfig, c.TableBackend)
	}
	return nil
}
