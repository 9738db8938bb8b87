package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/sourceqa/internal/config"
	"github.com/okian/sourceqa/internal/loadtest"
)

// Default configuration constants.
const (
	defaultCandidates = 200
	defaultPathSize   = 5
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	defaults := config.New(context.Background())
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		candidates = flag.Int("candidates", defaultCandidates, "Number of candidates to generate and source")
		owner      = flag.String("owner", "LT", "Sourcer initials")
		reviewer   = flag.String("reviewer", "QA", "QA reviewer initials")
		job        = flag.String("job", "Load Test", "Sourcing job title")
		pathSize   = flag.Int("path", defaultPathSize, "candidatesNum of the QA path request")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed       = flag.Bool("seed", false, "Write fresh xlsx workbooks before the run")
		sourcing   = flag.String("sourcing", defaults.SourcingXLSXPath, "Sourcing workbook path")
		qa         = flag.String("qa", defaults.QAXLSXPath, "QA workbook path")
		logFile    = flag.String("log", "", "Log file (default: loadtest_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	closer, err := loadtest.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &loadtest.Config{
		BaseURL:      *baseURL,
		Candidates:   *candidates,
		Owner:        *owner,
		Reviewer:     *reviewer,
		Job:          *job,
		PathSize:     *pathSize,
		Workers:      *workers,
		Timeout:      *timeout,
		Seed:         *seed,
		SourcingXLSX: *sourcing,
		QAXLSX:       *qa,
		PeopleSheet:  defaults.PeopleSheet,
		CompanySheet: defaults.CompanySheet,
		QASheet:      defaults.QASheet,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}
	if err := loadtest.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Load run failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // exitAfterDefer: cancel called above
	}
}
