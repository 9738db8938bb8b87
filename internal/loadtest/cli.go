package loadtest

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/sourceqa/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		logFile = "loadtest_" + time.Now().Format("20060102_150405") + ".log"
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return file, nil
}

// ShowHelp prints usage information for the load tool.
func ShowHelp() {
	os.Stdout.WriteString(`sourceqa load tool
==================

Drives a running sourceqa service through the sourcing and QA endpoints.

Usage:
  go run ./cmd/loadtest [options]

Options:
  -url string          Base URL of the service (default "http://localhost:9080")
  -candidates int      Number of candidates to generate and source (default 200)
  -owner string        Sourcer initials (default "LT")
  -reviewer string     QA reviewer initials (default "QA")
  -job string          Sourcing job title (default "Load Test")
  -path int            candidatesNum of the QA path request (default 5)
  -workers int         Number of concurrent workers (default CPU cores * 2)
  -timeout duration    HTTP request timeout (default 30s)
  -seed                Write fresh xlsx workbooks before the run
  -sourcing string     Sourcing workbook path (default "data/sourcing.xlsx")
  -qa string           QA workbook path (default "data/qa.xlsx")
  -log string          Log file (default: loadtest_TIMESTAMP.log)
  -verbose             Enable verbose logging
  -help                Show this help message

Examples:
  # Seed workbooks for a service started with SOURCEQA_TABLE_BACKEND=xlsx
  go run ./cmd/loadtest -seed -candidates 500 -workers 8
`)
}
