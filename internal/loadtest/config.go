package loadtest

import (
	"time"

	"github.com/okian/sourceqa/internal/domain/model"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Candidates int           // Number of candidates to generate and source
	Owner      string        // Sourcer initials used for every write
	Reviewer   string        // QA reviewer initials used for the path request
	Job        string        // Sourcing job title
	PathSize   int           // candidatesNum of the QA path request
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout

	// Seed writes fresh workbooks before the run. The service must be
	// running with the xlsx backend on the same files.
	Seed         bool
	SourcingXLSX string
	QAXLSX       string
	PeopleSheet  string
	CompanySheet string
	QASheet      string

	LogFile string // Log file for run output
	Verbose bool   // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	Generated     int
	Submitted     int
	Successful    int
	Failed        int
	LinksResolved int
	LinksFailed   int
	PathSize      int
	RowsClaimed   int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}

// writeResponse mirrors the sourcing write payload.
type writeResponse struct {
	Res   string         `json:"res"`
	Stats *model.Summary `json:"stats"`
}

type errorResponse struct {
	Error string `json:"error"`
}
