package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/sourceqa/pkg/logger"
)

// Run executes the complete load run.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting sourceqa load run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("candidates", config.Candidates),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("seed", config.Seed))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate candidates and seed the workbooks
	candidates := generateCandidates(ctx, config, stats)
	if config.Seed {
		if err := SeedWorkbooks(ctx, config, candidates); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
	}

	// Step 3: Submit candidates concurrently
	submitCandidates(ctx, config, candidates, stats)

	// Step 4: Resolve links of the claimed candidates
	resolveLinks(ctx, config, candidates, stats)

	// Step 5: Request a QA path
	if err := requestPath(ctx, config, stats); err != nil {
		return fmt.Errorf("qa path request failed: %w", err)
	}

	// Step 6: Verify the workbook
	if config.Seed {
		if err := verifyWorkbook(ctx, config, candidates, stats); err != nil {
			return err
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	log.Info(ctx, "load run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	status, err := newHTTPClient(config.Timeout).Get(ctx, config.BaseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", status)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, writesPerSecond float64
	if stats.Submitted > 0 {
		successRate = float64(stats.Successful) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		writesPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("linksResolved", stats.LinksResolved),
		logger.Int("linksFailed", stats.LinksFailed),
		logger.Int("pathSize", stats.PathSize),
		logger.Int("rowsClaimed", stats.RowsClaimed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("writesPerSecond", writesPerSecond))
}
