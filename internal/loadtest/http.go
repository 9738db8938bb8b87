package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/sourceqa/internal/domain/model"
	"github.com/okian/sourceqa/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request and decodes a JSON body into out.
func (c *HTTPClient) Get(ctx context.Context, target string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

// Post performs a POST request with JSON body and decodes the reply into out.
func (c *HTTPClient) Post(ctx context.Context, target string, body, out any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) (int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// submitCandidates posts candidates concurrently using a worker pool.
func submitCandidates(ctx context.Context, config *Config, candidates []model.SourcedCandidate, stats *Stats) {
	log := logger.Get()
	log.Info(ctx, "submitting candidates", logger.Int("candidates", len(candidates)), logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	target := config.BaseURL + "/api"

	var submitted, successful, failed int64
	var lastReport atomic.Int64

	jobs := make(chan model.SourcedCandidate, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				if ctx.Err() != nil {
					return
				}
				ok := submitSingleCandidate(ctx, client, target, c, config.Verbose)
				atomic.AddInt64(&submitted, 1)
				if ok {
					atomic.AddInt64(&successful, 1)
				} else {
					atomic.AddInt64(&failed, 1)
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(ProgressInterval) && lastReport.CompareAndSwap(last, now) {
					log.Info(ctx, "progress",
						logger.Int("submitted", int(atomic.LoadInt64(&submitted))),
						logger.Int("total", len(candidates)),
						logger.Int("failed", int(atomic.LoadInt64(&failed))))
				}
			}
		}()
	}

	// Send candidates to workers
	go func() {
		defer close(jobs)
		for _, c := range candidates {
			select {
			case <-ctx.Done():
				return
			case jobs <- c:
			}
		}
	}()
	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Failed = int(atomic.LoadInt64(&failed))
	log.Info(ctx, "candidate submission completed",
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed))
}

// submitSingleCandidate posts one candidate and reports whether it was written.
func submitSingleCandidate(ctx context.Context, client *HTTPClient, target string, c model.SourcedCandidate, verbose bool) bool {
	var res struct {
		writeResponse
		errorResponse
	}
	status, err := client.Post(ctx, target, c, &res)
	if err != nil || status != http.StatusOK {
		if verbose {
			logger.Get().Warn(ctx, "candidate write failed",
				logger.String("name", string(c.Name)),
				logger.Int("status", status),
				logger.String("reply", res.Error),
				logger.Error(err))
		}
		return false
	}
	return true
}

// resolveLinks looks up the neighbours of a sample of the candidates.
func resolveLinks(ctx context.Context, config *Config, candidates []model.SourcedCandidate, stats *Stats) {
	client := newHTTPClient(config.Timeout)
	sample := candidates
	if len(sample) > LinkSampleSize {
		sample = sample[:LinkSampleSize]
	}
	for _, c := range sample {
		q := url.Values{
			"name":  {string(c.Name)},
			"owner": {config.Owner},
			"link":  {string(c.URL)},
			"mode":  {"people"},
		}
		var res model.LinksResult
		status, err := client.Get(ctx, config.BaseURL+"/api?"+q.Encode(), &res)
		if err != nil || status != http.StatusOK {
			stats.LinksFailed++
			continue
		}
		stats.LinksResolved++
	}
	logger.Get().Info(ctx, "links resolved",
		logger.Int("resolved", stats.LinksResolved),
		logger.Int("failed", stats.LinksFailed))
}

// requestPath asks for a QA path over the seeded job.
func requestPath(ctx context.Context, config *Config, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	q := url.Values{
		"QAOwner":        {config.Reviewer},
		"candidatesNum":  {fmt.Sprint(config.PathSize)},
		"filterRelevant": {"both"},
		"filterJob":      {config.Job},
	}
	var res struct {
		model.QAPathResult
		errorResponse
	}
	status, err := client.Get(ctx, config.BaseURL+"/api/qa-path?"+q.Encode(), &res)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("qa path failed with status %d: %s", status, res.Error)
	}
	stats.PathSize = len(res.Path)
	logger.Get().Info(ctx, "qa path received", logger.Int("size", stats.PathSize))
	return nil
}
