// Package portal fetches the Rock Gym Pro occupancy page.
package portal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/gym-occupancy-etl/internal/observability"
)

// Client fetches the raw occupancy page over HTTP. It implements
// poller.Fetcher.
type Client struct {
	url        string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a portal page client. metrics may be nil for one-shot
// tooling that does not export metrics.
func NewClient(url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchPage retrieves the portal page body as text. Responses other than
// 200 are errors; no retry happens here, the poller owns retry policy.
func (c *Client) FetchPage(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch portal page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("portal returned status %d: %s", resp.StatusCode, snippet)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read portal page: %w", err)
	}

	if c.metrics != nil {
		c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
		c.metrics.PageBytes.Observe(float64(len(body)))
	}
	c.logger.Debug("portal page fetched", "bytes", len(body), "duration", time.Since(start))

	return string(body), nil
}
