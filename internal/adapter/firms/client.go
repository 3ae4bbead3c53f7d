package firms

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Client fetches raw fire-detection payloads from a FIRMS-style provider.
// Each request is a single attempt; the circuit breaker fails fast while the
// provider is unhealthy but never retries.
type Client struct {
	mapKey     string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates a provider client. timeout bounds each request.
func NewClient(mapKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "firms",
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		mapKey:     mapKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		logger:     logger,
	}
}

// AreaCSV fetches the tabular payload for one satellite product over the
// given area and day-count.
func (c *Client) AreaCSV(ctx context.Context, source, area string, days int) (string, error) {
	url := fmt.Sprintf("%s/api/area/csv/%s/%s/%s/%d", c.baseURL, c.mapKey, source, area, days)
	body, err := c.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("area csv %s: %w", source, err)
	}
	return string(body), nil
}

// QueryCSV fetches the query-service tabular variant for a bounding box.
func (c *Client) QueryCSV(ctx context.Context, area string) (string, error) {
	url := fmt.Sprintf("%s/api/query/csv/%s/%s", c.baseURL, c.mapKey, area)
	body, err := c.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("query csv: %w", err)
	}
	return string(body), nil
}

// ArchivedKML fetches a compressed markup payload and returns the decoded
// text of the KML entry inside it.
func (c *Client) ArchivedKML(ctx context.Context, name string) (string, error) {
	url := c.baseURL + "/" + strings.TrimPrefix(name, "/")
	body, err := c.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("archived kml %s: %w", name, err)
	}
	doc, err := ExtractKML(body)
	if err != nil {
		return "", fmt.Errorf("archived kml %s: %w", name, err)
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			// Drain a little of the body for the error message; provider
			// errors are short plain-text lines.
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
			return nil, fmt.Errorf("provider status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}
