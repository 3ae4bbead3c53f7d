package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/firewatch-nz/fire-data-feed/internal/domain"
)

// Client submits feature collections to the downstream situational-awareness
// feed over HTTP. Delivery guarantees beyond one POST per run are the feed's
// concern, not ours.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed submission client.
func NewClient(url, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Publish POSTs one feature collection to the feed.
func (c *Client) Publish(ctx context.Context, fc domain.FeatureCollection) error {
	payload, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("marshal feature collection: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit feature collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("feed status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	c.logger.Debug("feature collection submitted", "features", len(fc.Features))
	return nil
}
