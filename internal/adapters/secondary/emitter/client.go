// Package emitter is the HTTP client the API process uses to hand events to
// the relay. Delivery is best effort: callers log failures and move on, so a
// relay outage never fails the originating write.
package emitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/loftbase/studio-backend/internal/config"
	"github.com/loftbase/studio-backend/internal/core/domain"
	"github.com/loftbase/studio-backend/internal/core/ports"
)

const apiKeyHeader = "X-Api-Key"

// Client posts events to the relay's internal emit endpoint.
type Client struct {
	httpClient *http.Client
	emitURL    string
	apiKey     string
	logger     *slog.Logger
}

var _ ports.EventEmitter = (*Client)(nil)

// NewClient creates a relay emitter client from the relay section of the
// configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Relay.EmitTimeout},
		emitURL:    cfg.Relay.URL + "/emit",
		apiKey:     cfg.Relay.APIKey,
		logger:     logger,
	}
}

// Emit posts the event to the relay. A non-2xx response is reported as an
// error; the caller decides whether that matters.
func (c *Client) Emit(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.emitURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build emit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("relay emit failed",
			"event", event.Name(),
			"error", err)
		return fmt.Errorf("post emit: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("relay rejected emit",
			"event", event.Name(),
			"status", resp.StatusCode)
		return fmt.Errorf("relay responded %d", resp.StatusCode)
	}

	return nil
}
