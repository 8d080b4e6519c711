// Package llm wraps the external text-generation service. The service is
// opaque to the core: prompts go in, raw text comes out, and nothing here
// interprets the content.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client is the generation contract consumed by the extraction and
// analysis services.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	backoffBase = 5 * time.Second
	backoffMax  = 5 * time.Minute
)

// HTTPClient calls a generation endpoint over HTTP. Rate-limit responses
// are retried with exponential backoff; everything else fails immediately.
type HTTPClient struct {
	endpoint string
	model    string
	client   *http.Client
}

func NewHTTPClient(endpoint, model string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (c *HTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", err
	}

	attempt := 0
	for {
		text, retryable, err := c.generateOnce(ctx, body)
		if err == nil {
			return text, nil
		}
		if !retryable {
			return "", err
		}

		attempt++
		delay := Backoff(attempt)
		zap.S().Named("llm").Warnw("generation rate limited, backing off",
			"attempt", attempt, "delay", delay)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (c *HTTPClient) generateOnce(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("generation call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", true, fmt.Errorf("generation rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("generation call failed with status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, fmt.Errorf("decode generation response: %w", err)
	}
	return out.Text, false, nil
}

// Backoff returns the delay before the given retry attempt (1-based),
// doubling from the base and capped at five minutes.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := backoffBase
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= backoffMax {
			return backoffMax
		}
	}
	if delay > backoffMax {
		return backoffMax
	}
	return delay
}
