package requester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/venturloop/auth-relay/internal/config"
	"github.com/venturloop/auth-relay/internal/logger"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second

	// maxBodySize bounds how much of an upstream response is read.
	maxBodySize = 1 << 20
)

// NewHTTPClient returns the client shared by every outbound call.
func NewHTTPClient(cfg *config.Config) *http.Client {
	timeout := cfg.HTTPClient.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// HTTPRequester executes outbound requests and reads their bodies
type HTTPRequester struct {
	client *http.Client
}

// NewHTTPRequester creates a requester over client
func NewHTTPRequester(client *http.Client) *HTTPRequester {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPRequester{client: client}
}

// PostJSON encodes payload and POSTs it to url
func (r *HTTPRequester) PostJSON(ctx context.Context, url string, payload interface{}) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return r.Do(req)
}

// Do performs req and returns the fully read response
func (r *HTTPRequester) Do(req *http.Request) (*Response, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close response body", zap.Error(closeErr))
		}
	}()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug("outbound request",
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       bodyBytes,
	}, nil
}
