// ABOUTME: HTTP client for the gateway's upstream services
// ABOUTME: Sends one bounded request per call and returns the fully read response

package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/2389/maze-gateway/internal/metrics"
	"github.com/2389/maze-gateway/internal/server"
)

// maxUpstreamBody bounds upstream responses. Larger bodies fail the call
// rather than being passed through truncated.
const maxUpstreamBody = 10 << 20

// Upstream is one sibling service reachable at a base URL.
type Upstream struct {
	Name    string
	BaseURL string
}

// URL joins path segments onto the upstream base URL. Segments must already
// be escaped.
func (u Upstream) URL(segments ...string) string {
	return strings.TrimSuffix(u.BaseURL, "/") + "/" + strings.Join(segments, "/")
}

// UpstreamRequest is one call to forward.
type UpstreamRequest struct {
	Method        string
	URL           string
	Body          []byte // sent with Content-Type: application/json when non-nil
	Authorization string
	RequestID     string
}

// UpstreamResponse is a completed upstream call.
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

// Client forwards requests to upstream services.
type Client struct {
	client  *http.Client
	timeout time.Duration
	maxBody int64
	logger  *slog.Logger
}

// NewClient creates a client whose calls are each bounded by timeout.
// A zero timeout leaves calls bounded only by the caller's context.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client:  &http.Client{},
		timeout: timeout,
		maxBody: maxUpstreamBody,
		logger:  logger,
	}
}

// Do sends req to upstream and reads the whole response body. Any status
// code is returned as a response; only transport failures are errors.
func (c *Client) Do(ctx context.Context, upstream Upstream, req UpstreamRequest) (*UpstreamResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		metrics.ObserveUpstream(upstream.Name, 0)
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Authorization != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}
	if req.RequestID != "" {
		httpReq.Header.Set(server.RequestIDHeader, req.RequestID)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		metrics.ObserveUpstream(upstream.Name, 0)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		metrics.ObserveUpstream(upstream.Name, 0)
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(data)) > c.maxBody {
		metrics.ObserveUpstream(upstream.Name, 0)
		return nil, fmt.Errorf("upstream response larger than %d bytes", c.maxBody)
	}

	metrics.ObserveUpstream(upstream.Name, resp.StatusCode)
	c.logger.Debug("upstream call",
		"upstream", upstream.Name,
		"method", req.Method,
		"url", req.URL,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return &UpstreamResponse{StatusCode: resp.StatusCode, Body: data}, nil
}
