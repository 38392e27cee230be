package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/status-im/asset-loader/metrics"
)

// IStatusHandler is an interface for handling fetch attempt statuses
type IStatusHandler interface {
	// OnRequest handles an attempt with its status result
	OnRequest(status string)
}

// Options configures the HTTP source fetcher
type Options struct {
	// ConnectionTimeout is the timeout for establishing a connection
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`
	// RequestTimeout is the total request timeout including reading the response
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// RequestsPerSecond limits attempts per host; 0 disables limiting
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	// Burst is the limiter burst size
	Burst int `yaml:"burst"`
	// LogPrefix is used in log output
	LogPrefix string `yaml:"-"`
}

// DefaultOptions returns default fetcher options
func DefaultOptions() Options {
	return Options{
		ConnectionTimeout: 10 * time.Second,
		RequestTimeout:    30 * time.Second,
		RequestsPerSecond: 0,
		Burst:             1,
		LogPrefix:         "Fetch",
	}
}

// HTTPClient performs single retrieval attempts over HTTP. Retry and
// failover decisions belong to the item state machine, not to the
// transport, so this client never retries on its own.
type HTTPClient struct {
	Client         *http.Client
	Opts           Options
	StatusHandler  IStatusHandler
	LimiterManager *RateLimiterManager
}

// NewHTTPClient creates a new single-attempt HTTP fetcher
func NewHTTPClient(opts Options, handler IStatusHandler) *HTTPClient {
	client := &http.Client{
		Timeout: opts.RequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: opts.ConnectionTimeout,
			}).DialContext,
		},
	}

	return &HTTPClient{
		Client:         client,
		Opts:           opts,
		StatusHandler:  handler,
		LimiterManager: NewRateLimiterManager(opts.RequestsPerSecond, opts.Burst),
	}
}

// SetStatusHandler sets the status handler for this client
func (c *HTTPClient) SetStatusHandler(handler IStatusHandler) {
	c.StatusHandler = handler
}

// Fetch executes one retrieval attempt for one candidate address
func (c *HTTPClient) Fetch(ctx context.Context, req Request) (Outcome, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.Address, body)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: building request for %s: %w", c.Opts.LogPrefix, req.Address, err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	// Rate limit per host before executing the attempt
	if c.LimiterManager != nil {
		if limiter := c.LimiterManager.GetLimiterForURL(httpReq.URL); limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				c.onRequest("error")
				return Outcome{}, fmt.Errorf("rate limiter wait failed: %w", err)
			}
		}
	}

	requestStart := time.Now()
	resp, err := c.Client.Do(httpReq)
	if err != nil {
		c.onRequest("error")
		metrics.RecordFetchDuration(method, "error", requestStart)
		return Outcome{}, fmt.Errorf("request failed after %.2fs: %v", time.Since(requestStart).Seconds(), err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.onRequest("error")
		metrics.RecordFetchDuration(method, "error", requestStart)
		return Outcome{}, fmt.Errorf("error reading response from %s: %v", req.Address, err)
	}

	status := "success"
	switch {
	case IsClientError(resp.StatusCode):
		status = "client_error"
	case !IsSuccess(resp.StatusCode):
		status = "error"
	}
	c.onRequest(status)
	metrics.RecordFetchDuration(method, status, requestStart)

	return Outcome{Status: resp.StatusCode, Payload: payload}, nil
}

func (c *HTTPClient) onRequest(status string) {
	if c.StatusHandler != nil {
		c.StatusHandler.OnRequest(status)
	}
}
