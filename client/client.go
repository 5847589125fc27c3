package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BaSui01/nodeflow/config"
	"github.com/BaSui01/nodeflow/types"
)

// Client talks to any OpenAI-compatible API endpoint.
//
// Works with OpenAI, Venice.ai, OpenRouter, Together.ai, local Ollama, and
// anything else that follows the OpenAI request format. The endpoint
// configuration is fixed at construction; one Client maps to one base URL
// and one API key.
type Client struct {
	cfg     config.EndpointConfig
	client  *http.Client
	logger  *zap.Logger
	retry   *retryer
	limiter *rate.Limiter
	metrics Recorder
}

// Recorder receives client-side request metrics. A nil Recorder disables
// metric collection.
type Recorder interface {
	RecordUpstreamRequest(method, endpoint string, status int, duration time.Duration)
	RecordUpstreamRetry(endpoint string)
}

// Option configures optional Client behavior.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (mainly for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(rec Recorder) Option {
	return func(c *Client) { c.metrics = rec }
}

// WithRetryPolicy overrides the retry policy derived from the endpoint config.
func WithRetryPolicy(p *Policy) Option {
	return func(c *Client) { c.retry = newRetryer(p, c.logger) }
}

// New creates a client for the given endpoint configuration.
func New(cfg config.EndpointConfig, logger *zap.Logger, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(zap.String("component", "api_client")),
	}
	c.retry = newRetryer(&Policy{MaxRetries: cfg.MaxRetries, Delay: cfg.RetryDelay}, c.logger)
	if cfg.RateLimitRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL (trailing slash stripped).
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

func (c *Client) buildHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
}

// Request issues an HTTP request against the endpoint and decodes the JSON
// response. Transport failures and 5xx responses are retried per the retry
// policy; any status in [400,500) is terminal on the first occurrence.
func (c *Client) Request(ctx context.Context, method, endpoint string, body map[string]any) (map[string]any, error) {
	url := c.cfg.BaseURL + "/" + strings.TrimLeft(endpoint, "/")

	attempts := 0
	result, err := c.retry.doWithResult(ctx, func() (any, error) {
		attempts++
		if attempts > 1 && c.metrics != nil {
			c.metrics.RecordUpstreamRetry(endpoint)
		}
		return c.doJSON(ctx, method, url, endpoint, body)
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]any), nil
}

// doJSON performs a single attempt.
func (c *Client) doJSON(ctx context.Context, method, url, endpoint string, body map[string]any) (map[string]any, error) {
	data, status, err := c.do(ctx, method, url, endpoint, body)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, types.NewError(types.ErrUpstreamError, "invalid JSON in response").
			WithCause(err).
			WithHTTPStatus(status).
			WithRetryable(true).
			WithEndpoint(endpoint)
	}
	return out, nil
}

// do performs one HTTP round trip and returns the raw body.
func (c *Client) do(ctx context.Context, method, url, endpoint string, body map[string]any) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, types.NewError(types.ErrInvalidRequest, "failed to encode request body").WithCause(err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, types.NewError(types.ErrInvalidRequest, "failed to create request").WithCause(err)
	}
	c.buildHeaders(httpReq)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	latency := time.Since(start)

	if err != nil {
		return nil, 0, transportError(err, endpoint)
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.RecordUpstreamRequest(method, endpoint, resp.StatusCode, latency)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, types.NewError(types.ErrUpstreamError, "failed to read response body").
			WithCause(err).
			WithRetryable(true).
			WithEndpoint(endpoint)
	}

	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, mapStatusError(resp.StatusCode, readErrMsg(data), endpoint)
	}

	return data, resp.StatusCode, nil
}

// transportError classifies a transport-level failure. Both timeouts and
// connection errors are transient, so they carry Retryable=true.
func transportError(err error, endpoint string) *types.Error {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return types.NewError(types.ErrTimeout, "request timed out").
			WithCause(err).
			WithRetryable(true).
			WithEndpoint(endpoint)
	}
	return types.NewError(types.ErrUpstreamError, "connection failed").
		WithCause(err).
		WithRetryable(true).
		WithEndpoint(endpoint)
}

// mapStatusError maps an HTTP error status to a structured error.
// Every 4xx is terminal: those reflect a malformed request. Only >= 500
// is marked retryable.
func mapStatusError(status int, msg string, endpoint string) *types.Error {
	var code types.ErrorCode
	switch status {
	case http.StatusUnauthorized:
		code = types.ErrUnauthorized
	case http.StatusForbidden:
		code = types.ErrForbidden
	case http.StatusNotFound:
		code = types.ErrModelNotFound
	case http.StatusTooManyRequests:
		code = types.ErrRateLimited
	case http.StatusBadRequest:
		if strings.Contains(strings.ToLower(msg), "quota") ||
			strings.Contains(strings.ToLower(msg), "credit") {
			code = types.ErrQuotaExceeded
		} else {
			code = types.ErrInvalidRequest
		}
	default:
		if status >= 500 {
			code = types.ErrUpstreamError
		} else {
			code = types.ErrInvalidRequest
		}
	}

	return types.NewError(code, fmt.Sprintf("API error %d: %s", status, msg)).
		WithHTTPStatus(status).
		WithRetryable(status >= 500).
		WithEndpoint(endpoint)
}

type apiErrorResp struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// readErrMsg extracts the error message from an OpenAI-style error body,
// falling back to the raw text.
func readErrMsg(data []byte) string {
	var errResp apiErrorResp
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return string(data)
}
