package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/pkg/logger"
	"github.com/valyala/fasthttp"
)

var (
	ErrUpstreamUnavailable   = errors.New("bill check upstream unavailable")
	ErrUpstreamTimeout       = errors.New("bill check upstream timeout")
	ErrUpstreamNotConfigured = errors.New("bill check upstream url not configured")
)

// DefaultRejectMessage is reported when an upstream declines a customer
// without saying why.
const DefaultRejectMessage = "ID Pelanggan tidak ditemukan"

// RejectedError is a well-formed "no bill for this customer" answer.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return e.Message }

func Rejected(message string) error {
	if strings.TrimSpace(message) == "" {
		message = DefaultRejectMessage
	}
	return &RejectedError{Message: message}
}

func IsRejected(err error) (*RejectedError, bool) {
	var r *RejectedError
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

type Mode string

const (
	ModeScraper Mode = model.BillCheckSourceScraper
	ModeAPI     Mode = model.BillCheckSourceAPI
)

const scraperPath = "/api/pln/postpaid"

type Config struct {
	Mode            Mode
	URL             string
	APIKey          string
	Timeout         time.Duration
	MaxConns        int
	ReadBufferSize  int
	WriteBufferSize int
}

// Client asks a PLN postpaid upstream (the scraper service or a hosted
// inquiry API) for a customer's outstanding bill.
type Client struct {
	config   Config
	endpoint string
	http     *fasthttp.Client
	metrics  *ProviderMetrics
}

func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.Mode == "" {
		config.Mode = ModeScraper
	}

	c := &Client{
		config:  config,
		metrics: NewProviderMetrics(),
		http: &fasthttp.Client{
			Name:                "ppob-gateway",
			MaxConnsPerHost:     config.MaxConns,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
			ReadBufferSize:      config.ReadBufferSize,
			WriteBufferSize:     config.WriteBufferSize,
		},
	}
	c.endpoint = c.resolveEndpoint()

	logger.Info("bill check client initialized", "mode", string(config.Mode), "endpoint", c.endpoint, "timeout", config.Timeout)
	return c
}

func (c *Client) resolveEndpoint() string {
	base := strings.TrimSpace(c.config.URL)
	if base == "" {
		return ""
	}
	if c.config.Mode == ModeScraper {
		return strings.TrimRight(base, "/") + scraperPath
	}
	return base
}

func (c *Client) Name() string {
	return string(c.config.Mode)
}

// Check performs one bounded inquiry. A declined customer comes back as
// *RejectedError; transport failures wrap ErrUpstreamUnavailable or
// ErrUpstreamTimeout.
func (c *Client) Check(ctx context.Context, customerNumber string) (*model.BillCheckResult, error) {
	if c.endpoint == "" {
		return nil, ErrUpstreamNotConfigured
	}

	body, err := json.Marshal(map[string]string{"customer_number": customerNumber})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()
	status, payload, err := c.doRequest(ctx, body)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		c.metrics.RecordFailure()
		logger.Warn("bill check request failed", "mode", string(c.config.Mode), "error", err, "latency_ms", latency)
		return nil, err
	}

	var resp upstreamResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		c.metrics.RecordFailure()
		return nil, fmt.Errorf("failed to decode upstream response (status %d): %w", status, err)
	}

	if status < 200 || status >= 300 {
		// Inquiry APIs answer unknown customers with 4xx and a message.
		if status < 500 && !resp.ok() && resp.Message != "" {
			c.metrics.RecordSuccess(latency)
			return nil, Rejected(resp.Message)
		}
		c.metrics.RecordFailure()
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", status, truncate(payload, 256))
	}

	c.metrics.RecordSuccess(latency)

	if !resp.ok() {
		logger.Info("bill check declined", "customer_number", customerNumber, "message", resp.Message)
		return nil, Rejected(resp.Message)
	}

	fields, err := resp.fields()
	if err != nil {
		return nil, fmt.Errorf("failed to decode bill data: %w", err)
	}

	result := fields.normalize(customerNumber)
	result.Source = c.Name()

	logger.Info("bill check succeeded", "customer_number", customerNumber, "mode", string(c.config.Mode), "latency_ms", latency)
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, body []byte) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.Mode == ModeAPI && c.config.APIKey != "" {
		req.Header.Set("x-api-key", c.config.APIKey)
	}
	req.SetBody(body)

	if err := ctx.Err(); err != nil {
		return 0, nil, classifyTransportError(err)
	}

	deadline := time.Now().Add(c.config.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return 0, nil, classifyTransportError(err)
	}

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return resp.StatusCode(), out, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, syscall.ECONNREFUSED),
		strings.Contains(err.Error(), "connection refused"),
		strings.Contains(err.Error(), "ECONNREFUSED"),
		errors.Is(err, fasthttp.ErrNoFreeConns):
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	case errors.Is(err, fasthttp.ErrTimeout),
		errors.Is(err, fasthttp.ErrDialTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, os.ErrDeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	default:
		return fmt.Errorf("request failed: %w", err)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// GetProviderStats reports the upstream's call statistics.
func (c *Client) GetProviderStats() []ProviderStats {
	m := c.metrics
	return []ProviderStats{{
		Name:             c.Name(),
		URL:              c.endpoint,
		TotalRequests:    m.TotalRequests.Load(),
		SuccessfulReqs:   m.SuccessfulReqs.Load(),
		FailedReqs:       m.FailedReqs.Load(),
		SuccessRate:      m.SuccessRate(),
		AvgLatencyMs:     m.AvgLatencyMs(),
		P95LatencyMs:     m.P95LatencyMs(),
		LastLatencyMs:    m.LastLatencyMs.Load(),
		ConsecutiveFails: m.ConsecutiveFails.Load(),
	}}
}

// Close drops idle upstream connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
