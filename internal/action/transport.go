package action

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lumenui/lumen/internal/infrastructure/config"
	"github.com/lumenui/lumen/internal/infrastructure/monitoring"
	"github.com/lumenui/lumen/internal/infrastructure/resilience"
)

// HTTPTransport is the default Transport: resty over a retrying HTTP
// client, with rate limiting and a circuit breaker in front.
type HTTPTransport struct {
	client  *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewHTTPTransport builds the default transport from configuration.
func NewHTTPTransport(cfg config.TransportConfig, logger *zap.Logger, metrics *monitoring.Metrics) *HTTPTransport {
	if logger == nil {
		logger = zap.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(timeout).
		SetHeader("User-Agent", "lumen-engine/1.0")

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)+1)
	}

	return &HTTPTransport{
		client:  client,
		limiter: limiter,
		breaker: resilience.New("action-transport", resilience.Settings{}),
		logger:  logger,
		metrics: metrics,
	}
}

// Perform executes the request and returns the parsed JSON body. Non-JSON
// bodies come back as strings; non-2xx statuses are errors.
func (t *HTTPTransport) Perform(ctx context.Context, method, url string) (any, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	if err := t.breaker.Allow(); err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := t.client.R().SetContext(ctx).Execute(method, url)
	duration := time.Since(started)

	status := "error"
	if err == nil {
		status = fmt.Sprintf("%d", resp.StatusCode())
	}
	if t.metrics != nil {
		t.metrics.RecordTransport(method, status, duration)
	}

	if err != nil {
		t.breaker.Record(false)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		t.breaker.Record(false)
		return nil, fmt.Errorf("request failed: %s", resp.Status())
	}
	t.breaker.Record(true)

	body := resp.Body()
	if len(body) == 0 {
		return nil, nil
	}
	var parsed any
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		// Not JSON; hand the raw body through.
		return string(body), nil
	}
	return parsed, nil
}
