package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/zosconnect/orchestrate"
	"github.com/zosconnect/orchestrate/internal/metrics"
	"github.com/zosconnect/orchestrate/pkg/log"
)

type (
	// Client issues JSON calls to upstream REST services
	Client interface {
		GetJSON(ctx context.Context, upstream, url string) (gjson.Result, error)
		PostJSON(
			ctx context.Context, upstream, url string, body any,
		) (gjson.Result, error)
	}

	// HTTPClient is a Client backed by net/http
	HTTPClient struct {
		httpClient *http.Client
		metrics    *metrics.Metrics
		userAgent  string
	}

	// UpstreamError reports a call that did not yield a usable response.
	// Status is the upstream's HTTP status, or zero when none was received
	UpstreamError struct {
		Err      error
		Upstream string
		Detail   string
		Status   int
	}

	requestIDKey struct{}
)

// RequestIDHeader carries the inbound request ID to upstream services
const RequestIDHeader = "X-Request-ID"

const maxDetailLen = 512

var (
	ErrUpstream    = errors.New("upstream unavailable")
	ErrHTTPStatus  = errors.New("upstream returned HTTP error")
	ErrInvalidJSON = errors.New("upstream returned invalid JSON")
)

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client whose calls are bounded by timeout. A zero
// timeout leaves calls bounded only by their context
func NewHTTPClient(timeout time.Duration, m *metrics.Metrics) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics:   m,
		userAgent: orchestrate.Name + "/" + orchestrate.Version,
	}
}

// WithRequestID returns a context whose upstream calls carry id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored in ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// GetJSON issues a GET to url and parses the JSON response
func (c *HTTPClient) GetJSON(
	ctx context.Context, upstream, url string,
) (gjson.Result, error) {
	return c.do(ctx, upstream, http.MethodGet, url, nil)
}

// PostJSON issues a POST of body encoded as JSON and parses the response
func (c *HTTPClient) PostJSON(
	ctx context.Context, upstream, url string, body any,
) (gjson.Result, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("marshal %s request: %w",
			upstream, err)
	}
	return c.do(ctx, upstream, http.MethodPost, url, data)
}

func (c *HTTPClient) do(
	ctx context.Context, upstream, method, url string, body []byte,
) (gjson.Result, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return gjson.Result{}, c.fail(upstream, 0, "", err, 0)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if id := RequestID(ctx); id != "" {
		httpReq.Header.Set(RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	dur := time.Since(start)

	if err != nil {
		return gjson.Result{}, c.fail(upstream, 0, "", err, dur)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, c.fail(upstream, resp.StatusCode, "", err, dur)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, c.fail(
			upstream, resp.StatusCode, truncate(respBody),
			fmt.Errorf("%w: HTTP %d", ErrHTTPStatus, resp.StatusCode), dur,
		)
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		c.metrics.ObserveUpstream(upstream, metrics.OutcomeSuccess, dur)
		return gjson.Result{}, nil
	}

	if !gjson.ValidBytes(respBody) {
		return gjson.Result{}, c.fail(
			upstream, resp.StatusCode, truncate(respBody), ErrInvalidJSON, dur,
		)
	}

	c.metrics.ObserveUpstream(upstream, metrics.OutcomeSuccess, dur)
	slog.Debug("Upstream call completed",
		log.Upstream(upstream),
		slog.String("method", method),
		slog.Int("status_code", resp.StatusCode),
		log.Duration(dur))
	return gjson.ParseBytes(respBody), nil
}

func (c *HTTPClient) fail(
	upstream string, status int, detail string, err error, dur time.Duration,
) error {
	c.metrics.ObserveUpstream(upstream, metrics.OutcomeFailed, dur)
	slog.Error("Upstream call failed",
		log.Upstream(upstream),
		slog.Int("status_code", status),
		log.Duration(dur),
		log.Error(err))
	return &UpstreamError{
		Err:      err,
		Upstream: upstream,
		Detail:   detail,
		Status:   status,
	}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrUpstream, e.Upstream, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstream, e.Err}
}

func truncate(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > maxDetailLen {
		return string(body[:maxDetailLen])
	}
	return string(body)
}
