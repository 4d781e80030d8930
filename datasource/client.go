package datasource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weather-desk/models"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
)

// Client talks to the weather/query backend over its JSON REST API.
// It implements QueryStore, WeatherProvider and ForecastSource.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	logger        *zap.SugaredLogger
	retryAttempts uint
	retryDelay    time.Duration
}

// ClientOption customizes a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *zap.SugaredLogger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithRetry retries idempotent GET requests on transport errors and 5xx responses.
// attempts counts the first try, so 1 disables retrying.
func WithRetry(attempts uint, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// NewClient creates a backend client rooted at baseURL (e.g. "http://localhost:5000")
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:        zap.NewNop().Sugar(),
		retryAttempts: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider name
func (c *Client) Name() string {
	return "backend"
}

// response is a fully read HTTP response
type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// serverStatusError marks a 5xx answer to a GET as worth another attempt
type serverStatusError struct {
	status int
}

func (e *serverStatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.status)
}

// send executes a request against the backend and reads the whole body.
// Non-OK statuses are not errors at this level, callers decide via decode.
func (c *Client) send(ctx context.Context, method, path string, params url.Values, payload interface{}) (*response, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	requestID := uuid.NewString()

	var last *response
	attempt := func() error {
		var reader io.Reader = http.NoBody
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		c.logger.Debugw("backend request", "method", method, "url", endpoint, "request_id", requestID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		last = &response{status: resp.StatusCode, body: raw}
		if method == http.MethodGet && resp.StatusCode >= http.StatusInternalServerError {
			return &serverStatusError{status: resp.StatusCode}
		}
		return nil
	}

	if method != http.MethodGet || c.retryAttempts <= 1 {
		if err := attempt(); err != nil && last == nil {
			c.logger.Warnw("backend request failed", "method", method, "url", endpoint, "request_id", requestID, "error", err)
			return nil, err
		}
		return last, nil
	}

	err := retry.Do(
		attempt,
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return ctx.Err() == nil }),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warnw("retrying backend request", "attempt", n+1, "url", endpoint, "request_id", requestID, "error", err)
		}),
	)
	if err != nil && last == nil {
		c.logger.Warnw("backend request failed", "method", method, "url", endpoint, "request_id", requestID, "error", err)
		return nil, err
	}
	// exhausted retries on 5xx still leave a response to report
	return last, nil
}

// decode turns a response into v, mapping non-OK statuses and "error" bodies to *APIError
func decode(res *response, v interface{}) error {
	trimmed := bytes.TrimSpace(res.body)

	var probe struct {
		Error string `json:"error"`
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		_ = json.Unmarshal(trimmed, &probe)
	}

	if !res.ok() {
		return &APIError{Status: res.status, Message: probe.Error}
	}
	if probe.Error != "" {
		return &APIError{Status: res.status, Message: probe.Error}
	}
	if v == nil {
		return nil
	}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrMalformed
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// placeParams encodes a place as lat/lon or q
func placeParams(place models.Place) url.Values {
	params := url.Values{}
	if place.Coords != nil {
		params.Set("lat", strconv.FormatFloat(place.Coords.Latitude, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(place.Coords.Longitude, 'f', -1, 64))
		return params
	}
	params.Set("q", place.Name)
	return params
}

// Verify that Client implements the backend interfaces
var (
	_ QueryStore      = (*Client)(nil)
	_ WeatherProvider = (*Client)(nil)
	_ ForecastSource  = (*Client)(nil)
)
