// Package generator talks to the remote card generation API.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Veraticus/ccgen/internal/common"
	"github.com/Veraticus/ccgen/internal/model"
	"github.com/Veraticus/ccgen/internal/service"
)

// Defaults for the public generation endpoint.
const (
	DefaultBaseURL = "https://cc-gen-lime.vercel.app/generate"
	DefaultTimeout = 10 * time.Second
)

// User-facing messages for each failure class.
const (
	msgInvalidBIN    = "Please enter a valid BIN."
	msgServerBusy    = "Server is busy. Please try again later."
	msgRequestFailed = "Request failed. Please check inputs and try again."
	msgTimeout       = "Request timeout. Please try again."
	msgUnreachable   = "Cannot connect to API. Please check your internet connection."
	msgBadResponse   = "The API returned an unreadable response."
)

// Client implements service.Generator over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	retry      service.RetryOptions
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the generation endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRetries sets how many attempts are made when the server is busy.
func WithRetries(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.retry.MaxAttempts = attempts
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a generation API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		retry: service.RetryOptions{
			MaxAttempts:  1,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate requests params.Limit cards from the API.
func (c *Client) Generate(ctx context.Context, params service.GenerateParams) ([]model.Record, error) {
	endpoint, err := c.buildURL(params)
	if err != nil {
		return nil, err
	}

	var cards []model.Record
	err = common.WithRetry(ctx, func() error {
		var fetchErr error
		cards, fetchErr = c.fetch(ctx, endpoint)
		return fetchErr
	}, c.retry)
	if err != nil {
		return nil, err
	}

	return cards, nil
}

func (c *Client) buildURL(params service.GenerateParams) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: base URL %q: %w", common.ErrInvalidConfig, c.baseURL, err)
	}

	q := u.Query()
	q.Set("bin", params.BIN)
	q.Set("limit", strconv.Itoa(params.Limit))
	q.Set("format", params.Format)
	setIfPresent(q, "month", params.Month)
	setIfPresent(q, "year", shortYear(params.Year))
	setIfPresent(q, "cvv", params.CVV)
	setIfPresent(q, "currency", params.Currency)
	setIfPresent(q, "balance", params.Balance)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]model.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, notRetryable(msgRequestFailed, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("Requesting generated cards", "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Debug("Generation API returned error status",
			"status", resp.StatusCode,
			"body", string(body))
		return nil, statusError(resp.StatusCode)
	}

	var payload model.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, notRetryable(msgTimeout, common.ErrRequestTimeout)
		}
		return nil, notRetryable(msgBadResponse, fmt.Errorf("%w: %w", common.ErrBadResponse, err))
	}

	slog.Debug("Received generated cards", "count", len(payload.Cards))
	return payload.Cards, nil
}

func statusError(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return notRetryable(msgInvalidBIN, fmt.Errorf("%w: status %d", common.ErrInvalidBIN, status))
	case status == http.StatusTooManyRequests:
		return &common.RetryableError{
			Err:       common.NewUserError(msgServerBusy, fmt.Errorf("%w: status %d", common.ErrRateLimit, status)),
			Retryable: true,
		}
	case status >= 500:
		return &common.RetryableError{
			Err:       common.NewUserError(msgServerBusy, fmt.Errorf("%w: status %d", common.ErrServerBusy, status)),
			Retryable: true,
		}
	default:
		return notRetryable(msgRequestFailed, fmt.Errorf("%w: status %d", common.ErrRequestFailed, status))
	}
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return notRetryable("Request canceled.", err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return notRetryable(msgTimeout, fmt.Errorf("%w: %w", common.ErrRequestTimeout, err))
	}

	return notRetryable(msgUnreachable, fmt.Errorf("%w: %w", common.ErrUnreachable, err))
}

func notRetryable(message string, err error) error {
	return &common.RetryableError{Err: common.NewUserError(message, err), Retryable: false}
}

func setIfPresent(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// shortYear keeps the last two digits; the API expects "28" for 2028.
func shortYear(year string) string {
	if len(year) <= 2 {
		return year
	}
	return year[len(year)-2:]
}
