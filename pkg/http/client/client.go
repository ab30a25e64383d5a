package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const defaultUserAgent = "WeatherWidget/1.0"

type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type Interface interface {
	Get(ctx context.Context, path string) (*Response, error)
}

type Client struct {
	rc          *resty.Client
	baseURL     string
	maxAttempts int
	userAgent   string
	GetFunc     func(ctx context.Context, path string) (*Response, error)
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	// MaxRetries is the total number of attempts per request, first one included
	MaxRetries int
	// Backoff is the minimum wait before a retry; waits grow exponentially with jitter
	Backoff   time.Duration
	UserAgent string
}

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}

	if opts.Backoff == 0 {
		opts.Backoff = 200 * time.Millisecond
	}

	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	rc := resty.New().
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(opts.Timeout).
		SetLogger(restyLogger{}).
		SetRetryCount(opts.MaxRetries - 1).
		SetRetryWaitTime(opts.Backoff).
		SetRetryMaxWaitTime(opts.Backoff * 8).
		AddRetryCondition(shouldRetry).
		AddRetryHook(func(resp *resty.Response, err error) {
			ev := log.Debug().Err(err)
			if resp != nil {
				ev = ev.Int("status", resp.StatusCode()).Int("attempt", resp.Request.Attempt)
			}
			ev.Msg("Retrying request")
		})
	if opts.BaseURL != "" {
		rc.SetBaseURL(opts.BaseURL)
	}

	return &Client{
		rc:          rc,
		baseURL:     opts.BaseURL,
		maxAttempts: opts.MaxRetries,
		userAgent:   opts.UserAgent,
	}
}

// Get fetches path, retrying transport failures, 429s and 5xx responses.
// The last response is returned as-is once retries run out so callers can
// inspect the status. Without a base URL, path must be absolute.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	if c.GetFunc != nil {
		return c.GetFunc(ctx, path)
	}

	resp, err := c.rc.R().SetContext(ctx).Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxAttempts, err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

// resty stops on its own once the request context is done
func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp != nil && retryable(resp.StatusCode())
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// restyLogger routes resty's internal messages through zerolog
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	log.Debug().Str("component", "resty").Msgf(format, v...)
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	log.Debug().Str("component", "resty").Msgf(format, v...)
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	log.Trace().Str("component", "resty").Msgf(format, v...)
}
