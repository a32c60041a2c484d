package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultMaxRetries = 3
	defaultBackoff    = 500 * time.Millisecond
	defaultTimeout    = 10 * time.Second
)

// NewHTTPClient returns the outbound client for catalog and token calls.
func NewHTTPClient(cfg shared.CatalogConfig, base http.RoundTripper, logger *log.Logger) *http.Client {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: NewRetryTransport(base, cfg.MaxRetries, cfg.RetryBackoff, cfg.RateLimit, logger),
	}
}

// RetryTransport retries idempotent failures with exponential backoff and
// waits on a rate limiter before every attempt.
type RetryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewRetryTransport wraps base. maxRetries counts total attempts. ratePerSec <= 0 disables limiting.
func NewRetryTransport(base http.RoundTripper, maxRetries int, backoff time.Duration, ratePerSec float64, logger *log.Logger) *RetryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	t := &RetryTransport{base: base, maxRetries: maxRetries, backoff: backoff, logger: logger}
	if ratePerSec > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}
	return t
}

// RoundTrip implements [http.RoundTripper]. The final attempt's response is returned as-is so callers see the status.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return t.attempt(req)
	}

	for attempt := 0; ; attempt++ {
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		r := req
		if attempt > 0 {
			r = req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("failed to reset request body: %w", err)
				}
				r.Body = body
			}
		}

		resp, err := t.base.RoundTrip(r)
		retryAfter, retry := shouldRetry(resp, err)
		if !retry || attempt == t.maxRetries-1 || ctx.Err() != nil {
			return resp, err
		}

		if err != nil {
			t.logger.Warn("retrying request", "url", req.URL.Redacted(), "attempt", attempt+1, "max", t.maxRetries, "error", err)
		} else {
			t.logger.Warn("retrying request", "url", req.URL.Redacted(), "attempt", attempt+1, "max", t.maxRetries, "status", resp.StatusCode)
			resp.Body.Close()
		}

		delay := t.backoff * time.Duration(1<<attempt)
		if retryAfter > 0 {
			delay = retryAfter
		}
		if err := sleepWithContext(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// attempt sends a request whose body cannot be replayed exactly once.
func (t *RetryTransport) attempt(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	return t.base.RoundTrip(req)
}

func shouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp == nil {
		return 0, false
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp), true
	}
	return 0, false
}

func parseRetryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(v); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
