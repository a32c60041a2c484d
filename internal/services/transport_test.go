package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/moodmix/internal/shared"
	mtesting "github.com/desertthunder/moodmix/internal/testing"
)

func TestRetryTransport(t *testing.T) {
	t.Run("Retries 503 Then Succeeds", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte("ok"))
		}))
		defer server.Close()

		client := &http.Client{Transport: NewRetryTransport(nil, 3, time.Millisecond, 0, nil)}
		resp, err := client.Get(server.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if calls.Load() != 3 {
			t.Errorf("expected 3 attempts, got %d", calls.Load())
		}
	})

	t.Run("Returns Last Response When Exhausted", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := &http.Client{Transport: NewRetryTransport(nil, 2, time.Millisecond, 0, nil)}
		resp, err := client.Get(server.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusTooManyRequests {
			t.Errorf("expected 429, got %d", resp.StatusCode)
		}
		if calls.Load() != 2 {
			t.Errorf("expected 2 attempts, got %d", calls.Load())
		}
	})

	t.Run("Does Not Retry Client Errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := &http.Client{Transport: NewRetryTransport(nil, 3, time.Millisecond, 0, nil)}
		resp, err := client.Get(server.URL)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()

		if calls.Load() != 1 {
			t.Errorf("expected a single attempt, got %d", calls.Load())
		}
	})

	t.Run("Replays Request Body", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			if string(body) != "grant_type=client_credentials" {
				t.Errorf("attempt %d got body %q", calls.Load()+1, body)
			}
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := &http.Client{Transport: NewRetryTransport(nil, 3, time.Millisecond, 0, nil)}
		resp, err := client.Post(server.URL, "application/x-www-form-urlencoded", strings.NewReader("grant_type=client_credentials"))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()

		if calls.Load() != 2 {
			t.Errorf("expected 2 attempts, got %d", calls.Load())
		}
	})

	t.Run("Transport Errors Are Retried", func(t *testing.T) {
		rt := mtesting.NewMockRoundTripper(nil, errors.New("connection reset"))
		client := &http.Client{Transport: NewRetryTransport(rt, 3, time.Millisecond, 0, nil)}

		_, err := client.Get("http://catalog.invalid/")
		if err == nil {
			t.Fatal("expected error")
		}
		if rt.Calls() != 3 {
			t.Errorf("expected 3 attempts, got %d", rt.Calls())
		}
	})

	t.Run("Honours Context During Backoff", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		client := &http.Client{Transport: NewRetryTransport(nil, 5, time.Hour, 0, nil)}
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)

		start := time.Now()
		_, err := client.Do(req)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
		if time.Since(start) > 5*time.Second {
			t.Error("backoff ignored context cancellation")
		}
	})
}

func TestParseRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	if got := parseRetryAfter(resp); got != 0 {
		t.Errorf("expected 0 without header, got %v", got)
	}

	resp.Header.Set("Retry-After", "2")
	if got := parseRetryAfter(resp); got != 2*time.Second {
		t.Errorf("expected 2s, got %v", got)
	}

	resp.Header.Set("Retry-After", "soon")
	if got := parseRetryAfter(resp); got != 0 {
		t.Errorf("expected 0 for unparseable value, got %v", got)
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(shared.CatalogConfig{}, nil, nil)
	if client.Timeout != defaultTimeout {
		t.Errorf("expected default timeout, got %v", client.Timeout)
	}

	rt, ok := client.Transport.(*RetryTransport)
	if !ok {
		t.Fatalf("expected *RetryTransport, got %T", client.Transport)
	}
	if rt.limiter != nil {
		t.Error("rate limiting should be off when rate_limit is 0")
	}

	limited := NewHTTPClient(shared.CatalogConfig{RateLimit: 5, Timeout: time.Second}, nil, nil)
	if limited.Transport.(*RetryTransport).limiter == nil {
		t.Error("expected a limiter when rate_limit > 0")
	}
}
