package services

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/moodmix/internal/shared"
	"golang.org/x/oauth2"
)

var testCreds = shared.SpotifyConfig{ClientID: "test_client_id", ClientSecret: "test_client_secret"}

func TestClientCredentials(t *testing.T) {
	t.Run("Missing Credentials", func(t *testing.T) {
		_, err := NewClientCredentials(shared.SpotifyConfig{ClientID: "id"}, "", nil, nil)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Sends Basic Auth And Form Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			want := "Basic " + base64.StdEncoding.EncodeToString([]byte("test_client_id:test_client_secret"))
			if got := r.Header.Get("Authorization"); got != want {
				t.Errorf("Authorization = %q, want %q", got, want)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
				t.Errorf("Content-Type = %q", ct)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != "grant_type=client_credentials" {
				t.Errorf("body = %q", body)
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"abc","token_type":"Bearer","expires_in":3600}`))
		}))
		defer server.Close()

		provider, err := NewClientCredentials(testCreds, server.URL, server.Client(), nil)
		if err != nil {
			t.Fatalf("failed to create provider: %v", err)
		}

		token, err := provider.AcquireToken(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "abc" {
			t.Errorf("expected token 'abc', got %s", token)
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_client"}`))
		}))
		defer server.Close()

		provider, _ := NewClientCredentials(testCreds, server.URL, server.Client(), nil)
		token, err := provider.AcquireToken(context.Background())
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
		if token != "" {
			t.Errorf("expected empty token on failure, got %q", token)
		}
	})

	t.Run("Missing Access Token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"token_type":"Bearer"}`))
		}))
		defer server.Close()

		provider, _ := NewClientCredentials(testCreds, server.URL, server.Client(), nil)
		if _, err := provider.AcquireToken(context.Background()); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("No Caching Across Calls", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"abc","expires_in":3600}`))
		}))
		defer server.Close()

		provider, _ := NewClientCredentials(testCreds, server.URL, server.Client(), nil)
		for range 2 {
			if _, err := provider.AcquireToken(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if calls.Load() != 2 {
			t.Errorf("expected 2 token requests, got %d", calls.Load())
		}
	})
}

type stubFetcher struct {
	tokens []*oauth2.Token
	err    error
	calls  int
}

func (s *stubFetcher) Token(context.Context) (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	tok := s.tokens[min(s.calls, len(s.tokens)-1)]
	s.calls++
	return tok, nil
}

func TestCachedToken(t *testing.T) {
	t.Run("Reuses Valid Token", func(t *testing.T) {
		src := &stubFetcher{tokens: []*oauth2.Token{{AccessToken: "one", Expiry: time.Now().Add(time.Hour)}}}
		cached := NewCachedToken(src)

		for range 3 {
			tok, err := cached.AcquireToken(context.Background())
			if err != nil || tok != "one" {
				t.Fatalf("AcquireToken() = %q, %v", tok, err)
			}
		}
		if src.calls != 1 {
			t.Errorf("expected 1 upstream fetch, got %d", src.calls)
		}
	})

	t.Run("Refreshes Expired Token", func(t *testing.T) {
		src := &stubFetcher{tokens: []*oauth2.Token{
			{AccessToken: "old", Expiry: time.Now().Add(-time.Minute)},
			{AccessToken: "new", Expiry: time.Now().Add(time.Hour)},
		}}
		cached := NewCachedToken(src)

		cached.AcquireToken(context.Background())
		tok, err := cached.AcquireToken(context.Background())
		if err != nil || tok != "new" {
			t.Errorf("AcquireToken() = %q, %v; want new", tok, err)
		}
	})

	t.Run("Propagates Errors", func(t *testing.T) {
		cached := NewCachedToken(&stubFetcher{err: shared.ErrAuthFailed})
		if _, err := cached.AcquireToken(context.Background()); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}
