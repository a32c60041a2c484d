package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultTokenURL is Spotify's accounts token endpoint.
const DefaultTokenURL = "https://accounts.spotify.com/api/token"

// ClientCredentials exchanges the application's client id and secret for a token on every call.
type ClientCredentials struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	logger     *log.Logger
}

// NewClientCredentials creates a provider for the given credentials. An empty tokenURL uses [DefaultTokenURL].
func NewClientCredentials(creds shared.SpotifyConfig, tokenURL string, client *http.Client, logger *log.Logger) (*ClientCredentials, error) {
	if !creds.Valid() {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &ClientCredentials{
		config: &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: client,
		logger:     logger,
	}, nil
}

// Token performs the exchange and returns the full token.
func (c *ClientCredentials) Token(ctx context.Context) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.config.Token(ctx)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			c.logger.Error("token request rejected", "status", rerr.Response.StatusCode, "body", shared.Truncate(rerr.Body))
			return nil, fmt.Errorf("%w: token endpoint returned %d", shared.ErrAuthFailed, rerr.Response.StatusCode)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, ctxErr)
		}
		c.logger.Error("token request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: response missing access_token", shared.ErrAuthFailed)
	}
	return tok, nil
}

// AcquireToken implements [TokenProvider].
func (c *ClientCredentials) AcquireToken(ctx context.Context) (string, error) {
	tok, err := c.Token(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

type tokenFetcher interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// CachedToken reuses the last token until [oauth2.Token.Valid] reports it expired.
type CachedToken struct {
	mu    sync.Mutex
	src   tokenFetcher
	token *oauth2.Token
}

// NewCachedToken wraps src, usually a [ClientCredentials].
func NewCachedToken(src tokenFetcher) *CachedToken {
	return &CachedToken{src: src}
}

// AcquireToken implements [TokenProvider]. Concurrent callers share one refresh.
func (c *CachedToken) AcquireToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.Valid() {
		return c.token.AccessToken, nil
	}

	tok, err := c.src.Token(ctx)
	if err != nil {
		return "", err
	}
	c.token = tok
	return tok.AccessToken, nil
}
