package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/amribhatt/pega/internal/api"
	"github.com/amribhatt/pega/internal/metrics"
	"github.com/amribhatt/pega/pkg/logging"
)

// maxTokenResponseBytes bounds how much of a token response is read.
const maxTokenResponseBytes = 1 << 20

// tokenResponse is the client-credentials response body.
type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   json.Number `json:"expires_in"`
}

// refreshResult carries a refresh outcome through singleflight.
type refreshResult struct {
	token   *oauth2.Token
	failure *api.Failure
}

// Provider obtains bearer tokens with the OAuth2 client-credentials grant and
// caches them until shortly before expiry.
//
// By default concurrent callers that find the cache stale each request their
// own token; the last one stored wins. WithDeduplication(true) collapses them
// into a single request.
type Provider struct {
	tokenURL     string
	clientID     string
	clientSecret RedactedToken
	timeout      time.Duration

	httpClient *http.Client
	cache      *TokenCache
	clock      Clock
	buffer     time.Duration
	recorder   *metrics.Recorder

	dedupe bool
	group  singleflight.Group
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient sets the HTTP client used for token requests.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithClock sets the clock used for expiry checks.
func WithClock(clock Clock) Option {
	return func(p *Provider) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithTokenCache sets the cache. Tests use it to inspect stored tokens.
func WithTokenCache(cache *TokenCache) Option {
	return func(p *Provider) {
		if cache != nil {
			p.cache = cache
		}
	}
}

// WithRefreshBuffer overrides DefaultRefreshBuffer.
func WithRefreshBuffer(buffer time.Duration) Option {
	return func(p *Provider) {
		p.buffer = buffer
	}
}

// WithDeduplication enables single-flight token refresh.
func WithDeduplication(enabled bool) Option {
	return func(p *Provider) {
		p.dedupe = enabled
	}
}

// WithMetrics records token requests on recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(p *Provider) {
		p.recorder = recorder
	}
}

// NewProvider creates a Provider for the given token endpoint and credentials.
// timeout bounds each token request.
func NewProvider(tokenURL, clientID, clientSecret string, timeout time.Duration, opts ...Option) *Provider {
	p := &Provider{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: NewRedactedToken(clientSecret),
		timeout:      timeout,
		httpClient:   &http.Client{},
		cache:        NewTokenCache(),
		clock:        RealClock{},
		buffer:       DefaultRefreshBuffer,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AuthHeaders returns the headers for an authenticated JSON request,
// refreshing the token first if needed.
func (p *Provider) AuthHeaders(ctx context.Context) (http.Header, *api.Failure) {
	tok, err := p.TokenSource(ctx).Token()
	if err != nil {
		var failure *api.Failure
		if !errors.As(err, &failure) {
			failure = api.WrapFailure(api.KindUnknownAuthError, err, "Authentication error: "+err.Error())
		}
		return nil, failure
	}

	h := make(http.Header)
	h.Set("Authorization", tok.Type()+" "+tok.AccessToken)
	h.Set("Content-Type", api.MediaTypeJSON)
	h.Set("Accept", api.MediaTypeJSON)
	return h, nil
}

// TokenSource returns an oauth2.TokenSource backed by the provider's cache.
// Token requests use ctx; errors are *api.Failure values.
func (p *Provider) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, provider: p}
}

type tokenSource struct {
	ctx      context.Context
	provider *Provider
}

func (s *tokenSource) Token() (*oauth2.Token, error) {
	tok, failure := s.provider.Token(s.ctx)
	if failure != nil {
		return nil, failure
	}
	return tok, nil
}

// Token returns a valid token, from the cache when possible.
func (p *Provider) Token(ctx context.Context) (*oauth2.Token, *api.Failure) {
	if tok := p.cache.Get(p.clock.Now(), p.buffer); tok != nil {
		logging.Debug("Auth", "Using cached token, expires at %s", tok.Expiry.Format(time.RFC3339))
		return tok, nil
	}

	if !p.dedupe {
		return p.refresh(ctx)
	}

	v, _, _ := p.group.Do("token", func() (interface{}, error) {
		// Another caller may have refreshed while we waited.
		if tok := p.cache.Get(p.clock.Now(), p.buffer); tok != nil {
			return refreshResult{token: tok}, nil
		}
		tok, failure := p.refresh(ctx)
		return refreshResult{token: tok, failure: failure}, nil
	})
	result := v.(refreshResult)
	return result.token, result.failure
}

// Invalidate drops the cached token, e.g. after the API rejected it.
func (p *Provider) Invalidate() {
	p.cache.Invalidate()
}

// ExpiresAt returns the cached token's expiry, or the zero time.
func (p *Provider) ExpiresAt() time.Time {
	return p.cache.ExpiresAt()
}

// tokenTTL converts expires_in to a lifetime. Only an absent value gets
// DefaultTokenTTL; zero or negative values yield a token that is already
// stale for the next caller.
func tokenTTL(expiresIn json.Number) (time.Duration, error) {
	if expiresIn == "" {
		return DefaultTokenTTL, nil
	}
	secs, err := expiresIn.Float64()
	if err != nil {
		return 0, fmt.Errorf("parse expires_in %q: %w", expiresIn, err)
	}
	if secs <= 0 {
		return 0, nil
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// refresh performs one token request and stores the result on success.
// Only the timeout ends the request; a caller that goes away does not.
func (p *Provider) refresh(ctx context.Context) (*oauth2.Token, *api.Failure) {
	if p.clientID == "" || p.clientSecret.IsEmpty() {
		return nil, p.fail(api.NewFailure(api.KindNotConfigured,
			"Authentication error: client ID or client secret is missing",
			"set PEGA_CLIENT_ID and PEGA_CLIENT_SECRET"))
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", p.clientID)
	data.Set("client_secret", p.clientSecret.Value())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, p.fail(api.WrapFailure(api.KindUnknownAuthError, err,
			"Authentication error: invalid token URL "+p.tokenURL,
			"check PEGA_BASE_URL and OAUTH2_TOKEN_URL"))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", api.MediaTypeJSON)

	logging.Debug("Auth", "Requesting token from %s for client %s", p.tokenURL, p.clientID)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, p.fail(api.FromTransportError(err, p.timeout, "Authentication error"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, p.fail(api.FromTransportError(err, p.timeout, "Authentication error"))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, p.fail(api.NewFailure(api.KindAuthenticationFailed,
			"Authentication failed: "+api.DescribeResponse(resp.StatusCode, body),
			"verify PEGA_CLIENT_ID and PEGA_CLIENT_SECRET",
			"confirm the OAuth 2.0 client registration allows the client credentials grant"))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, p.fail(api.WrapFailure(api.KindUnknownAuthError, err,
			"Authentication error: token response is not valid JSON"))
	}
	if tr.AccessToken == "" {
		return nil, p.fail(api.NewFailure(api.KindAuthenticationFailed,
			"Authentication failed: token response has no access_token"))
	}

	ttl, err := tokenTTL(tr.ExpiresIn)
	if err != nil {
		return nil, p.fail(api.WrapFailure(api.KindUnknownAuthError, err,
			"Authentication error: token response has an invalid expires_in"))
	}

	now := p.clock.Now()
	p.cache.Store(tr.AccessToken, ttl, now)

	logging.Info("Auth", "Authentication successful, token valid for %s", ttl)
	logging.Debug("Auth", "Cached token %s until %s", NewRedactedToken(tr.AccessToken).Preview(), now.Add(ttl).Format(time.RFC3339))
	logging.Audit(logging.AuditEvent{Action: "token_acquire", Outcome: "success", Target: p.tokenURL})
	p.recorder.TokenRefresh(metrics.OutcomeSuccess)

	return &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   "Bearer",
		Expiry:      now.Add(ttl),
	}, nil
}

func (p *Provider) fail(f *api.Failure) *api.Failure {
	logging.Error("Auth", f, "Token request failed")
	logging.Audit(logging.AuditEvent{
		Action:  "token_acquire",
		Outcome: "failure",
		Target:  p.tokenURL,
		Error:   string(f.Kind),
	})
	p.recorder.TokenRefresh(string(f.Kind))
	return f
}
