package pega

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/amribhatt/pega/internal/api"
	"github.com/amribhatt/pega/internal/config"
	"github.com/amribhatt/pega/internal/metrics"
	"github.com/amribhatt/pega/internal/oauth"
	"github.com/amribhatt/pega/pkg/logging"
)

// maxResponseBytes bounds how much of an API response is read.
const maxResponseBytes = 8 << 20

// Authenticator supplies request headers for the DX API.
type Authenticator interface {
	AuthHeaders(ctx context.Context) (http.Header, *api.Failure)
	// Invalidate discards the current token after the API rejects it.
	Invalidate()
}

// Client runs the case-management operations against one Pega application.
// It is safe for concurrent use.
type Client struct {
	cfg        *config.Config
	auth       Authenticator
	httpClient *http.Client
	recorder   *metrics.Recorder
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	auth       Authenticator
	httpClient *http.Client
	recorder   *metrics.Recorder
	clock      oauth.Clock
}

// WithAuthenticator replaces the OAuth provider built from the configuration.
func WithAuthenticator(auth Authenticator) Option {
	return func(o *clientOptions) { o.auth = auth }
}

// WithHTTPClient sets the HTTP client for both token and API requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = client }
}

// WithMetrics records operations and token requests on recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(o *clientOptions) { o.recorder = recorder }
}

// WithClock sets the clock used for token expiry.
func WithClock(clock oauth.Clock) Option {
	return func(o *clientOptions) { o.clock = clock }
}

// NewHTTPClient returns an HTTP client honouring the TLS verification policy.
// Timeouts are applied per request through the context.
func NewHTTPClient(verifySSL bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !verifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via VERIFY_SSL=false
	}
	return &http.Client{Transport: transport}
}

// NewClient creates a Client for cfg. Unless WithAuthenticator is given, an
// oauth.Provider is built from the configured token endpoint and credentials.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	o := &clientOptions{clock: oauth.RealClock{}}
	for _, opt := range opts {
		opt(o)
	}

	if o.httpClient == nil {
		o.httpClient = NewHTTPClient(cfg.VerifySSL)
	}
	if !cfg.VerifySSL {
		logging.Warn("Pega", "TLS certificate verification is disabled (VERIFY_SSL=false)")
	}

	if o.auth == nil {
		o.auth = oauth.NewProvider(cfg.TokenURL(), cfg.ClientID, cfg.ClientSecret, cfg.Timeout(),
			oauth.WithHTTPClient(o.httpClient),
			oauth.WithClock(o.clock),
			oauth.WithDeduplication(cfg.DedupeTokenRefresh),
			oauth.WithMetrics(o.recorder),
		)
	}

	return &Client{
		cfg:        cfg,
		auth:       o.auth,
		httpClient: o.httpClient,
		recorder:   o.recorder,
	}
}

// response is a completed API call.
type response struct {
	status  int
	body    []byte
	elapsed time.Duration
}

// call authenticates and performs one API request. errPrefix is used for
// failures that happen before a response arrives.
func (c *Client) call(ctx context.Context, method, path string, payload any, errPrefix string) (*response, *api.Failure) {
	if !c.cfg.IsConfigured() {
		return nil, api.NewFailure(api.KindNotConfigured, config.MissingConfigurationMessage,
			"run 'pega-mcp setup' to create an env file",
			"or set PEGA_BASE_URL, PEGA_CLIENT_ID, PEGA_CLIENT_SECRET and APP_ALIAS")
	}

	headers, failure := c.auth.AuthHeaders(ctx)
	if failure != nil {
		return nil, failure
	}

	// The request runs to completion or timeout even if the caller gives up.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeout())
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, api.WrapFailure(api.KindUnknownAuthError, err, prefixed(errPrefix, "cannot encode request"))
		}
		body = bytes.NewReader(data)
	}

	url := c.cfg.APIURL() + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, api.WrapFailure(api.KindUnknownAuthError, err, prefixed(errPrefix, "invalid API URL "+url),
			"check PEGA_BASE_URL and API_BASE_PATH")
	}
	req.Header = headers
	requestID := uuid.NewString()
	req.Header.Set(api.RequestIDHeader, requestID)

	logging.Debug("Pega", "%s %s (request %s)", method, url, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, api.FromTransportError(err, c.cfg.Timeout(), errPrefix)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	elapsed := time.Since(start)
	if err != nil {
		return nil, api.FromTransportError(err, c.cfg.Timeout(), errPrefix)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		logging.Warn("Pega", "API rejected the access token (request %s), it will be renewed on the next call", requestID)
		c.auth.Invalidate()
	}

	logging.Debug("Pega", "%s %s -> %d in %s", method, url, resp.StatusCode, elapsed)
	return &response{status: resp.StatusCode, body: data, elapsed: elapsed}, nil
}

// observe records the outcome of an operation.
func (c *Client) observe(op Operation, start time.Time, failure *api.Failure) {
	outcome := metrics.OutcomeSuccess
	if failure != nil {
		outcome = string(failure.Kind)
		logging.Error("Pega", failure, "Operation %s failed", op)
	}
	c.recorder.UpstreamRequest(string(op), outcome, time.Since(start))
}

func requestFailed(prefix string, resp *response) *api.Failure {
	advice := []string{"check APP_ALIAS and that the OAuth client's access group can use the application"}
	if resp.status == http.StatusUnauthorized {
		advice = []string{"the access token was rejected; the next call will authenticate again"}
	}
	return api.NewFailure(api.KindRequestFailed, prefixed(prefix, api.DescribeResponse(resp.status, resp.body)), advice...)
}

func prefixed(prefix, msg string) string {
	if prefix == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
