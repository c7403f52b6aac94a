// Package oauth manages the bearer token used to call the Pega DX API.
//
// Provider implements the OAuth2 client-credentials grant: it posts
// grant_type, client_id and client_secret as a form to the token endpoint,
// stores the returned access token in a TokenCache, and hands out
// Authorization headers until the token is within DefaultRefreshBuffer of
// expiry.
//
//	p := oauth.NewProvider(cfg.TokenURL(), cfg.ClientID, cfg.ClientSecret, cfg.Timeout(),
//	    oauth.WithHTTPClient(httpClient),
//	    oauth.WithMetrics(recorder))
//
//	headers, failure := p.AuthHeaders(ctx)
//	if failure != nil {
//	    return api.Fail(failure)
//	}
//
// # Token Lifetime
//
// A token is reused while now < expiresAt - 60s. When expires_in is missing
// from the token response, a one hour lifetime is assumed. Tokens live only in
// process memory and are never written to disk.
//
// # Concurrent Refresh
//
// Without deduplication, callers that find the cache stale at the same time
// each request a token and the last response stored wins. The tokens are
// equally valid so this only costs extra requests. WithDeduplication(true)
// routes refreshes through a singleflight.Group so one request is shared.
//
// # Secrets
//
// The client secret is held in a RedactedToken, which formats as
// "[REDACTED]" in logs and JSON.
package oauth
