package oauth

import (
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// DefaultRefreshBuffer is how long before expiry a cached token stops being
// used. It absorbs clock skew and request latency.
const DefaultRefreshBuffer = 60 * time.Second

// DefaultTokenTTL applies when the token endpoint omits expires_in.
const DefaultTokenTTL = 3600 * time.Second

// TokenCache holds the single bearer token shared by all requests.
//
// The cache never evicts; a stale entry is simply reported invalid and
// overwritten by the next successful Store. The mutex protects the fields
// only, it does not serialize refreshes.
type TokenCache struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

// NewTokenCache creates an empty cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// Valid reports whether a token is present and now is before its expiry minus buffer.
func (c *TokenCache) Valid(now time.Time, buffer time.Duration) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validLocked(now, buffer)
}

func (c *TokenCache) validLocked(now time.Time, buffer time.Duration) bool {
	if c.token == nil || c.token.AccessToken == "" {
		return false
	}
	return now.Before(c.token.Expiry.Add(-buffer))
}

// Get returns a copy of the cached token if it is valid at now, or nil.
func (c *TokenCache) Get(now time.Time, buffer time.Duration) *oauth2.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.validLocked(now, buffer) {
		return nil
	}
	tok := *c.token
	return &tok
}

// Store replaces the cached token; it expires at now+ttl.
func (c *TokenCache) Store(accessToken string, ttl time.Duration, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		Expiry:      now.Add(ttl),
	}
}

// ExpiresAt returns the expiry of the cached token, or the zero time.
func (c *TokenCache) ExpiresAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil {
		return time.Time{}
	}
	return c.token.Expiry
}

// Invalidate drops the cached token so the next request re-authenticates.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = nil
}
