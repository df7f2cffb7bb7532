package sheets

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// TokenSource supplies a valid bearer token for each request. It is an
// explicit collaborator rather than a package-level cache so the client
// stays testable without network mocking.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns the same token forever. Useful for tests and
// short-lived CLI invocations with a pre-minted token.
type StaticTokenSource string

func (s StaticTokenSource) Token(context.Context) (string, error) {
	if s == "" {
		return "", eris.New("sheets: empty static token")
	}
	return string(s), nil
}

// MintFunc fetches a fresh token and its expiry time.
type MintFunc func(ctx context.Context) (token string, expiry time.Time, err error)

// CachingTokenSource caches a minted token until shortly before expiry.
type CachingTokenSource struct {
	mint MintFunc

	mu     sync.Mutex
	token  string
	expiry time.Time
	now    func() time.Time
}

// expirySlack is how long before actual expiry a cached token is treated
// as stale, to absorb clock skew and request latency.
const expirySlack = 30 * time.Second

// NewCachingTokenSource wraps a mint function with expiry-checked caching.
func NewCachingTokenSource(mint MintFunc) *CachingTokenSource {
	return &CachingTokenSource{mint: mint, now: time.Now}
}

// WithNow fixes the clock for testing.
func (c *CachingTokenSource) WithNow(now func() time.Time) *CachingTokenSource {
	c.now = now
	return c
}

func (c *CachingTokenSource) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Add(expirySlack).Before(c.expiry) {
		return c.token, nil
	}

	token, expiry, err := c.mint(ctx)
	if err != nil {
		return "", eris.Wrap(err, "sheets: mint token")
	}
	c.token = token
	c.expiry = expiry
	return token, nil
}
