package middleware

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	jwksTTL         = 10 * time.Minute
	jwksMinRefresh  = 30 * time.Second
	jwksHTTPTimeout = 5 * time.Second
)

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

// jwksCache holds the identity provider's RSA signing keys by key id.
// Fetches run outside mu and are collapsed by group; after any attempt,
// successful or not, the next one waits at least jwksMinRefresh.
type jwksCache struct {
	url        string
	httpClient *http.Client
	group      singleflight.Group

	mu          sync.Mutex
	keys        map[string]*rsa.PublicKey
	fetchedAt   time.Time
	lastAttempt time.Time
	lastErr     error
}

func newJWKSCache(url string, httpClient *http.Client) *jwksCache {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: jwksHTTPTimeout}
	}
	return &jwksCache{url: url, httpClient: httpClient}
}

// key returns the public key for kid. A known key past jwksTTL is still
// served while a refresh runs in the background; an unknown kid waits for
// the shared refresh.
func (c *jwksCache) key(kid string) (*rsa.PublicKey, error) {
	c.mu.Lock()
	k, known := c.keys[kid]
	fresh := time.Since(c.fetchedAt) <= jwksTTL
	canRefresh := time.Since(c.lastAttempt) >= jwksMinRefresh
	c.mu.Unlock()

	switch {
	case known && (fresh || !canRefresh):
		return k, nil
	case known:
		c.group.DoChan("jwks", c.refresh)
		return k, nil
	}
	_, _, _ = c.group.Do("jwks", c.refresh)

	c.mu.Lock()
	defer c.mu.Unlock()
	if k, ok := c.keys[kid]; ok {
		return k, nil
	}
	if c.lastErr != nil {
		return nil, fmt.Errorf("unknown signing key %q: %w", kid, c.lastErr)
	}
	return nil, fmt.Errorf("unknown signing key %q", kid)
}

// refresh fetches the key set unless an attempt was made within
// jwksMinRefresh. Callers joining an in-flight refresh share its result.
func (c *jwksCache) refresh() (interface{}, error) {
	c.mu.Lock()
	if time.Since(c.lastAttempt) < jwksMinRefresh {
		err := c.lastErr
		c.mu.Unlock()
		return nil, err
	}
	c.lastAttempt = time.Now()
	c.mu.Unlock()

	keys, err := c.fetch()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastErr = err
		return nil, err
	}
	c.keys = keys
	c.fetchedAt = time.Now()
	c.lastErr = nil
	return nil, nil
}

func (c *jwksCache) fetch() (map[string]*rsa.PublicKey, error) {
	resp, err := c.httpClient.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("fetching jwks: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching jwks: unexpected status %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := k.rsaPublicKey()
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return nil, errors.New("jwks contains no usable RSA keys")
	}
	return keys, nil
}

func (k jwk) rsaPublicKey() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}
