// Package auth validates bearer tokens against an external issuer's
// published key set and evaluates scope grants for verb+model pairs.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"contentapi/internal/config"
)

// ErrInvalidToken covers every authentication failure: token missing,
// malformed, expired, or failing signature/issuer/audience checks. Callers
// must not leak the underlying cause to clients.
var ErrInvalidToken = errors.New("missing or invalid token")

// Identity is the authenticated caller derived from a validated token.
type Identity struct {
	Subject string
	// Permissions is the unordered scope set granted to the caller,
	// e.g. "get:person", "post:release".
	Permissions []string
}

// KeySetSource yields the issuer's current public key set.
type KeySetSource func(ctx context.Context) (jwk.Set, error)

// TokenAuthenticator validates RS256 bearer tokens: signature against the
// issuer's key set, issuer claim, audience claim, and temporal claims.
type TokenAuthenticator struct {
	keys     KeySetSource
	issuer   string
	audience string
}

// NewTokenAuthenticator builds an authenticator that fetches and caches the
// issuer's JWKS. The cache refreshes in the background for the lifetime of ctx.
func NewTokenAuthenticator(ctx context.Context, c config.AuthConfig) (*TokenAuthenticator, error) {
	if c.Domain == "" || c.Audience == "" {
		return nil, fmt.Errorf("invalid auth config: domain and audience are required")
	}

	jwksURL := c.JWKSURL()
	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, fmt.Errorf("register jwks endpoint: %w", err)
	}

	keys := func(ctx context.Context) (jwk.Set, error) {
		return cache.Get(ctx, jwksURL)
	}
	return NewTokenAuthenticatorWithKeys(c.Domain, c.Audience, keys), nil
}

// NewTokenAuthenticatorWithKeys builds an authenticator over an explicit key
// source. Used directly in tests with a static key set.
func NewTokenAuthenticatorWithKeys(issuer, audience string, keys KeySetSource) *TokenAuthenticator {
	return &TokenAuthenticator{keys: keys, issuer: issuer, audience: audience}
}

// Authenticate validates raw and returns the caller's identity. Every
// failure collapses to ErrInvalidToken; the cause is kept in the wrap chain
// for logs only.
func (a *TokenAuthenticator) Authenticate(ctx context.Context, raw string) (*Identity, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	set, err := a.keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch key set: %v", ErrInvalidToken, err)
	}

	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKeySet(rs256Only(set)),
		jwt.WithIssuer(a.issuer),
		jwt.WithAudience(a.audience),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return &Identity{
		Subject:     tok.Subject(),
		Permissions: permissionsFromToken(tok),
	}, nil
}

// rs256Only filters the key set down to keys advertising RS256, so tokens
// signed under any other algorithm never verify even if the issuer's JWKS
// carries keys for them.
func rs256Only(set jwk.Set) jwk.Set {
	out := jwk.NewSet()
	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if ok && key.Algorithm() == jwa.RS256 {
			_ = out.AddKey(key)
		}
	}
	return out
}

// permissionsFromToken reads the "permissions" claim (a string list), falling
// back to the space-separated "scope" claim.
func permissionsFromToken(tok jwt.Token) []string {
	if v, ok := tok.Get("permissions"); ok {
		switch perms := v.(type) {
		case []string:
			return perms
		case []any:
			out := make([]string, 0, len(perms))
			for _, p := range perms {
				if s, ok := p.(string); ok {
					out = append(out, s)
				}
			}
			return out
		}
	}
	if v, ok := tok.Get("scope"); ok {
		if s, ok := v.(string); ok && s != "" {
			return strings.Fields(s)
		}
	}
	return nil
}
