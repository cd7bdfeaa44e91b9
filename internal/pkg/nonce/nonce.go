package nonce

import (
	"context"
	"time"

	"github.com/pressforge/core/internal/pkg/jwt"
	pkgredis "github.com/pressforge/core/internal/pkg/redis"
)

const defaultTTL = 12 * time.Hour

// Issuer creates and verifies scoped one-time request tokens. A nonce is a
// short-lived scoped JWT; Redis tracks consumed token IDs so a nonce cannot be
// replayed. With a nil Redis client verification falls back to scope+signature
// checks only (still bounded by the token TTL).
type Issuer struct {
	rc  *pkgredis.Client
	ttl time.Duration
}

func NewIssuer(rc *pkgredis.Client) *Issuer {
	return &Issuer{rc: rc, ttl: defaultTTL}
}

// Issue creates a nonce bound to the given scope (e.g. "metabox:product-details").
func (i *Issuer) Issue(userID, scope string) (string, error) {
	return jwt.SignScoped(userID, scope, i.ttl)
}

// Verify checks signature, expiry and scope, then consumes the nonce.
// It returns false on any failure; callers skip the save silently.
func (i *Issuer) Verify(ctx context.Context, token, scope string) bool {
	claims, err := jwt.Parse(token)
	if err != nil {
		return false
	}
	if claims.Scope != scope {
		return false
	}
	if i.rc == nil {
		return true
	}
	ok, err := i.rc.SetNX(ctx, "nonce:used:"+claims.ID, 1, i.ttl)
	if err != nil {
		// Redis being down should not lock admins out of saving.
		return true
	}
	return ok
}
