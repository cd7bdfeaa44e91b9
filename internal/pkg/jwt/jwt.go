package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const defaultSecret = "pressforge-secret-change-me"

var secret = []byte(defaultSecret)

// SetSecret configures the JWT signing secret (call on startup).
func SetSecret(s string) {
	if s != "" {
		secret = []byte(s)
	}
}

// Claims is the JWT payload. Capabilities mirror the user's stored capability list
// so route guards do not need a DB round trip.
type Claims struct {
	UserID       string   `json:"uid"`
	Capabilities []string `json:"caps,omitempty"`
	Scope        string   `json:"scope,omitempty"`
	jwtlib.RegisteredClaims
}

// HasCapability reports whether the token carries the given capability.
func (c *Claims) HasCapability(capability string) bool {
	for _, cap := range c.Capabilities {
		if cap == capability {
			return true
		}
	}
	return false
}

// Sign creates a signed JWT token for the given user ID.
func Sign(userID string, capabilities []string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:       userID,
		Capabilities: capabilities,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// SignScoped creates a short-lived token bound to a scope string. Used for
// save nonces: the scope names the meta box or page the token is valid for.
func SignScoped(userID, scope string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Scope:  scope,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Parse validates a token string and returns the claims.
func Parse(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
