package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, malformed token, expired claims. Callers must treat it exactly
// like an absent token.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the decoded, trusted content of a session token.
type Identity struct {
	UserID int64
	Role   string
}

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenManager issues and verifies signed session tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue signs a token asserting the given user ID and role for the
// configured lifetime.
func (t *TokenManager) Issue(userID int64, role string) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(t.secret)
}

// Verify checks signature, issuer, and expiry, returning the decoded identity.
// Any failure returns ErrInvalidToken; partial claims are never exposed.
func (t *TokenManager) Verify(tokenString string) (Identity, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: userID, Role: c.Role}, nil
}

// TTL returns the configured token lifetime, used to align cookie expiry.
func (t *TokenManager) TTL() time.Duration {
	return t.ttl
}
