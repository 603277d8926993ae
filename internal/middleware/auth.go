package middleware

import (
	"net/http"
	"strings"

	"github.com/driveline/rental-be/internal/auth"
	"github.com/driveline/rental-be/internal/http/respond"
	"github.com/driveline/rental-be/internal/models"
)

// TokenVerifier verifies a bearer token and returns the identity it asserts.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Gate enforces a valid session token on protected path prefixes. Paths are
// compared segment-wise: prefix "/api/cars" matches "/api/cars" and
// "/api/cars/7" but not "/api/carsale". The public allow-list wins over a
// protected match, so auth endpoints stay reachable under a protected prefix.
type Gate struct {
	verifier          TokenVerifier
	cookieName        string
	protectedPrefixes []string
	publicPrefixes    []string
}

// NewGate builds an access gate. The prefix lists are fixed at startup.
func NewGate(verifier TokenVerifier, cookieName string, protected, public []string) *Gate {
	return &Gate{
		verifier:          verifier,
		cookieName:        cookieName,
		protectedPrefixes: protected,
		publicPrefixes:    public,
	}
}

// Wrap returns a handler enforcing the gate in front of next.
func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.requiresToken(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := g.extractToken(r)
		if token == "" {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		identity, err := g.verifier.Verify(token)
		if err != nil {
			// Expired, forged, malformed: all equivalent to no token.
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}

func (g *Gate) requiresToken(path string) bool {
	for _, p := range g.publicPrefixes {
		if matchesSegmentPrefix(path, p) {
			return false
		}
	}
	for _, p := range g.protectedPrefixes {
		if matchesSegmentPrefix(path, p) {
			return true
		}
	}
	return false
}

// extractToken reads the session cookie first, then the Authorization header.
// A missing scheme or empty value is treated as no token at all.
func (g *Gate) extractToken(r *http.Request) string {
	if c, err := r.Cookie(g.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// matchesSegmentPrefix reports whether path starts with prefix on a path
// segment boundary. Substring matching is deliberately avoided.
func matchesSegmentPrefix(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/'
}

// RequireRole rejects requests whose verified identity lacks the given role.
// It must run behind the Gate; a missing identity means the route was
// misconfigured as public and is treated as unauthenticated.
func RequireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if identity.Role != role {
			respond.Error(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin is RequireRole fixed to the administrator role.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin, next)
}
