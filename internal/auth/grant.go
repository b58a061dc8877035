package auth

import (
	"net/http"
	"strings"
)

// CookieName returns the cookie holding the grant for scope.
func CookieName(scope string) string {
	return "ocie_" + scope
}

// SetGrantCookie stores a grant token. The site grant persists across
// browser restarts; the write grant is a session cookie.
func SetGrantCookie(w http.ResponseWriter, scope, token string) {
	c := &http.Cookie{
		Name:     CookieName(scope),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if scope == ScopeSite {
		c.MaxAge = int(SiteGrantExpiry.Seconds())
	}
	http.SetCookie(w, c)
}

// ClearGrantCookie removes the grant cookie for scope.
func ClearGrantCookie(w http.ResponseWriter, scope string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(scope),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// HasGrant reports whether r carries a valid grant for scope, either as a
// cookie or as an "Authorization: Bearer" token.
func HasGrant(r *http.Request, secret, scope string) bool {
	if c, err := r.Cookie(CookieName(scope)); err == nil && c.Value != "" {
		if _, err := ValidateToken(secret, c.Value, scope); err == nil {
			return true
		}
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		if _, err := ValidateToken(secret, strings.TrimPrefix(header, "Bearer "), scope); err == nil {
			return true
		}
	}
	return false
}

// Allowed reports whether the gate lets r through: either the gate has no
// secret and is open, or r carries a grant for its scope. A write gate
// without a secret is never open.
func (g *Gate) Allowed(r *http.Request, secret string) bool {
	if !g.Enabled() && g.scope == ScopeSite {
		return true
	}
	return HasGrant(r, secret, g.scope)
}
