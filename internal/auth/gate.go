package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Grant scopes. Each scope has its own gate and passcode.
const (
	ScopeSite  = "site"
	ScopeWrite = "write"
)

// Gate compares submitted passcodes against one server-held secret.
//
// The secret may be given in plain text or as a bcrypt hash. There is no
// lockout or rate limiting.
type Gate struct {
	scope  string
	secret string
}

// NewGate returns a gate for scope.
func NewGate(scope, secret string) *Gate {
	return &Gate{scope: scope, secret: secret}
}

// Scope returns the scope granted by this gate.
func (g *Gate) Scope() string { return g.scope }

// Enabled reports whether a secret is configured.
func (g *Gate) Enabled() bool { return g.secret != "" }

// Verify reports whether passcode matches the secret. A gate without a
// secret accepts nothing.
func (g *Gate) Verify(passcode string) bool {
	if g.secret == "" || passcode == "" {
		return false
	}
	if isBcryptHash(g.secret) {
		return bcrypt.CompareHashAndPassword([]byte(g.secret), []byte(passcode)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(g.secret), []byte(passcode)) == 1
}

func isBcryptHash(s string) bool {
	if len(s) != 60 {
		return false
	}
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
