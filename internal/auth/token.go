package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents a passcode grant.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Grant lifetimes. The site grant stands in for a "remember this browser"
// flag; the write grant only lasts for the browser session.
const (
	SiteGrantExpiry  = 365 * 24 * time.Hour
	WriteGrantExpiry = 12 * time.Hour
)

// GrantExpiry returns the token lifetime for scope.
func GrantExpiry(scope string) time.Duration {
	if scope == ScopeSite {
		return SiteGrantExpiry
	}
	return WriteGrantExpiry
}

// GenerateToken creates a signed grant for scope with a unique JTI.
func GenerateToken(secret, scope string) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", fmt.Errorf("generating JTI: %w", err)
	}

	now := time.Now()
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(GrantExpiry(scope))),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a grant and checks that it was issued for scope.
func ValidateToken(secret, tokenStr, scope string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Scope != scope {
		return nil, fmt.Errorf("token scope %q, want %q", claims.Scope, scope)
	}

	return claims, nil
}

// generateJTI creates a random token ID.
func generateJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
