package token

import (
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/campus-trust-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// Claims is the capability-token payload. The token is the sole source of
// truth for authorization: there is no server-side session lookup. Claims
// are integrity-protected, not encrypted.
type Claims struct {
	Phone   string `json:"phone"`
	School  string `json:"school"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HMAC-SHA256 capability tokens.
type Provider struct {
	secret []byte
}

// NewProvider derives a uniform 32-byte HMAC key from the configured
// secret, so a short or low-entropy configuration string never becomes the
// signing key directly.
func NewProvider(secret string) *Provider {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("capability-token-v1"))
	_, _ = io.ReadFull(kdf, key)
	return &Provider{secret: key}
}

// Issue serializes the claims with issued-at/expiry and signs them.
func (p *Provider) Issue(phoneNum, school string, isAdmin bool, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token lifetime must be positive: %w", domain.ErrBadRequest)
	}
	now := time.Now()
	claims := Claims{
		Phone:   phoneNum,
		School:  school,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(p.secret)
}

// Verify recomputes the signature and checks expiry. Malformed, tampered and
// expired tokens all collapse to domain.ErrInvalidToken; the distinction is
// logged at Debug only, never surfaced to the caller.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		slog.Debug("capability token rejected", "err", err)
		return nil, domain.ErrInvalidToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, domain.ErrInvalidToken
	}
	// Schema check: a well-signed token with an unexpected claim shape is
	// still invalid. No field is trusted before this point.
	if claims.Phone == "" || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, domain.ErrInvalidToken
	}
	if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
