package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

// TokenTTL is the fixed lifetime of every minted session token.
const TokenTTL = 24 * time.Hour

// Claims is the session token payload: sub (email), user_temp_id (public
// identifier) and exp.
type Claims struct {
	UserTempID string `json:"user_temp_id"`
	jwt.RegisteredClaims
}

// PublicID parses the user_temp_id claim.
func (c *Claims) PublicID() (uuid.UUID, error) {
	return uuid.Parse(c.UserTempID)
}

// TokenCodec mints and validates HS256 session tokens. The secret is fixed
// at construction and never changes afterwards.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenCodec builds a codec keyed by secret.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	return newTokenCodec(secret, time.Now)
}

// NewTokenCodecWithClock builds a codec that reads time from now for both
// minting and expiry checks.
func NewTokenCodecWithClock(secret string, now func() time.Time) (*TokenCodec, error) {
	return newTokenCodec(secret, now)
}

func newTokenCodec(secret string, now func() time.Time) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("auth: token secret must not be empty")
	}
	if now == nil {
		now = time.Now
	}
	return &TokenCodec{
		secret: []byte(secret),
		now:    now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(now),
			jwt.WithLeeway(0),
		),
	}, nil
}

// Mint signs a token for u expiring TokenTTL from now.
func (c *TokenCodec) Mint(u *User) (string, error) {
	if u == nil {
		return "", errors.New("auth: mint token: nil user")
	}
	claims := Claims{
		UserTempID: u.PublicID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			ExpiresAt: jwt.NewNumericDate(c.now().Add(TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature and expiry. Every failure wraps
// shared.ErrUnauthorized; expiry has no grace window.
func (c *TokenCodec) Validate(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", shared.ErrUnauthorized)
	}
	claims := &Claims{}
	parsed, err := c.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", shared.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: invalid token", shared.ErrUnauthorized)
	}
	if _, err := claims.PublicID(); err != nil {
		return nil, fmt.Errorf("%w: invalid token", shared.ErrUnauthorized)
	}
	return claims, nil
}
