// Package tokens signs, verifies and decodes identity tokens: compact HS256
// JWTs that bind an account's email and user id to an expiry and to the
// refresh token they were minted from.
//
// Verify checks structure, algorithm and signature only. Expiry is data:
// callers that gate access must check Claims.Expired after Verify succeeds.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity token payload.
type Claims struct {
	Email        string `json:"email"`
	UserID       string `json:"user_id"`
	RefreshToken string `json:"refresh_token"`
	jwt.RegisteredClaims
}

// NewClaims builds claims expiring at exp (whole seconds).
func NewClaims(email, userID, refreshToken string, exp time.Time) Claims {
	return Claims{
		Email:        email,
		UserID:       userID,
		RefreshToken: refreshToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

// Expiration returns now plus ttl, both counted in whole seconds since epoch.
func Expiration(now time.Time, ttl time.Duration) time.Time {
	return time.Unix(now.Unix()+int64(ttl/time.Second), 0)
}

// Expired reports whether exp <= now. Claims without exp count as expired.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.Unix() <= now.Unix()
}

// ExpiresIn is exp - now in seconds; negative once expired.
func (c *Claims) ExpiresIn(now time.Time) int64 {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix() - now.Unix()
}

// Codec holds the process-wide signing secret.
type Codec struct {
	secret []byte
	parser *jwt.Parser
}

func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token codec: empty signing secret")
	}
	return &Codec{
		secret: secret,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Sign encodes claims and appends an HMAC-SHA256 signature.
func (c *Codec) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	s, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Verify returns the claims when the token is well formed and carries a
// valid HS256 signature. It fails with common.ErrMalformed or
// common.ErrInvalidSignature; it never fails because of exp.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := c.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, fmt.Errorf("%w: %v", common.ErrMalformed, err)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidSignature, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidSignature
	}

	return claims, nil
}

// Decode reads the claims without checking the signature. It needs no
// secret, so clients holding only the token can display it. Never use the
// result for an access decision.
func Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformed, err)
	}
	return claims, nil
}
