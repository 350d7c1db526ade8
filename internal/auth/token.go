package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the JWT claims carried by a session token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenCodec mints and verifies signed session tokens. Tokens are
// self-contained: verification needs only the shared secret, never a
// session store.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a codec signing with the given secret. Tokens
// expire ttl after issuance.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Mint creates a signed token identifying userID.
func (c *TokenCodec) Mint(userID string) (string, error) {
	issued := c.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify returns the user ID a token identifies, or "" if the token is
// missing, tampered with, or expired. It never errors and has no side
// effects; it runs on every request, authenticated or not.
func (c *TokenCodec) Verify(tokenStr string) string {
	if tokenStr == "" {
		return ""
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil || !token.Valid {
		return ""
	}
	return claims.UserID
}
