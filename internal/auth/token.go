// Package auth implements the cookie session: password hashing, the signed
// access token, per-request identity resolution and the authorization gate.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenRejected covers a bad signature, an unexpected algorithm, a
	// malformed token and an elapsed expiry.
	ErrTokenRejected = errors.New("token rejected")
	// ErrNoIdentity means the token verified but carries no subject or id.
	ErrNoIdentity = errors.New("token carries no identity")
)

// Identity is the caller resolved from a valid token.
type Identity struct {
	Username string
	UserID   uint
}

// Claims is the signed payload: {sub, id, exp, iat}. An id that is not an
// unsigned integer fails to decode, so Decode treats it as a malformed token
// (ErrTokenRejected) rather than a missing identity.
type Claims struct {
	UserID *uint `json:"id,omitempty"`
	jwt.RegisteredClaims
}

type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type CodecOption func(*TokenCodec)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec creates an HS256 codec. ttl is the lifetime used by Issue.
func NewTokenCodec(secret string, ttl time.Duration, opts ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("auth: token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("auth: token ttl must be positive, got %s", ttl)
	}
	c := &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

func (c *TokenCodec) Issue(username string, userID uint) (string, error) {
	return c.IssueWithTTL(username, userID, c.ttl)
}

func (c *TokenCodec) IssueWithTTL(username string, userID uint, ttl time.Duration) (string, error) {
	now := c.now()
	id := userID
	claims := Claims{
		UserID: &id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies signature and expiry. Only a valid token carrying both
// subject and id yields an Identity.
func (c *TokenCodec) Decode(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenRejected, err)
	}
	if !token.Valid {
		return nil, ErrTokenRejected
	}

	if claims.Subject == "" || claims.UserID == nil {
		return nil, ErrNoIdentity
	}
	return &Identity{Username: claims.Subject, UserID: *claims.UserID}, nil
}
