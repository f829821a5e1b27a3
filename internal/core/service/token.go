package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtplatform/auth-service/internal/core/domain"
)

// Issuer is the fixed iss claim on every minted token.
const Issuer = "Digital Twin Platform"

// minKeyLen is the minimum symmetric key length per HMAC algorithm: the key
// must be at least as long as the hash output.
var minKeyLen = map[string]int{
	"HS256": 32,
	"HS384": 48,
	"HS512": 64,
}

// TokenCodec mints and verifies HMAC-signed JWTs carrying iss, sub (user id
// in hex form), iat, and a unique jti. No exp claim is set: tokens do not
// self-expire and there is no revocation mechanism.
type TokenCodec struct {
	key    []byte
	method jwt.SigningMethod
}

// NewTokenCodec validates the algorithm and key length up front so a
// misconfigured service fails at startup, not on the first login.
func NewTokenCodec(key []byte, algorithm string) (*TokenCodec, error) {
	if algorithm == "" {
		algorithm = "HS256"
	}
	min, ok := minKeyLen[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if len(key) < min {
		return nil, fmt.Errorf("signing key must be at least %d bytes for %s, got %d", min, algorithm, len(key))
	}
	return &TokenCodec{key: key, method: jwt.GetSigningMethod(algorithm)}, nil
}

func (c *TokenCodec) Mint(userID uuid.UUID) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:   Issuer,
		Subject:  domain.HexID(userID),
		IssuedAt: jwt.NewNumericDate(time.Now()),
		ID:       domain.HexID(domain.NewID()),
	}
	return jwt.NewWithClaims(c.method, claims).SignedString(c.key)
}

// Decode verifies the signature and structural shape and returns the token
// subject. Failures collapse into domain.ErrTokenExpired or
// domain.ErrTokenInvalid; library errors never escape.
func (c *TokenCodec) Decode(token string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithIssuer(Issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, domain.ErrTokenExpired
		}
		return uuid.Nil, domain.ErrTokenInvalid
	}
	id, err := domain.ParseID(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}
