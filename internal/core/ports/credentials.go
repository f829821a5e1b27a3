package ports

import "github.com/google/uuid"

// PasswordHasher is the one-way credential store primitive. Hash salts every
// call, so hashing the same password twice yields different blobs. Verify
// treats a malformed stored hash as a mismatch, never as a failure.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenCodec mints and verifies signed bearer tokens. Decode returns the
// token subject (user id) on success; on failure it returns
// domain.ErrTokenExpired or domain.ErrTokenInvalid, never a raw library
// error.
type TokenCodec interface {
	Mint(userID uuid.UUID) (string, error)
	Decode(token string) (uuid.UUID, error)
}
