package service

import "golang.org/x/crypto/bcrypt"

// BcryptHasher implements ports.PasswordHasher on top of bcrypt. Each Hash
// call draws a fresh random salt, so identical passwords produce different
// blobs.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost; values below
// bcrypt.MinCost fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches the stored hash. A malformed hash
// is a mismatch, not an error.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
