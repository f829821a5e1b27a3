package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AdminName is the reserved name shared by the bootstrap user and the
// superuser role. The admin user can never be renamed or deleted, and any
// user holding the admin role passes every role check.
const AdminName = "admin"

// ZeroHexID is the all-zero user id stamped on responses that fail
// authentication, so failed requests never leak partial identity.
const ZeroHexID = "00000000000000000000000000000000"

// User is an authenticated actor. PasswordHash is never serialized.
type User struct {
	ID           uuid.UUID `json:"user_id"`
	Name         string    `json:"user_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role grants permissions through membership. Role names are unique and
// immutable after creation because route guards reference them by name.
type Role struct {
	ID        uuid.UUID `json:"role_id"`
	Name      string    `json:"role_name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewID returns a time-orderable UUIDv7 identifier.
func NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// HexID renders an id as 32 lowercase hex characters, the form used in
// token subjects and X-Auth-User-ID headers.
func HexID(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}

// ParseID accepts both the canonical and the 32-hex id forms.
func ParseID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// PrintableASCII reports whether s is non-empty and contains only printable
// ASCII characters. Usernames and passwords must satisfy this.
func PrintableASCII(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
