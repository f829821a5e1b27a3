package domain

import "errors"

// Login failures are deliberately indistinguishable so responses cannot be
// used to enumerate usernames.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// Token decode failures, classified so the authorizer can report "expired"
// separately from every other defect. No exp claim is currently minted, so
// ErrTokenExpired only fires if expiry is introduced later.
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Expected-absence failures.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrAssignmentNotFound = errors.New("role not assigned to user")
)

// Invariant violations around the reserved admin identity and role lifecycle.
var (
	ErrAdminUserProtected = errors.New(`the "admin" user cannot be renamed or deleted`)
	ErrAdminRoleProtected = errors.New(`the "admin" role cannot be deleted`)
	ErrAdminRoleRequired  = errors.New(`the "admin" role cannot be removed from the "admin" user`)
	ErrReservedName       = errors.New(`the name "admin" is reserved`)
	ErrRoleInUse          = errors.New("role still has assigned users")
	ErrNoChanges          = errors.New("at least one of username or password must change")
)

// ValidationError reports a request that was rejected before any storage
// mutation (empty fields, non-ASCII input, malformed ids).
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// AlreadyExistsError is the translation of a storage uniqueness violation.
// Field names the conflicting column, e.g. "user_name".
type AlreadyExistsError struct {
	Field string
}

func (e *AlreadyExistsError) Error() string { return e.Field + " already exists" }
