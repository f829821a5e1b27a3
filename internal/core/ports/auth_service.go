package ports

import "context"

// AuthService turns a username/password pair into a signed bearer token.
type AuthService interface {
	// Login returns domain.ErrInvalidCredentials for both an unknown
	// username and a wrong password.
	Login(ctx context.Context, username, password string) (token string, err error)
}
