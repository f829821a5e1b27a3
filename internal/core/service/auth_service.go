package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dtplatform/auth-service/internal/core/domain"
	"github.com/dtplatform/auth-service/internal/core/ports"
)

// AuthService implements login: username lookup, password verification,
// token minting. Every attempt leaves an audit log entry; passwords never do.
type AuthService struct {
	repo   ports.IdentityRepository
	hasher ports.PasswordHasher
	codec  ports.TokenCodec
	log    zerolog.Logger
}

func NewAuthService(repo ports.IdentityRepository, hasher ports.PasswordHasher, codec ports.TokenCodec, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, codec: codec, log: log}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, found, err := s.repo.FindUserByName(ctx, username)
	if err != nil {
		return "", err
	}
	// Unknown username and wrong password produce the same failure so the
	// response cannot be used to enumerate accounts.
	if !found || !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Warn().Str("username", username).Msg("login failed")
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.codec.Mint(user.ID)
	if err != nil {
		return "", err
	}

	s.log.Info().
		Str("username", user.Name).
		Str("user_id", domain.HexID(user.ID)).
		Msg("login succeeded")
	return token, nil
}
