package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dtplatform/auth-service/internal/core/domain"
	"github.com/dtplatform/auth-service/internal/core/ports"
)

// Bootstrapper guarantees the baseline invariant before any request is
// served: a user named "admin" exists, a role named "admin" exists, and the
// admin user holds the admin role. Each step is check-then-act, so running
// it on every restart is safe.
type Bootstrapper struct {
	repo          ports.IdentityRepository
	hasher        ports.PasswordHasher
	adminPassword string
	log           zerolog.Logger
}

// NewBootstrapper uses adminPassword only when the admin user has to be
// created; an existing admin user keeps its current credentials.
func NewBootstrapper(repo ports.IdentityRepository, hasher ports.PasswordHasher, adminPassword string, log zerolog.Logger) *Bootstrapper {
	return &Bootstrapper{repo: repo, hasher: hasher, adminPassword: adminPassword, log: log}
}

func (b *Bootstrapper) Run(ctx context.Context) error {
	user, err := b.ensureAdminUser(ctx)
	if err != nil {
		return err
	}
	role, err := b.ensureAdminRole(ctx)
	if err != nil {
		return err
	}

	created, err := b.repo.AssignRole(ctx, user.ID, role.ID)
	if err != nil {
		return err
	}
	if created {
		b.log.Info().Str("username", user.Name).Str("role", role.Name).Msg("bootstrap: assigned admin role to admin user")
	} else {
		b.log.Info().Str("username", user.Name).Str("role", role.Name).Msg("bootstrap: admin user already holds admin role")
	}
	return nil
}

func (b *Bootstrapper) ensureAdminUser(ctx context.Context) (*domain.User, error) {
	user, found, err := b.repo.FindUserByName(ctx, domain.AdminName)
	if err != nil {
		return nil, err
	}
	if found {
		b.log.Info().Str("user_id", domain.HexID(user.ID)).Msg("bootstrap: admin user already exists")
		return user, nil
	}

	hash, err := b.hasher.Hash(b.adminPassword)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user, err = b.repo.CreateUser(ctx, &domain.User{
		ID:           domain.NewID(),
		Name:         domain.AdminName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	b.log.Info().Str("user_id", domain.HexID(user.ID)).Msg("bootstrap: created admin user")
	return user, nil
}

func (b *Bootstrapper) ensureAdminRole(ctx context.Context) (*domain.Role, error) {
	role, found, err := b.repo.FindRoleByName(ctx, domain.AdminName)
	if err != nil {
		return nil, err
	}
	if found {
		b.log.Info().Str("role_id", domain.HexID(role.ID)).Msg("bootstrap: admin role already exists")
		return role, nil
	}

	role, err = b.repo.CreateRole(ctx, &domain.Role{
		ID:        domain.NewID(),
		Name:      domain.AdminName,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	b.log.Info().Str("role_id", domain.HexID(role.ID)).Msg("bootstrap: created admin role")
	return role, nil
}
