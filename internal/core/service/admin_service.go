package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dtplatform/auth-service/internal/core/domain"
	"github.com/dtplatform/auth-service/internal/core/ports"
)

// AdminService implements the mutating use cases on top of the identity
// repository. Business invariants (reserved admin identity, reject-not-cascade
// role deletion, idempotent assignment) live here; uniqueness and referential
// integrity live in the repository.
type AdminService struct {
	repo   ports.IdentityRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewAdminService(repo ports.IdentityRepository, hasher ports.PasswordHasher, log zerolog.Logger) *AdminService {
	return &AdminService{repo: repo, hasher: hasher, log: log}
}

func (s *AdminService) CreateUser(ctx context.Context, name, password string) (*domain.User, error) {
	if !domain.PrintableASCII(name) {
		return nil, domain.ValidationError("user_name must be non-empty printable ASCII")
	}
	if !domain.PrintableASCII(password) {
		return nil, domain.ValidationError("password must be non-empty printable ASCII")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:           domain.NewID(),
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("username", created.Name).Str("user_id", domain.HexID(created.ID)).Msg("user created")
	return created, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, found, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrUserNotFound
	}
	if user.Name == domain.AdminName {
		return domain.ErrAdminUserProtected
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("username", user.Name).Str("user_id", domain.HexID(id)).Msg("user deleted")
	return nil
}

func (s *AdminService) SearchUser(ctx context.Context, name string) (*ports.UserInfo, error) {
	if name == "" {
		return nil, domain.ValidationError("username_query must not be empty")
	}
	user, found, err := s.repo.FindUserByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return s.userInfo(ctx, user)
}

func (s *AdminService) ListUsers(ctx context.Context) ([]ports.UserInfo, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]ports.UserInfo, 0, len(users))
	for i := range users {
		info, err := s.userInfo(ctx, &users[i])
		if err != nil {
			return nil, err
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// UpdateOwnInfo changes the calling user's username and/or password. The
// current password is re-verified even though the caller already holds a
// valid token.
func (s *AdminService) UpdateOwnInfo(ctx context.Context, userID uuid.UUID, change ports.ChangeOwnInfo) (*domain.User, error) {
	if change.NewUsername == nil && change.NewPassword == nil {
		return nil, domain.ErrNoChanges
	}

	user, found, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	if !s.hasher.Verify(change.CurrentPassword, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if change.NewUsername != nil {
		name := *change.NewUsername
		if !domain.PrintableASCII(name) {
			return nil, domain.ValidationError("new_username must be non-empty printable ASCII")
		}
		if user.Name == domain.AdminName {
			return nil, domain.ErrAdminUserProtected
		}
		if name == domain.AdminName {
			return nil, domain.ErrReservedName
		}
		user.Name = name
	}
	if change.NewPassword != nil {
		password := *change.NewPassword
		if !domain.PrintableASCII(password) {
			return nil, domain.ValidationError("new_password must be non-empty printable ASCII")
		}
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", domain.HexID(user.ID)).Msg("user credentials updated")
	return user, nil
}

func (s *AdminService) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	if name == "" {
		return nil, domain.ValidationError("role_name must not be empty")
	}
	role := &domain.Role{
		ID:        domain.NewID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.repo.CreateRole(ctx, role)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("role", created.Name).Str("role_id", domain.HexID(created.ID)).Msg("role created")
	return created, nil
}

// DeleteRole rejects deletion while any user still holds the role; callers
// must remove all assignments first.
func (s *AdminService) DeleteRole(ctx context.Context, name string) error {
	role, found, err := s.repo.FindRoleByName(ctx, name)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrRoleNotFound
	}
	if role.Name == domain.AdminName {
		return domain.ErrAdminRoleProtected
	}
	if err := s.repo.DeleteRole(ctx, role.ID); err != nil {
		return err
	}
	s.log.Info().Str("role", role.Name).Msg("role deleted")
	return nil
}

func (s *AdminService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *AdminService) RoleMembers(ctx context.Context, roleName string) ([]ports.UserInfo, error) {
	role, found, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrRoleNotFound
	}
	users, err := s.repo.UsersForRole(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	members := make([]ports.UserInfo, 0, len(users))
	for i := range users {
		info, err := s.userInfo(ctx, &users[i])
		if err != nil {
			return nil, err
		}
		members = append(members, *info)
	}
	return members, nil
}

// AssignRole is idempotent: granting a role the user already holds is a
// logged no-op, not an error.
func (s *AdminService) AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	user, role, err := s.resolvePair(ctx, userID, roleName)
	if err != nil {
		return err
	}
	created, err := s.repo.AssignRole(ctx, user.ID, role.ID)
	if err != nil {
		return err
	}
	evt := s.log.Info().Str("username", user.Name).Str("role", role.Name)
	if created {
		evt.Msg("role assigned")
	} else {
		evt.Msg("role already assigned")
	}
	return nil
}

// RemoveRole fails when the user does not hold the role, and never strips
// the admin role from the admin user.
func (s *AdminService) RemoveRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	user, role, err := s.resolvePair(ctx, userID, roleName)
	if err != nil {
		return err
	}
	if user.Name == domain.AdminName && role.Name == domain.AdminName {
		return domain.ErrAdminRoleRequired
	}
	if err := s.repo.RemoveRole(ctx, user.ID, role.ID); err != nil {
		return err
	}
	s.log.Info().Str("username", user.Name).Str("role", role.Name).Msg("role removed")
	return nil
}

func (s *AdminService) resolvePair(ctx context.Context, userID uuid.UUID, roleName string) (*domain.User, *domain.Role, error) {
	user, found, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, domain.ErrUserNotFound
	}
	role, found, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, domain.ErrRoleNotFound
	}
	return user, role, nil
}

func (s *AdminService) userInfo(ctx context.Context, user *domain.User) (*ports.UserInfo, error) {
	roles, err := s.repo.RoleNamesForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.UserInfo{ID: user.ID, Name: user.Name, Roles: roles}, nil
}
