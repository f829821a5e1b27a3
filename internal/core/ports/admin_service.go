package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtplatform/auth-service/internal/core/domain"
)

// UserInfo is the read model returned by listing and lookup operations:
// identity plus live role names, never the password hash.
type UserInfo struct {
	ID    uuid.UUID
	Name  string
	Roles []string
}

// ChangeOwnInfo carries a credential update for the calling user. Nil fields
// are left untouched; at least one must be set.
type ChangeOwnInfo struct {
	NewUsername     *string
	CurrentPassword string
	NewPassword     *string
}

// AdminService is the set of mutating use cases layered on the identity
// repository. Each call runs its business checks before any storage write
// and maps storage conflicts to domain errors.
type AdminService interface {
	CreateUser(ctx context.Context, name, password string) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	SearchUser(ctx context.Context, name string) (*UserInfo, error)
	ListUsers(ctx context.Context) ([]UserInfo, error)
	UpdateOwnInfo(ctx context.Context, userID uuid.UUID, change ChangeOwnInfo) (*domain.User, error)

	CreateRole(ctx context.Context, name string) (*domain.Role, error)
	DeleteRole(ctx context.Context, name string) error
	ListRoles(ctx context.Context) ([]domain.Role, error)
	RoleMembers(ctx context.Context, roleName string) ([]UserInfo, error)

	AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error
	RemoveRole(ctx context.Context, userID uuid.UUID, roleName string) error
}
