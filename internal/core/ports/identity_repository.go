package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtplatform/auth-service/internal/core/domain"
)

// IdentityRepository is transactional CRUD over users, roles, and the
// user-role association.
//
// Lookups distinguish expected absence from storage failure: found is false
// and err is nil when the entity simply does not exist. Mutations translate
// uniqueness violations into *domain.AlreadyExistsError; every other storage
// failure is returned as-is and surfaces to the caller as an internal error.
type IdentityRepository interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (user *domain.User, found bool, err error)
	FindUserByName(ctx context.Context, name string) (user *domain.User, found bool, err error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	// DeleteUser removes the user and cascades its role assignments in the
	// same transaction.
	DeleteUser(ctx context.Context, id uuid.UUID) error

	FindRoleByName(ctx context.Context, name string) (role *domain.Role, found bool, err error)
	ListRoles(ctx context.Context) ([]domain.Role, error)
	CreateRole(ctx context.Context, role *domain.Role) (*domain.Role, error)
	// DeleteRole fails with domain.ErrRoleInUse while any user holds the
	// role; the membership check and the delete share one transaction.
	DeleteRole(ctx context.Context, id uuid.UUID) error

	// RoleNamesForUser returns the user's current role names, sorted.
	RoleNamesForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	// UsersForRole returns the users holding the role, sorted by name.
	UsersForRole(ctx context.Context, roleID uuid.UUID) ([]domain.User, error)
	// AssignRole is idempotent: created is false when the assignment already
	// existed, which is not an error.
	AssignRole(ctx context.Context, userID, roleID uuid.UUID) (created bool, err error)
	// RemoveRole fails with domain.ErrAssignmentNotFound when the user does
	// not hold the role.
	RemoveRole(ctx context.Context, userID, roleID uuid.UUID) error
}
