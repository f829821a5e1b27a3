package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/dtplatform/auth-service/internal/core/domain"
)

// stubIdentityRepo is an in-memory ports.IdentityRepository with the same
// uniqueness and association semantics as the real store.
type stubIdentityRepo struct {
	users       map[uuid.UUID]*domain.User
	roles       map[uuid.UUID]*domain.Role
	assignments map[[2]uuid.UUID]struct{}
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{
		users:       make(map[uuid.UUID]*domain.User),
		roles:       make(map[uuid.UUID]*domain.Role),
		assignments: make(map[[2]uuid.UUID]struct{}),
	}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubIdentityRepo) FindUserByID(_ context.Context, id uuid.UUID) (*domain.User, bool, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, false, nil
	}
	return cloneUser(u), true, nil
}

func (r *stubIdentityRepo) FindUserByName(_ context.Context, name string) (*domain.User, bool, error) {
	for _, u := range r.users {
		if u.Name == name {
			return cloneUser(u), true, nil
		}
	}
	return nil, false, nil
}

func (r *stubIdentityRepo) ListUsers(_ context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (r *stubIdentityRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Name == user.Name {
			return nil, &domain.AlreadyExistsError{Field: "user_name"}
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubIdentityRepo) UpdateUser(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, u := range r.users {
		if u.ID != user.ID && u.Name == user.Name {
			return &domain.AlreadyExistsError{Field: "user_name"}
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubIdentityRepo) DeleteUser(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	for pair := range r.assignments {
		if pair[0] == id {
			delete(r.assignments, pair)
		}
	}
	return nil
}

func (r *stubIdentityRepo) FindRoleByName(_ context.Context, name string) (*domain.Role, bool, error) {
	for _, role := range r.roles {
		if role.Name == name {
			clone := *role
			return &clone, true, nil
		}
	}
	return nil, false, nil
}

func (r *stubIdentityRepo) ListRoles(_ context.Context) ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		roles = append(roles, *role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

func (r *stubIdentityRepo) CreateRole(_ context.Context, role *domain.Role) (*domain.Role, error) {
	for _, existing := range r.roles {
		if existing.Name == role.Name {
			return nil, &domain.AlreadyExistsError{Field: "role_name"}
		}
	}
	clone := *role
	r.roles[role.ID] = &clone
	out := *role
	return &out, nil
}

func (r *stubIdentityRepo) DeleteRole(_ context.Context, id uuid.UUID) error {
	if _, ok := r.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	for pair := range r.assignments {
		if pair[1] == id {
			return domain.ErrRoleInUse
		}
	}
	delete(r.roles, id)
	return nil
}

func (r *stubIdentityRepo) RoleNamesForUser(_ context.Context, userID uuid.UUID) ([]string, error) {
	names := []string{}
	for pair := range r.assignments {
		if pair[0] == userID {
			names = append(names, r.roles[pair[1]].Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *stubIdentityRepo) UsersForRole(_ context.Context, roleID uuid.UUID) ([]domain.User, error) {
	users := []domain.User{}
	for pair := range r.assignments {
		if pair[1] == roleID {
			users = append(users, *r.users[pair[0]])
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (r *stubIdentityRepo) AssignRole(_ context.Context, userID, roleID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{userID, roleID}
	if _, ok := r.assignments[key]; ok {
		return false, nil
	}
	r.assignments[key] = struct{}{}
	return true, nil
}

func (r *stubIdentityRepo) RemoveRole(_ context.Context, userID, roleID uuid.UUID) error {
	key := [2]uuid.UUID{userID, roleID}
	if _, ok := r.assignments[key]; !ok {
		return domain.ErrAssignmentNotFound
	}
	delete(r.assignments, key)
	return nil
}
