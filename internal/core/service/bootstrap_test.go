package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dtplatform/auth-service/internal/core/domain"
)

func TestBootstrapper_CreatesAdminIdentity(t *testing.T) {
	repo := newStubIdentityRepo()
	b := NewBootstrapper(repo, NewBcryptHasher(4), "changeme", zerolog.Nop())

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	admin, found, err := repo.FindUserByName(context.Background(), domain.AdminName)
	if err != nil || !found {
		t.Fatalf("admin user missing after bootstrap (found=%v, err=%v)", found, err)
	}
	if !NewBcryptHasher(4).Verify("changeme", admin.PasswordHash) {
		t.Fatalf("admin password does not verify")
	}
	if _, found, err := repo.FindRoleByName(context.Background(), domain.AdminName); err != nil || !found {
		t.Fatalf("admin role missing after bootstrap (found=%v, err=%v)", found, err)
	}
	roles, err := repo.RoleNamesForUser(context.Background(), admin.ID)
	if err != nil {
		t.Fatalf("RoleNamesForUser: %v", err)
	}
	if len(roles) != 1 || roles[0] != domain.AdminName {
		t.Fatalf("admin user roles %v, want [admin]", roles)
	}
}

func TestBootstrapper_RunIsIdempotent(t *testing.T) {
	repo := newStubIdentityRepo()
	b := NewBootstrapper(repo, NewBcryptHasher(4), "changeme", zerolog.Nop())

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	first, _, err := repo.FindUserByName(context.Background(), domain.AdminName)
	if err != nil {
		t.Fatalf("FindUserByName: %v", err)
	}

	// A restart must not duplicate anything or rotate credentials.
	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	users, err := repo.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected one user after two runs, got %d", len(users))
	}
	rolesList, err := repo.ListRoles(context.Background())
	if err != nil {
		t.Fatalf("ListRoles: %v", err)
	}
	if len(rolesList) != 1 {
		t.Fatalf("expected one role after two runs, got %d", len(rolesList))
	}
	second, _, err := repo.FindUserByName(context.Background(), domain.AdminName)
	if err != nil {
		t.Fatalf("FindUserByName: %v", err)
	}
	if second.ID != first.ID || second.PasswordHash != first.PasswordHash {
		t.Fatalf("second run must leave the existing admin user untouched")
	}
}

func TestBootstrapper_RepairsMissingAssignment(t *testing.T) {
	repo := newStubIdentityRepo()
	b := NewBootstrapper(repo, NewBcryptHasher(4), "changeme", zerolog.Nop())

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	admin, _, err := repo.FindUserByName(context.Background(), domain.AdminName)
	if err != nil {
		t.Fatalf("FindUserByName: %v", err)
	}
	role, _, err := repo.FindRoleByName(context.Background(), domain.AdminName)
	if err != nil {
		t.Fatalf("FindRoleByName: %v", err)
	}
	if err := repo.RemoveRole(context.Background(), admin.ID, role.ID); err != nil {
		t.Fatalf("RemoveRole: %v", err)
	}

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("repair Run: %v", err)
	}
	roles, err := repo.RoleNamesForUser(context.Background(), admin.ID)
	if err != nil {
		t.Fatalf("RoleNamesForUser: %v", err)
	}
	if len(roles) != 1 || roles[0] != domain.AdminName {
		t.Fatalf("assignment not repaired, roles %v", roles)
	}
}
