package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dtplatform/auth-service/internal/core/domain"
)

// userRecord is the storage shape of a domain.User.
type userRecord struct {
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	UserName     string    `gorm:"column:user_name;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

type roleRecord struct {
	RoleID    uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey"`
	RoleName  string    `gorm:"column:role_name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (roleRecord) TableName() string { return "roles" }

// userRoleRecord is the user-role association. The composite primary key
// makes membership a set: at most one row per (user, role) pair.
type userRoleRecord struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	RoleID uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey"`
}

func (userRoleRecord) TableName() string { return "user_roles" }

// IdentityRepository implements ports.IdentityRepository over GORM.
type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Migrate creates or updates the schema. Called once at startup before
// bootstrap.
func (r *IdentityRepository) Migrate() error {
	return r.db.AutoMigrate(&userRecord{}, &roleRecord{}, &userRoleRecord{})
}

func (r *IdentityRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, bool, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find user by id: %w", err)
	}
	return toUser(rec), true, nil
}

func (r *IdentityRepository) FindUserByName(ctx context.Context, name string) (*domain.User, bool, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where("user_name = ?", name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find user by name: %w", err)
	}
	return toUser(rec), true, nil
}

func (r *IdentityRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	var recs []userRecord
	if err := r.db.WithContext(ctx).Order("user_name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]domain.User, len(recs))
	for i, rec := range recs {
		users[i] = *toUser(rec)
	}
	return users, nil
}

func (r *IdentityRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	rec := fromUser(user)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &domain.AlreadyExistsError{Field: "user_name"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return toUser(rec), nil
}

func (r *IdentityRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	rec := fromUser(user)
	res := r.db.WithContext(ctx).Model(&userRecord{}).
		Where("user_id = ?", rec.UserID).
		Updates(map[string]any{
			"user_name":     rec.UserName,
			"password_hash": rec.PasswordHash,
			"updated_at":    rec.UpdatedAt,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return &domain.AlreadyExistsError{Field: "user_name"}
		}
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the user and its role assignments in one transaction.
func (r *IdentityRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&userRoleRecord{}).Error; err != nil {
			return fmt.Errorf("delete user assignments: %w", err)
		}
		res := tx.Where("user_id = ?", id).Delete(&userRecord{})
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

func (r *IdentityRepository) FindRoleByName(ctx context.Context, name string) (*domain.Role, bool, error) {
	var rec roleRecord
	err := r.db.WithContext(ctx).Where("role_name = ?", name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find role by name: %w", err)
	}
	return toRole(rec), true, nil
}

func (r *IdentityRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var recs []roleRecord
	if err := r.db.WithContext(ctx).Order("role_name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	roles := make([]domain.Role, len(recs))
	for i, rec := range recs {
		roles[i] = *toRole(rec)
	}
	return roles, nil
}

func (r *IdentityRepository) CreateRole(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	rec := roleRecord{RoleID: role.ID, RoleName: role.Name, CreatedAt: role.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &domain.AlreadyExistsError{Field: "role_name"}
		}
		return nil, fmt.Errorf("create role: %w", err)
	}
	return toRole(rec), nil
}

// DeleteRole checks membership and deletes inside one transaction so a
// concurrent assignment cannot slip between the check and the delete.
func (r *IdentityRepository) DeleteRole(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var members int64
		if err := tx.Model(&userRoleRecord{}).Where("role_id = ?", id).Count(&members).Error; err != nil {
			return fmt.Errorf("count role members: %w", err)
		}
		if members > 0 {
			return domain.ErrRoleInUse
		}
		res := tx.Where("role_id = ?", id).Delete(&roleRecord{})
		if res.Error != nil {
			return fmt.Errorf("delete role: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrRoleNotFound
		}
		return nil
	})
}

func (r *IdentityRepository) RoleNamesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	names := []string{}
	err := r.db.WithContext(ctx).
		Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.role_id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.role_name").
		Pluck("roles.role_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("roles for user: %w", err)
	}
	return names, nil
}

func (r *IdentityRepository) UsersForRole(ctx context.Context, roleID uuid.UUID) ([]domain.User, error) {
	var recs []userRecord
	err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN user_roles ON user_roles.user_id = users.user_id").
		Where("user_roles.role_id = ?", roleID).
		Order("users.user_name").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("users for role: %w", err)
	}
	users := make([]domain.User, len(recs))
	for i, rec := range recs {
		users[i] = *toUser(rec)
	}
	return users, nil
}

func (r *IdentityRepository) AssignRole(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	err := r.db.WithContext(ctx).Create(&userRoleRecord{UserID: userID, RoleID: roleID}).Error
	if err != nil {
		// The composite primary key turns a re-assignment into a duplicate
		// key error; that is the idempotent no-op case.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("assign role: %w", err)
	}
	return true, nil
}

func (r *IdentityRepository) RemoveRole(ctx context.Context, userID, roleID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&userRoleRecord{})
	if res.Error != nil {
		return fmt.Errorf("remove role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

func toUser(rec userRecord) *domain.User {
	return &domain.User{
		ID:           rec.UserID,
		Name:         rec.UserName,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func fromUser(user *domain.User) userRecord {
	return userRecord{
		UserID:       user.ID,
		UserName:     user.Name,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func toRole(rec roleRecord) *domain.Role {
	return &domain.Role{ID: rec.RoleID, Name: rec.RoleName, CreatedAt: rec.CreatedAt}
}
