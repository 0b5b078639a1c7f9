package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/scorebook/internal/user"
	"gorm.io/gorm"
)

// ErrRoleNotFound is returned when a role name is not seeded.
var ErrRoleNotFound = errors.New("role not found")

type AuthRepository interface {
	RegisterUser(u *user.User, firstRole, otherRole string) (string, error)
	GetUserByEmail(email string) (*user.User, error)
	GetUserByID(id uint) (*user.User, error)
	GetUserByUsername(username string) (*user.User, error)
	UpdateUser(u *user.User) error

	SaveRefreshToken(token *user.RefreshToken) error
	GetRefreshToken(tokenString string) (*user.RefreshToken, error)
	InvalidateRefreshToken(tokenString string) error
	InvalidateAllRefreshTokensForUser(userID uint) error

	GetRoleByName(roleName string) (*user.Role, error)
	AssignRoleToUser(userID uint, role string) error
	GetUserRoles(userID uint) ([]string, error)
	RemoveRoleFromUser(userID uint, role string) error
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

// RegisterUser creates u and grants its starting role in one transaction: firstRole when
// u is the first account, otherRole otherwise. It returns the role granted.
func (r *authRepository) RegisterUser(u *user.User, firstRole, otherRole string) (string, error) {
	var granted string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			// self-conflicting mode: concurrent registrations count and insert one at a
			// time, plain reads of users are not blocked
			if err := tx.Exec("LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
				return fmt.Errorf("failed to lock users: %w", err)
			}
		}

		var existing int64
		if err := tx.Model(&user.User{}).Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		granted = otherRole
		if existing == 0 {
			granted = firstRole
		}

		if err := tx.Create(u).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		var role user.Role
		if err := tx.Where("name = ?", granted).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %q", ErrRoleNotFound, granted)
			}
			return fmt.Errorf("failed to find role: %w", err)
		}
		if err := tx.Create(&user.UserRole{UserID: u.ID, RoleID: role.ID}).Error; err != nil {
			return fmt.Errorf("failed to assign role to user: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return granted, nil
}

func (r *authRepository) withRoles() *gorm.DB {
	return r.db.Preload("UserRoles.Role")
}

func (r *authRepository) GetUserByEmail(email string) (*user.User, error) {
	var u user.User
	if err := r.withRoles().Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetUserByID(id uint) (*user.User, error) {
	var u user.User
	if err := r.withRoles().First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetUserByUsername(username string) (*user.User, error) {
	var u user.User
	if err := r.withRoles().Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) UpdateUser(u *user.User) error {
	return r.db.Omit("UserRoles").Save(u).Error
}

func (r *authRepository) SaveRefreshToken(token *user.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *authRepository) GetRefreshToken(tokenString string) (*user.RefreshToken, error) {
	var rt user.RefreshToken
	if err := r.db.Where("token = ? AND expires_at > ? AND revoked = ?", tokenString, time.Now(), false).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *authRepository) InvalidateRefreshToken(tokenString string) error {
	return r.db.Model(&user.RefreshToken{}).Where("token = ?", tokenString).Update("revoked", true).Error
}

func (r *authRepository) InvalidateAllRefreshTokensForUser(userID uint) error {
	result := r.db.Model(&user.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true)

	if result.Error != nil {
		return fmt.Errorf("failed to invalidate all refresh tokens: %w", result.Error)
	}
	return nil
}

func (r *authRepository) GetRoleByName(roleName string) (*user.Role, error) {
	var role user.Role
	if err := r.db.Where("name = ?", roleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrRoleNotFound, roleName)
		}
		return nil, err
	}
	return &role, nil
}

// AssignRoleToUser grants a role. Granting a role the user already holds is a no-op.
func (r *authRepository) AssignRoleToUser(userID uint, roleName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := tx.First(&u, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d not found", userID)
			}
			return fmt.Errorf("failed to find user: %w", err)
		}

		var role user.Role
		if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %q", ErrRoleNotFound, roleName)
			}
			return fmt.Errorf("failed to find role: %w", err)
		}

		var existing user.UserRole
		err := tx.Where("user_id = ? AND role_id = ?", userID, role.ID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing user role: %w", err)
		}

		if err := tx.Create(&user.UserRole{UserID: userID, RoleID: role.ID}).Error; err != nil {
			return fmt.Errorf("failed to assign role to user: %w", err)
		}
		return nil
	})
}

func (r *authRepository) GetUserRoles(userID uint) ([]string, error) {
	var roles []string
	err := r.db.Model(&user.UserRole{}).
		Joins("JOIN roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND user_roles.deleted_at IS NULL", userID).
		Pluck("roles.name", &roles).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	return roles, nil
}

func (r *authRepository) RemoveRoleFromUser(userID uint, roleName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var role user.Role
		if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %q", ErrRoleNotFound, roleName)
			}
			return fmt.Errorf("failed to find role: %w", err)
		}

		// Unscoped so the unique (user, role) index is free for a later re-grant.
		result := tx.Unscoped().Where("user_id = ? AND role_id = ?", userID, role.ID).Delete(&user.UserRole{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove role from user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("user did not have the specified role")
		}
		return nil
	})
}
