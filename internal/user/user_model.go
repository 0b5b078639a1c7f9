package user

import (
	"time"

	"gorm.io/gorm"
)

// Role names known to the service. Scorers record balls, admins also manage teams and matches.
const (
	RoleAdmin  = "admin"
	RoleScorer = "scorer"
	RoleViewer = "viewer"
)

// DefaultRoles are seeded at startup.
var DefaultRoles = []string{RoleAdmin, RoleScorer, RoleViewer}

type User struct {
	gorm.Model
	Name       string     `json:"name"`
	Username   string     `gorm:"unique;not null" json:"username"`
	Email      string     `gorm:"unique;not null" json:"email"`
	Password   string     `json:"-"`
	UserRoles  []UserRole `gorm:"foreignKey:UserID" json:"-"`
	LastActive time.Time  `json:"last_active"`
}

type Role struct {
	gorm.Model
	Name string `gorm:"unique;not null" json:"name"`
}

type UserRole struct {
	gorm.Model
	UserID uint `gorm:"index;not null;uniqueIndex:idx_user_role"`
	RoleID uint `gorm:"index;not null;uniqueIndex:idx_user_role"`
	Role   Role `gorm:"foreignKey:RoleID"`
}

type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"default:false"`
}

// RoleNames lists the names of the preloaded roles.
func (u *User) RoleNames() []string {
	roles := make([]string, 0, len(u.UserRoles))
	for _, ur := range u.UserRoles {
		roles = append(roles, ur.Role.Name)
	}
	return roles
}

// SeedRoles creates the default roles that are missing.
func SeedRoles(db *gorm.DB) error {
	for _, name := range DefaultRoles {
		if err := db.Where(Role{Name: name}).FirstOrCreate(&Role{}).Error; err != nil {
			return err
		}
	}
	return nil
}
