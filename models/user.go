package models

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role is the closed set of account types. Role checks go through this type
// so a typo'd role string fails at parse time instead of silently denying
// (or granting) access.
type Role string

const (
	RoleCustomer   Role = "customer"
	RolePartner    Role = "partner"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RolePartner, RoleAdmin, RoleSuperadmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether the role is one of the known account types.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// IsStaff reports whether the role carries admin-level access.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// User represents an account in the system (customer, partner, admin or superadmin)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Phone     string         `json:"phone"`
	Role      Role           `gorm:"not null;default:'customer'" json:"role"`
	Verified  bool           `gorm:"not null;default:false" json:"verified"` // partner vetting flag, set by admin
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// SetPassword hashes the plaintext password with bcrypt and stores the hash.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
