package model

import (
	"time"
)

// UserRole enumerates the three application roles.
type UserRole string

const (
	RoleAdministrator UserRole = "Administrator"
	RoleQuality       UserRole = "Quality"
	RoleUser          UserRole = "User"
)

// UserStatus enumerates account states. Accounts are deactivated, never deleted.
type UserStatus string

const (
	UserStatusActive   UserStatus = "Active"
	UserStatusInactive UserStatus = "Inactive"
)

// User represents an application account.
type User struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username            string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email               string     `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash        string     `gorm:"size:255;not null" json:"-"`
	Role                UserRole   `gorm:"size:20;not null;default:'User'" json:"role"`
	Status              UserStatus `gorm:"size:20;not null;default:'Active'" json:"status"`
	ForcePasswordChange bool       `gorm:"default:false" json:"force_password_change"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	CreatedBy           *int64     `json:"created_by,omitempty"`
	CreatedAt           time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsLocked reports whether the account is under a login lockout at the given time.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// Snapshot returns the audit representation of the user. The password hash
// never appears in audit payloads.
func (u *User) Snapshot() JSONB {
	return JSONB{
		"id":                    u.ID,
		"username":              u.Username,
		"email":                 u.Email,
		"role":                  string(u.Role),
		"status":                string(u.Status),
		"force_password_change": u.ForcePasswordChange,
		"created_at":            u.CreatedAt.Format(time.RFC3339),
		"updated_at":            u.UpdatedAt.Format(time.RFC3339),
	}
}
