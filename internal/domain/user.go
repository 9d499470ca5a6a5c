package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	Base
	TenantID    *string     `gorm:"type:uuid;index" json:"tenant_id,omitempty"`
	Email       string      `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Name        string      `gorm:"type:text" json:"name"`
	Role        Role        `gorm:"type:text;not null" json:"role"`
	Profile     UserProfile `gorm:"type:jsonb;serializer:json" json:"profile"`
	Permissions []string    `gorm:"type:jsonb;serializer:json" json:"permissions"`
	IsActive    bool        `gorm:"not null" json:"is_active"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

type UserProfile struct {
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Validate enforces that everyone except platform operators belongs to a tenant.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" || !strings.Contains(u.Email, "@") {
		return NewValidationError("a valid email is required")
	}
	if u.Role == "" {
		u.Role = RoleEndUser
	}
	if !IsValidRole(string(u.Role)) {
		return NewValidationError("invalid role")
	}
	if u.Role.RequiresTenant() && (u.TenantID == nil || *u.TenantID == "") {
		return NewValidationError("tenant is required for role " + string(u.Role))
	}
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return u.Validate()
}

type UserFilter struct {
	TenantID string `json:"tenant_id"`
	Role     Role   `json:"role"`
	Active   *bool  `json:"active"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}
