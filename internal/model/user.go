// Package model defines the data structures used throughout the application.
package model

import (
	"strings"
	"time"
)

// Role identifies which kind of account a User (or a BD login) is.
//
// All account kinds share a single users table; Role is the discriminator.
// The same email may exist once per role, so (role, email) is the identity
// of an account, not email alone.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleAssistant Role = "assistant"
	RoleManager   Role = "manager"
	RoleDeveloper Role = "developer"
	RoleDesigner  Role = "designer"

	// RoleBD is not registrable through /register. BD staff are created as
	// BD records and log in against that table.
	RoleBD Role = "bd"
)

// RegistrableRoles lists the roles accepted by registration, in display order.
var RegistrableRoles = []Role{RoleAdmin, RoleAssistant, RoleManager, RoleDeveloper, RoleDesigner}

// ParseRole normalises a raw role string. The second result reports whether
// the role is known at all (registrable or bd).
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if r == RoleBD || r.Registrable() {
		return r, true
	}
	return r, false
}

// Registrable reports whether accounts of this role can be created via /register.
func (r Role) Registrable() bool {
	for _, known := range RegistrableRoles {
		if r == known {
			return true
		}
	}
	return false
}

// User is a login account for one of the registrable roles.
//
// The unique index spans (role, email): registering the same email twice
// under one role is a conflict, under two different roles it is allowed.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Role         Role      `gorm:"size:20;not null;uniqueIndex:idx_users_role_email" json:"role"`
	Email        string    `gorm:"size:254;not null;uniqueIndex:idx_users_role_email" json:"email"`
	FullName     string    `gorm:"size:150;not null" json:"full_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEmail trims and lower-cases an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
