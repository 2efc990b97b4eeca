package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role enumerates the access levels an account can hold. Every account holds
// exactly one role at a time.
type Role string

const (
	RoleCitizen     Role = "citizen"
	RoleAdmin       Role = "admin"
	RoleSystemAdmin Role = "system_admin"
)

// ParseRole converts an external role string into the canonical Role.
// External representations vary in casing, so parsing happens once at the
// boundary and internal code never compares raw strings.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleCitizen:
		return RoleCitizen, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleSystemAdmin:
		return RoleSystemAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// User is the domain model for every account. Citizens, admins and the
// system admin share one table and differ only by role.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStaff reports whether the user may act on issues belonging to others.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleSystemAdmin
}
