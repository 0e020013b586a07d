// Package user models staff accounts: the people who answer tickets, own
// events and receive reminders.
package user

import (
	"context"
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleSupportManager Role = "support_manager"
	RoleSupportAgent   Role = "support_agent"
	RoleStaff          Role = "staff"
)

// ElevatedRoles receive the admin-channel mail for new client tickets.
var ElevatedRoles = []Role{RoleAdmin, RoleSupportManager}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSupportManager, RoleSupportAgent, RoleStaff:
		return true
	}
	return false
}

func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleSupportManager
}

type User struct {
	id          uint
	email       string
	displayName string
	role        Role
	active      bool
}

func ReconstructUser(id uint, email, displayName string, role Role, active bool) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	return &User{
		id:          id,
		email:       strings.TrimSpace(email),
		displayName: displayName,
		role:        role,
		active:      active,
	}, nil
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) Email() string {
	return u.email
}

// DisplayName falls back to the email address when no name is set.
func (u *User) DisplayName() string {
	if u.displayName != "" {
		return u.displayName
	}
	return u.email
}

func (u *User) Role() Role {
	return u.role
}

func (u *User) IsActive() bool {
	return u.active
}

func (u *User) IsElevated() bool {
	return u.role.IsElevated()
}

type Repository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	ListActiveByRoles(ctx context.Context, roles []Role) ([]*User, error)
}
