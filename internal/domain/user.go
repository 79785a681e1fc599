package domain

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

type Role string

const (
	RoleUser    Role = "User"
	RoleAdmin   Role = "Admin"
	RoleSupport Role = "Support"
)

var validRoles = map[Role]struct{}{
	RoleUser:    {},
	RoleAdmin:   {},
	RoleSupport: {},
}

func ToRole(s string) (Role, error) {
	role := Role(s)
	if _, ok := validRoles[role]; ok {
		return role, nil
	}

	return "", errRequired("valid role")
}

type User struct {
	ID  uuid.UUID
	UID string // short public identifier

	FullName string
	Email    string
	Phone    string

	// PasswordHash is a bcrypt hash, never serialized.
	PasswordHash string

	Avatar   string
	Verified bool
	Role     Role
	Currency currency.Unit

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
