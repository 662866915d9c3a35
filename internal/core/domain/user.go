package domain

import (
	"strings"
	"time"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleUser         Role = "USER"
	RoleEventManager Role = "EVENT_MANAGER"
)

// ParseRole validates a role name received from the outside.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleUser, RoleEventManager:
		return r, nil
	}
	return "", ErrInvalidRole
}

// User models an account that can log in and attend events.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	AvatarURL    string    `json:"avatar_url"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsEventManager reports whether the user currently holds the manager role.
func (u *User) IsEventManager() bool {
	return u.Role == RoleEventManager
}
