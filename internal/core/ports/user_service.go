package ports

import (
	"context"

	"github.com/consitech/event-manager/internal/core/domain"
)

// NewUserInput carries the registration data for a user.
type NewUserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateProfileInput fully replaces a user's profile.
type UpdateProfileInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	// Password is re-hashed when non-empty and left untouched otherwise.
	Password string
	// AvatarURL replaces the current avatar only when it points to an
	// uploaded image.
	AvatarURL string
	// Role is nil when the caller may not change roles.
	Role *domain.Role
}

// UserService is the user directory.
type UserService interface {
	CreateUser(ctx context.Context, in NewUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	ListUsers(ctx context.Context, page PageRequest) (*PageResult[*domain.User], error)
	UpdateUserProfile(ctx context.Context, id string, in UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) (*domain.User, error)
	ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	ChangeAvatar(ctx context.Context, id string, data []byte) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	CountEventManagers(ctx context.Context) (int64, error)
	EventManagerExists(ctx context.Context) (bool, error)
}
