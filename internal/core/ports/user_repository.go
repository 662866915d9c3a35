package ports

import (
	"context"

	"github.com/consitech/event-manager/internal/core/domain"
)

// UserRepository defines persistence operations for users.
// Implementations translate missing rows into domain.ErrUserNotFound and
// unique-index violations into domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByUsernameOrEmail matches identifier against both the username and
	// the email column.
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByUsernameAndEmail reports whether a single user owns both values.
	ExistsByUsernameAndEmail(ctx context.Context, username, email string) (bool, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	// LockRole writes a per-role guard inside the current transaction. Call
	// it before CountByRole whenever the count decides a write, so that two
	// concurrent transactions relying on the same count conflict.
	LockRole(ctx context.Context, role domain.Role) error
	ExistsByRole(ctx context.Context, role domain.Role) (bool, error)
	// List returns one page ordered by creation time and the total count.
	List(ctx context.Context, page PageRequest) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
