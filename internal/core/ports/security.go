package ports

import (
	"context"
	"time"

	"github.com/consitech/event-manager/internal/core/domain"
)

// PasswordHasher is a one-way salted hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// TokenIssuer signs a session token carrying the user's id and role.
type TokenIssuer interface {
	Issue(user *domain.User) (token string, expiresAt time.Time, err error)
}

// AvatarStorage stores an uploaded avatar and returns its public URL.
type AvatarStorage interface {
	UploadAvatar(ctx context.Context, userID string, data []byte) (string, error)
	// DeleteAvatar removes an avatar previously uploaded for userID. URLs the
	// storage did not hand out, placeholders included, are ignored.
	DeleteAvatar(ctx context.Context, userID, url string) error
}
