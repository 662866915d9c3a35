package ports

import (
	"context"

	"github.com/consitech/event-manager/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, in NewUserInput) (*domain.User, error)
	Login(ctx context.Context, identifier, password string) (string, *domain.User, error)
}
