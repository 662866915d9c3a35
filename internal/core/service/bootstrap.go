package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/consitech/event-manager/internal/core/domain"
	"github.com/consitech/event-manager/internal/core/ports"
)

// BootstrapUser describes the account seeded when no event manager exists.
type BootstrapUser struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// EnsureEventManager seeds a default event manager when there is none.
// It returns the created user, or nil when a manager already existed, and the
// password it generated when seed carried none. The password is never logged;
// handing it to the operator is up to the caller.
func (s *UserService) EnsureEventManager(ctx context.Context, seed BootstrapUser) (*domain.User, string, error) {
	generated := false
	if seed.Password == "" {
		pw, err := randomPassword()
		if err != nil {
			return nil, "", fmt.Errorf("bootstrap: %w", err)
		}
		seed.Password = pw
		generated = true
	}

	var created *domain.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.LockRole(ctx, domain.RoleEventManager); err != nil {
			return err
		}
		n, err := s.CountEventManagers(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		user, err := s.CreateUser(ctx, ports.NewUserInput{
			Username:  seed.Username,
			Email:     seed.Email,
			Password:  seed.Password,
			FirstName: seed.FirstName,
			LastName:  seed.LastName,
		})
		if err != nil {
			return err
		}
		created, err = s.ChangeRole(ctx, user.ID, domain.RoleEventManager)
		return err
	})
	if err != nil {
		return nil, "", fmt.Errorf("bootstrap: %w", err)
	}

	if created == nil {
		s.log.Debug().Msg("event manager present, bootstrap skipped")
		return nil, "", nil
	}

	s.log.Warn().
		Str("user_id", created.ID).
		Str("username", created.Username).
		Bool("password_generated", generated).
		Msg("default event manager created")
	if !generated {
		return created, "", nil
	}
	return created, seed.Password, nil
}

func randomPassword() (string, error) {
	b := make([]byte, 15)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
