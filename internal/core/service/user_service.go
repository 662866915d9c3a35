package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/consitech/event-manager/internal/core/domain"
	"github.com/consitech/event-manager/internal/core/ports"
)

// UserService implements the user directory: registration, profile edits,
// role and credential changes, and the rule that at least one event manager
// always exists.
type UserService struct {
	users   ports.UserRepository
	events  ports.EventRepository
	tx      ports.Transactor
	hasher  ports.PasswordHasher
	avatars ports.AvatarStorage
	log     zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	events ports.EventRepository,
	tx ports.Transactor,
	hasher ports.PasswordHasher,
	avatars ports.AvatarStorage,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:   users,
		events:  events,
		tx:      tx,
		hasher:  hasher,
		avatars: avatars,
		log:     log,
	}
}

// CreateUser registers a new USER with a hashed password and a placeholder avatar.
func (s *UserService) CreateUser(ctx context.Context, in ports.NewUserInput) (*domain.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		AvatarURL:    domain.PlaceholderAvatar(in.FirstName, in.LastName),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureAvailable(ctx, in.Username, in.Email); err != nil {
			return err
		}
		return s.users.Create(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user created")
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUserByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.users.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("get user by identifier: %w", err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, page ports.PageRequest) (*ports.PageResult[*domain.User], error) {
	page = page.Normalize()
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ports.NewPageResult(users, total, page), nil
}

// UpdateUserProfile replaces the profile of user id.
//
// An uploaded avatar survives the update unless in.AvatarURL carries another
// uploaded image; placeholder avatars are regenerated from the new names.
func (s *UserService) UpdateUserProfile(ctx context.Context, id string, in ports.UpdateProfileInput) (*domain.User, error) {
	if in.Role != nil {
		role, err := domain.ParseRole(string(*in.Role))
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		in.Role = &role
	}

	var hash string
	if in.Password != "" {
		h, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: hash password: %w", err)
		}
		hash = h
	}

	var updated *domain.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.ensureNoCollision(ctx, user, in.Username, in.Email); err != nil {
			return err
		}
		if in.Role != nil {
			if err := s.ensureManagerRemains(ctx, user, *in.Role); err != nil {
				return err
			}
			user.Role = *in.Role
		}

		avatar := domain.PlaceholderAvatar(in.FirstName, in.LastName)
		switch {
		case in.AvatarURL != "" && !domain.IsPlaceholderAvatar(in.AvatarURL):
			avatar = in.AvatarURL
		case user.AvatarURL != "" && !domain.IsPlaceholderAvatar(user.AvatarURL):
			avatar = user.AvatarURL
		}

		user.Username = in.Username
		user.Email = in.Email
		user.FirstName = in.FirstName
		user.LastName = in.LastName
		user.AvatarURL = avatar
		if hash != "" {
			user.PasswordHash = hash
		}
		user.UpdatedAt = time.Now().UTC()

		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Str("user_id", id).Str("role", string(updated.Role)).Msg("user profile updated")
	return updated, nil
}

// ChangePassword swaps the password after checking the old one.
func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) (*domain.User, error) {
	var updated *domain.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if newPassword == oldPassword {
			return domain.ErrPasswordUnchanged
		}
		if !s.hasher.Verify(user.PasswordHash, oldPassword) {
			return domain.ErrWrongPassword
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
		user.UpdatedAt = time.Now().UTC()

		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Str("user_id", id).Msg("password changed")
	return updated, nil
}

// ChangeRole assigns role to user id. Demoting the only event manager fails.
func (s *UserService) ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	role, err := domain.ParseRole(string(role))
	if err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}

	var updated *domain.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.ensureManagerRemains(ctx, user, role); err != nil {
			return err
		}
		user.Role = role
		user.UpdatedAt = time.Now().UTC()

		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}

	s.log.Info().Str("user_id", id).Str("role", string(role)).Msg("role changed")
	return updated, nil
}

// ChangeAvatar uploads data to blob storage and points the user's avatar at it.
func (s *UserService) ChangeAvatar(ctx context.Context, id string, data []byte) (*domain.User, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("change avatar: %w", domain.ErrInvalidAvatar)
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, fmt.Errorf("change avatar: %w", err)
	}

	// The upload talks to an external service, keep it out of the transaction.
	url, err := s.avatars.UploadAvatar(ctx, id, data)
	if err != nil {
		return nil, fmt.Errorf("change avatar: upload: %w", err)
	}

	var (
		updated  *domain.User
		previous string
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		previous = user.AvatarURL
		user.AvatarURL = url
		user.UpdatedAt = time.Now().UTC()

		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		s.removeAvatar(ctx, id, url)
		return nil, fmt.Errorf("change avatar: %w", err)
	}

	s.log.Info().Str("user_id", id).Str("avatar_url", url).Msg("avatar changed")
	if previous != url {
		s.removeAvatar(ctx, id, previous)
	}
	return updated, nil
}

// removeAvatar deletes an uploaded avatar that nothing points at anymore.
// Failures only leave an orphaned object behind, so they are logged.
func (s *UserService) removeAvatar(ctx context.Context, userID, url string) {
	if url == "" || domain.IsPlaceholderAvatar(url) {
		return
	}
	if err := s.avatars.DeleteAvatar(ctx, userID, url); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Str("avatar_url", url).Msg("avatar cleanup failed")
	}
}

// DeleteUser removes the user and every attendance link it holds.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	var (
		released int64
		avatar   string
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		avatar = user.AvatarURL
		if err := s.ensureManagerRemains(ctx, user, domain.RoleUser); err != nil {
			return err
		}
		n, err := s.events.RemoveAttendee(ctx, id)
		if err != nil {
			return err
		}
		released = n
		return s.users.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info().Str("user_id", id).Int64("events_released", released).Msg("user deleted")
	s.removeAvatar(ctx, id, avatar)
	return nil
}

func (s *UserService) CountEventManagers(ctx context.Context) (int64, error) {
	n, err := s.users.CountByRole(ctx, domain.RoleEventManager)
	if err != nil {
		return 0, fmt.Errorf("count event managers: %w", err)
	}
	return n, nil
}

func (s *UserService) EventManagerExists(ctx context.Context) (bool, error) {
	ok, err := s.users.ExistsByRole(ctx, domain.RoleEventManager)
	if err != nil {
		return false, fmt.Errorf("event manager exists: %w", err)
	}
	return ok, nil
}

// ensureManagerRemains rejects moving user to role when that would leave the
// system without an event manager. It must run inside the transaction that
// performs the write; the role guard makes concurrent demotions conflict
// instead of both reading the same count.
func (s *UserService) ensureManagerRemains(ctx context.Context, user *domain.User, role domain.Role) error {
	if !user.IsEventManager() || role == domain.RoleEventManager {
		return nil
	}
	if err := s.users.LockRole(ctx, domain.RoleEventManager); err != nil {
		return err
	}
	n, err := s.users.CountByRole(ctx, domain.RoleEventManager)
	if err != nil {
		return err
	}
	if n <= 1 {
		return domain.ErrLastEventManager
	}
	return nil
}

// ensureAvailable checks that neither username nor email is registered yet.
func (s *UserService) ensureAvailable(ctx context.Context, username, email string) error {
	both, err := s.users.ExistsByUsernameAndEmail(ctx, username, email)
	if err != nil {
		return err
	}
	if both {
		return domain.ErrUserExists
	}
	return s.ensureFree(ctx, username, email, true, true)
}

// ensureNoCollision checks that a changed username or email does not belong
// to somebody else.
func (s *UserService) ensureNoCollision(ctx context.Context, user *domain.User, username, email string) error {
	usernameChanged := username != user.Username
	emailChanged := email != user.Email
	if usernameChanged && emailChanged {
		both, err := s.users.ExistsByUsernameAndEmail(ctx, username, email)
		if err != nil {
			return err
		}
		if both {
			return domain.ErrUserExists
		}
	}
	return s.ensureFree(ctx, username, email, usernameChanged, emailChanged)
}

func (s *UserService) ensureFree(ctx context.Context, username, email string, checkUsername, checkEmail bool) error {
	if checkUsername {
		taken, err := s.users.ExistsByUsername(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrUsernameTaken
		}
	}
	if checkEmail {
		taken, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrEmailTaken
		}
	}
	return nil
}
