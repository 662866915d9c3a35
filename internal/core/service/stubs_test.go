package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/consitech/event-manager/internal/core/domain"
	"github.com/consitech/event-manager/internal/core/ports"
)

type stubUserRepo struct {
	users     map[string]*domain.User
	createErr error
	countErr  error
	lockErr   error
	// calls records role guard and role count operations in order.
	calls []string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, identifier string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == identifier || u.Email == identifier {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByUsernameAndEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) LockRole(_ context.Context, role domain.Role) error {
	r.calls = append(r.calls, "lock:"+string(role))
	return r.lockErr
}

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.calls = append(r.calls, "count:"+string(role))
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) ExistsByRole(ctx context.Context, role domain.Role) (bool, error) {
	n, err := r.CountByRole(ctx, role)
	return n > 0, err
}

func (r *stubUserRepo) List(_ context.Context, page ports.PageRequest) ([]*domain.User, int64, error) {
	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return paginate(all, page), int64(len(all)), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubEventRepo struct {
	events    map[string]*domain.Event
	updateErr error
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{events: make(map[string]*domain.Event)}
}

func cloneEvent(e *domain.Event) *domain.Event {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Attendees = slices.Clone(e.Attendees)
	return &clone
}

func (r *stubEventRepo) Create(_ context.Context, event *domain.Event) error {
	r.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return cloneEvent(e), nil
}

func (r *stubEventRepo) sorted(keep func(*domain.Event) bool) []*domain.Event {
	out := make([]*domain.Event, 0, len(r.events))
	for _, e := range r.events {
		if keep(e) {
			out = append(out, cloneEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *stubEventRepo) List(_ context.Context, page ports.PageRequest) ([]*domain.Event, int64, error) {
	all := r.sorted(func(*domain.Event) bool { return true })
	return paginate(all, page), int64(len(all)), nil
}

func (r *stubEventRepo) ListByAttendee(_ context.Context, userID string, page ports.PageRequest) ([]*domain.Event, int64, error) {
	all := r.sorted(func(e *domain.Event) bool { return e.HasAttendee(userID) })
	return paginate(all, page), int64(len(all)), nil
}

func (r *stubEventRepo) Update(_ context.Context, event *domain.Event) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	r.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *stubEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *stubEventRepo) RemoveAttendee(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, e := range r.events {
		if err := e.Leave(userID); err == nil {
			n++
		}
	}
	return n, nil
}

func paginate[T any](all []T, page ports.PageRequest) []T {
	page = page.Normalize()
	start := int(page.Offset())
	if start >= len(all) {
		return nil
	}
	end := min(start+page.Limit, len(all))
	return all[start:end]
}

// stubTx runs fn directly and counts how often it was asked to.
type stubTx struct {
	calls int
}

func (t *stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type bcryptHasher struct{}

func (bcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	return string(b), err
}

func (bcryptHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

type stubTokens struct {
	err error
}

func (t stubTokens) Issue(user *domain.User) (string, time.Time, error) {
	if t.err != nil {
		return "", time.Time{}, t.err
	}
	return "token-" + user.ID + "-" + string(user.Role), time.Now().Add(time.Hour), nil
}

type stubAvatars struct {
	uploads   int
	err       error
	deleted   []string
	deleteErr error
}

func (s *stubAvatars) UploadAvatar(_ context.Context, userID string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploads++
	return "https://storage.example.com/avatars/" + userID + "/" + strings.Repeat("a", len(data)) + ".png", nil
}

func (s *stubAvatars) DeleteAvatar(_ context.Context, userID, url string) error {
	s.deleted = append(s.deleted, userID+" "+url)
	return s.deleteErr
}

var errBoom = errors.New("boom")

type fixture struct {
	users   *stubUserRepo
	events  *stubEventRepo
	tx      *stubTx
	avatars *stubAvatars
	userSvc *UserService
	evSvc   *EventService
	auth    *AuthService
}

func newFixture() *fixture {
	f := &fixture{
		users:   newStubUserRepo(),
		events:  newStubEventRepo(),
		tx:      &stubTx{},
		avatars: &stubAvatars{},
	}
	log := zerolog.Nop()
	f.userSvc = NewUserService(f.users, f.events, f.tx, bcryptHasher{}, f.avatars, log)
	f.evSvc = NewEventService(f.events, f.users, f.tx, log)
	f.auth = NewAuthService(f.userSvc, bcryptHasher{}, stubTokens{}, log)
	return f
}

// seedUser stores a user directly, bypassing the service.
func (f *fixture) seedUser(id, username string, role domain.Role) *domain.User {
	hash, _ := bcryptHasher{}.Hash("password")
	u := &domain.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		FirstName:    "First",
		LastName:     "Last",
		AvatarURL:    domain.PlaceholderAvatar("First", "Last"),
		Role:         role,
	}
	f.users.users[id] = cloneUser(u)
	return u
}

func (f *fixture) seedEvent(id string, tickets int, attendees ...string) *domain.Event {
	e := &domain.Event{
		ID:               id,
		Name:             "event " + id,
		Date:             time.Date(2027, 3, 1, 20, 0, 0, 0, time.UTC),
		Location:         "Milano",
		AvailableTickets: tickets,
		Attendees:        append([]string{}, attendees...),
	}
	f.events.events[id] = cloneEvent(e)
	return e
}
