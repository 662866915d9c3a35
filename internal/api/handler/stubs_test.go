package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/consitech/event-manager/internal/api/middleware"
	"github.com/consitech/event-manager/internal/core/domain"
	"github.com/consitech/event-manager/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.NewUserInput) (*domain.User, error)
	loginFn    func(ctx context.Context, identifier, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.NewUserInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, identifier, password)
}

// stubUserService embeds the interface so tests only implement what they call.
type stubUserService struct {
	ports.UserService
	getFn          func(ctx context.Context, id string) (*domain.User, error)
	updateFn       func(ctx context.Context, id string, in ports.UpdateProfileInput) (*domain.User, error)
	changeAvatarFn func(ctx context.Context, id string, data []byte) (*domain.User, error)
	changeRoleFn   func(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	deleteFn       func(ctx context.Context, id string) error
	listFn         func(ctx context.Context, page ports.PageRequest) (*ports.PageResult[*domain.User], error)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) UpdateUserProfile(ctx context.Context, id string, in ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) ChangeAvatar(ctx context.Context, id string, data []byte) (*domain.User, error) {
	return s.changeAvatarFn(ctx, id, data)
}

func (s *stubUserService) ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	return s.changeRoleFn(ctx, id, role)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) ListUsers(ctx context.Context, page ports.PageRequest) (*ports.PageResult[*domain.User], error) {
	return s.listFn(ctx, page)
}

type stubEventService struct {
	ports.EventService
	createFn    func(ctx context.Context, in ports.EventInput) (*domain.Event, error)
	listFn      func(ctx context.Context, page ports.PageRequest) (*ports.PageResult[*domain.Event], error)
	addFn       func(ctx context.Context, eventID, userID string) (*domain.Event, error)
	removeFn    func(ctx context.Context, eventID, userID string) (*domain.Event, error)
	listForUser func(ctx context.Context, userID string, page ports.PageRequest) (*ports.PageResult[*domain.Event], error)
}

func (s *stubEventService) CreateEvent(ctx context.Context, in ports.EventInput) (*domain.Event, error) {
	return s.createFn(ctx, in)
}

func (s *stubEventService) ListEvents(ctx context.Context, page ports.PageRequest) (*ports.PageResult[*domain.Event], error) {
	return s.listFn(ctx, page)
}

func (s *stubEventService) AddUserToEvent(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	return s.addFn(ctx, eventID, userID)
}

func (s *stubEventService) RemoveUserFromEvent(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	return s.removeFn(ctx, eventID, userID)
}

func (s *stubEventService) ListEventsForUser(ctx context.Context, userID string, page ports.PageRequest) (*ports.PageResult[*domain.Event], error) {
	return s.listForUser(ctx, userID, page)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds an echo context for method/target with an optional JSON
// body, authenticated as userID when it is non-empty.
func newContext(e *echo.Echo, method, target string, body io.Reader, userID string, role domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxRole, string(role))
	}
	return c, rec
}
