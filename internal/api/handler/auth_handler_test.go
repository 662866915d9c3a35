package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/consitech/event-manager/internal/core/domain"
	"github.com/consitech/event-manager/internal/core/ports"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.NewUserInput) (*domain.User, error) {
			if in.Username != "mario" || in.Email != "mario@example.com" || in.FirstName != "Mario" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", Username: in.Username, Role: domain.RoleUser, PasswordHash: "hash"}, nil
		},
	}
	h := NewAuthHandler(stub)

	body := strings.NewReader(`{"username":"mario","email":"mario@example.com","password":"secret1","first_name":"Mario","last_name":"Rossi"}`)
	c, rec := newContext(e, http.MethodPost, "/api/v1/auth/register", body, "", "")

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user := resp["user"]
	if user["username"] != "mario" || user["role"] != "USER" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(e, http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"username":"mr","email":"nope"}`), "", "")
	err := h.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
	msg, _ := he.Message.(string)
	if !strings.Contains(msg, "username must be at least 3 characters") || !strings.Contains(msg, "email must be a valid email") {
		t.Fatalf("unexpected validation message: %q", msg)
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.NewUserInput) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	h := NewAuthHandler(stub)

	body := strings.NewReader(`{"username":"mario","email":"mario@example.com","password":"secret1","first_name":"Mario","last_name":"Rossi"}`)
	c, _ := newContext(e, http.MethodPost, "/api/v1/auth/register", body, "", "")

	if err := h.Register(c); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, identifier, password string) (string, *domain.User, error) {
			if identifier != "mattia" || password != "consitech" {
				t.Fatalf("unexpected credentials: %s %s", identifier, password)
			}
			return "signed-token", &domain.User{ID: "m1", Username: "mattia", Role: domain.RoleEventManager}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(e, http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"identifier":"mattia","password":"consitech"}`), "", "")
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "signed-token" {
		t.Fatalf("unexpected token: %s", resp.Token)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, identifier, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newContext(e, http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"identifier":"ghost","password":"x"}`), "", "")
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(e, http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`), "", "")
	var he *echo.HTTPError
	if err := h.Login(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
