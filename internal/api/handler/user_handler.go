package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/consitech/event-manager/internal/core/domain"
	"github.com/consitech/event-manager/internal/core/ports"
)

// MaxAvatarBytes caps the size of an uploaded avatar.
const MaxAvatarBytes = 5 << 20

// UserHandler serves the self-service /users/me routes and the manager-only
// /users/:id routes.
type UserHandler struct {
	users  ports.UserService
	events ports.EventService
}

func NewUserHandler(users ports.UserService, events ports.EventService) *UserHandler {
	return &UserHandler{users: users, events: events}
}

// GetMe returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	return h.get(c, id)
}

// UpdateMe replaces the authenticated user's profile. The role cannot be
// changed through this route.
//
// @Summary      Update current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "New profile"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateUserProfile(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword swaps the authenticated user's password.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Router       /users/me/password [patch]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.ChangePassword(c.Request().Context(), id, req.OldPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangeAvatar uploads a new profile picture from the multipart field "avatar".
//
// @Summary      Upload avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "Image file"
// @Success      200     {object}  domain.User
// @Failure      400     {object}  map[string]string
// @Router       /users/me/avatar [patch]
func (h *UserHandler) ChangeAvatar(c echo.Context) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}

	data, err := readAvatar(c)
	if err != nil {
		return err
	}

	user, err := h.users.ChangeAvatar(c.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func readAvatar(c echo.Context) ([]byte, error) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		return nil, badRequest("avatar file is required")
	}
	if fh.Size > MaxAvatarBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", domain.ErrInvalidAvatar, MaxAvatarBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxAvatarBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	if len(data) > MaxAvatarBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", domain.ErrInvalidAvatar, MaxAvatarBytes)
	}
	return data, nil
}

// DeleteMe removes the authenticated account.
//
// @Summary      Delete current user
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /users/me [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	return h.delete(c, id)
}

// MyEvents lists the events the authenticated user attends.
//
// @Summary      Events of the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  map[string]interface{}
// @Router       /users/me/events [get]
func (h *UserHandler) MyEvents(c echo.Context) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	return h.eventsOf(c, id)
}

// List returns a page of users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  map[string]interface{}
// @Failure      403    {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	result, err := h.users.ListUsers(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(result))
}

// Get returns any user by id.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	return h.get(c, c.Param("id"))
}

// Update replaces any user's profile, role included.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "User id"
// @Param        body  body      managerUpdateRequest  true  "New profile"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req managerUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateUserProfile(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangeRole assigns a role to a user.
//
// @Summary      Change role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id}/role [patch]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.ChangeRole(c.Request().Context(), c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes any user.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User id"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	return h.delete(c, c.Param("id"))
}

// Events lists the events a user attends.
//
// @Summary      Events of a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "User id"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  map[string]interface{}
// @Failure      404    {object}  map[string]string
// @Router       /users/{id}/events [get]
func (h *UserHandler) Events(c echo.Context) error {
	return h.eventsOf(c, c.Param("id"))
}

func (h *UserHandler) get(c echo.Context, id string) error {
	user, err := h.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) delete(c echo.Context, id string) error {
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) eventsOf(c echo.Context, id string) error {
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	result, err := h.events.ListEventsForUser(c.Request().Context(), id, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(result))
}
