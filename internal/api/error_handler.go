package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/consitech/event-manager/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// statusByError maps domain sentinels to HTTP codes. The sentinel's own text
// is sent to the client.
var statusByError = []struct {
	err  error
	code int
}{
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrEventNotFound, http.StatusNotFound},

	{domain.ErrAlreadyAttending, http.StatusBadRequest},
	{domain.ErrNoTicketsAvailable, http.StatusBadRequest},
	{domain.ErrNotAttending, http.StatusBadRequest},
	{domain.ErrLastEventManager, http.StatusBadRequest},
	{domain.ErrPasswordUnchanged, http.StatusBadRequest},
	{domain.ErrWrongPassword, http.StatusBadRequest},
	{domain.ErrInvalidRole, http.StatusBadRequest},
	{domain.ErrInvalidTickets, http.StatusBadRequest},
	{domain.ErrInvalidAvatar, http.StatusBadRequest},

	{domain.ErrUserExists, http.StatusConflict},
	{domain.ErrUsernameTaken, http.StatusConflict},
	{domain.ErrEmailTaken, http.StatusConflict},

	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
}

// NewHTTPErrorHandler renders every error as {"error": "<message>"}. Errors
// outside statusByError are logged and reported as a bare 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// echo.HTTPError from binding, routing or middleware
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.code, m.err.Error()
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
