package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/consitech/event-manager/internal/api/metrics"
	"github.com/consitech/event-manager/internal/core/domain"
	"github.com/consitech/event-manager/internal/core/ports"
)

// EventHandler serves the event catalog and attendance routes.
type EventHandler struct {
	events ports.EventService
}

func NewEventHandler(events ports.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List returns a page of events ordered by date.
//
// @Summary      List events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  map[string]interface{}
// @Router       /events [get]
func (h *EventHandler) List(c echo.Context) error {
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	result, err := h.events.ListEvents(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(result))
}

// Get returns one event.
//
// @Summary      Get event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  domain.Event
// @Failure      404  {object}  map[string]string
// @Router       /events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	event, err := h.events.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// Create adds an event to the catalog.
//
// @Summary      Create event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      eventRequest  true  "Event"
// @Success      201   {object}  domain.Event
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req eventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.events.CreateEvent(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	metrics.EventsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, event)
}

// Update replaces an event. Attendees are kept as they are.
//
// @Summary      Update event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Event id"
// @Param        body  body      eventRequest  true  "Event"
// @Success      200   {object}  domain.Event
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	var req eventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.events.UpdateEvent(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// Delete removes an event and its attendance links.
//
// @Summary      Delete event
// @Tags         events
// @Security     BearerAuth
// @Param        id   path  string  true  "Event id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	if err := h.events.DeleteEvent(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Join takes a ticket for the authenticated user.
//
// @Summary      Join event
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  domain.Event
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/attendees [post]
func (h *EventHandler) Join(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	return h.join(c, userID)
}

// Leave gives back the authenticated user's ticket.
//
// @Summary      Leave event
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  domain.Event
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{id}/attendees/me [delete]
func (h *EventHandler) Leave(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	return h.leave(c, userID)
}

// AddAttendee registers any user to an event.
//
// @Summary      Add attendee
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Event id"
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  domain.Event
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /events/{id}/attendees/{userId} [post]
func (h *EventHandler) AddAttendee(c echo.Context) error {
	return h.join(c, c.Param("userId"))
}

// RemoveAttendee unregisters any user from an event.
//
// @Summary      Remove attendee
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Event id"
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  domain.Event
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /events/{id}/attendees/{userId} [delete]
func (h *EventHandler) RemoveAttendee(c echo.Context) error {
	return h.leave(c, c.Param("userId"))
}

func (h *EventHandler) join(c echo.Context, userID string) error {
	event, err := h.events.AddUserToEvent(c.Request().Context(), c.Param("id"), userID)
	metrics.AttendanceChangesTotal.WithLabelValues("join", attendanceResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) leave(c echo.Context, userID string) error {
	event, err := h.events.RemoveUserFromEvent(c.Request().Context(), c.Param("id"), userID)
	metrics.AttendanceChangesTotal.WithLabelValues("leave", attendanceResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

func attendanceResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNoTicketsAvailable):
		return "sold_out"
	case errors.Is(err, domain.ErrAlreadyAttending):
		return "already_attending"
	case errors.Is(err, domain.ErrNotAttending):
		return "not_attending"
	case errors.Is(err, domain.ErrEventNotFound), errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	default:
		return "error"
	}
}
