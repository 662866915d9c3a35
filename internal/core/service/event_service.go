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

// EventService implements the event catalog and the attendance bookkeeping.
type EventService struct {
	events ports.EventRepository
	users  ports.UserRepository
	tx     ports.Transactor
	log    zerolog.Logger
}

// NewEventService returns an EventService backed by the given repositories.
func NewEventService(
	events ports.EventRepository,
	users ports.UserRepository,
	tx ports.Transactor,
	log zerolog.Logger,
) *EventService {
	return &EventService{
		events: events,
		users:  users,
		tx:     tx,
		log:    log,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, in ports.EventInput) (*domain.Event, error) {
	if in.AvailableTickets < 0 {
		return nil, fmt.Errorf("create event: %w", domain.ErrInvalidTickets)
	}

	now := time.Now().UTC()
	event := &domain.Event{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Description:      in.Description,
		Date:             in.Date.UTC(),
		Location:         in.Location,
		AvailableTickets: in.AvailableTickets,
		Attendees:        []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.Info().Str("event_id", event.ID).Int("tickets", event.AvailableTickets).Msg("event created")
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context, page ports.PageRequest) (*ports.PageResult[*domain.Event], error) {
	page = page.Normalize()
	events, total, err := s.events.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return ports.NewPageResult(events, total, page), nil
}

// UpdateEvent replaces every editable field of the event. The new ticket
// count is taken as given: it is not checked against the attendees already
// registered, and nobody is evicted.
func (s *EventService) UpdateEvent(ctx context.Context, id string, in ports.EventInput) (*domain.Event, error) {
	if in.AvailableTickets < 0 {
		return nil, fmt.Errorf("update event: %w", domain.ErrInvalidTickets)
	}

	var updated *domain.Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		event, err := s.events.FindByID(ctx, id)
		if err != nil {
			return err
		}
		event.Name = in.Name
		event.Description = in.Description
		event.Date = in.Date.UTC()
		event.Location = in.Location
		event.AvailableTickets = in.AvailableTickets
		event.UpdatedAt = time.Now().UTC()

		if err := s.events.Update(ctx, event); err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.log.Info().Str("event_id", id).Msg("event updated")
	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.log.Info().Str("event_id", id).Msg("event deleted")
	return nil
}

// AddUserToEvent gives userID one of the event's tickets.
func (s *EventService) AddUserToEvent(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	event, err := s.changeAttendance(ctx, eventID, userID, (*domain.Event).Join)
	if err != nil {
		return nil, fmt.Errorf("add user to event: %w", err)
	}
	s.log.Info().
		Str("event_id", eventID).
		Str("user_id", userID).
		Int("tickets_left", event.AvailableTickets).
		Msg("user joined event")
	return event, nil
}

// RemoveUserFromEvent takes userID off the attendee list and frees its ticket.
func (s *EventService) RemoveUserFromEvent(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	event, err := s.changeAttendance(ctx, eventID, userID, (*domain.Event).Leave)
	if err != nil {
		return nil, fmt.Errorf("remove user from event: %w", err)
	}
	s.log.Info().
		Str("event_id", eventID).
		Str("user_id", userID).
		Int("tickets_left", event.AvailableTickets).
		Msg("user left event")
	return event, nil
}

// changeAttendance loads both aggregates, applies change to the event and
// persists ticket count and attendee list together.
func (s *EventService) changeAttendance(
	ctx context.Context,
	eventID, userID string,
	change func(*domain.Event, string) error,
) (*domain.Event, error) {
	var updated *domain.Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		event, err := s.events.FindByID(ctx, eventID)
		if err != nil {
			return err
		}
		if _, err := s.users.FindByID(ctx, userID); err != nil {
			return err
		}
		if err := change(event, userID); err != nil {
			return err
		}
		event.UpdatedAt = time.Now().UTC()

		if err := s.events.Update(ctx, event); err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *EventService) ListEventsForUser(ctx context.Context, userID string, page ports.PageRequest) (*ports.PageResult[*domain.Event], error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("list events for user: %w", err)
	}

	page = page.Normalize()
	events, total, err := s.events.ListByAttendee(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("list events for user: %w", err)
	}
	return ports.NewPageResult(events, total, page), nil
}
