package ports

import (
	"context"
	"time"

	"github.com/consitech/event-manager/internal/core/domain"
)

// EventInput carries every editable field of an event.
type EventInput struct {
	Name             string
	Description      string
	Date             time.Time
	Location         string
	AvailableTickets int
}

// EventService is the event catalog.
type EventService interface {
	CreateEvent(ctx context.Context, in EventInput) (*domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	ListEvents(ctx context.Context, page PageRequest) (*PageResult[*domain.Event], error)
	UpdateEvent(ctx context.Context, id string, in EventInput) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	AddUserToEvent(ctx context.Context, eventID, userID string) (*domain.Event, error)
	RemoveUserFromEvent(ctx context.Context, eventID, userID string) (*domain.Event, error)
	ListEventsForUser(ctx context.Context, userID string, page PageRequest) (*PageResult[*domain.Event], error)
}
