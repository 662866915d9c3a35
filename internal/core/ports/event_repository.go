package ports

import (
	"context"

	"github.com/consitech/event-manager/internal/core/domain"
)

// EventRepository defines persistence operations for events and their
// attendance links.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, page PageRequest) ([]*domain.Event, int64, error)
	// ListByAttendee returns the events userID attends.
	ListByAttendee(ctx context.Context, userID string, page PageRequest) ([]*domain.Event, int64, error)
	// Update replaces the stored event, attendees and ticket count included,
	// in a single write.
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
	// RemoveAttendee drops userID from every event it attends and gives the
	// ticket back. It returns the number of events touched.
	RemoveAttendee(ctx context.Context, userID string) (int64, error)
}
