package domain

import (
	"slices"
	"time"
)

// Event is a happening with a bounded number of tickets that users can join.
type Event struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Date             time.Time `json:"date"`
	Location         string    `json:"location"`
	AvailableTickets int       `json:"available_tickets"`
	Attendees        []string  `json:"attendees"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasAttendee reports whether userID currently attends the event.
func (e *Event) HasAttendee(userID string) bool {
	return slices.Contains(e.Attendees, userID)
}

// Join takes one ticket for userID.
// A user cannot hold two tickets for the same event, and a sold-out event
// rejects every join.
func (e *Event) Join(userID string) error {
	if e.HasAttendee(userID) {
		return ErrAlreadyAttending
	}
	if e.AvailableTickets <= 0 {
		return ErrNoTicketsAvailable
	}
	e.AvailableTickets--
	e.Attendees = append(e.Attendees, userID)
	return nil
}

// Leave gives back the ticket held by userID.
func (e *Event) Leave(userID string) error {
	i := slices.Index(e.Attendees, userID)
	if i < 0 {
		return ErrNotAttending
	}
	e.Attendees = slices.Delete(e.Attendees, i, i+1)
	e.AvailableTickets++
	return nil
}
