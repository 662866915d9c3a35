package domain

import (
	"errors"
	"testing"
)

func TestEvent_JoinTakesTicket(t *testing.T) {
	e := &Event{AvailableTickets: 2}

	if err := e.Join("u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.AvailableTickets != 1 || !e.HasAttendee("u1") {
		t.Fatalf("unexpected state: %+v", e)
	}
	if err := e.Join("u1"); !errors.Is(err, ErrAlreadyAttending) {
		t.Fatalf("expected ErrAlreadyAttending, got %v", err)
	}
	if e.AvailableTickets != 1 {
		t.Fatalf("double join must not take a ticket, got %d", e.AvailableTickets)
	}
}

func TestEvent_JoinSoldOut(t *testing.T) {
	e := &Event{AvailableTickets: 1}
	if err := e.Join("u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Join("u2"); !errors.Is(err, ErrNoTicketsAvailable) {
		t.Fatalf("expected ErrNoTicketsAvailable, got %v", err)
	}
	if e.HasAttendee("u2") || e.AvailableTickets != 0 {
		t.Fatalf("sold out event changed: %+v", e)
	}
}

func TestEvent_LeaveReturnsTicket(t *testing.T) {
	e := &Event{AvailableTickets: 0, Attendees: []string{"u1", "u2", "u3"}}

	if err := e.Leave("u2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.AvailableTickets != 1 || e.HasAttendee("u2") || len(e.Attendees) != 2 {
		t.Fatalf("unexpected state: %+v", e)
	}
	if err := e.Leave("u2"); !errors.Is(err, ErrNotAttending) {
		t.Fatalf("expected ErrNotAttending, got %v", err)
	}
	if e.AvailableTickets != 1 {
		t.Fatalf("phantom leave must not return a ticket, got %d", e.AvailableTickets)
	}
}

func TestEvent_TicketsAreConserved(t *testing.T) {
	e := &Event{AvailableTickets: 3}
	total := e.AvailableTickets

	for _, id := range []string{"a", "b", "c", "d"} {
		_ = e.Join(id)
	}
	_ = e.Leave("b")
	_ = e.Leave("zz")
	_ = e.Join("b")

	if got := e.AvailableTickets + len(e.Attendees); got != total {
		t.Fatalf("tickets not conserved: %d available + %d attendees != %d", e.AvailableTickets, len(e.Attendees), total)
	}
}
