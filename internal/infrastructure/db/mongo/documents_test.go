package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/consitech/event-manager/internal/core/domain"
	"github.com/consitech/event-manager/internal/core/ports"
)

func TestUserDocument_KeepsHashOutOfJSONButInStore(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &domain.User{
		ID:           "u1",
		Username:     "mattia",
		Email:        "info@consitech.it",
		PasswordHash: "$2a$hash",
		Role:         domain.RoleEventManager,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	raw, err := bson.Marshal(toUserDocument(u))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc userDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := doc.toDomain()
	if got.ID != "u1" || got.PasswordHash != "$2a$hash" || got.Role != domain.RoleEventManager {
		t.Fatalf("unexpected user: %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, got.CreatedAt)
	}
}

func TestEventDocument_NilAttendeesBecomeEmpty(t *testing.T) {
	doc := toEventDocument(&domain.Event{ID: "e1"})
	if doc.Attendees == nil {
		t.Fatalf("expected attendees to be stored as an empty array")
	}
	if got := (eventDocument{ID: "e1"}).toDomain(); got.Attendees == nil {
		t.Fatalf("expected decoded attendees to be non-nil")
	}
}

func TestPageOptions(t *testing.T) {
	opts := pageOptions(ports.PageRequest{Page: 3, Limit: 10}, "date")

	if opts.Skip == nil || *opts.Skip != 20 {
		t.Fatalf("expected skip 20, got %v", opts.Skip)
	}
	if opts.Limit == nil || *opts.Limit != 10 {
		t.Fatalf("expected limit 10, got %v", opts.Limit)
	}
	sort, ok := opts.Sort.(bson.D)
	if !ok || len(sort) != 2 || sort[0].Key != "date" || sort[1].Key != "_id" {
		t.Fatalf("unexpected sort: %#v", opts.Sort)
	}
}
