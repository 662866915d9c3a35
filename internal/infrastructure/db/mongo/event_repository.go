package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/consitech/event-manager/internal/core/domain"
	"github.com/consitech/event-manager/internal/core/ports"
)

const collectionEvents = "events"

// EventRepository stores events with their attendee ids embedded, so the
// ticket count and the attendee list always change in the same write.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

type eventDocument struct {
	ID               string    `bson:"_id"`
	Name             string    `bson:"name"`
	Description      string    `bson:"description"`
	Date             time.Time `bson:"date"`
	Location         string    `bson:"location"`
	AvailableTickets int       `bson:"available_tickets"`
	Attendees        []string  `bson:"attendees"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func toEventDocument(e *domain.Event) eventDocument {
	attendees := e.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return eventDocument{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		Date:             e.Date.UTC(),
		Location:         e.Location,
		AvailableTickets: e.AvailableTickets,
		Attendees:        attendees,
		CreatedAt:        e.CreatedAt.UTC(),
		UpdatedAt:        e.UpdatedAt.UTC(),
	}
}

func (d eventDocument) toDomain() *domain.Event {
	attendees := d.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return &domain.Event{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Description,
		Date:             d.Date.UTC(),
		Location:         d.Location,
		AvailableTickets: d.AvailableTickets,
		Attendees:        attendees,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toEventDocument(event)); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc eventDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EventRepository) List(ctx context.Context, page ports.PageRequest) ([]*domain.Event, int64, error) {
	return r.list(ctx, bson.M{}, page)
}

// ListByAttendee matches userID against the embedded attendees array.
func (r *EventRepository) ListByAttendee(ctx context.Context, userID string, page ports.PageRequest) ([]*domain.Event, int64, error) {
	return r.list(ctx, bson.M{"attendees": userID}, page)
}

func (r *EventRepository) list(ctx context.Context, filter bson.M, page ports.PageRequest) ([]*domain.Event, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	cur, err := r.col.Find(ctx, filter, pageOptions(page, "date"))
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []eventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode events: %w", err)
	}

	events := make([]*domain.Event, 0, len(docs))
	for _, d := range docs {
		events = append(events, d.toDomain())
	}
	return events, total, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": event.ID}, toEventDocument(event))
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// RemoveAttendee pulls userID out of every event and returns the tickets.
func (r *EventRepository) RemoveAttendee(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"attendees": userID},
		"$inc":  bson.M{"available_tickets": 1},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.col.UpdateMany(ctx, bson.M{"attendees": userID}, update)
	if err != nil {
		return 0, fmt.Errorf("remove attendee: %w", err)
	}
	return res.ModifiedCount, nil
}

// EnsureIndexes creates the lookup indexes on the events collection.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "attendees", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
