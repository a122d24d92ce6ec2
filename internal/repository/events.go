// Package repository maps domain entities to document store records.
// Record field names are the wire/storage contract and must stay stable.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/domain"
)

// eventRecord is the stored shape of a domain.Event.
type eventRecord struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Lat           float64          `json:"lat"`
	Lng           float64          `json:"lng"`
	LocationLabel string           `json:"locationLabel"`
	StartTime     time.Time        `json:"startTime"`
	EndTime       time.Time        `json:"endTime"`
	CreatedBy     string           `json:"createdBy"`
	IsActive      bool             `json:"isActive"`
	Comments      []commentRecord  `json:"comments"`
	Attendees     []attendeeRecord `json:"attendees"`
	Tags          []string         `json:"tags"`
	CreatedAt     time.Time        `json:"createdAt"`
}

type commentRecord struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	AuthorUsername string    `json:"authorUsername"`
	Timestamp      time.Time `json:"timestamp"`
}

type attendeeRecord struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	Status    string `json:"status"`
}

// Events persists domain.Event documents.
type Events struct {
	store docstore.Store
}

// NewEvents creates the events repository.
func NewEvents(store docstore.Store) *Events {
	return &Events{store: store}
}

// Save upserts the full event document.
func (r *Events) Save(ctx context.Context, e *domain.Event) error {
	return r.SaveIn(ctx, r.store, e)
}

// SaveIn upserts the event through the given store view (e.g. a transaction).
func (r *Events) SaveIn(ctx context.Context, w docstore.Writer, e *domain.Event) error {
	if err := w.Put(ctx, docstore.CollectionEvents, e.ID.String(), eventToRecord(e)); err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// Get fetches one event by id.
func (r *Events) Get(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var rec eventRecord
	if err := r.store.Get(ctx, docstore.CollectionEvents, id.String(), &rec); err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	e, err := eventFromRecord(rec)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List fetches every event.
func (r *Events) List(ctx context.Context) ([]domain.Event, error) {
	return r.ListIn(ctx, r.store)
}

// ListIn fetches every event through the given store view.
func (r *Events) ListIn(ctx context.Context, view docstore.Reader) ([]domain.Event, error) {
	var recs []eventRecord
	if err := view.ListAll(ctx, docstore.CollectionEvents, &recs); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]domain.Event, 0, len(recs))
	for _, rec := range recs {
		e, err := eventFromRecord(rec)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// ByCreator fetches events with the given createdBy username.
func (r *Events) ByCreator(ctx context.Context, username string) ([]domain.Event, error) {
	var recs []eventRecord
	if err := r.store.QueryByField(ctx, docstore.CollectionEvents, "createdBy", username, 0, &recs); err != nil {
		return nil, fmt.Errorf("events by creator: %w", err)
	}

	events := make([]domain.Event, 0, len(recs))
	for _, rec := range recs {
		e, err := eventFromRecord(rec)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// RunTransaction exposes the store's transaction primitive to the event
// service (rename cascades are all-or-nothing).
func (r *Events) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx docstore.Tx) error) error {
	return r.store.RunTransaction(ctx, fn)
}

// ---------------------------------------------------------------------------
// Mapping helpers: domain ↔ record
// ---------------------------------------------------------------------------

func eventToRecord(e *domain.Event) eventRecord {
	comments := make([]commentRecord, len(e.Comments))
	for i, c := range e.Comments {
		comments[i] = commentRecord{
			ID:             c.ID.String(),
			Text:           c.Text,
			AuthorUsername: c.AuthorUsername,
			Timestamp:      c.Timestamp.UTC(),
		}
	}

	attendees := make([]attendeeRecord, len(e.Attendees))
	for i, a := range e.Attendees {
		attendees[i] = attendeeRecord{
			ID:        a.ID.String(),
			AccountID: a.AccountID.String(),
			Status:    string(a.Status),
		}
	}

	// Tags persist as raw string labels, not enum ordinals.
	tags := make([]string, len(e.Tags))
	for i, t := range e.Tags {
		tags[i] = string(t)
	}

	return eventRecord{
		ID:            e.ID.String(),
		Title:         e.Title,
		Description:   e.Description,
		Lat:           e.Location.Lat,
		Lng:           e.Location.Lng,
		LocationLabel: e.LocationLabel,
		StartTime:     e.StartTime.UTC(),
		EndTime:       e.EndTime.UTC(),
		CreatedBy:     e.CreatedBy,
		IsActive:      e.IsActive,
		Comments:      comments,
		Attendees:     attendees,
		Tags:          tags,
		CreatedAt:     e.CreatedAt.UTC(),
	}
}

func eventFromRecord(rec eventRecord) (domain.Event, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("event record id %q: %w", rec.ID, err)
	}

	comments := make([]domain.Comment, len(rec.Comments))
	for i, c := range rec.Comments {
		cid, err := uuid.Parse(c.ID)
		if err != nil {
			return domain.Event{}, fmt.Errorf("comment record id %q: %w", c.ID, err)
		}
		comments[i] = domain.Comment{
			ID:             cid,
			Text:           c.Text,
			AuthorUsername: c.AuthorUsername,
			Timestamp:      c.Timestamp,
		}
	}

	attendees := make([]domain.Attendee, len(rec.Attendees))
	for i, a := range rec.Attendees {
		aid, err := uuid.Parse(a.ID)
		if err != nil {
			return domain.Event{}, fmt.Errorf("attendee record id %q: %w", a.ID, err)
		}
		accountID, err := uuid.Parse(a.AccountID)
		if err != nil {
			return domain.Event{}, fmt.Errorf("attendee record account id %q: %w", a.AccountID, err)
		}
		attendees[i] = domain.Attendee{
			ID:        aid,
			AccountID: accountID,
			Status:    domain.AttendanceStatus(a.Status),
		}
	}

	tags := make([]domain.Tag, len(rec.Tags))
	for i, t := range rec.Tags {
		tags[i] = domain.Tag(t)
	}

	return domain.Event{
		ID:            id,
		Title:         rec.Title,
		Description:   rec.Description,
		Location:      domain.GeoPoint{Lat: rec.Lat, Lng: rec.Lng},
		LocationLabel: rec.LocationLabel,
		StartTime:     rec.StartTime,
		EndTime:       rec.EndTime,
		CreatedBy:     rec.CreatedBy,
		IsActive:      rec.IsActive,
		Comments:      comments,
		Attendees:     attendees,
		Tags:          tags,
		CreatedAt:     rec.CreatedAt,
	}, nil
}
