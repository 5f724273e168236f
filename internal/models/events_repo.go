package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

func (su *SupabaseRepo) ListEvents(ctx context.Context, q EventQuery) ([]*Event, error) {
	fb := su.serviceClient.From(EventsTable).Select(eventSelectJoin, "", false)
	raw, _, err := q.Apply(fb).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := []*Event{}
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}
	return events, nil
}

func (su *SupabaseRepo) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	raw, _, err := su.serviceClient.From(EventsTable).
		Select(eventSelectJoin, "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", id, err)
	}

	// PostgREST returns an array even for a single match
	var events []*Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event rows: %w", err)
	}
	if len(events) != 1 {
		return nil, ErrNotFound
	}
	return events[0], nil
}

func (su *SupabaseRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	row := map[string]interface{}{
		"title":       event.Title,
		"description": event.Description,
		"date":        event.Date,
		"time":        event.Time,
		"location":    event.Location,
		"category":    event.Category,
		"capacity":    event.Capacity,
		"price":       event.Price,
	}
	if event.ImageURL != nil {
		row["image_url"] = *event.ImageURL
	}
	if event.Latitude != nil {
		row["latitude"] = *event.Latitude
	}
	if event.Longitude != nil {
		row["longitude"] = *event.Longitude
	}
	if event.Website != nil {
		row["website"] = *event.Website
	}
	if event.UserID != nil {
		row["user_id"] = event.UserID.String()
	}

	raw, _, err := su.serviceClient.From(EventsTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	var created []*Event
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created event: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("no event data returned after insert")
	}
	return created[0], nil
}

func (su *SupabaseRepo) UpdateEvent(ctx context.Context, id uuid.UUID, patch *EventPatch) (*Event, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return su.GetEvent(ctx, id)
	}

	raw, _, err := su.serviceClient.From(EventsTable).
		Update(cols, "representation", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", id, err)
	}

	var updated []*Event
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated event: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrNotFound
	}
	return updated[0], nil
}

func (su *SupabaseRepo) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	_, _, err := su.serviceClient.From(EventsTable).
		Delete("minimal", "").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return nil
}

func (su *SupabaseRepo) JoinEvent(ctx context.Context, eventID uuid.UUID, userID string) (*Attendance, error) {
	row := map[string]interface{}{
		"event_id": eventID.String(),
		"user_id":  userID,
	}

	raw, _, err := su.serviceClient.From(AttendeesTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert attendance: %w", err)
	}

	var rows []*Attendance
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attendance: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no attendance data returned after insert")
	}
	return rows[0], nil
}

func (su *SupabaseRepo) LeaveEvent(ctx context.Context, eventID uuid.UUID, userID string) error {
	_, _, err := su.serviceClient.From(AttendeesTable).
		Delete("minimal", "").
		Eq("event_id", eventID.String()).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}

func (su *SupabaseRepo) ListAttendees(ctx context.Context, eventID uuid.UUID) ([]*Attendance, error) {
	raw, _, err := su.serviceClient.From(AttendeesTable).
		Select("*", "", false).
		Eq("event_id", eventID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}

	rows := []*Attendance{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attendees: %w", err)
	}
	return rows, nil
}
