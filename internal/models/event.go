package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventsTable     = "events"
	AttendeesTable  = "event_attendees"
	ProfileTable    = "profiles"
	UserRolesTable  = "user_roles"
	DateLayout      = "2006-01-02"
	eventSelectJoin = "*, profiles:user_id (full_name, avatar_url)"
)

// Event is a row of the events table. Profile is only populated on reads
// that join the owner's display data.
type Event struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Time        string          `json:"time"` // HH:MM (24h)
	Location    string          `json:"location"`
	Category    string          `json:"category"`
	Capacity    int             `json:"capacity"`
	Price       float64         `json:"price"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Latitude    *float64        `json:"latitude,omitempty"`
	Longitude   *float64        `json:"longitude,omitempty"`
	Website     *string         `json:"website,omitempty"`
	UserID      *uuid.UUID      `json:"user_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Profile     *ProfileSummary `json:"profiles,omitempty"`
}

// IsFree reports whether the event has no entry price.
func (e *Event) IsFree() bool {
	return e.Price == 0
}

// ProfileSummary is the owner display data joined onto event reads.
type ProfileSummary struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// Attendance records that a user joined an event.
type Attendance struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
