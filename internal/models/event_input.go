package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventInput is the full payload accepted when creating an event. Capacity
// and price are pointers so that a missing field can be told apart from 0.
type EventInput struct {
	Title       string   `json:"title" validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=1000"`
	Date        string   `json:"date" validate:"required,event_date"`
	Time        string   `json:"time" validate:"required,clock_time"`
	Location    string   `json:"location" validate:"required,min=5"`
	Category    string   `json:"category" validate:"required,event_category"`
	Capacity    *int     `json:"capacity" validate:"required,min=1,max=10000"`
	Price       *float64 `json:"price" validate:"required,min=0"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Website     *string  `json:"website" validate:"omitempty,url"`
	UserID      *string  `json:"user_id" validate:"omitempty,uuid"`
}

func (in *EventInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Location = strings.TrimSpace(in.Location)
	in.Category = strings.TrimSpace(in.Category)
	in.ImageURL = trimOptional(in.ImageURL)
	in.Website = trimOptional(in.Website)
	in.UserID = trimOptional(in.UserID)
}

// ToEvent converts a validated input into an event row. The id and creation
// timestamp are left for the store to assign.
func (in *EventInput) ToEvent() *Event {
	e := &Event{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
		Location:    in.Location,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Website:     in.Website,
	}
	if in.Capacity != nil {
		e.Capacity = *in.Capacity
	}
	if in.Price != nil {
		e.Price = *in.Price
	}
	if in.UserID != nil {
		if id, err := uuid.Parse(*in.UserID); err == nil {
			e.UserID = &id
		}
	}
	return e
}

// EventPatch is a partial update. Nil fields are left untouched; an empty
// image_url or website clears the stored value.
type EventPatch struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string  `json:"description" validate:"omitempty,min=10,max=1000"`
	Date        *string  `json:"date" validate:"omitempty,event_date"`
	Time        *string  `json:"time" validate:"omitempty,clock_time"`
	Location    *string  `json:"location" validate:"omitempty,min=5"`
	Category    *string  `json:"category" validate:"omitempty,event_category"`
	Capacity    *int     `json:"capacity" validate:"omitempty,min=1,max=10000"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Website     *string  `json:"website" validate:"omitempty,url"`
	UserID      *string  `json:"user_id" validate:"omitempty,uuid"`

	clearImage   bool
	clearWebsite bool
}

func (p *EventPatch) normalize() {
	p.Title = trimPtr(p.Title)
	p.Description = trimPtr(p.Description)
	p.Date = trimPtr(p.Date)
	p.Time = trimPtr(p.Time)
	p.Location = trimPtr(p.Location)
	p.Category = trimPtr(p.Category)
	p.UserID = trimPtr(p.UserID)

	if p.ImageURL != nil && strings.TrimSpace(*p.ImageURL) == "" {
		p.ImageURL, p.clearImage = nil, true
	}
	if p.Website != nil && strings.TrimSpace(*p.Website) == "" {
		p.Website, p.clearWebsite = nil, true
	}
	p.ImageURL = trimPtr(p.ImageURL)
	p.Website = trimPtr(p.Website)
}

// IsEmpty reports whether the patch changes nothing.
func (p *EventPatch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

// Columns returns the patch as column/value pairs for a store update.
func (p *EventPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Date != nil {
		cols["date"] = *p.Date
	}
	if p.Time != nil {
		cols["time"] = *p.Time
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Capacity != nil {
		cols["capacity"] = *p.Capacity
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.ImageURL != nil {
		cols["image_url"] = *p.ImageURL
	} else if p.clearImage {
		cols["image_url"] = nil
	}
	if p.Latitude != nil {
		cols["latitude"] = *p.Latitude
	}
	if p.Longitude != nil {
		cols["longitude"] = *p.Longitude
	}
	if p.Website != nil {
		cols["website"] = *p.Website
	} else if p.clearWebsite {
		cols["website"] = nil
	}
	if p.UserID != nil {
		cols["user_id"] = *p.UserID
	}
	return cols
}

// ApplyTo merges the patch into e, leaving unspecified fields as they are.
func (p *EventPatch) ApplyTo(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Capacity != nil {
		e.Capacity = *p.Capacity
	}
	if p.Price != nil {
		e.Price = *p.Price
	}
	if p.ImageURL != nil {
		v := *p.ImageURL
		e.ImageURL = &v
	} else if p.clearImage {
		e.ImageURL = nil
	}
	if p.Latitude != nil {
		v := *p.Latitude
		e.Latitude = &v
	}
	if p.Longitude != nil {
		v := *p.Longitude
		e.Longitude = &v
	}
	if p.Website != nil {
		v := *p.Website
		e.Website = &v
	} else if p.clearWebsite {
		e.Website = nil
	}
	if p.UserID != nil {
		if id, err := uuid.Parse(*p.UserID); err == nil {
			e.UserID = &id
		}
	}
}

// JoinRequest is the body of join and leave calls.
type JoinRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string `json:"full_name" validate:"required,min=2"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ProfileUpdate is a partial profile change.
type ProfileUpdate struct {
	FullName  *string `json:"full_name" validate:"omitempty,min=2"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

func (pu *ProfileUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if pu.FullName != nil {
		cols["full_name"] = strings.TrimSpace(*pu.FullName)
	}
	if pu.Bio != nil {
		cols["bio"] = strings.TrimSpace(*pu.Bio)
	}
	if pu.AvatarURL != nil {
		cols["avatar_url"] = strings.TrimSpace(*pu.AvatarURL)
	}
	if len(cols) > 0 {
		cols["updated_at"] = time.Now().UTC()
	}
	return cols
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// trimOptional trims s and drops it when nothing is left.
func trimOptional(s *string) *string {
	s = trimPtr(s)
	if s == nil || *s == "" {
		return nil
	}
	return s
}
