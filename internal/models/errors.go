package models

import "errors"

var (
	ErrNotFound           = errors.New("event not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyJoined      = errors.New("user already joined this event")
	ErrEventFull          = errors.New("event is at capacity")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
