package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/joshua-takyi/eventradar/internal/helpers"
	"github.com/joshua-takyi/eventradar/internal/models"
)

// AccessRules switches on the ownership, capacity and duplicate-join checks.
// The zero value applies none of them: any caller may change any event and
// joins are neither deduplicated nor capacity-checked.
type AccessRules struct {
	Enforce         bool
	AdminOnlyCreate bool
}

var ErrViewsDisabled = errors.New("view tracking is not configured")

type EventService struct {
	events    models.EventsRepo
	attendees models.AttendanceRepo
	validator *models.SchemaValidator
	logger    *slog.Logger

	rules  AccessRules
	images helpers.ImageStore
	views  models.EventViewsRepo
}

func NewEventService(events models.EventsRepo, attendees models.AttendanceRepo, validator *models.SchemaValidator, logger *slog.Logger) *EventService {
	return &EventService{
		events:    events,
		attendees: attendees,
		validator: validator,
		logger:    logger,
	}
}

func (es *EventService) WithAccessRules(rules AccessRules) *EventService {
	es.rules = rules
	return es
}

// WithImageStore makes Create re-host image_url through store. An upload
// failure leaves the submitted URL in place.
func (es *EventService) WithImageStore(store helpers.ImageStore) *EventService {
	es.images = store
	return es
}

func (es *EventService) WithViewTracking(views models.EventViewsRepo) *EventService {
	es.views = views
	return es
}

func (es *EventService) TracksViews() bool {
	return es.views != nil
}

// List returns every event matching the filter, newest first.
func (es *EventService) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	events, err := es.events.ListEvents(ctx, models.BuildEventQuery(filter))
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.Event{}
	}
	return events, nil
}

// Get returns one event with its owner's display data. Identifiers that do
// not resolve, malformed ones included, yield models.ErrNotFound.
func (es *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	eventID, err := uuid.Parse(helpers.StringTrim(id))
	if err != nil {
		return nil, models.ErrNotFound
	}
	return es.events.GetEvent(ctx, eventID)
}

func (es *EventService) Create(ctx context.Context, in *models.EventInput, actor *models.Actor) (*models.Event, error) {
	if es.rules.Enforce && actor == nil {
		return nil, models.ErrUnauthenticated
	}
	if es.rules.AdminOnlyCreate && !actor.IsAdmin() {
		if actor == nil {
			return nil, models.ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: only admins can create events", models.ErrForbidden)
	}

	if err := es.validator.ValidateEvent(in); err != nil {
		return nil, err
	}

	if in.UserID == nil && actor != nil && actor.UserID != "" {
		owner := actor.UserID
		in.UserID = &owner
	}
	if es.rules.Enforce && in.UserID != nil && !actor.Is(*in.UserID) && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: events can only be created for yourself", models.ErrForbidden)
	}

	event := in.ToEvent()

	var uploadedID string
	if es.images != nil && event.ImageURL != nil {
		url, publicID, err := es.images.Upload(ctx, *event.ImageURL, helpers.EventsFolder)
		if err != nil {
			// the submitted URL already passed validation, so store it as given
			es.logger.Warn("image re-hosting failed, keeping original URL", "image_url", *event.ImageURL, "error", err)
		} else {
			event.ImageURL = &url
			uploadedID = publicID
		}
	}

	created, err := es.events.CreateEvent(ctx, event)
	if err != nil {
		if uploadedID != "" {
			if delErr := es.images.Delete(ctx, uploadedID); delErr != nil {
				es.logger.Warn("failed to clean up uploaded image", "public_id", uploadedID, "error", delErr)
			}
		}
		return nil, err
	}
	return created, nil
}

// Update merge-patches an event. An empty patch returns the stored row.
func (es *EventService) Update(ctx context.Context, id string, patch *models.EventPatch, actor *models.Actor) (*models.Event, error) {
	if err := es.validator.ValidatePatch(patch); err != nil {
		return nil, err
	}

	eventID, err := uuid.Parse(helpers.StringTrim(id))
	if err != nil {
		return nil, models.ErrNotFound
	}

	if es.rules.Enforce {
		if err := es.authorizeOwner(ctx, eventID, actor); err != nil {
			return nil, err
		}
	}

	if patch.IsEmpty() {
		return es.events.GetEvent(ctx, eventID)
	}
	return es.events.UpdateEvent(ctx, eventID, patch)
}

// Delete removes an event if it exists. Attendance rows are left in place.
func (es *EventService) Delete(ctx context.Context, id string, actor *models.Actor) error {
	eventID, err := uuid.Parse(helpers.StringTrim(id))
	if err != nil {
		return nil
	}

	if es.rules.Enforce {
		err := es.authorizeOwner(ctx, eventID, actor)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	return es.events.DeleteEvent(ctx, eventID)
}

// Join records that userID attends the event. Without enforced access
// rules the same pair may join any number of times.
func (es *EventService) Join(ctx context.Context, id string, req *models.JoinRequest, actor *models.Actor) (*models.Attendance, error) {
	eventID, userID, err := es.attendanceArgs(id, req)
	if err != nil {
		return nil, err
	}

	if es.rules.Enforce {
		if err := es.authorizeAttendee(userID, actor); err != nil {
			return nil, err
		}
		event, err := es.events.GetEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		rows, err := es.attendees.ListAttendees(ctx, eventID)
		if err != nil {
			return nil, err
		}
		for _, a := range rows {
			if a.UserID == userID {
				return nil, models.ErrAlreadyJoined
			}
		}
		if len(rows) >= event.Capacity {
			return nil, models.ErrEventFull
		}
	}

	return es.attendees.JoinEvent(ctx, eventID, userID)
}

// Leave removes every attendance row for the pair. Removing nothing is not
// an error.
func (es *EventService) Leave(ctx context.Context, id string, req *models.JoinRequest, actor *models.Actor) error {
	eventID, userID, err := es.attendanceArgs(id, req)
	if err != nil {
		return err
	}

	if es.rules.Enforce {
		if err := es.authorizeAttendee(userID, actor); err != nil {
			return err
		}
	}

	return es.attendees.LeaveEvent(ctx, eventID, userID)
}

func (es *EventService) Attendees(ctx context.Context, id string) ([]*models.Attendance, error) {
	eventID, err := uuid.Parse(helpers.StringTrim(id))
	if err != nil {
		return nil, models.ErrNotFound
	}
	rows, err := es.attendees.ListAttendees(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*models.Attendance{}
	}
	return rows, nil
}

// TrackView records a view of an event. Failures are logged and swallowed
// so that analytics never break a read.
func (es *EventService) TrackView(ctx context.Context, event *models.Event, sessionID, userAgent string, actor *models.Actor) {
	if es.views == nil || event == nil || sessionID == "" {
		return
	}

	view := &models.EventView{
		EventID:   event.ID.String(),
		SessionID: sessionID,
		UserAgent: userAgent,
	}
	if actor != nil && actor.UserID != "" {
		uid := actor.UserID
		view.UserID = &uid
	}

	if err := es.views.TrackEventView(ctx, view); err != nil {
		es.logger.Warn("failed to track event view", "event_id", view.EventID, "error", err)
	}
}

func (es *EventService) ViewStats(ctx context.Context, id string) (*models.EventViewStats, error) {
	if es.views == nil {
		return nil, ErrViewsDisabled
	}
	eventID, err := uuid.Parse(helpers.StringTrim(id))
	if err != nil {
		return nil, models.ErrNotFound
	}
	return es.views.GetEventViewStats(ctx, eventID.String())
}

func (es *EventService) attendanceArgs(id string, req *models.JoinRequest) (uuid.UUID, string, error) {
	if req == nil {
		req = &models.JoinRequest{}
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if err := es.validator.Struct(req); err != nil {
		return uuid.Nil, "", err
	}

	eventID, err := uuid.Parse(helpers.StringTrim(id))
	if err != nil {
		return uuid.Nil, "", models.NewValidationError("id", "must be a valid event identifier")
	}
	return eventID, req.UserID, nil
}

func (es *EventService) authorizeOwner(ctx context.Context, eventID uuid.UUID, actor *models.Actor) error {
	if actor == nil {
		return models.ErrUnauthenticated
	}
	event, err := es.events.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if actor.IsAdmin() {
		return nil
	}
	if event.UserID == nil || !actor.Is(event.UserID.String()) {
		return fmt.Errorf("%w: only the owner can change this event", models.ErrForbidden)
	}
	return nil
}

func (es *EventService) authorizeAttendee(userID string, actor *models.Actor) error {
	if actor == nil {
		return models.ErrUnauthenticated
	}
	if !actor.Is(userID) && !actor.IsAdmin() {
		return fmt.Errorf("%w: you can only join or leave for yourself", models.ErrForbidden)
	}
	return nil
}
