package models

import (
	"context"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

type EventsRepo interface {
	ListEvents(ctx context.Context, q EventQuery) ([]*Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, patch *EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

type AttendanceRepo interface {
	JoinEvent(ctx context.Context, eventID uuid.UUID, userID string) (*Attendance, error)
	LeaveEvent(ctx context.Context, eventID uuid.UUID, userID string) error
	ListAttendees(ctx context.Context, eventID uuid.UUID) ([]*Attendance, error)
}

// SupabaseRepo talks to the hosted store. The service client carries the
// privileged key and does all row I/O; the public client is only used for
// auth calls made on behalf of end users.
type SupabaseRepo struct {
	serviceClient *supabase.Client
	publicClient  *supabase.Client
}

func SupabaseNewRepo(serviceClient, publicClient *supabase.Client) *SupabaseRepo {
	return &SupabaseRepo{
		serviceClient: serviceClient,
		publicClient:  publicClient,
	}
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
}

func MongodbNewRepo(mongodbClient *mongo.Client) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
	}
}
