package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	EventViewsDbName  = "eventradar"
	EventViewsColName = "event_views"

	eventViewTTL      = 30 * 24 * time.Hour
	eventViewCooldown = time.Hour
)

type EventView struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   string             `bson:"event_id" json:"event_id"`
	UserID    *string            `bson:"user_id,omitempty" json:"user_id,omitempty"`
	SessionID string             `bson:"session_id" json:"session_id"`
	UserAgent string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	ViewedAt  time.Time          `bson:"viewed_at" json:"viewed_at"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
}

type EventViewStats struct {
	EventID       string `json:"event_id"`
	TotalViews    int64  `json:"total_views"`
	UniqueViews   int64  `json:"unique_views"`
	ViewsToday    int64  `json:"views_today"`
	ViewsThisWeek int64  `json:"views_this_week"`
}

type EventViewsRepo interface {
	TrackEventView(ctx context.Context, view *EventView) error
	GetEventViewStats(ctx context.Context, eventID string) (*EventViewStats, error)
	EnsureIndexes(ctx context.Context) error
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(dbName).Collection(colName), nil
}

// EnsureIndexes creates the TTL index and the lookup indexes the view
// queries rely on.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, EventViewsDbName, EventViewsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(0).
				SetName("expires_at_ttl"),
		},
		{
			Keys: bson.D{
				{Key: "event_id", Value: 1},
				{Key: "session_id", Value: 1},
				{Key: "viewed_at", Value: -1},
			},
			Options: options.Index().SetName("event_session_viewed_at_idx"),
		},
	}

	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating indexes: %w", err)
	}
	return nil
}

// TrackEventView records a view unless the same session already viewed the
// event within the last hour.
func (mdb *MongodbRepo) TrackEventView(ctx context.Context, view *EventView) error {
	col, err := mdb.GetCollection(ctx, EventViewsDbName, EventViewsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	now := time.Now()
	var recent EventView
	err = col.FindOne(ctx, bson.M{
		"event_id":   view.EventID,
		"session_id": view.SessionID,
		"viewed_at":  bson.M{"$gte": now.Add(-eventViewCooldown)},
	}).Decode(&recent)
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("error checking recent views: %w", err)
	}

	view.ViewedAt = now
	view.ExpiresAt = now.Add(eventViewTTL)
	if view.ID.IsZero() {
		view.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, view); err != nil {
		return fmt.Errorf("error inserting event view: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetEventViewStats(ctx context.Context, eventID string) (*EventViewStats, error) {
	col, err := mdb.GetCollection(ctx, EventViewsDbName, EventViewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	stats := &EventViewStats{EventID: eventID}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))

	if stats.TotalViews, err = col.CountDocuments(ctx, bson.M{"event_id": eventID}); err != nil {
		return nil, fmt.Errorf("error counting total views: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"event_id": eventID}}},
		{{Key: "$group", Value: bson.M{"_id": "$session_id"}}},
		{{Key: "$count", Value: "unique_sessions"}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating unique views: %w", err)
	}
	defer cursor.Close(ctx)

	var unique []struct {
		Count int64 `bson:"unique_sessions"`
	}
	if err := cursor.All(ctx, &unique); err != nil {
		return nil, fmt.Errorf("error decoding unique views: %w", err)
	}
	if len(unique) > 0 {
		stats.UniqueViews = unique[0].Count
	}

	if stats.ViewsToday, err = col.CountDocuments(ctx, bson.M{
		"event_id":  eventID,
		"viewed_at": bson.M{"$gte": startOfDay},
	}); err != nil {
		return nil, fmt.Errorf("error counting today's views: %w", err)
	}

	if stats.ViewsThisWeek, err = col.CountDocuments(ctx, bson.M{
		"event_id":  eventID,
		"viewed_at": bson.M{"$gte": startOfWeek},
	}); err != nil {
		return nil, fmt.Errorf("error counting this week's views: %w", err)
	}

	return stats, nil
}
