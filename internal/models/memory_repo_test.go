package models

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(title, category string, price float64) *Event {
	return &Event{
		Title:       title,
		Description: "A description long enough",
		Date:        "2025-06-15",
		Time:        "20:00",
		Location:    "Riverside Hall",
		Category:    category,
		Capacity:    50,
		Price:       price,
	}
}

func TestMemoryRepoListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	// a frozen clock makes every created_at equal
	repo := NewMemoryRepo(func() time.Time { return fixedNow })

	first, err := repo.CreateEvent(ctx, newEvent("First", "music", 0))
	require.NoError(t, err)
	second, err := repo.CreateEvent(ctx, newEvent("Second", "food", 5))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Equal(t, fixedNow, first.CreatedAt)

	all, err := repo.ListEvents(ctx, BuildEventQuery(EventFilter{}))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	food, err := repo.ListEvents(ctx, BuildEventQuery(EventFilter{Category: "food"}))
	require.NoError(t, err)
	require.Len(t, food, 1)
	assert.Equal(t, "Second", food[0].Title)
}

func TestMemoryRepoUpdateMergesAndDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(nil)

	created, err := repo.CreateEvent(ctx, newEvent("Jazz Night", "music", 0))
	require.NoError(t, err)

	updated, err := repo.UpdateEvent(ctx, created.ID, &EventPatch{Price: floatPtr(15)})
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.Price)
	assert.Equal(t, "Jazz Night", updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = repo.UpdateEvent(ctx, uuid.New(), &EventPatch{Price: floatPtr(1)})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.DeleteEvent(ctx, created.ID))
	require.NoError(t, repo.DeleteEvent(ctx, created.ID))
	_, err = repo.GetEvent(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoAttendanceAllowsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(nil)
	eventID := uuid.New()

	_, err := repo.JoinEvent(ctx, eventID, "u1")
	require.NoError(t, err)
	_, err = repo.JoinEvent(ctx, eventID, "u1")
	require.NoError(t, err)
	_, err = repo.JoinEvent(ctx, eventID, "u2")
	require.NoError(t, err)

	rows, err := repo.ListAttendees(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	require.NoError(t, repo.LeaveEvent(ctx, eventID, "u1"))
	rows, err = repo.ListAttendees(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "u2", rows[0].UserID)

	require.NoError(t, repo.LeaveEvent(ctx, eventID, "nobody"))
}

func TestMemoryRepoJoinsOwnerProfile(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(nil)
	owner := uuid.New()
	repo.PutProfile(Profile{ID: owner, FullName: "Ana Lopez", AvatarURL: "https://img.example/ana.png"})

	e := newEvent("Jazz Night", "music", 0)
	e.UserID = &owner
	created, err := repo.CreateEvent(ctx, e)
	require.NoError(t, err)

	got, err := repo.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "Ana Lopez", got.Profile.FullName)
}

func TestMemoryRepoProfilesAndRoles(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(nil)
	id := uuid.New()

	_, err := repo.GetProfile(ctx, id)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	repo.PutProfile(Profile{ID: id, FullName: "Ana"})
	updated, err := repo.UpdateProfile(ctx, id, (&ProfileUpdate{Bio: strPtr(" Hello ")}).Columns())
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.Bio)
	assert.Equal(t, "Ana", updated.FullName)

	role, err := repo.GetRole(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	repo.SetRole(id, RoleAdmin)
	role, err = repo.GetRole(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
}
