package models

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo keeps events, attendance and profiles in process memory. It
// backs STORE_DRIVER=memory for local runs and the HTTP tests, and mirrors
// what the hosted store does: ids and timestamps are assigned on insert and
// nothing is checked beyond what the store itself would check.
type MemoryRepo struct {
	mu        sync.RWMutex
	now       func() time.Time
	seq       int
	events    map[uuid.UUID]*memEvent
	attendees []*Attendance
	profiles  map[uuid.UUID]*Profile
	roles     map[uuid.UUID]string
}

type memEvent struct {
	event *Event
	seq   int
}

func NewMemoryRepo(now func() time.Time) *MemoryRepo {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepo{
		now:      now,
		events:   make(map[uuid.UUID]*memEvent),
		profiles: make(map[uuid.UUID]*Profile),
		roles:    make(map[uuid.UUID]string),
	}
}

func (m *MemoryRepo) ListEvents(ctx context.Context, q EventQuery) ([]*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*memEvent, 0, len(m.events))
	for _, me := range m.events {
		if q.Matches(me.event) {
			matched = append(matched, me)
		}
	}

	// newest first; equal timestamps fall back to insertion order
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.event.CreatedAt.Equal(b.event.CreatedAt) {
			if q.Ascending {
				return a.event.CreatedAt.Before(b.event.CreatedAt)
			}
			return a.event.CreatedAt.After(b.event.CreatedAt)
		}
		if q.Ascending {
			return a.seq < b.seq
		}
		return a.seq > b.seq
	})

	out := make([]*Event, 0, len(matched))
	for _, me := range matched {
		out = append(out, m.withProfile(me.event))
	}
	return out, nil
}

func (m *MemoryRepo) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	me, ok := m.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.withProfile(me.event), nil
}

func (m *MemoryRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *event
	stored.ID = uuid.New()
	stored.CreatedAt = m.now().UTC()
	stored.Profile = nil

	m.seq++
	m.events[stored.ID] = &memEvent{event: &stored, seq: m.seq}

	out := stored
	return &out, nil
}

func (m *MemoryRepo) UpdateEvent(ctx context.Context, id uuid.UUID, patch *EventPatch) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	me, ok := m.events[id]
	if !ok {
		return nil, ErrNotFound
	}

	updated := *me.event
	patch.ApplyTo(&updated)
	me.event = &updated

	out := updated
	return &out, nil
}

func (m *MemoryRepo) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.events, id)
	return nil
}

func (m *MemoryRepo) JoinEvent(ctx context.Context, eventID uuid.UUID, userID string) (*Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := &Attendance{
		ID:        uuid.New(),
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: m.now().UTC(),
	}
	m.attendees = append(m.attendees, a)

	out := *a
	return &out, nil
}

func (m *MemoryRepo) LeaveEvent(ctx context.Context, eventID uuid.UUID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.attendees[:0]
	for _, a := range m.attendees {
		if a.EventID == eventID && a.UserID == userID {
			continue
		}
		kept = append(kept, a)
	}
	m.attendees = kept
	return nil
}

func (m *MemoryRepo) ListAttendees(ctx context.Context, eventID uuid.UUID) ([]*Attendance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*Attendance{}
	for _, a := range m.attendees {
		if a.EventID == eventID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// PutProfile seeds or replaces a profile.
func (m *MemoryRepo) PutProfile(p Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = m.now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	m.profiles[p.ID] = &p
}

// SetRole assigns a role row to a user.
func (m *MemoryRepo) SetRole(userID uuid.UUID, role string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[userID] = role
}

func (m *MemoryRepo) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	out := *p
	return &out, nil
}

func (m *MemoryRepo) UpdateProfile(ctx context.Context, id uuid.UUID, cols map[string]interface{}) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}

	updated := *p
	if v, ok := cols["full_name"].(string); ok {
		updated.FullName = v
	}
	if v, ok := cols["bio"].(string); ok {
		updated.Bio = v
	}
	if v, ok := cols["avatar_url"].(string); ok {
		updated.AvatarURL = v
	}
	if len(cols) > 0 {
		updated.UpdatedAt = m.now().UTC()
	}
	m.profiles[id] = &updated

	out := updated
	return &out, nil
}

func (m *MemoryRepo) GetRole(ctx context.Context, userID uuid.UUID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if role, ok := m.roles[userID]; ok && role != "" {
		return role, nil
	}
	return RoleUser, nil
}

// withProfile copies e and joins the owner's display fields, if known.
// Callers must hold at least the read lock.
func (m *MemoryRepo) withProfile(e *Event) *Event {
	out := *e
	out.Profile = nil
	if e.UserID != nil {
		if p, ok := m.profiles[*e.UserID]; ok {
			out.Profile = &ProfileSummary{FullName: p.FullName, AvatarURL: p.AvatarURL}
		}
	}
	return &out
}
