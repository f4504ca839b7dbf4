package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() *models.Event {
	return &models.Event{
		Name:      "Golang Workshop Bangkok",
		Location:  "True Digital Park",
		StartDate: models.NewDate(2026, 11, 20),
		EndDate:   models.NewDate(2026, 11, 21),
		Capacity:  50,
		Price:     2500,
	}
}

func TestCreateEvent_Success(t *testing.T) {
	var stored *models.Event
	repo := &mockEventRepo{
		createFn: func(ctx context.Context, event *models.Event) error {
			stored = event
			return nil
		},
	}
	pub := &mockPublisher{}

	svc := NewEventService(repo, pub, time.Minute)
	event := sampleEvent()
	event.Sessions = []models.Session{{Title: "Keynote", Speaker: "Rob", Room: "A", Capacity: 50}}

	err := svc.CreateEvent(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, event.ID, 8)
	assert.Equal(t, models.EventScheduled, event.Status)
	assert.Same(t, event, stored)
	assert.Equal(t, event.ID, event.Sessions[0].EventID)
	assert.NotEmpty(t, event.Sessions[0].ID)
	assert.Equal(t, []string{"event.created"}, pub.keys())
}

func TestCreateEvent_NilPublisher(t *testing.T) {
	repo := &mockEventRepo{createFn: func(ctx context.Context, event *models.Event) error { return nil }}

	svc := NewEventService(repo, nil, 0)

	assert.NoError(t, svc.CreateEvent(context.Background(), sampleEvent()))
}

func TestCreateEvent_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *models.Event)
	}{
		{"missing name", func(e *models.Event) { e.Name = " " }},
		{"missing location", func(e *models.Event) { e.Location = "" }},
		{"missing dates", func(e *models.Event) { e.StartDate = models.Date{} }},
		{"end before start", func(e *models.Event) { e.EndDate = models.NewDate(2026, 11, 19) }},
		{"zero capacity", func(e *models.Event) { e.Capacity = 0 }},
		{"negative price", func(e *models.Event) { e.Price = -1 }},
		{"unknown status", func(e *models.Event) { e.Status = "postponed" }},
		{"bad session", func(e *models.Event) { e.Sessions = []models.Session{{Title: "No room", Speaker: "x", Capacity: 1}} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockEventRepo{createFn: func(ctx context.Context, event *models.Event) error {
				t.Fatal("repository must not be called")
				return nil
			}}
			svc := NewEventService(repo, nil, time.Minute)
			event := sampleEvent()
			tc.mutate(event)

			err := svc.CreateEvent(context.Background(), event)

			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestCreateEvent_DuplicateID(t *testing.T) {
	repo := &mockEventRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Event, error) {
			return &models.Event{ID: id}, nil
		},
	}

	svc := NewEventService(repo, nil, time.Minute)
	event := sampleEvent()
	event.ID = "gophercon"

	err := svc.CreateEvent(context.Background(), event)

	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestCreateEvent_RepoError(t *testing.T) {
	repo := &mockEventRepo{
		createFn: func(ctx context.Context, event *models.Event) error {
			return errors.New("db connection failed")
		},
	}

	svc := NewEventService(repo, nil, time.Minute)
	err := svc.CreateEvent(context.Background(), sampleEvent())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "db connection failed")
}

func TestUpdateEvent_PatchesAndInvalidatesCache(t *testing.T) {
	stored := sampleEvent()
	stored.ID = "ev-1"
	stored.Status = models.EventScheduled
	lookups := 0
	repo := &mockEventRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Event, error) {
			lookups++
			cp := *stored
			return &cp, nil
		},
		updateFn: func(ctx context.Context, event *models.Event) error {
			stored = event
			return nil
		},
	}
	svc := NewEventService(repo, nil, time.Minute)

	_, err := svc.ResolveEvent(context.Background(), "ev-1")
	require.NoError(t, err)
	_, err = svc.ResolveEvent(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 1, lookups)

	capacity := 80
	updated, err := svc.UpdateEvent(context.Background(), "ev-1", EventPatch{Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Capacity)
	assert.Equal(t, "ev-1", updated.ID)

	resolved, err := svc.ResolveEvent(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 80, resolved.Capacity)
	assert.Equal(t, 3, lookups)
}

func TestUpdateEvent_RejectsInvalidPatch(t *testing.T) {
	repo := &mockEventRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Event, error) {
			e := sampleEvent()
			e.ID = id
			e.Status = models.EventScheduled
			return e, nil
		},
		updateFn: func(ctx context.Context, event *models.Event) error {
			t.Fatal("repository must not be called")
			return nil
		},
	}
	svc := NewEventService(repo, nil, time.Minute)
	end := models.NewDate(2026, 1, 1)

	_, err := svc.UpdateEvent(context.Background(), "ev-1", EventPatch{EndDate: &end})

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdateEvent_NotFound(t *testing.T) {
	svc := NewEventService(&mockEventRepo{}, nil, time.Minute)
	name := "x"

	_, err := svc.UpdateEvent(context.Background(), "missing", EventPatch{Name: &name})

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddSession(t *testing.T) {
	event := sampleEvent()
	event.ID = "ev-1"
	event.Sessions = []models.Session{{EventID: "ev-1", ID: "keynote", Title: "Keynote", Speaker: "Rob", Room: "A", Capacity: 10}}
	var added *models.Session
	repo := &mockEventRepo{
		findByIDFn: func(ctx context.Context, id string) (*models.Event, error) {
			if id != event.ID {
				return nil, models.NotFoundf("event %q not found", id)
			}
			cp := *event
			return &cp, nil
		},
		addSessionFn: func(ctx context.Context, session *models.Session) error {
			added = session
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := NewEventService(repo, pub, time.Minute)

	start := time.Date(2026, 11, 21, 13, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	session := &models.Session{ID: "workshop", Title: "Workshop", Speaker: "Ken", Room: "B", Capacity: 20, StartTime: &start, EndTime: &end}

	require.NoError(t, svc.AddSession(context.Background(), "ev-1", session))
	assert.Equal(t, "ev-1", added.EventID)
	assert.Equal(t, 1, added.Position)
	assert.Equal(t, []string{"event.updated"}, pub.keys())

	dup := &models.Session{ID: "keynote", Title: "Again", Speaker: "Rob", Room: "A", Capacity: 5}
	assert.ErrorIs(t, svc.AddSession(context.Background(), "ev-1", dup), models.ErrInvalidState)

	late := start.AddDate(0, 0, 5)
	outside := &models.Session{Title: "Late", Speaker: "Rob", Room: "A", Capacity: 5, StartTime: &start, EndTime: &late}
	assert.ErrorIs(t, svc.AddSession(context.Background(), "ev-1", outside), models.ErrValidation)

	assert.ErrorIs(t, svc.AddSession(context.Background(), "missing", session), models.ErrNotFound)
}

func TestResolveEvent_NotFound(t *testing.T) {
	svc := NewEventService(&mockEventRepo{}, nil, time.Minute)

	_, err := svc.ResolveEvent(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSyncEvent(t *testing.T) {
	var upserted []string
	repo := &mockEventRepo{
		upsertFn: func(ctx context.Context, event *models.Event) error {
			upserted = append(upserted, event.ID)
			return nil
		},
	}
	svc := NewEventService(repo, nil, time.Minute)

	assert.NoError(t, svc.SyncEvent(context.Background(), &models.Event{ID: "ev-9"}))
	assert.ErrorIs(t, svc.SyncEvent(context.Background(), &models.Event{}), models.ErrValidation)
	assert.Equal(t, []string{"ev-9"}, upserted)
}
