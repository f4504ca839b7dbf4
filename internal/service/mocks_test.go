package service

import (
	"context"
	"sync"

	"github.com/Eursukkul/event-registration/internal/models"
)

// --- Mock EventRepository ---

type mockEventRepo struct {
	createFn     func(ctx context.Context, event *models.Event) error
	updateFn     func(ctx context.Context, event *models.Event) error
	findByIDFn   func(ctx context.Context, id string) (*models.Event, error)
	findAllFn    func(ctx context.Context) ([]models.Event, error)
	upsertFn     func(ctx context.Context, event *models.Event) error
	addSessionFn func(ctx context.Context, session *models.Session) error
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	return m.createFn(ctx, event)
}
func (m *mockEventRepo) Update(ctx context.Context, event *models.Event) error {
	return m.updateFn(ctx, event)
}
func (m *mockEventRepo) FindByID(ctx context.Context, id string) (*models.Event, error) {
	if m.findByIDFn == nil {
		return nil, models.NotFoundf("event %q not found", id)
	}
	return m.findByIDFn(ctx, id)
}
func (m *mockEventRepo) FindAll(ctx context.Context) ([]models.Event, error) {
	return m.findAllFn(ctx)
}
func (m *mockEventRepo) Upsert(ctx context.Context, event *models.Event) error {
	return m.upsertFn(ctx, event)
}
func (m *mockEventRepo) AddSession(ctx context.Context, session *models.Session) error {
	return m.addSessionFn(ctx, session)
}

// --- Mock EventPublisher ---

type published struct {
	key     string
	payload any
}

type mockPublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (m *mockPublisher) Publish(routingKey string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, published{key: routingKey, payload: payload})
	return m.err
}

func (m *mockPublisher) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.sent))
	for i, p := range m.sent {
		keys[i] = p.key
	}
	return keys
}

// --- Stub EventResolver ---

type stubResolver map[string]*models.Event

func (s stubResolver) ResolveEvent(_ context.Context, id string) (*models.Event, error) {
	ev, ok := s[id]
	if !ok {
		return nil, models.NotFoundf("event %q not found", id)
	}
	return ev, nil
}

// --- Stub AttendeeLookup ---

type stubAttendees map[string]bool

func (s stubAttendees) GetAttendee(_ context.Context, id string) (*models.Attendee, error) {
	if !s[id] {
		return nil, models.NotFoundf("attendee %q not found", id)
	}
	return &models.Attendee{ID: id, Name: id, Organization: "Gophers"}, nil
}

// --- Recording ledger.Store ---

type recordingStore struct {
	saved []models.Registration
	err   error
}

func (r *recordingStore) Save(_ context.Context, regs ...models.Registration) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, regs...)
	return nil
}
