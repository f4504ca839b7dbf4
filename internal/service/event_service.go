package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/repository"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

// EventPublisher broadcasts domain messages. Services treat a nil publisher
// as "messaging disabled".
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// EventPatch carries the fields of a partial event update. Nil means unchanged.
type EventPatch struct {
	Name        *string             `json:"name"`
	Location    *string             `json:"location"`
	Description *string             `json:"description"`
	StartDate   *models.Date        `json:"start_date"`
	EndDate     *models.Date        `json:"end_date"`
	Capacity    *int                `json:"capacity"`
	Price       *float64            `json:"price"`
	Status      *models.EventStatus `json:"status"`
}

type EventService interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (*models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	AddSession(ctx context.Context, eventID string, session *models.Session) error
	ListSessions(ctx context.Context, eventID string) ([]models.Session, error)
	ResolveEvent(ctx context.Context, id string) (*models.Event, error)
	SyncEvent(ctx context.Context, event *models.Event) error
}

type eventService struct {
	repo      repository.EventRepository
	publisher EventPublisher
	cache     *cache.Cache
}

// NewEventService builds the event directory. Resolved events are cached for
// ttl; a non-positive ttl keeps them until they change.
func NewEventService(repo repository.EventRepository, publisher EventPublisher, ttl time.Duration) EventService {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &eventService{
		repo:      repo,
		publisher: publisher,
		cache:     cache.New(ttl, 10*time.Minute),
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *models.Event) error {
	event.ID = strings.TrimSpace(event.ID)
	if event.Status == "" {
		event.Status = models.EventScheduled
	}
	if err := validateEvent(event); err != nil {
		return err
	}

	if event.ID == "" {
		event.ID = shortID()
	} else if _, err := s.repo.FindByID(ctx, event.ID); err == nil {
		return models.InvalidStatef("event id %q already exists", event.ID)
	}

	seen := make(map[string]bool, len(event.Sessions))
	for i := range event.Sessions {
		sess := &event.Sessions[i]
		if err := validateSession(event, sess); err != nil {
			return err
		}
		if sess.ID == "" {
			sess.ID = shortID()
		}
		if seen[sess.ID] {
			return models.InvalidStatef("session id %q already exists for this event", sess.ID)
		}
		seen[sess.ID] = true
		sess.EventID = event.ID
		sess.Position = i
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	log.WithFields(log.Fields{"event_id": event.ID, "capacity": event.Capacity}).Info("event created")
	publish(s.publisher, "event.created", event)
	return nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, patch EventPatch) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		event.Name = *patch.Name
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.StartDate != nil {
		event.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		event.EndDate = *patch.EndDate
	}
	if patch.Capacity != nil {
		event.Capacity = *patch.Capacity
	}
	if patch.Price != nil {
		event.Price = *patch.Price
	}
	if patch.Status != nil {
		event.Status = *patch.Status
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.cache.Delete(event.ID)

	log.WithField("event_id", event.ID).Info("event updated")
	publish(s.publisher, "event.updated", event)
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *eventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.repo.FindAll(ctx)
}

func (s *eventService) AddSession(ctx context.Context, eventID string, session *models.Session) error {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if err := validateSession(event, session); err != nil {
		return err
	}

	session.ID = strings.TrimSpace(session.ID)
	if session.ID == "" {
		session.ID = shortID()
	}
	if _, ok := event.Session(session.ID); ok {
		return models.InvalidStatef("session id %q already exists for this event", session.ID)
	}
	session.EventID = event.ID
	session.Position = len(event.Sessions)

	if err := s.repo.AddSession(ctx, session); err != nil {
		return fmt.Errorf("add session: %w", err)
	}
	s.cache.Delete(event.ID)

	event.Sessions = append(event.Sessions, *session)
	log.WithFields(log.Fields{"event_id": event.ID, "session_id": session.ID}).Info("session added")
	publish(s.publisher, "event.updated", event)
	return nil
}

func (s *eventService) ListSessions(ctx context.Context, eventID string) ([]models.Session, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return event.Sessions, nil
}

// ResolveEvent serves the registration ledger. Lookups go through the cache;
// callers must treat the returned event as read-only.
func (s *eventService) ResolveEvent(ctx context.Context, id string) (*models.Event, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached.(*models.Event), nil
	}
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(id, event)
	return event, nil
}

// SyncEvent stores an event received from another instance as-is.
func (s *eventService) SyncEvent(ctx context.Context, event *models.Event) error {
	if strings.TrimSpace(event.ID) == "" {
		return models.Validationf("event id is required")
	}
	if err := s.repo.Upsert(ctx, event); err != nil {
		return fmt.Errorf("sync event %s: %w", event.ID, err)
	}
	s.cache.Delete(event.ID)
	return nil
}

func publish(p EventPublisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(routingKey, payload); err != nil {
		log.WithError(err).WithField("routing_key", routingKey).Warn("publish failed")
	}
}

func validateEvent(e *models.Event) error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return models.Validationf("name is required")
	case strings.TrimSpace(e.Location) == "":
		return models.Validationf("location is required")
	case e.StartDate.IsZero() || e.EndDate.IsZero():
		return models.Validationf("start_date and end_date are required (YYYY-MM-DD)")
	case e.EndDate.Before(e.StartDate.Time):
		return models.Validationf("end_date must be on or after start_date")
	case e.Capacity <= 0:
		return models.Validationf("capacity must be a positive integer")
	case e.Price < 0:
		return models.Validationf("price must be a non-negative number")
	case e.Status != models.EventScheduled && e.Status != models.EventCancelled:
		return models.Validationf("unknown event status %q", e.Status)
	}
	return nil
}

func validateSession(e *models.Event, sess *models.Session) error {
	switch {
	case strings.TrimSpace(sess.Title) == "":
		return models.Validationf("session title is required")
	case strings.TrimSpace(sess.Speaker) == "":
		return models.Validationf("session speaker is required")
	case strings.TrimSpace(sess.Room) == "":
		return models.Validationf("session room is required")
	case sess.Capacity <= 0:
		return models.Validationf("session capacity must be a positive integer")
	}

	if sess.StartTime == nil || sess.EndTime == nil {
		return nil
	}
	start, end := models.DateOf(*sess.StartTime), models.DateOf(*sess.EndTime)
	if sess.EndTime.Before(*sess.StartTime) {
		return models.Validationf("session end_time must be after start_time")
	}
	if start.Before(e.StartDate.Time) || end.After(e.EndDate.Time) {
		return models.Validationf("session dates must be within event dates")
	}
	return nil
}

// shortID returns an 8 character lowercase hex id.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
