package filestore

import (
	"context"
	"slices"
	"time"

	"github.com/Eursukkul/event-registration/internal/models"
)

// EventStore serves events from the data directory.
type EventStore struct{ s *Store }

func (s *Store) Events() *EventStore { return &EventStore{s: s} }

func (r *EventStore) Create(ctx context.Context, event *models.Event) error {
	return r.s.update(ctx, func() error {
		if r.indexOf(event.ID) >= 0 {
			return models.InvalidStatef("event id %q already exists", event.ID)
		}
		stampEvent(event, r.s.now(), true)
		return r.commit(append(slices.Clone(r.s.events), cloneEvent(event)))
	}, EventsFile)
}

func (r *EventStore) Update(ctx context.Context, event *models.Event) error {
	return r.s.update(ctx, func() error {
		i := r.indexOf(event.ID)
		if i < 0 {
			return models.NotFoundf("event %q not found", event.ID)
		}
		stampEvent(event, r.s.now(), false)
		next := slices.Clone(r.s.events)
		updated := cloneEvent(event)
		updated.Sessions = next[i].Sessions
		next[i] = updated
		return r.commit(next)
	}, EventsFile)
}

func (r *EventStore) FindByID(_ context.Context, id string) (*models.Event, error) {
	var ev models.Event
	err := r.s.view(func() error {
		i := r.indexOf(id)
		if i < 0 {
			return models.NotFoundf("event %q not found", id)
		}
		ev = cloneEvent(&r.s.events[i])
		return nil
	}, EventsFile)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *EventStore) FindAll(_ context.Context) ([]models.Event, error) {
	var out []models.Event
	err := r.s.view(func() error {
		out = make([]models.Event, len(r.s.events))
		for i := range r.s.events {
			out[i] = cloneEvent(&r.s.events[i])
		}
		return nil
	}, EventsFile)
	return out, err
}

func (r *EventStore) Upsert(ctx context.Context, event *models.Event) error {
	return r.s.update(ctx, func() error {
		stored := cloneEvent(event)
		for i := range stored.Sessions {
			stored.Sessions[i].EventID = stored.ID
			stored.Sessions[i].Position = i
		}
		next := slices.Clone(r.s.events)
		if i := r.indexOf(event.ID); i >= 0 {
			next[i] = stored
		} else {
			next = append(next, stored)
		}
		return r.commit(next)
	}, EventsFile)
}

func (r *EventStore) AddSession(ctx context.Context, session *models.Session) error {
	return r.s.update(ctx, func() error {
		i := r.indexOf(session.EventID)
		if i < 0 {
			return models.NotFoundf("event %q not found", session.EventID)
		}
		next := slices.Clone(r.s.events)
		ev := cloneEvent(&next[i])
		ev.Sessions = append(ev.Sessions, *session)
		next[i] = ev
		return r.commit(next)
	}, EventsFile)
}

func (r *EventStore) indexOf(id string) int {
	return slices.IndexFunc(r.s.events, func(e models.Event) bool { return e.ID == id })
}

func (r *EventStore) commit(next []models.Event) error {
	if err := r.s.write(EventsFile, next); err != nil {
		return err
	}
	r.s.events = next
	return nil
}

// AttendeeStore serves attendee profiles from the data directory.
type AttendeeStore struct{ s *Store }

func (s *Store) Attendees() *AttendeeStore { return &AttendeeStore{s: s} }

func (r *AttendeeStore) Create(ctx context.Context, attendee *models.Attendee) error {
	return r.s.update(ctx, func() error {
		if r.indexOf(func(a models.Attendee) bool { return a.ID == attendee.ID }) >= 0 {
			return models.InvalidStatef("attendee id %q already exists", attendee.ID)
		}
		now := r.s.now()
		attendee.CreatedAt, attendee.UpdatedAt = now, now
		return r.commit(append(slices.Clone(r.s.attendees), *attendee))
	}, AttendeesFile)
}

func (r *AttendeeStore) Update(ctx context.Context, attendee *models.Attendee) error {
	return r.s.update(ctx, func() error {
		i := r.indexOf(func(a models.Attendee) bool { return a.ID == attendee.ID })
		if i < 0 {
			return models.NotFoundf("attendee %q not found", attendee.ID)
		}
		attendee.UpdatedAt = r.s.now()
		next := slices.Clone(r.s.attendees)
		next[i] = *attendee
		return r.commit(next)
	}, AttendeesFile)
}

func (r *AttendeeStore) FindByID(_ context.Context, id string) (*models.Attendee, error) {
	return r.find(id, func(a models.Attendee) bool { return a.ID == id })
}

func (r *AttendeeStore) FindByEmail(_ context.Context, email string) (*models.Attendee, error) {
	return r.find(email, func(a models.Attendee) bool { return a.Email == email })
}

func (r *AttendeeStore) FindAll(_ context.Context) ([]models.Attendee, error) {
	var out []models.Attendee
	err := r.s.view(func() error {
		out = slices.Clone(r.s.attendees)
		return nil
	}, AttendeesFile)
	return out, err
}

func (r *AttendeeStore) find(key string, match func(models.Attendee) bool) (*models.Attendee, error) {
	var a models.Attendee
	err := r.s.view(func() error {
		i := r.indexOf(match)
		if i < 0 {
			return models.NotFoundf("attendee %q not found", key)
		}
		a = r.s.attendees[i]
		return nil
	}, AttendeesFile)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttendeeStore) indexOf(match func(models.Attendee) bool) int {
	return slices.IndexFunc(r.s.attendees, match)
}

func (r *AttendeeStore) commit(next []models.Attendee) error {
	if err := r.s.write(AttendeesFile, next); err != nil {
		return err
	}
	r.s.attendees = next
	return nil
}

// RegistrationStore persists ledger records in registrations.json. Other
// processes may share the file, so every read goes back to disk and every
// write happens under the data directory lock.
type RegistrationStore struct{ s *Store }

func (s *Store) Registrations() *RegistrationStore { return &RegistrationStore{s: s} }

func (r *RegistrationStore) FindAll(_ context.Context) ([]models.Registration, error) {
	return r.collect(func(models.Registration) bool { return true })
}

func (r *RegistrationStore) FindByEvent(_ context.Context, eventID string) ([]models.Registration, error) {
	return r.collect(func(reg models.Registration) bool { return reg.EventID == eventID })
}

// LocateEvent returns the event of the registration whose id or
// confirmation code is key.
func (r *RegistrationStore) LocateEvent(_ context.Context, key string) (string, error) {
	var eventID string
	err := r.s.view(func() error {
		i := slices.IndexFunc(r.s.registrations, func(reg models.Registration) bool {
			return reg.ID == key || reg.ConfirmationCode == key
		})
		if i < 0 {
			return models.NotFoundf("no registration with id or confirmation code %q", key)
		}
		eventID = r.s.registrations[i].EventID
		return nil
	}, RegistrationsFile)
	return eventID, err
}

// Save upserts records by id. New records are appended so the file keeps
// creation order.
func (r *RegistrationStore) Save(ctx context.Context, regs ...models.Registration) error {
	if len(regs) == 0 {
		return nil
	}
	return r.s.update(ctx, func() error {
		return r.saveLocked(regs)
	}, RegistrationsFile)
}

// Exclusive hands fn the event's stored registrations and saves what it
// returns, all under the data directory lock.
func (r *RegistrationStore) Exclusive(ctx context.Context, eventID string, fn func(current []models.Registration) ([]models.Registration, error)) error {
	unlock, err := r.s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := r.FindByEvent(ctx, eventID)
	if err != nil {
		return err
	}
	changed, err := fn(current)
	if err != nil || len(changed) == 0 {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.reload(RegistrationsFile); err != nil {
		return err
	}
	return r.saveLocked(changed)
}

func (r *RegistrationStore) collect(match func(models.Registration) bool) ([]models.Registration, error) {
	out := []models.Registration{}
	err := r.s.view(func() error {
		for i := range r.s.registrations {
			if match(r.s.registrations[i]) {
				out = append(out, *r.s.registrations[i].Clone())
			}
		}
		return nil
	}, RegistrationsFile)
	return out, err
}

// saveLocked merges regs into the loaded records and writes the file.
// Callers hold the directory lock and s.mu.
func (r *RegistrationStore) saveLocked(regs []models.Registration) error {
	next := slices.Clone(r.s.registrations)
	index := make(map[string]int, len(next))
	for i, reg := range next {
		index[reg.ID] = i
	}
	for _, reg := range regs {
		if i, ok := index[reg.ID]; ok {
			if next[i].EventID != reg.EventID {
				return models.InvalidStatef("registration id %q already belongs to event %s", reg.ID, next[i].EventID)
			}
			next[i] = *reg.Clone()
			continue
		}
		index[reg.ID] = len(next)
		next = append(next, *reg.Clone())
	}

	if err := r.s.write(RegistrationsFile, next); err != nil {
		return err
	}
	r.s.registrations = next
	return nil
}

func cloneEvent(e *models.Event) models.Event {
	c := *e
	c.Sessions = slices.Clone(e.Sessions)
	return c
}

func stampEvent(e *models.Event, now time.Time, created bool) {
	if created || e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
}
