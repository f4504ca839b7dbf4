package ledger

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/Eursukkul/event-registration/internal/models"
)

// SharedStore is a Store that other processes write to as well. The ledger
// only trusts its copy of an event while the store's lock on that event is
// held, so seat and waitlist decisions always see every stored record.
type SharedStore interface {
	Store
	FindAll(ctx context.Context) ([]models.Registration, error)
	FindByEvent(ctx context.Context, eventID string) ([]models.Registration, error)
	// LocateEvent returns the event of the stored registration whose id or
	// confirmation code is key.
	LocateEvent(ctx context.Context, key string) (string, error)
	// Exclusive runs fn while holding the event's write lock across
	// processes. fn receives the event's stored registrations and returns
	// the records to save before the lock is released.
	Exclusive(ctx context.Context, eventID string, fn func(current []models.Registration) ([]models.Registration, error)) error
}

// Apply runs op on a freshly stored copy of the event under the store's
// lock and saves whatever op changed before the lock is released. When the
// save fails the ledger drops its copy of the event, so the next access
// reads it back from the store.
func (l *Ledger) Apply(ctx context.Context, store SharedStore, eventID string, op func() error) error {
	m := l.eventLock(eventID)
	m.Lock()
	defer m.Unlock()

	mutated := false
	err := store.Exclusive(ctx, eventID, func(current []models.Registration) ([]models.Registration, error) {
		l.replaceEvent(eventID, current)
		if err := op(); err != nil {
			return nil, err
		}
		mutated = true
		return l.takeDirty(eventID), nil
	})
	if err != nil && mutated {
		l.replaceEvent(eventID, nil)
	}
	return err
}

// Sync replaces the ledger's copy of the event with what the store holds.
func (l *Ledger) Sync(ctx context.Context, store SharedStore, eventID string) error {
	m := l.eventLock(eventID)
	m.Lock()
	defer m.Unlock()

	current, err := store.FindByEvent(ctx, eventID)
	if err != nil {
		return err
	}
	l.replaceEvent(eventID, current)
	return nil
}

// EventOf returns the event of the registration whose id or confirmation
// code is key, if the ledger holds it.
func (l *Ledger) EventOf(key string) (string, bool) {
	key = strings.TrimSpace(key)
	l.mu.Lock()
	defer l.mu.Unlock()

	if reg, ok := l.byID[key]; ok {
		return reg.EventID, true
	}
	if reg, ok := l.byCode[key]; ok {
		return reg.EventID, true
	}
	return "", false
}

func (l *Ledger) eventLock(eventID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[eventID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[eventID] = m
	}
	return m
}

// replaceEvent swaps the event's records for current. Replaced records lose
// their dirty mark.
func (l *Ledger) replaceEvent(eventID string, current []models.Registration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, reg := range l.byEvent[eventID] {
		delete(l.byID, reg.ID)
		delete(l.byCode, reg.ConfirmationCode)
		delete(l.dirty, reg.ID)
	}
	delete(l.byEvent, eventID)
	l.records = slices.DeleteFunc(l.records, func(reg *models.Registration) bool {
		return reg.EventID == eventID
	})

	for i := range current {
		if current[i].EventID == eventID {
			l.insert(current[i].Clone())
		}
	}
}

// takeDirty returns the event's changed records and clears their marks.
func (l *Ledger) takeDirty(eventID string) []models.Registration {
	l.mu.Lock()
	defer l.mu.Unlock()

	var changed []models.Registration
	for _, reg := range l.byEvent[eventID] {
		if _, ok := l.dirty[reg.ID]; ok {
			changed = append(changed, *reg.Clone())
			delete(l.dirty, reg.ID)
		}
	}
	return changed
}
