package ledger

import (
	"slices"

	"github.com/Eursukkul/event-registration/internal/models"
)

// Counts summarises the registrations of one event by status.
type Counts struct {
	Confirmed  int `json:"confirmed"`
	CheckedIn  int `json:"checked_in"`
	Waitlisted int `json:"waitlisted"`
	Cancelled  int `json:"cancelled"`
}

// Active is the number of registrations holding a seat.
func (c Counts) Active() int { return c.Confirmed + c.CheckedIn }

// Registered is the number of registrations that are not cancelled.
func (c Counts) Registered() int { return c.Confirmed + c.CheckedIn + c.Waitlisted }

func (l *Ledger) Get(id string) (*models.Registration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reg, ok := l.byID[id]
	if !ok {
		return nil, models.NotFoundf("registration %q not found", id)
	}
	return reg.Clone(), nil
}

// ByEvent lists the event's registrations in creation order. When statuses
// are given only registrations in one of them are returned.
func (l *Ledger) ByEvent(eventID string, statuses ...models.RegistrationStatus) []models.Registration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return collect(l.byEvent[eventID], func(reg *models.Registration) bool {
		return len(statuses) == 0 || slices.Contains(statuses, reg.Status)
	})
}

func (l *Ledger) ByAttendee(attendeeID string) []models.Registration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return collect(l.records, func(reg *models.Registration) bool {
		return reg.AttendeeID == attendeeID
	})
}

func (l *Ledger) ByStatus(status models.RegistrationStatus) []models.Registration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return collect(l.records, func(reg *models.Registration) bool {
		return reg.Status == status
	})
}

// Waitlist returns the event's waitlisted registrations in queue order.
func (l *Ledger) Waitlist(eventID string) []models.Registration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return collect(l.waitlist(eventID), func(*models.Registration) bool { return true })
}

// Records returns a copy of every registration, for persistence.
func (l *Ledger) Records() []models.Registration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return collect(l.records, func(*models.Registration) bool { return true })
}

func (l *Ledger) Counts(eventID string) Counts {
	l.mu.Lock()
	defer l.mu.Unlock()

	var c Counts
	for _, reg := range l.byEvent[eventID] {
		switch reg.Status {
		case models.StatusConfirmed:
			c.Confirmed++
		case models.StatusCheckedIn:
			c.CheckedIn++
		case models.StatusWaitlisted:
			c.Waitlisted++
		case models.StatusCancelled:
			c.Cancelled++
		}
	}
	return c
}

func collect(regs []*models.Registration, keep func(*models.Registration) bool) []models.Registration {
	out := make([]models.Registration, 0, len(regs))
	for _, reg := range regs {
		if keep(reg) {
			out = append(out, *reg.Clone())
		}
	}
	return out
}
