package ledger

import (
	"strings"

	"github.com/Eursukkul/event-registration/internal/models"
)

// Attendance is the head count of one session.
type Attendance struct {
	EventID    string `json:"event_id"`
	SessionID  string `json:"session_id"`
	Registered int    `json:"registered"`
	CheckedIn  int    `json:"checked_in"`
}

// CheckIn marks a registration as checked in. The key is tried as a
// registration id first and as a confirmation code second. Checking in an
// already checked-in registration succeeds and refreshes the timestamp.
func (l *Ledger) CheckIn(key string) (*models.Registration, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, models.Validationf("registration id or confirmation code is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	reg, ok := l.byID[key]
	if !ok {
		reg, ok = l.byCode[key]
	}
	if !ok {
		return nil, models.NotFoundf("no registration with id or confirmation code %q", key)
	}
	if !reg.Status.Active() {
		return nil, models.InvalidStatef("registration %s is %s and cannot be checked in", reg.ID, reg.Status)
	}

	now := l.now()
	reg.Status = models.StatusCheckedIn
	reg.CheckinTimestamp = &now
	reg.UpdatedAt = now
	l.markDirty(reg)
	return reg.Clone(), nil
}

// SessionAttendance counts seat-holding registrations that opted into the
// session, and how many of them have checked in.
func (l *Ledger) SessionAttendance(eventID, sessionID string) Attendance {
	l.mu.Lock()
	defer l.mu.Unlock()

	att := Attendance{EventID: eventID, SessionID: sessionID}
	for _, reg := range l.byEvent[eventID] {
		if !reg.Status.Active() || !reg.HasSession(sessionID) {
			continue
		}
		att.Registered++
		if reg.Status == models.StatusCheckedIn {
			att.CheckedIn++
		}
	}
	return att
}

// CheckedIn lists the event's checked-in registrations in creation order.
func (l *Ledger) CheckedIn(eventID string) []models.Registration {
	return l.ByEvent(eventID, models.StatusCheckedIn)
}
