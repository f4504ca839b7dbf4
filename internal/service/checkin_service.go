package service

import (
	"context"

	"github.com/Eursukkul/event-registration/internal/ledger"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/report"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type CheckInService interface {
	CheckIn(ctx context.Context, key string) (*models.Registration, error)
	SessionAttendance(ctx context.Context, eventID, sessionID string) (*ledger.Attendance, error)
	CheckedIn(ctx context.Context, eventID string) ([]models.Registration, error)
	Badge(ctx context.Context, registrationID string) (*report.Badge, error)
	WriteBadge(ctx context.Context, fs afero.Fs, registrationID, dir string) (string, error)
}

type checkInService struct {
	ledgerAccess
	events    ledger.EventResolver
	attendees AttendeeLookup
	publisher EventPublisher
}

func NewCheckInService(l *ledger.Ledger, store ledger.Store, events ledger.EventResolver, attendees AttendeeLookup, publisher EventPublisher) CheckInService {
	return &checkInService{
		ledgerAccess: newLedgerAccess(l, store),
		events:       events,
		attendees:    attendees,
		publisher:    publisher,
	}
}

// CheckIn accepts a registration id or a confirmation code.
func (s *checkInService) CheckIn(ctx context.Context, key string) (*models.Registration, error) {
	eventID, err := s.eventOf(ctx, key)
	if err != nil {
		return nil, err
	}
	var reg *models.Registration
	err = s.mutate(ctx, eventID, func() (err error) {
		reg, err = s.ledger.CheckIn(key)
		return err
	})
	if err != nil {
		return nil, err
	}

	logRegistration(reg).Info("attendee checked in")
	publish(s.publisher, "registration.checked_in", reg)
	return reg, nil
}

func (s *checkInService) SessionAttendance(ctx context.Context, eventID, sessionID string) (*ledger.Attendance, error) {
	event, err := s.events.ResolveEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if _, ok := event.Session(sessionID); !ok {
		return nil, models.NotFoundf("event %s has no session %q", eventID, sessionID)
	}
	if err := s.refresh(ctx, eventID); err != nil {
		return nil, err
	}
	att := s.ledger.SessionAttendance(eventID, sessionID)
	return &att, nil
}

func (s *checkInService) CheckedIn(ctx context.Context, eventID string) ([]models.Registration, error) {
	if _, err := s.events.ResolveEvent(ctx, eventID); err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, eventID); err != nil {
		return nil, err
	}
	return s.ledger.CheckedIn(eventID), nil
}

// Badge joins a registration with its attendee. Cancelled registrations get
// no badge.
func (s *checkInService) Badge(ctx context.Context, registrationID string) (*report.Badge, error) {
	eventID, err := s.eventOf(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, eventID); err != nil {
		return nil, err
	}
	reg, err := s.ledger.Get(registrationID)
	if err != nil {
		return nil, err
	}
	if reg.Status == models.StatusCancelled {
		return nil, models.InvalidStatef("registration %s is cancelled", reg.ID)
	}
	attendee, err := s.attendees.GetAttendee(ctx, reg.AttendeeID)
	if err != nil {
		return nil, err
	}
	badge := report.NewBadge(attendee, reg)
	return &badge, nil
}

func (s *checkInService) WriteBadge(ctx context.Context, fs afero.Fs, registrationID, dir string) (string, error) {
	badge, err := s.Badge(ctx, registrationID)
	if err != nil {
		return "", err
	}
	path, err := report.WriteBadge(fs, *badge, dir)
	if err != nil {
		return "", err
	}
	log.WithFields(log.Fields{"registration_id": registrationID, "file": path}).Info("badge written")
	return path, nil
}
