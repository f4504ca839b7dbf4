package service

import (
	"context"
	"slices"
	"strings"

	"github.com/Eursukkul/event-registration/internal/ledger"
	"github.com/Eursukkul/event-registration/internal/models"
	log "github.com/sirupsen/logrus"
)

// AttendeeLookup is the slice of the attendee directory registrations need.
type AttendeeLookup interface {
	GetAttendee(ctx context.Context, id string) (*models.Attendee, error)
}

// EventStatus is the seat summary of one event.
type EventStatus struct {
	EventID        string        `json:"event_id"`
	Name           string        `json:"name"`
	Capacity       int           `json:"capacity"`
	Price          float64       `json:"price"`
	Counts         ledger.Counts `json:"counts"`
	SeatsAvailable int           `json:"seats_available"`
}

type RegistrationService interface {
	Register(ctx context.Context, req ledger.CreateRequest) (*models.Registration, error)
	Cancel(ctx context.Context, id string) (*models.Registration, error)
	PromoteWaitlist(ctx context.Context, eventID string) (*models.Registration, error)
	Transfer(ctx context.Context, id, newAttendeeID string) (*models.Registration, error)
	MarkPaid(ctx context.Context, id string) (*models.Registration, error)
	GetRegistration(ctx context.Context, id string) (*models.Registration, error)
	ListByEvent(ctx context.Context, eventID string, status *models.RegistrationStatus) ([]models.Registration, error)
	ListByAttendee(ctx context.Context, attendeeID string) ([]models.Registration, error)
	Waitlist(ctx context.Context, eventID string) ([]models.Registration, error)
	Revenue(ctx context.Context, eventID string) (float64, error)
	EventStatus(ctx context.Context, eventID string) (*EventStatus, error)
}

type registrationService struct {
	ledgerAccess
	events    ledger.EventResolver
	attendees AttendeeLookup
	publisher EventPublisher
}

func NewRegistrationService(l *ledger.Ledger, store ledger.Store, events ledger.EventResolver, attendees AttendeeLookup, publisher EventPublisher) RegistrationService {
	return &registrationService{
		ledgerAccess: newLedgerAccess(l, store),
		events:       events,
		attendees:    attendees,
		publisher:    publisher,
	}
}

func (s *registrationService) Register(ctx context.Context, req ledger.CreateRequest) (*models.Registration, error) {
	if strings.TrimSpace(req.EventID) == "" {
		return nil, models.Validationf("event_id is required")
	}
	event, err := s.events.ResolveEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventCancelled {
		return nil, models.InvalidStatef("event %s is cancelled", event.ID)
	}
	for _, sid := range req.Sessions {
		if _, ok := event.Session(sid); !ok {
			return nil, models.Validationf("event %s has no session %q", event.ID, sid)
		}
	}
	if req.AttendeeID != "" {
		if _, err := s.attendees.GetAttendee(ctx, req.AttendeeID); err != nil {
			return nil, err
		}
	}

	var reg *models.Registration
	err = s.mutate(ctx, event.ID, func() (err error) {
		reg, err = s.ledger.Create(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	logRegistration(reg).Info("registration created")
	publish(s.publisher, "registration.created", reg)
	return reg, nil
}

// Cancel does not promote anyone; callers that want the freed seat filled
// follow up with PromoteWaitlist.
func (s *registrationService) Cancel(ctx context.Context, id string) (*models.Registration, error) {
	eventID, err := s.eventOf(ctx, id)
	if err != nil {
		return nil, err
	}
	var reg *models.Registration
	err = s.mutate(ctx, eventID, func() (err error) {
		reg, err = s.ledger.Cancel(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	logRegistration(reg).WithField("payment_status", reg.PaymentStatus).Info("registration cancelled")
	publish(s.publisher, "registration.cancelled", reg)
	return reg, nil
}

func (s *registrationService) PromoteWaitlist(ctx context.Context, eventID string) (*models.Registration, error) {
	var reg *models.Registration
	err := s.mutate(ctx, eventID, func() (err error) {
		reg, err = s.ledger.PromoteWaitlist(ctx, eventID)
		return err
	})
	if err != nil || reg == nil {
		return nil, err
	}

	logRegistration(reg).WithField("seat_number", *reg.SeatNumber).Info("waitlist promoted")
	publish(s.publisher, "registration.promoted", reg)
	return reg, nil
}

func (s *registrationService) Transfer(ctx context.Context, id, newAttendeeID string) (*models.Registration, error) {
	if newAttendeeID != "" {
		if _, err := s.attendees.GetAttendee(ctx, newAttendeeID); err != nil {
			return nil, err
		}
	}
	eventID, err := s.eventOf(ctx, id)
	if err != nil {
		return nil, err
	}
	var reg *models.Registration
	err = s.mutate(ctx, eventID, func() (err error) {
		reg, err = s.ledger.Transfer(id, newAttendeeID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logRegistration(reg).Info("registration transferred")
	publish(s.publisher, "registration.transferred", reg)
	return reg, nil
}

func (s *registrationService) MarkPaid(ctx context.Context, id string) (*models.Registration, error) {
	eventID, err := s.eventOf(ctx, id)
	if err != nil {
		return nil, err
	}
	var reg *models.Registration
	err = s.mutate(ctx, eventID, func() (err error) {
		reg, err = s.ledger.MarkPaid(id)
		return err
	})
	if err != nil {
		return nil, err
	}

	logRegistration(reg).Info("registration paid")
	publish(s.publisher, "registration.paid", reg)
	return reg, nil
}

func (s *registrationService) GetRegistration(ctx context.Context, id string) (*models.Registration, error) {
	eventID, err := s.eventOf(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, eventID); err != nil {
		return nil, err
	}
	return s.ledger.Get(id)
}

func (s *registrationService) ListByEvent(ctx context.Context, eventID string, status *models.RegistrationStatus) ([]models.Registration, error) {
	if err := s.resolve(ctx, eventID); err != nil {
		return nil, err
	}
	if status == nil {
		return s.ledger.ByEvent(eventID), nil
	}
	if !status.Valid() {
		return nil, models.Validationf("unknown registration status %q", *status)
	}
	return s.ledger.ByEvent(eventID, *status), nil
}

func (s *registrationService) ListByAttendee(ctx context.Context, attendeeID string) ([]models.Registration, error) {
	if _, err := s.attendees.GetAttendee(ctx, attendeeID); err != nil {
		return nil, err
	}
	if s.shared == nil {
		return s.ledger.ByAttendee(attendeeID), nil
	}
	all, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(reg models.Registration) bool {
		return reg.AttendeeID != attendeeID
	}), nil
}

func (s *registrationService) Waitlist(ctx context.Context, eventID string) ([]models.Registration, error) {
	if err := s.resolve(ctx, eventID); err != nil {
		return nil, err
	}
	return s.ledger.Waitlist(eventID), nil
}

func (s *registrationService) Revenue(ctx context.Context, eventID string) (float64, error) {
	if err := s.resolve(ctx, eventID); err != nil {
		return 0, err
	}
	return s.ledger.Revenue(eventID), nil
}

func (s *registrationService) EventStatus(ctx context.Context, eventID string) (*EventStatus, error) {
	event, err := s.events.ResolveEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, eventID); err != nil {
		return nil, err
	}
	counts := s.ledger.Counts(eventID)
	return &EventStatus{
		EventID:        event.ID,
		Name:           event.Name,
		Capacity:       event.Capacity,
		Price:          event.Price,
		Counts:         counts,
		SeatsAvailable: max(event.Capacity-counts.Active(), 0),
	}, nil
}

// resolve checks the event exists and brings its registrations up to date.
func (s *registrationService) resolve(ctx context.Context, eventID string) error {
	if _, err := s.events.ResolveEvent(ctx, eventID); err != nil {
		return err
	}
	return s.refresh(ctx, eventID)
}

func logRegistration(reg *models.Registration) *log.Entry {
	return log.WithFields(log.Fields{
		"registration_id": reg.ID,
		"event_id":        reg.EventID,
		"attendee_id":     reg.AttendeeID,
		"status":          reg.Status,
	})
}
