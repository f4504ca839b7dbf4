package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/repository"
	log "github.com/sirupsen/logrus"
)

const defaultTicketType = "General"

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// AttendeePatch carries the fields of a partial attendee update. The id and
// PIN cannot be changed.
type AttendeePatch struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Organization *string `json:"organization"`
	Dietary      *string `json:"dietary"`
	TicketType   *string `json:"ticket_type"`
	EmailOptIn   *bool   `json:"email_opt_in"`
}

type AttendeeService interface {
	RegisterAttendee(ctx context.Context, attendee *models.Attendee) error
	Authenticate(ctx context.Context, email, pin string) (*models.Attendee, error)
	UpdateAttendee(ctx context.Context, id string, patch AttendeePatch) (*models.Attendee, error)
	GetAttendee(ctx context.Context, id string) (*models.Attendee, error)
	ListAttendees(ctx context.Context) ([]models.Attendee, error)
}

type attendeeService struct {
	repo repository.AttendeeRepository
}

func NewAttendeeService(repo repository.AttendeeRepository) AttendeeService {
	return &attendeeService{repo: repo}
}

// RegisterAttendee creates a profile. The e-mail is stored lower-cased and a
// 4 digit PIN is generated when none is given.
func (s *attendeeService) RegisterAttendee(ctx context.Context, attendee *models.Attendee) error {
	attendee.Name = strings.TrimSpace(attendee.Name)
	attendee.Email = normalizeEmail(attendee.Email)
	attendee.Organization = strings.TrimSpace(attendee.Organization)
	attendee.Dietary = strings.TrimSpace(attendee.Dietary)
	attendee.ID = strings.TrimSpace(attendee.ID)

	if attendee.Name == "" {
		return models.Validationf("name is required")
	}
	if attendee.Email == "" {
		return models.Validationf("email is required")
	}
	if attendee.TicketType == "" {
		attendee.TicketType = defaultTicketType
	}
	if attendee.PIN == "" {
		attendee.PIN = fmt.Sprintf("%04d", rand.IntN(10000))
	} else if !pinPattern.MatchString(attendee.PIN) {
		return models.Validationf("pin must be 4 digits")
	}

	if err := s.ensureEmailFree(ctx, attendee.Email, ""); err != nil {
		return err
	}
	if attendee.ID == "" {
		attendee.ID = shortID()
	} else if _, err := s.repo.FindByID(ctx, attendee.ID); err == nil {
		return models.InvalidStatef("attendee id %q already exists", attendee.ID)
	}

	if err := s.repo.Create(ctx, attendee); err != nil {
		return fmt.Errorf("create attendee: %w", err)
	}
	log.WithField("attendee_id", attendee.ID).Info("attendee registered")
	return nil
}

// Authenticate matches an e-mail and PIN pair. Any mismatch is reported as
// not found.
func (s *attendeeService) Authenticate(ctx context.Context, email, pin string) (*models.Attendee, error) {
	attendee, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if attendee == nil || attendee.PIN != pin {
		return nil, models.NotFoundf("invalid email or pin")
	}
	return attendee, nil
}

func (s *attendeeService) UpdateAttendee(ctx context.Context, id string, patch AttendeePatch) (*models.Attendee, error) {
	attendee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return nil, models.Validationf("email is required")
		}
		if err := s.ensureEmailFree(ctx, email, attendee.ID); err != nil {
			return nil, err
		}
		attendee.Email = email
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, models.Validationf("name is required")
		}
		attendee.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Organization != nil {
		attendee.Organization = strings.TrimSpace(*patch.Organization)
	}
	if patch.Dietary != nil {
		attendee.Dietary = strings.TrimSpace(*patch.Dietary)
	}
	if patch.TicketType != nil && *patch.TicketType != "" {
		attendee.TicketType = *patch.TicketType
	}
	if patch.EmailOptIn != nil {
		attendee.EmailOptIn = *patch.EmailOptIn
	}

	if err := s.repo.Update(ctx, attendee); err != nil {
		return nil, fmt.Errorf("update attendee: %w", err)
	}
	return attendee, nil
}

func (s *attendeeService) GetAttendee(ctx context.Context, id string) (*models.Attendee, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *attendeeService) ListAttendees(ctx context.Context) ([]models.Attendee, error) {
	return s.repo.FindAll(ctx)
}

func (s *attendeeService) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	other, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != ownerID:
		return models.InvalidStatef("an attendee with email %s already exists", email)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
