package dto

import (
	"time"

	"github.com/Eursukkul/event-registration/internal/ledger"
	"github.com/Eursukkul/event-registration/internal/models"
)

type CreateSessionRequest struct {
	ID        string     `json:"id"`
	Title     string     `json:"title" validate:"required"`
	Speaker   string     `json:"speaker" validate:"required"`
	Room      string     `json:"room" validate:"required"`
	Capacity  int        `json:"capacity" validate:"required,gt=0"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

func (r CreateSessionRequest) ToModel() models.Session {
	return models.Session{
		ID:        r.ID,
		Title:     r.Title,
		Speaker:   r.Speaker,
		Room:      r.Room,
		Capacity:  r.Capacity,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

type CreateEventRequest struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name" validate:"required"`
	Location    string                 `json:"location" validate:"required"`
	Description string                 `json:"description"`
	StartDate   models.Date            `json:"start_date" validate:"required"`
	EndDate     models.Date            `json:"end_date" validate:"required"`
	Capacity    int                    `json:"capacity" validate:"required,gt=0"`
	Price       float64                `json:"price" validate:"gte=0"`
	Sessions    []CreateSessionRequest `json:"sessions"`
}

func (r CreateEventRequest) ToModel() *models.Event {
	event := &models.Event{
		ID:          r.ID,
		Name:        r.Name,
		Location:    r.Location,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Capacity:    r.Capacity,
		Price:       r.Price,
	}
	for _, s := range r.Sessions {
		event.Sessions = append(event.Sessions, s.ToModel())
	}
	return event
}

type CreateAttendeeRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Organization string `json:"organization"`
	Dietary      string `json:"dietary"`
	TicketType   string `json:"ticket_type"`
	PIN          string `json:"pin"`
	EmailOptIn   *bool  `json:"email_opt_in"`
}

func (r CreateAttendeeRequest) ToModel() *models.Attendee {
	optIn := true
	if r.EmailOptIn != nil {
		optIn = *r.EmailOptIn
	}
	return &models.Attendee{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Organization: r.Organization,
		Dietary:      r.Dietary,
		TicketType:   r.TicketType,
		PIN:          r.PIN,
		EmailOptIn:   optIn,
	}
}

type AuthenticateRequest struct {
	Email string `json:"email" validate:"required"`
	PIN   string `json:"pin" validate:"required"`
}

type CreateRegistrationRequest struct {
	ID            string               `json:"id"`
	AttendeeID    string               `json:"attendee_id" validate:"required"`
	TicketType    string               `json:"ticket_type" validate:"required"`
	PaymentMethod string               `json:"payment_method" validate:"required"`
	Sessions      []string             `json:"sessions"`
	Price         *float64             `json:"price"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
}

func (r CreateRegistrationRequest) ToLedger(eventID string) ledger.CreateRequest {
	return ledger.CreateRequest{
		ID:            r.ID,
		EventID:       eventID,
		AttendeeID:    r.AttendeeID,
		TicketType:    r.TicketType,
		PaymentMethod: r.PaymentMethod,
		Sessions:      r.Sessions,
		Price:         r.Price,
		PaymentStatus: r.PaymentStatus,
	}
}

type TransferRequest struct {
	AttendeeID string `json:"attendee_id" validate:"required"`
}

// CheckInRequest identifies a registration by id or confirmation code.
type CheckInRequest struct {
	Key string `json:"key" validate:"required"`
}
