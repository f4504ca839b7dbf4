package dto

import (
	"time"

	"github.com/Eursukkul/event-registration/internal/ledger"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/service"
)

type SessionResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Speaker   string     `json:"speaker"`
	Room      string     `json:"room"`
	Capacity  int        `json:"capacity"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type EventResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Location    string             `json:"location"`
	Description string             `json:"description"`
	StartDate   models.Date        `json:"start_date"`
	EndDate     models.Date        `json:"end_date"`
	Capacity    int                `json:"capacity"`
	Price       float64            `json:"price"`
	Status      models.EventStatus `json:"status"`
	Sessions    []SessionResponse  `json:"sessions"`
	CreatedAt   time.Time          `json:"created_at"`
}

// AttendeeResponse never carries the PIN.
type AttendeeResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Organization string    `json:"organization"`
	Dietary      string    `json:"dietary"`
	TicketType   string    `json:"ticket_type"`
	EmailOptIn   bool      `json:"email_opt_in"`
	CreatedAt    time.Time `json:"created_at"`
}

// AttendeeCreatedResponse is returned once, on registration, so the
// attendee learns a generated PIN.
type AttendeeCreatedResponse struct {
	AttendeeResponse
	PIN string `json:"pin"`
}

type RegistrationResponse struct {
	ID               string                    `json:"id"`
	EventID          string                    `json:"event_id"`
	AttendeeID       string                    `json:"attendee_id"`
	TicketType       string                    `json:"ticket_type"`
	Status           models.RegistrationStatus `json:"status"`
	SeatNumber       *int                      `json:"seat_number,omitempty"`
	WaitlistPosition *int                      `json:"waitlist_position,omitempty"`
	ConfirmationCode string                    `json:"confirmation_code"`
	PaymentMethod    string                    `json:"payment_method"`
	PaymentStatus    models.PaymentStatus      `json:"payment_status"`
	Price            float64                   `json:"price"`
	Sessions         []string                  `json:"sessions"`
	CheckinTimestamp *time.Time                `json:"checkin_timestamp,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

type CancelResponse struct {
	Cancelled RegistrationResponse  `json:"cancelled"`
	Promoted  *RegistrationResponse `json:"promoted,omitempty"`
}

type EventStatusResponse struct {
	EventID        string  `json:"event_id"`
	Name           string  `json:"name"`
	Capacity       int     `json:"capacity"`
	Price          float64 `json:"price"`
	Confirmed      int     `json:"confirmed_count"`
	CheckedIn      int     `json:"checked_in_count"`
	Waitlisted     int     `json:"waitlisted_count"`
	Cancelled      int     `json:"cancelled_count"`
	SeatsAvailable int     `json:"seats_available"`
}

type RevenueResponse struct {
	EventID string  `json:"event_id"`
	Revenue float64 `json:"revenue"`
}

type AttendanceResponse struct {
	EventID    string `json:"event_id"`
	SessionID  string `json:"session_id"`
	Registered int    `json:"registered"`
	CheckedIn  int    `json:"checked_in"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToSessionResponse(s *models.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		Title:     s.Title,
		Speaker:   s.Speaker,
		Room:      s.Room,
		Capacity:  s.Capacity,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}

func ToEventResponse(e *models.Event) EventResponse {
	sessions := make([]SessionResponse, len(e.Sessions))
	for i := range e.Sessions {
		sessions[i] = ToSessionResponse(&e.Sessions[i])
	}
	return EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Location:    e.Location,
		Description: e.Description,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Capacity:    e.Capacity,
		Price:       e.Price,
		Status:      e.Status,
		Sessions:    sessions,
		CreatedAt:   e.CreatedAt,
	}
}

func ToAttendeeResponse(a *models.Attendee) AttendeeResponse {
	return AttendeeResponse{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Organization: a.Organization,
		Dietary:      a.Dietary,
		TicketType:   a.TicketType,
		EmailOptIn:   a.EmailOptIn,
		CreatedAt:    a.CreatedAt,
	}
}

func ToRegistrationResponse(r *models.Registration) RegistrationResponse {
	sessions := r.Sessions
	if sessions == nil {
		sessions = []string{}
	}
	return RegistrationResponse{
		ID:               r.ID,
		EventID:          r.EventID,
		AttendeeID:       r.AttendeeID,
		TicketType:       r.TicketType,
		Status:           r.Status,
		SeatNumber:       r.SeatNumber,
		WaitlistPosition: r.WaitlistPosition,
		ConfirmationCode: r.ConfirmationCode,
		PaymentMethod:    r.PaymentMethod,
		PaymentStatus:    r.PaymentStatus,
		Price:            r.Price,
		Sessions:         sessions,
		CheckinTimestamp: r.CheckinTimestamp,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func ToRegistrationResponses(regs []models.Registration) []RegistrationResponse {
	resp := make([]RegistrationResponse, len(regs))
	for i := range regs {
		resp[i] = ToRegistrationResponse(&regs[i])
	}
	return resp
}

func ToEventStatusResponse(s *service.EventStatus) EventStatusResponse {
	return EventStatusResponse{
		EventID:        s.EventID,
		Name:           s.Name,
		Capacity:       s.Capacity,
		Price:          s.Price,
		Confirmed:      s.Counts.Confirmed,
		CheckedIn:      s.Counts.CheckedIn,
		Waitlisted:     s.Counts.Waitlisted,
		Cancelled:      s.Counts.Cancelled,
		SeatsAvailable: s.SeatsAvailable,
	}
}

func ToAttendanceResponse(a *ledger.Attendance) AttendanceResponse {
	return AttendanceResponse{
		EventID:    a.EventID,
		SessionID:  a.SessionID,
		Registered: a.Registered,
		CheckedIn:  a.CheckedIn,
	}
}
