package models

import (
	"slices"
	"time"
)

type RegistrationStatus string

const (
	StatusConfirmed  RegistrationStatus = "confirmed"
	StatusWaitlisted RegistrationStatus = "waitlisted"
	StatusCancelled  RegistrationStatus = "cancelled"
	StatusCheckedIn  RegistrationStatus = "checked-in"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusWaitlisted, StatusCancelled, StatusCheckedIn:
		return true
	}
	return false
}

// Active reports whether the status holds one of the event's seats.
func (s RegistrationStatus) Active() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentNoRefund PaymentStatus = "no_refund"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentNoRefund:
		return true
	}
	return false
}

// Retained reports whether money for the registration stays with the organizer.
func (p PaymentStatus) Retained() bool {
	return p == PaymentPaid || p == PaymentNoRefund
}

type Registration struct {
	ID               string             `gorm:"primaryKey;type:varchar(64)" json:"id"`
	EventID          string             `gorm:"not null;index" json:"event_id"`
	AttendeeID       string             `gorm:"not null;index" json:"attendee_id"`
	TicketType       string             `gorm:"not null" json:"ticket_type"`
	Status           RegistrationStatus `gorm:"type:varchar(20);not null" json:"status"`
	SeatNumber       *int               `json:"seat_number"`
	WaitlistPosition *int               `json:"waitlist_position"`
	ConfirmationCode string             `gorm:"not null;uniqueIndex" json:"confirmation_code"`
	PaymentMethod    string             `gorm:"not null" json:"payment_method"`
	PaymentStatus    PaymentStatus      `gorm:"type:varchar(20);not null" json:"payment_status"`
	Price            float64            `gorm:"not null" json:"price"`
	Sessions         []string           `gorm:"serializer:json" json:"sessions"`
	CreatedAt        time.Time          `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"autoUpdateTime:false" json:"updated_at"`
	CheckinTimestamp *time.Time         `json:"checkin_timestamp"`
}

// HasSession reports whether the attendee opted into the session.
func (r *Registration) HasSession(sessionID string) bool {
	return slices.Contains(r.Sessions, sessionID)
}

// Clone returns a deep copy so callers never share pointers with the ledger.
func (r *Registration) Clone() *Registration {
	c := *r
	if r.SeatNumber != nil {
		seat := *r.SeatNumber
		c.SeatNumber = &seat
	}
	if r.WaitlistPosition != nil {
		pos := *r.WaitlistPosition
		c.WaitlistPosition = &pos
	}
	if r.CheckinTimestamp != nil {
		ts := *r.CheckinTimestamp
		c.CheckinTimestamp = &ts
	}
	c.Sessions = slices.Clone(r.Sessions)
	return &c
}
