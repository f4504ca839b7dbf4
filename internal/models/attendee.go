package models

import "time"

type Attendee struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	Organization string    `json:"organization"`
	Dietary      string    `json:"dietary"`
	TicketType   string    `gorm:"not null;default:'General'" json:"ticket_type"`
	PIN          string    `gorm:"column:pin;type:varchar(4);not null" json:"pin"`
	EmailOptIn   bool      `gorm:"not null;default:true" json:"email_opt_in"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
