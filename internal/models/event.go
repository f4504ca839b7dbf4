package models

import "time"

type EventStatus string

const (
	EventScheduled EventStatus = "scheduled"
	EventCancelled EventStatus = "cancelled"
)

type Event struct {
	ID          string      `gorm:"primaryKey;type:varchar(64)" json:"id" yaml:"id"`
	Name        string      `gorm:"not null" json:"name" yaml:"name"`
	Location    string      `gorm:"not null" json:"location" yaml:"location"`
	Description string      `json:"description" yaml:"description"`
	StartDate   Date        `gorm:"not null" json:"start_date" yaml:"start_date"`
	EndDate     Date        `gorm:"not null" json:"end_date" yaml:"end_date"`
	Capacity    int         `gorm:"not null" json:"capacity" yaml:"capacity"`
	Price       float64     `gorm:"not null" json:"price" yaml:"price"`
	Status      EventStatus `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status" yaml:"status"`
	Sessions    []Session   `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"sessions" yaml:"sessions"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" yaml:"updated_at"`
}

// Session is a track inside an event. Its ID is only unique within the event.
type Session struct {
	EventID   string     `gorm:"primaryKey;type:varchar(64)" json:"-" yaml:"-"`
	ID        string     `gorm:"primaryKey;type:varchar(64)" json:"id" yaml:"id"`
	Title     string     `gorm:"not null" json:"title" yaml:"title"`
	Speaker   string     `gorm:"not null" json:"speaker" yaml:"speaker"`
	Room      string     `gorm:"not null" json:"room" yaml:"room"`
	Capacity  int        `gorm:"not null" json:"capacity" yaml:"capacity"`
	StartTime *time.Time `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Position  int        `gorm:"not null;default:0" json:"-" yaml:"-"`
}

// Session returns the session with the given id, if the event has one.
func (e *Event) Session(id string) (*Session, bool) {
	for i := range e.Sessions {
		if e.Sessions[i].ID == id {
			return &e.Sessions[i], true
		}
	}
	return nil, false
}
