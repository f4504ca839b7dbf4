// Package report aggregates the directory and the ledger into read-only
// summaries and writes them out as JSON, CSV or YAML.
package report

import (
	"strconv"

	"github.com/Eursukkul/event-registration/internal/models"
)

// Table is a report that can be flattened into rows.
type Table interface {
	Header() []string
	Rows() [][]string
}

type EventAttendance struct {
	EventID    string `json:"event_id" yaml:"event_id"`
	EventName  string `json:"event_name" yaml:"event_name"`
	Capacity   int    `json:"capacity" yaml:"capacity"`
	Registered int    `json:"registered" yaml:"registered"`
	CheckedIn  int    `json:"checked_in" yaml:"checked_in"`
	Remaining  int    `json:"remaining" yaml:"remaining"`
}

type AttendanceReport []EventAttendance

// Attendance counts, per event, registrations that are not cancelled
// (waitlisted included) and those checked in.
func Attendance(events []models.Event, regs []models.Registration) AttendanceReport {
	byEvent := groupByEvent(regs)
	out := make(AttendanceReport, 0, len(events))
	for _, e := range events {
		row := EventAttendance{EventID: e.ID, EventName: e.Name, Capacity: e.Capacity}
		for _, r := range byEvent[e.ID] {
			if r.Status != models.StatusCancelled {
				row.Registered++
			}
			if r.Status == models.StatusCheckedIn {
				row.CheckedIn++
			}
		}
		row.Remaining = max(row.Capacity-row.Registered, 0)
		out = append(out, row)
	}
	return out
}

func (AttendanceReport) Header() []string {
	return []string{"event_id", "event_name", "capacity", "registered", "checked_in", "remaining"}
}

func (r AttendanceReport) Rows() [][]string {
	rows := make([][]string, len(r))
	for i, a := range r {
		rows[i] = []string{a.EventID, a.EventName, itoa(a.Capacity), itoa(a.Registered), itoa(a.CheckedIn), itoa(a.Remaining)}
	}
	return rows
}

type EventRevenue struct {
	EventID   string  `json:"event_id" yaml:"event_id"`
	EventName string  `json:"event_name" yaml:"event_name"`
	Revenue   float64 `json:"revenue" yaml:"revenue"`
}

type RevenueReport []EventRevenue

// Revenue sums retained money (paid and no_refund) per event.
func Revenue(events []models.Event, regs []models.Registration) RevenueReport {
	byEvent := groupByEvent(regs)
	out := make(RevenueReport, 0, len(events))
	for _, e := range events {
		row := EventRevenue{EventID: e.ID, EventName: e.Name}
		for _, r := range byEvent[e.ID] {
			if r.PaymentStatus.Retained() {
				row.Revenue += r.Price
			}
		}
		out = append(out, row)
	}
	return out
}

// Total is the revenue across every event in the report.
func (r RevenueReport) Total() float64 {
	var total float64
	for _, row := range r {
		total += row.Revenue
	}
	return total
}

func (RevenueReport) Header() []string {
	return []string{"event_id", "event_name", "revenue"}
}

func (r RevenueReport) Rows() [][]string {
	rows := make([][]string, len(r))
	for i, row := range r {
		rows[i] = []string{row.EventID, row.EventName, strconv.FormatFloat(row.Revenue, 'f', 2, 64)}
	}
	return rows
}

type SessionStats struct {
	EventID      string `json:"event_id" yaml:"event_id"`
	SessionID    string `json:"session_id" yaml:"session_id"`
	SessionTitle string `json:"session_title" yaml:"session_title"`
	Registered   int    `json:"registered" yaml:"registered"`
	CheckedIn    int    `json:"checked_in" yaml:"checked_in"`
}

type SessionReport []SessionStats

// SessionPopularity lists every session of every event with its seat-holding
// registrations and check-ins. Session ids that registrations mention but the
// event does not define are listed after the defined ones, titled by id.
func SessionPopularity(events []models.Event, regs []models.Registration) SessionReport {
	byEvent := groupByEvent(regs)
	var out SessionReport
	for _, e := range events {
		index := make(map[string]int, len(e.Sessions))
		for _, s := range e.Sessions {
			index[s.ID] = len(out)
			out = append(out, SessionStats{EventID: e.ID, SessionID: s.ID, SessionTitle: s.Title})
		}
		for _, r := range byEvent[e.ID] {
			for _, sid := range r.Sessions {
				i, ok := index[sid]
				if !ok {
					i = len(out)
					index[sid] = i
					out = append(out, SessionStats{EventID: e.ID, SessionID: sid, SessionTitle: sid})
				}
				if r.Status.Active() {
					out[i].Registered++
				}
				if r.Status == models.StatusCheckedIn {
					out[i].CheckedIn++
				}
			}
		}
	}
	return out
}

func (SessionReport) Header() []string {
	return []string{"event_id", "session_id", "session_title", "registered", "checked_in"}
}

func (r SessionReport) Rows() [][]string {
	rows := make([][]string, len(r))
	for i, s := range r {
		rows[i] = []string{s.EventID, s.SessionID, s.SessionTitle, itoa(s.Registered), itoa(s.CheckedIn)}
	}
	return rows
}

func groupByEvent(regs []models.Registration) map[string][]models.Registration {
	out := make(map[string][]models.Registration)
	for _, r := range regs {
		out[r.EventID] = append(out[r.EventID], r)
	}
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }
