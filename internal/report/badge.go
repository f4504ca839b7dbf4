package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/spf13/afero"
)

const badgeRule = "=============================="

// Badge is the printable name badge for one registration.
type Badge struct {
	RegistrationID   string   `json:"registration_id"`
	Name             string   `json:"name"`
	Organization     string   `json:"organization"`
	TicketType       string   `json:"ticket_type"`
	ConfirmationCode string   `json:"confirmation_code"`
	Sessions         []string `json:"sessions"`
}

func NewBadge(attendee *models.Attendee, reg *models.Registration) Badge {
	return Badge{
		RegistrationID:   reg.ID,
		Name:             attendee.Name,
		Organization:     attendee.Organization,
		TicketType:       reg.TicketType,
		ConfirmationCode: reg.ConfirmationCode,
		Sessions:         append([]string(nil), reg.Sessions...),
	}
}

// Filename is badge_<registration id>.txt.
func (b Badge) Filename() string {
	return "badge_" + b.RegistrationID + ".txt"
}

func (b Badge) Render() string {
	var sb strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&sb, format+"\n", args...)
	}

	line(badgeRule)
	line("        EVENT BADGE")
	line(badgeRule)
	line("Name        : %s", b.Name)
	line("Organization: %s", b.Organization)
	line("Ticket Type : %s", b.TicketType)
	line("Confirmation: %s", b.ConfirmationCode)
	line("")
	line("Sessions:")
	if len(b.Sessions) == 0 {
		line("  (None assigned)")
	}
	for _, sid := range b.Sessions {
		line("  - Session ID: %s", sid)
	}
	line(badgeRule)
	return sb.String()
}

// WriteBadge renders the badge into dir and returns the file path.
func WriteBadge(fs afero.Fs, b Badge, dir string) (string, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, b.Filename())
	if err := afero.WriteFile(fs, path, []byte(b.Render()), 0o644); err != nil {
		return "", fmt.Errorf("write badge: %w", err)
	}
	return path, nil
}
