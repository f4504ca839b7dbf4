package service

import (
	"context"
	"testing"

	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory AttendeeRepository ---

type memAttendeeRepo struct {
	byID map[string]models.Attendee
}

func newMemAttendeeRepo() *memAttendeeRepo {
	return &memAttendeeRepo{byID: map[string]models.Attendee{}}
}

func (m *memAttendeeRepo) Create(_ context.Context, a *models.Attendee) error {
	m.byID[a.ID] = *a
	return nil
}
func (m *memAttendeeRepo) Update(_ context.Context, a *models.Attendee) error {
	m.byID[a.ID] = *a
	return nil
}
func (m *memAttendeeRepo) FindByID(_ context.Context, id string) (*models.Attendee, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, models.NotFoundf("attendee %q not found", id)
	}
	return &a, nil
}
func (m *memAttendeeRepo) FindByEmail(_ context.Context, email string) (*models.Attendee, error) {
	for _, a := range m.byID {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, models.NotFoundf("attendee %q not found", email)
}
func (m *memAttendeeRepo) FindAll(_ context.Context) ([]models.Attendee, error) {
	out := make([]models.Attendee, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	return out, nil
}

func TestRegisterAttendee_Defaults(t *testing.T) {
	svc := NewAttendeeService(newMemAttendeeRepo())
	a := &models.Attendee{Name: "  Somchai  ", Email: " Somchai@Example.COM "}

	require.NoError(t, svc.RegisterAttendee(context.Background(), a))

	assert.Len(t, a.ID, 8)
	assert.Equal(t, "Somchai", a.Name)
	assert.Equal(t, "somchai@example.com", a.Email)
	assert.Equal(t, "General", a.TicketType)
	assert.Regexp(t, `^\d{4}$`, a.PIN)
}

func TestRegisterAttendee_Errors(t *testing.T) {
	repo := newMemAttendeeRepo()
	svc := NewAttendeeService(repo)
	require.NoError(t, svc.RegisterAttendee(context.Background(), &models.Attendee{ID: "a1", Name: "A", Email: "a@example.com"}))

	err := svc.RegisterAttendee(context.Background(), &models.Attendee{Name: "", Email: "x@example.com"})
	assert.ErrorIs(t, err, models.ErrValidation)

	err = svc.RegisterAttendee(context.Background(), &models.Attendee{Name: "B", Email: ""})
	assert.ErrorIs(t, err, models.ErrValidation)

	err = svc.RegisterAttendee(context.Background(), &models.Attendee{Name: "B", Email: "b@example.com", PIN: "12a4"})
	assert.ErrorIs(t, err, models.ErrValidation)

	err = svc.RegisterAttendee(context.Background(), &models.Attendee{Name: "B", Email: "A@EXAMPLE.com"})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	err = svc.RegisterAttendee(context.Background(), &models.Attendee{ID: "a1", Name: "B", Email: "b@example.com"})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	assert.Len(t, repo.byID, 1)
}

func TestAuthenticate(t *testing.T) {
	svc := NewAttendeeService(newMemAttendeeRepo())
	require.NoError(t, svc.RegisterAttendee(context.Background(), &models.Attendee{Name: "A", Email: "a@example.com", PIN: "4321"}))

	got, err := svc.Authenticate(context.Background(), "A@example.com ", "4321")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)

	_, err = svc.Authenticate(context.Background(), "a@example.com", "0000")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "4321")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateAttendee(t *testing.T) {
	svc := NewAttendeeService(newMemAttendeeRepo())
	a := &models.Attendee{ID: "a1", Name: "A", Email: "a@example.com", PIN: "1111"}
	require.NoError(t, svc.RegisterAttendee(context.Background(), a))
	require.NoError(t, svc.RegisterAttendee(context.Background(), &models.Attendee{ID: "b1", Name: "B", Email: "b@example.com"}))

	email := "New@Example.com"
	org := "Gopher Guild"
	optOut := false
	updated, err := svc.UpdateAttendee(context.Background(), "a1", AttendeePatch{Email: &email, Organization: &org, EmailOptIn: &optOut})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "Gopher Guild", updated.Organization)
	assert.False(t, updated.EmailOptIn)
	assert.Equal(t, "1111", updated.PIN)

	// keeping one's own address is not a conflict
	same := "new@example.com"
	_, err = svc.UpdateAttendee(context.Background(), "a1", AttendeePatch{Email: &same})
	assert.NoError(t, err)

	taken := "b@example.com"
	_, err = svc.UpdateAttendee(context.Background(), "a1", AttendeePatch{Email: &taken})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	_, err = svc.UpdateAttendee(context.Background(), "zz", AttendeePatch{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
