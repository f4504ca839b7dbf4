package ledger

import (
	"context"
	"testing"

	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIn_ByIDAndConfirmationCode(t *testing.T) {
	l := newTestLedger(sampleEvent("ev-1", 5))
	a := register(t, l, "ev-1", "a")
	b := register(t, l, "ev-1", "b")

	byID, err := l.CheckIn(a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedIn, byID.Status)
	require.NotNil(t, byID.CheckinTimestamp)
	assert.Equal(t, *byID.CheckinTimestamp, byID.UpdatedAt)

	byCode, err := l.CheckIn(b.ConfirmationCode)
	require.NoError(t, err)
	assert.Equal(t, b.ID, byCode.ID)
	assert.Equal(t, models.StatusCheckedIn, byCode.Status)
}

func TestCheckIn_RejectsSeatlessRegistrations(t *testing.T) {
	l := newTestLedger(sampleEvent("ev-1", 1))
	a := register(t, l, "ev-1", "a")
	waiting := register(t, l, "ev-1", "b")
	_, err := l.Cancel(context.Background(), a.ID)
	require.NoError(t, err)

	_, err = l.CheckIn(a.ID)
	assert.ErrorIs(t, err, models.ErrInvalidState)

	_, err = l.CheckIn(waiting.ConfirmationCode)
	assert.ErrorIs(t, err, models.ErrInvalidState)

	got, _ := l.Get(waiting.ID)
	assert.Nil(t, got.CheckinTimestamp)
}

func TestCheckIn_AgainRefreshesTimestamp(t *testing.T) {
	l := newTestLedger(sampleEvent("ev-1", 1))
	a := register(t, l, "ev-1", "a")

	first, err := l.CheckIn(a.ID)
	require.NoError(t, err)
	second, err := l.CheckIn(a.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCheckedIn, second.Status)
	assert.True(t, second.CheckinTimestamp.After(*first.CheckinTimestamp))
}

func TestCheckIn_UnknownKey(t *testing.T) {
	l := newTestLedger()

	_, err := l.CheckIn("ZZZZ9999")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = l.CheckIn("")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSessionAttendance(t *testing.T) {
	l := newTestLedger(sampleEvent("ev-1", 5))
	create := func(attendee string) *models.Registration {
		reg, err := l.Create(context.Background(), CreateRequest{
			EventID: "ev-1", AttendeeID: attendee, TicketType: "General", PaymentMethod: "card",
			Sessions: []string{"keynote"},
		})
		require.NoError(t, err)
		return reg
	}
	a := create("a")
	create("b")
	c := create("c")
	register(t, l, "ev-1", "no-sessions")
	_, err := l.Cancel(context.Background(), c.ID)
	require.NoError(t, err)

	att := l.SessionAttendance("ev-1", "keynote")
	assert.Equal(t, 2, att.Registered)
	assert.Equal(t, 0, att.CheckedIn)

	_, err = l.CheckIn(a.ID)
	require.NoError(t, err)

	att = l.SessionAttendance("ev-1", "keynote")
	assert.Equal(t, 2, att.Registered)
	assert.Equal(t, 1, att.CheckedIn)

	assert.Zero(t, l.SessionAttendance("ev-1", "workshop").Registered)
}

func TestCheckedIn(t *testing.T) {
	l := newTestLedger(sampleEvent("ev-1", 3))
	a := register(t, l, "ev-1", "a")
	register(t, l, "ev-1", "b")

	assert.Empty(t, l.CheckedIn("ev-1"))

	_, err := l.CheckIn(a.ConfirmationCode)
	require.NoError(t, err)

	list := l.CheckedIn("ev-1")
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}
