package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func fill(t *rapid.T, l *Ledger, eventID string, n int) []*models.Registration {
	regs := make([]*models.Registration, n)
	for i := range n {
		reg, err := l.Create(context.Background(), CreateRequest{
			EventID:       eventID,
			AttendeeID:    fmt.Sprintf("att-%d", i),
			TicketType:    "General",
			PaymentMethod: "card",
		})
		require.NoError(t, err)
		regs[i] = reg
	}
	return regs
}

// TestCreate_FillsCapacityThenQueues verifies that N > C creates yield
// seats 1..C and waitlist positions 1..N-C, both in creation order.
func TestCreate_FillsCapacityThenQueues(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 10).Draw(rt, "capacity")
		n := rapid.IntRange(capacity+1, capacity+15).Draw(rt, "n")

		l := newTestLedger(sampleEvent("ev-1", capacity))
		regs := fill(rt, l, "ev-1", n)

		for i, reg := range regs {
			if i < capacity {
				assert.Equal(rt, models.StatusConfirmed, reg.Status)
				require.NotNil(rt, reg.SeatNumber)
				assert.Equal(rt, i+1, *reg.SeatNumber)
				assert.Nil(rt, reg.WaitlistPosition)
				continue
			}
			assert.Equal(rt, models.StatusWaitlisted, reg.Status)
			assert.Nil(rt, reg.SeatNumber)
			require.NotNil(rt, reg.WaitlistPosition)
			assert.Equal(rt, i-capacity+1, *reg.WaitlistPosition)
		}

		counts := l.Counts("ev-1")
		assert.Equal(rt, capacity, counts.Confirmed)
		assert.Equal(rt, n-capacity, counts.Waitlisted)
	})
}

// TestCancelThenPromote_ShiftsQueueByOne verifies that a cancellation
// leaves every other seat alone and that the following promotion takes the
// head of the queue and moves everyone behind it up by exactly one.
func TestCancelThenPromote_ShiftsQueueByOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(rt, "capacity")
		waiting := rapid.IntRange(1, 8).Draw(rt, "waiting")
		victim := rapid.IntRange(0, capacity-1).Draw(rt, "victim")

		l := newTestLedger(sampleEvent("ev-1", capacity))
		regs := fill(rt, l, "ev-1", capacity+waiting)

		_, err := l.Cancel(context.Background(), regs[victim].ID)
		require.NoError(rt, err)

		for i := range capacity {
			if i == victim {
				continue
			}
			got, err := l.Get(regs[i].ID)
			require.NoError(rt, err)
			assert.Equal(rt, *regs[i].SeatNumber, *got.SeatNumber)
		}

		before := l.Waitlist("ev-1")
		promoted, err := l.PromoteWaitlist(context.Background(), "ev-1")
		require.NoError(rt, err)
		require.NotNil(rt, promoted)
		assert.Equal(rt, regs[capacity].ID, promoted.ID)
		assert.Equal(rt, models.StatusConfirmed, promoted.Status)
		assert.Equal(rt, victim+1, *promoted.SeatNumber)

		after := l.Waitlist("ev-1")
		require.Len(rt, after, len(before)-1)
		for i, reg := range after {
			assert.Equal(rt, before[i+1].ID, reg.ID)
			assert.Equal(rt, *before[i+1].WaitlistPosition-1, *reg.WaitlistPosition)
		}
		assert.Equal(rt, capacity, l.Counts("ev-1").Active())
	})
}

// TestRevenue_FollowsPaymentTransitions verifies revenue never drops when a
// pending registration is paid and drops by exactly the price on refund.
func TestRevenue_FollowsPaymentTransitions(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(rt, "n")
		l := newTestLedger(sampleEvent("ev-1", n))

		regs := make([]*models.Registration, n)
		for i := range n {
			price := float64(rapid.IntRange(0, 500).Draw(rt, "price"))
			reg, err := l.Create(context.Background(), CreateRequest{
				EventID:       "ev-1",
				AttendeeID:    fmt.Sprintf("att-%d", i),
				TicketType:    "General",
				PaymentMethod: "invoice",
				Price:         &price,
				PaymentStatus: models.PaymentPending,
			})
			require.NoError(rt, err)
			regs[i] = reg
		}
		assert.Zero(rt, l.Revenue("ev-1"))

		order := rapid.Permutation(regs).Draw(rt, "order")
		for _, reg := range order {
			before := l.Revenue("ev-1")
			_, err := l.MarkPaid(reg.ID)
			require.NoError(rt, err)
			after := l.Revenue("ev-1")
			assert.GreaterOrEqual(rt, after, before)
			assert.Equal(rt, before+reg.Price, after)
		}

		// the event starts weeks away so every cancellation is refunded
		for _, reg := range order {
			before := l.Revenue("ev-1")
			cancelled, err := l.Cancel(context.Background(), reg.ID)
			require.NoError(rt, err)
			assert.Equal(rt, models.PaymentRefunded, cancelled.PaymentStatus)
			assert.Equal(rt, before-reg.Price, l.Revenue("ev-1"))
		}
	})
}

// TestTransfer_RejectsSeatlessRegistrations verifies that waitlisted and
// cancelled registrations cannot change hands and stay exactly as they were.
func TestTransfer_RejectsSeatlessRegistrations(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 5).Draw(rt, "capacity")
		n := rapid.IntRange(capacity+1, capacity+6).Draw(rt, "n")
		l := newTestLedger(sampleEvent("ev-1", capacity))
		regs := fill(rt, l, "ev-1", n)

		pick := rapid.IntRange(0, n-1).Draw(rt, "pick")
		target := regs[pick]
		if target.Status == models.StatusConfirmed {
			_, err := l.Cancel(context.Background(), target.ID)
			require.NoError(rt, err)
		}
		before, err := l.Get(target.ID)
		require.NoError(rt, err)

		_, err = l.Transfer(target.ID, rapid.StringMatching(`att-new-[a-z]{3}`).Draw(rt, "newAttendee"))

		assert.ErrorIs(rt, err, models.ErrInvalidState)
		after, err := l.Get(target.ID)
		require.NoError(rt, err)
		assert.Equal(rt, before, after)
	})
}
