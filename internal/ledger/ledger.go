// Package ledger owns registration records and every rule about seats,
// the waitlist and payment status. All state lives in memory behind one
// mutex; persistence happens through Commit.
package ledger

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/google/uuid"
)

// refundWindowDays is how many days before the event start a paid
// cancellation must happen to be refunded. The boundary itself is too late.
const refundWindowDays = 2

// EventResolver is the read side of the event directory the ledger needs.
type EventResolver interface {
	ResolveEvent(ctx context.Context, id string) (*models.Event, error)
}

// Store persists records changed since the last commit.
type Store interface {
	Save(ctx context.Context, regs ...models.Registration) error
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) { l.newID = gen }
}

func WithCodeGenerator(gen func() string) Option {
	return func(l *Ledger) { l.newCode = gen }
}

type Ledger struct {
	mu      sync.Mutex
	events  EventResolver
	now     func() time.Time
	newID   func() string
	newCode func() string

	records []*models.Registration
	byID    map[string]*models.Registration
	byCode  map[string]*models.Registration
	byEvent map[string][]*models.Registration
	dirty   map[string]struct{}

	// locks serializes Apply and Sync per event within this process.
	locks map[string]*sync.Mutex
}

func New(events EventResolver, opts ...Option) *Ledger {
	l := &Ledger{
		events:  events,
		now:     time.Now,
		newID:   uuid.NewString,
		newCode: newConfirmationCode,
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.reset()
	return l
}

func newConfirmationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (l *Ledger) reset() {
	l.records = nil
	l.byID = make(map[string]*models.Registration)
	l.byCode = make(map[string]*models.Registration)
	l.byEvent = make(map[string][]*models.Registration)
	l.dirty = make(map[string]struct{})
}

// Load replaces the ledger contents with previously persisted records,
// keeping their order. Loaded records are not dirty.
func (l *Ledger) Load(records []models.Registration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.reset()
	for i := range records {
		reg := records[i].Clone()
		if _, ok := l.byID[reg.ID]; ok {
			l.reset()
			return models.InvalidStatef("duplicate registration id %q", reg.ID)
		}
		if _, ok := l.byCode[reg.ConfirmationCode]; ok {
			l.reset()
			return models.InvalidStatef("duplicate confirmation code %q", reg.ConfirmationCode)
		}
		l.insert(reg)
	}
	return nil
}

// CreateRequest describes a new registration. Price and PaymentStatus are
// optional overrides; ID is optional and generated when empty.
type CreateRequest struct {
	ID            string
	EventID       string
	AttendeeID    string
	TicketType    string
	PaymentMethod string
	Sessions      []string
	Price         *float64
	PaymentStatus models.PaymentStatus
}

func (r CreateRequest) validate() error {
	switch {
	case strings.TrimSpace(r.EventID) == "":
		return models.Validationf("event_id is required")
	case strings.TrimSpace(r.AttendeeID) == "":
		return models.Validationf("attendee_id is required")
	case strings.TrimSpace(r.TicketType) == "":
		return models.Validationf("ticket_type is required")
	case strings.TrimSpace(r.PaymentMethod) == "":
		return models.Validationf("payment_method is required")
	case r.Price != nil && *r.Price < 0:
		return models.Validationf("price must be a non-negative number")
	case r.PaymentStatus != "" && !r.PaymentStatus.Valid():
		return models.Validationf("unknown payment_status %q", r.PaymentStatus)
	}
	return nil
}

// Create registers an attendee for an event. The registration is confirmed
// with a seat while the event has capacity and waitlisted otherwise.
func (l *Ledger) Create(ctx context.Context, req CreateRequest) (*models.Registration, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	event, err := l.events.ResolveEvent(ctx, strings.TrimSpace(req.EventID))
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = l.uniqueID()
	} else if _, ok := l.byID[id]; ok {
		return nil, models.InvalidStatef("registration id %q already exists", id)
	}

	price := event.Price
	if req.Price != nil {
		price = *req.Price
	}

	now := l.now()
	reg := &models.Registration{
		ID:               id,
		EventID:          event.ID,
		AttendeeID:       strings.TrimSpace(req.AttendeeID),
		TicketType:       strings.TrimSpace(req.TicketType),
		ConfirmationCode: l.uniqueCode(),
		PaymentMethod:    strings.TrimSpace(req.PaymentMethod),
		PaymentStatus:    req.PaymentStatus,
		Price:            price,
		Sessions:         dedupe(req.Sessions),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if l.activeCount(event.ID) < event.Capacity {
		seat := l.nextSeat(event.ID)
		reg.Status = models.StatusConfirmed
		reg.SeatNumber = &seat
		if reg.PaymentStatus == "" {
			reg.PaymentStatus = models.PaymentPaid
		}
	} else {
		pos := l.maxWaitlistPosition(event.ID) + 1
		reg.Status = models.StatusWaitlisted
		reg.WaitlistPosition = &pos
		if reg.PaymentStatus == "" {
			reg.PaymentStatus = models.PaymentPending
		}
	}

	l.insert(reg)
	l.markDirty(reg)
	return reg.Clone(), nil
}

// Cancel moves a registration to cancelled and applies the refund policy.
// It never renumbers seats and never promotes the waitlist; a cancelled
// waitlisted registration leaves the queue and the queue is compacted.
func (l *Ledger) Cancel(ctx context.Context, id string) (*models.Registration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reg, ok := l.byID[id]
	if !ok {
		return nil, models.NotFoundf("registration %q not found", id)
	}
	if reg.Status == models.StatusCancelled {
		return reg.Clone(), nil
	}

	now := l.now()
	today := models.DateOf(now)
	start := today
	if event, err := l.events.ResolveEvent(ctx, reg.EventID); err == nil {
		start = event.StartDate
	}

	if reg.PaymentStatus == models.PaymentPaid {
		if today.DaysUntil(start) > refundWindowDays {
			reg.PaymentStatus = models.PaymentRefunded
		} else {
			reg.PaymentStatus = models.PaymentNoRefund
		}
	}

	wasWaitlisted := reg.Status == models.StatusWaitlisted
	reg.Status = models.StatusCancelled
	reg.WaitlistPosition = nil
	reg.UpdatedAt = now
	l.markDirty(reg)

	if wasWaitlisted {
		l.renumberWaitlist(l.waitlist(reg.EventID), now)
	}
	return reg.Clone(), nil
}

// PromoteWaitlist confirms the head of the event's waitlist if the event
// has a free seat. It returns nil when nobody was promoted.
func (l *Ledger) PromoteWaitlist(ctx context.Context, eventID string) (*models.Registration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	event, err := l.events.ResolveEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	queue := l.waitlist(eventID)
	if len(queue) == 0 || l.activeCount(eventID) >= event.Capacity {
		return nil, nil
	}

	now := l.now()
	candidate := queue[0]
	seat := l.nextSeat(eventID)
	candidate.Status = models.StatusConfirmed
	candidate.SeatNumber = &seat
	candidate.WaitlistPosition = nil
	candidate.UpdatedAt = now
	l.markDirty(candidate)

	l.renumberWaitlist(queue[1:], now)
	return candidate.Clone(), nil
}

// Transfer hands a seat over to another attendee. Only registrations that
// hold a seat can be transferred.
func (l *Ledger) Transfer(id, newAttendeeID string) (*models.Registration, error) {
	newAttendeeID = strings.TrimSpace(newAttendeeID)
	if newAttendeeID == "" {
		return nil, models.Validationf("new attendee_id is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	reg, ok := l.byID[id]
	if !ok {
		return nil, models.NotFoundf("registration %q not found", id)
	}
	if !reg.Status.Active() {
		return nil, models.InvalidStatef("only confirmed or checked-in registrations can be transferred, registration is %s", reg.Status)
	}

	reg.AttendeeID = newAttendeeID
	reg.UpdatedAt = l.now()
	l.markDirty(reg)
	return reg.Clone(), nil
}

// MarkPaid records payment for a pending registration.
func (l *Ledger) MarkPaid(id string) (*models.Registration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reg, ok := l.byID[id]
	if !ok {
		return nil, models.NotFoundf("registration %q not found", id)
	}
	if reg.Status == models.StatusCancelled {
		return nil, models.InvalidStatef("registration %q is cancelled", id)
	}
	if reg.PaymentStatus != models.PaymentPending {
		return nil, models.InvalidStatef("payment for registration %q is already %s", id, reg.PaymentStatus)
	}

	reg.PaymentStatus = models.PaymentPaid
	reg.UpdatedAt = l.now()
	l.markDirty(reg)
	return reg.Clone(), nil
}

// Revenue sums the price of registrations whose money was retained.
func (l *Ledger) Revenue(eventID string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total float64
	for _, reg := range l.byEvent[eventID] {
		if reg.PaymentStatus.Retained() {
			total += reg.Price
		}
	}
	return total
}

// Commit saves every record changed since the last successful commit. On
// failure the changes stay pending and the next commit retries them.
func (l *Ledger) Commit(ctx context.Context, store Store) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.dirty) == 0 {
		return nil
	}
	changed := make([]models.Registration, 0, len(l.dirty))
	for _, reg := range l.records {
		if _, ok := l.dirty[reg.ID]; ok {
			changed = append(changed, *reg.Clone())
		}
	}
	if err := store.Save(ctx, changed...); err != nil {
		return err
	}
	clear(l.dirty)
	return nil
}

// Pending returns the number of records waiting for a commit.
func (l *Ledger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.dirty)
}

func (l *Ledger) insert(reg *models.Registration) {
	l.records = append(l.records, reg)
	l.byID[reg.ID] = reg
	l.byCode[reg.ConfirmationCode] = reg
	l.byEvent[reg.EventID] = append(l.byEvent[reg.EventID], reg)
}

func (l *Ledger) markDirty(reg *models.Registration) {
	l.dirty[reg.ID] = struct{}{}
}

func (l *Ledger) uniqueID() string {
	for {
		id := l.newID()
		if _, ok := l.byID[id]; !ok {
			return id
		}
	}
}

func (l *Ledger) uniqueCode() string {
	for {
		code := l.newCode()
		if _, ok := l.byCode[code]; !ok {
			return code
		}
	}
}

func (l *Ledger) activeCount(eventID string) int {
	n := 0
	for _, reg := range l.byEvent[eventID] {
		if reg.Status.Active() {
			n++
		}
	}
	return n
}

// nextSeat returns the lowest seat number not held by an active
// registration. With no cancellations this is active count + 1.
func (l *Ledger) nextSeat(eventID string) int {
	taken := make(map[int]struct{})
	for _, reg := range l.byEvent[eventID] {
		if reg.Status.Active() && reg.SeatNumber != nil {
			taken[*reg.SeatNumber] = struct{}{}
		}
	}
	seat := 1
	for {
		if _, ok := taken[seat]; !ok {
			return seat
		}
		seat++
	}
}

func (l *Ledger) maxWaitlistPosition(eventID string) int {
	highest := 0
	for _, reg := range l.byEvent[eventID] {
		if reg.Status == models.StatusWaitlisted && reg.WaitlistPosition != nil {
			highest = max(highest, *reg.WaitlistPosition)
		}
	}
	return highest
}

// waitlist returns the event's waitlisted registrations in queue order:
// position, then creation time, then insertion order.
func (l *Ledger) waitlist(eventID string) []*models.Registration {
	var queue []*models.Registration
	for _, reg := range l.byEvent[eventID] {
		if reg.Status == models.StatusWaitlisted {
			queue = append(queue, reg)
		}
	}
	slices.SortStableFunc(queue, func(a, b *models.Registration) int {
		return cmp.Or(
			cmp.Compare(position(a), position(b)),
			a.CreatedAt.Compare(b.CreatedAt),
		)
	})
	return queue
}

func (l *Ledger) renumberWaitlist(queue []*models.Registration, now time.Time) {
	for i, reg := range queue {
		want := i + 1
		if reg.WaitlistPosition != nil && *reg.WaitlistPosition == want {
			continue
		}
		reg.WaitlistPosition = &want
		reg.UpdatedAt = now
		l.markDirty(reg)
	}
}

func position(reg *models.Registration) int {
	if reg.WaitlistPosition == nil {
		return 0
	}
	return *reg.WaitlistPosition
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
