package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/Eursukkul/event-registration/internal/ledger"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/report"
	"github.com/Eursukkul/event-registration/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
)

// --- Mock EventService ---

type mockEventService struct {
	createFn       func(ctx context.Context, event *models.Event) error
	updateFn       func(ctx context.Context, id string, patch service.EventPatch) (*models.Event, error)
	getFn          func(ctx context.Context, id string) (*models.Event, error)
	listFn         func(ctx context.Context) ([]models.Event, error)
	addSessionFn   func(ctx context.Context, eventID string, session *models.Session) error
	listSessionsFn func(ctx context.Context, eventID string) ([]models.Session, error)
}

func (m *mockEventService) CreateEvent(ctx context.Context, event *models.Event) error {
	return m.createFn(ctx, event)
}
func (m *mockEventService) UpdateEvent(ctx context.Context, id string, patch service.EventPatch) (*models.Event, error) {
	return m.updateFn(ctx, id, patch)
}
func (m *mockEventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return m.getFn(ctx, id)
}
func (m *mockEventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return m.listFn(ctx)
}
func (m *mockEventService) AddSession(ctx context.Context, eventID string, session *models.Session) error {
	return m.addSessionFn(ctx, eventID, session)
}
func (m *mockEventService) ListSessions(ctx context.Context, eventID string) ([]models.Session, error) {
	return m.listSessionsFn(ctx, eventID)
}
func (m *mockEventService) ResolveEvent(ctx context.Context, id string) (*models.Event, error) {
	return m.getFn(ctx, id)
}
func (m *mockEventService) SyncEvent(ctx context.Context, event *models.Event) error { return nil }

// --- Mock AttendeeService ---

type mockAttendeeService struct {
	registerFn func(ctx context.Context, attendee *models.Attendee) error
	authFn     func(ctx context.Context, email, pin string) (*models.Attendee, error)
	updateFn   func(ctx context.Context, id string, patch service.AttendeePatch) (*models.Attendee, error)
	getFn      func(ctx context.Context, id string) (*models.Attendee, error)
	listFn     func(ctx context.Context) ([]models.Attendee, error)
}

func (m *mockAttendeeService) RegisterAttendee(ctx context.Context, attendee *models.Attendee) error {
	return m.registerFn(ctx, attendee)
}
func (m *mockAttendeeService) Authenticate(ctx context.Context, email, pin string) (*models.Attendee, error) {
	return m.authFn(ctx, email, pin)
}
func (m *mockAttendeeService) UpdateAttendee(ctx context.Context, id string, patch service.AttendeePatch) (*models.Attendee, error) {
	return m.updateFn(ctx, id, patch)
}
func (m *mockAttendeeService) GetAttendee(ctx context.Context, id string) (*models.Attendee, error) {
	return m.getFn(ctx, id)
}
func (m *mockAttendeeService) ListAttendees(ctx context.Context) ([]models.Attendee, error) {
	return m.listFn(ctx)
}

// --- Mock RegistrationService ---

type mockRegistrationService struct {
	registerFn    func(ctx context.Context, req ledger.CreateRequest) (*models.Registration, error)
	cancelFn      func(ctx context.Context, id string) (*models.Registration, error)
	promoteFn     func(ctx context.Context, eventID string) (*models.Registration, error)
	transferFn    func(ctx context.Context, id, newAttendeeID string) (*models.Registration, error)
	markPaidFn    func(ctx context.Context, id string) (*models.Registration, error)
	getFn         func(ctx context.Context, id string) (*models.Registration, error)
	listByEventFn func(ctx context.Context, eventID string, status *models.RegistrationStatus) ([]models.Registration, error)
	byAttendeeFn  func(ctx context.Context, attendeeID string) ([]models.Registration, error)
	waitlistFn    func(ctx context.Context, eventID string) ([]models.Registration, error)
	revenueFn     func(ctx context.Context, eventID string) (float64, error)
	statusFn      func(ctx context.Context, eventID string) (*service.EventStatus, error)
}

func (m *mockRegistrationService) Register(ctx context.Context, req ledger.CreateRequest) (*models.Registration, error) {
	return m.registerFn(ctx, req)
}
func (m *mockRegistrationService) Cancel(ctx context.Context, id string) (*models.Registration, error) {
	return m.cancelFn(ctx, id)
}
func (m *mockRegistrationService) PromoteWaitlist(ctx context.Context, eventID string) (*models.Registration, error) {
	return m.promoteFn(ctx, eventID)
}
func (m *mockRegistrationService) Transfer(ctx context.Context, id, newAttendeeID string) (*models.Registration, error) {
	return m.transferFn(ctx, id, newAttendeeID)
}
func (m *mockRegistrationService) MarkPaid(ctx context.Context, id string) (*models.Registration, error) {
	return m.markPaidFn(ctx, id)
}
func (m *mockRegistrationService) GetRegistration(ctx context.Context, id string) (*models.Registration, error) {
	return m.getFn(ctx, id)
}
func (m *mockRegistrationService) ListByEvent(ctx context.Context, eventID string, status *models.RegistrationStatus) ([]models.Registration, error) {
	return m.listByEventFn(ctx, eventID, status)
}
func (m *mockRegistrationService) ListByAttendee(ctx context.Context, attendeeID string) ([]models.Registration, error) {
	return m.byAttendeeFn(ctx, attendeeID)
}
func (m *mockRegistrationService) Waitlist(ctx context.Context, eventID string) ([]models.Registration, error) {
	return m.waitlistFn(ctx, eventID)
}
func (m *mockRegistrationService) Revenue(ctx context.Context, eventID string) (float64, error) {
	return m.revenueFn(ctx, eventID)
}
func (m *mockRegistrationService) EventStatus(ctx context.Context, eventID string) (*service.EventStatus, error) {
	return m.statusFn(ctx, eventID)
}

// --- Mock CheckInService ---

type mockCheckInService struct {
	checkInFn    func(ctx context.Context, key string) (*models.Registration, error)
	attendanceFn func(ctx context.Context, eventID, sessionID string) (*ledger.Attendance, error)
	checkedInFn  func(ctx context.Context, eventID string) ([]models.Registration, error)
	badgeFn      func(ctx context.Context, registrationID string) (*report.Badge, error)
}

func (m *mockCheckInService) CheckIn(ctx context.Context, key string) (*models.Registration, error) {
	return m.checkInFn(ctx, key)
}
func (m *mockCheckInService) SessionAttendance(ctx context.Context, eventID, sessionID string) (*ledger.Attendance, error) {
	return m.attendanceFn(ctx, eventID, sessionID)
}
func (m *mockCheckInService) CheckedIn(ctx context.Context, eventID string) ([]models.Registration, error) {
	return m.checkedInFn(ctx, eventID)
}
func (m *mockCheckInService) Badge(ctx context.Context, registrationID string) (*report.Badge, error) {
	return m.badgeFn(ctx, registrationID)
}
func (m *mockCheckInService) WriteBadge(ctx context.Context, fs afero.Fs, registrationID, dir string) (string, error) {
	return "", nil
}

// --- Mock ReportService ---

type mockReportService struct {
	buildFn func(ctx context.Context, name string) (report.Table, error)
}

func (m *mockReportService) Attendance(ctx context.Context) (report.AttendanceReport, error) {
	return nil, nil
}
func (m *mockReportService) Revenue(ctx context.Context) (report.RevenueReport, error) {
	return nil, nil
}
func (m *mockReportService) SessionPopularity(ctx context.Context) (report.SessionReport, error) {
	return nil, nil
}
func (m *mockReportService) Build(ctx context.Context, name string) (report.Table, error) {
	return m.buildFn(ctx, name)
}
func (m *mockReportService) Export(ctx context.Context, fs afero.Fs, name, filename string) error {
	return nil
}

// --- Helpers ---

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func seat(n int) *int { return &n }
