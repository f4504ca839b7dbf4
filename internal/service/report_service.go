package service

import (
	"context"

	"github.com/Eursukkul/event-registration/internal/ledger"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/report"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Report names accepted by ReportService.Build.
const (
	ReportAttendance = "attendance"
	ReportRevenue    = "revenue"
	ReportSessions   = "sessions"
)

type EventLister interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
}

type ReportService interface {
	Attendance(ctx context.Context) (report.AttendanceReport, error)
	Revenue(ctx context.Context) (report.RevenueReport, error)
	SessionPopularity(ctx context.Context) (report.SessionReport, error)
	Build(ctx context.Context, name string) (report.Table, error)
	Export(ctx context.Context, fs afero.Fs, name, filename string) error
}

type reportService struct {
	ledgerAccess
	events EventLister
}

func NewReportService(events EventLister, l *ledger.Ledger, store ledger.Store) ReportService {
	return &reportService{ledgerAccess: newLedgerAccess(l, store), events: events}
}

func (s *reportService) load(ctx context.Context) ([]models.Event, []models.Registration, error) {
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.records(ctx)
	if err != nil {
		return nil, nil, err
	}
	return events, records, nil
}

func (s *reportService) Attendance(ctx context.Context) (report.AttendanceReport, error) {
	events, records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return report.Attendance(events, records), nil
}

func (s *reportService) Revenue(ctx context.Context) (report.RevenueReport, error) {
	events, records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return report.Revenue(events, records), nil
}

func (s *reportService) SessionPopularity(ctx context.Context) (report.SessionReport, error) {
	events, records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return report.SessionPopularity(events, records), nil
}

func (s *reportService) Build(ctx context.Context, name string) (report.Table, error) {
	switch name {
	case ReportAttendance:
		return s.Attendance(ctx)
	case ReportRevenue:
		return s.Revenue(ctx)
	case ReportSessions:
		return s.SessionPopularity(ctx)
	default:
		return nil, models.Validationf("unknown report %q (attendance, revenue, sessions)", name)
	}
}

func (s *reportService) Export(ctx context.Context, fs afero.Fs, name, filename string) error {
	t, err := s.Build(ctx, name)
	if err != nil {
		return err
	}
	if err := report.Export(fs, t, filename); err != nil {
		return err
	}
	log.WithFields(log.Fields{"report": name, "file": filename}).Info("report exported")
	return nil
}
