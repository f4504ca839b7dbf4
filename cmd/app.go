package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eursukkul/event-registration/config"
	"github.com/Eursukkul/event-registration/internal/ledger"
	"github.com/Eursukkul/event-registration/internal/repository"
	"github.com/Eursukkul/event-registration/internal/service"
	"github.com/Eursukkul/event-registration/internal/storage/filestore"
	"github.com/Eursukkul/event-registration/internal/worker"
	"github.com/Eursukkul/event-registration/pkg/database"
	"github.com/Eursukkul/event-registration/pkg/rabbitmq"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

// app holds every wired component for one process.
type app struct {
	cfg *config.Config

	ledger        *ledger.Ledger
	regStore      repository.RegistrationRepository
	files         *filestore.Store
	db            *gorm.DB
	publisher     *rabbitmq.Publisher
	events        service.EventService
	attendees     service.AttendeeService
	registrations service.RegistrationService
	checkins      service.CheckInService
	reports       service.ReportService
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	var (
		eventRepo    repository.EventRepository
		attendeeRepo repository.AttendeeRepository
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := database.NewPostgresDB(cfg.DSN())
		if err != nil {
			return nil, err
		}
		a.db = db
		eventRepo = repository.NewEventRepository(db)
		attendeeRepo = repository.NewAttendeeRepository(db)
		a.regStore = repository.NewRegistrationRepository(db)
	default:
		files, err := filestore.Open(afero.NewOsFs(), cfg.DataDir)
		if err != nil {
			return nil, err
		}
		a.files = files
		eventRepo = files.Events()
		attendeeRepo = files.Attendees()
		a.regStore = files.Registrations()
	}

	var publisher service.EventPublisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.ServiceName)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.publisher = p
		publisher = p
	}

	a.events = service.NewEventService(eventRepo, publisher, cfg.CacheTTL)
	a.attendees = service.NewAttendeeService(attendeeRepo)

	a.ledger = ledger.New(a.events)
	records, err := a.regStore.FindAll(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load registrations: %w", err)
	}
	if err := a.ledger.Load(records); err != nil {
		a.Close()
		return nil, fmt.Errorf("load registrations: %w", err)
	}

	a.registrations = service.NewRegistrationService(a.ledger, a.regStore, a.events, a.attendees, publisher)
	a.checkins = service.NewCheckInService(a.ledger, a.regStore, a.events, a.attendees, publisher)
	a.reports = service.NewReportService(a.events, a.ledger, a.regStore)

	log.WithFields(log.Fields{"storage": cfg.Storage, "registrations": len(records)}).Debug("app ready")
	return a, nil
}

func (a *app) flusher() *worker.Flusher {
	var opts []worker.Option
	if a.files != nil {
		opts = append(opts, worker.WithBackups(a.files, a.cfg.BackupDir, a.cfg.BackupInterval))
	}
	return worker.NewFlusher(a.ledger, a.regStore, a.cfg.FlushInterval, opts...)
}

// Close flushes pending ledger changes and releases connections.
func (a *app) Close() error {
	var errs []error
	if a.ledger != nil {
		if err := a.flusher().Flush(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("flush: %w", err))
		}
	}
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
