package database

import (
	"fmt"
	"time"

	"github.com/Eursukkul/event-registration/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 20
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// NewPostgresDB connects and migrates the schema.
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Event{}, &models.Session{}, &models.Attendee{}, &models.Registration{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// Partial index: waitlist scans per event.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_registration_waitlist
		ON registrations (event_id, waitlist_position)
		WHERE status = 'waitlisted'
	`).Error; err != nil {
		return fmt.Errorf("create waitlist index: %w", err)
	}

	return nil
}
