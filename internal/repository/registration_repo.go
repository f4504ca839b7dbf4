package repository

import (
	"context"
	"errors"

	"github.com/Eursukkul/event-registration/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegistrationRepository is the persistence side of the ledger. Several
// processes may share the table, so changes to one event are made inside
// Exclusive while the event row is locked.
type RegistrationRepository interface {
	FindAll(ctx context.Context) ([]models.Registration, error)
	FindByEvent(ctx context.Context, eventID string) ([]models.Registration, error)
	LocateEvent(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, regs ...models.Registration) error
	Exclusive(ctx context.Context, eventID string, fn func(current []models.Registration) ([]models.Registration, error)) error
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) FindAll(ctx context.Context) ([]models.Registration, error) {
	var regs []models.Registration
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) FindByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	return findByEvent(r.db.WithContext(ctx), eventID)
}

func (r *registrationRepository) LocateEvent(ctx context.Context, key string) (string, error) {
	var reg models.Registration
	err := r.db.WithContext(ctx).
		Select("event_id").
		Where("id = ? OR confirmation_code = ?", key, key).
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.NotFoundf("no registration with id or confirmation code %q", key)
		}
		return "", err
	}
	return reg.EventID, nil
}

// Save upserts the given records in one transaction.
func (r *registrationRepository) Save(ctx context.Context, regs ...models.Registration) error {
	if len(regs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsert(tx, regs)
	})
}

// Exclusive locks the event row with SELECT ... FOR UPDATE, hands fn the
// event's registrations and upserts what fn returns in the same transaction.
func (r *registrationRepository) Exclusive(ctx context.Context, eventID string, fn func(current []models.Registration) ([]models.Registration, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&event, "id = ?", eventID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NotFoundf("event %q not found", eventID)
			}
			return err
		}

		current, err := findByEvent(tx, eventID)
		if err != nil {
			return err
		}
		changed, err := fn(current)
		if err != nil || len(changed) == 0 {
			return err
		}
		return upsert(tx, changed)
	})
}

func findByEvent(db *gorm.DB, eventID string) ([]models.Registration, error) {
	var regs []models.Registration
	err := db.Where("event_id = ?", eventID).Order("created_at ASC, id ASC").Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func upsert(tx *gorm.DB, regs []models.Registration) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&regs).Error
}
