package repository

import (
	"context"
	"errors"

	"github.com/Eursukkul/event-registration/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id string) (*models.Event, error)
	FindAll(ctx context.Context) ([]models.Event, error)
	Upsert(ctx context.Context, event *models.Event) error
	AddSession(ctx context.Context, session *models.Session) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// Update writes the event's own columns. Sessions are managed through AddSession.
func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Preload("Sessions", orderSessions).
		First(&event, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundf("event %q not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).Preload("Sessions", orderSessions).Order("start_date ASC, id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Upsert inserts the event or overwrites the stored copy, replacing its
// sessions with the ones carried by the event.
func (r *eventRepository) Upsert(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "location", "description", "start_date", "end_date",
				"capacity", "price", "status", "updated_at",
			}),
		}).Create(event).Error
		if err != nil {
			return err
		}

		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		if len(event.Sessions) == 0 {
			return nil
		}
		for i := range event.Sessions {
			event.Sessions[i].EventID = event.ID
			event.Sessions[i].Position = i
		}
		return tx.Create(&event.Sessions).Error
	})
}

func (r *eventRepository) AddSession(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func orderSessions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
