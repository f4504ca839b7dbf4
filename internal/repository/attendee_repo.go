package repository

import (
	"context"
	"errors"

	"github.com/Eursukkul/event-registration/internal/models"
	"gorm.io/gorm"
)

type AttendeeRepository interface {
	Create(ctx context.Context, attendee *models.Attendee) error
	Update(ctx context.Context, attendee *models.Attendee) error
	FindByID(ctx context.Context, id string) (*models.Attendee, error)
	FindByEmail(ctx context.Context, email string) (*models.Attendee, error)
	FindAll(ctx context.Context) ([]models.Attendee, error)
}

type attendeeRepository struct {
	db *gorm.DB
}

func NewAttendeeRepository(db *gorm.DB) AttendeeRepository {
	return &attendeeRepository{db: db}
}

func (r *attendeeRepository) Create(ctx context.Context, attendee *models.Attendee) error {
	return r.db.WithContext(ctx).Create(attendee).Error
}

func (r *attendeeRepository) Update(ctx context.Context, attendee *models.Attendee) error {
	return r.db.WithContext(ctx).Save(attendee).Error
}

func (r *attendeeRepository) FindByID(ctx context.Context, id string) (*models.Attendee, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail expects an already lower-cased address.
func (r *attendeeRepository) FindByEmail(ctx context.Context, email string) (*models.Attendee, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *attendeeRepository) FindAll(ctx context.Context) ([]models.Attendee, error) {
	var attendees []models.Attendee
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&attendees).Error; err != nil {
		return nil, err
	}
	return attendees, nil
}

func (r *attendeeRepository) findOne(ctx context.Context, query string, arg string) (*models.Attendee, error) {
	var attendee models.Attendee
	err := r.db.WithContext(ctx).Where(query, arg).First(&attendee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundf("attendee %q not found", arg)
	}
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}
