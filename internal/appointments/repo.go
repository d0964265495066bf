package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// Repository exposes appointment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an appointments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindDoctorByID loads the doctor being booked.
func (r *Repository) FindDoctorByID(ctx context.Context, id uuid.UUID) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

// CountBookedSlot reports how many booked appointments hold the slot. Run it
// inside the booking transaction; the partial unique index backstops races.
func (r *Repository) CountBookedSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND slot = ? AND status = ?",
			doctorID, date, slot, enums.AppointmentStatusBooked).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a booking.
func (r *Repository) Create(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return nil, err
	}
	return appointment, nil
}

// ListByUser returns a user's appointments, newest first, with the doctor preloaded.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	var rows []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByIDForUpdate loads one appointment under a row lock.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var row models.Appointment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateStatus flips the booking status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
