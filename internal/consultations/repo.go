package consultations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// Repository exposes consultation persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a consultations repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a consultation thread.
func (r *Repository) Create(ctx context.Context, consultation *models.Consultation) (*models.Consultation, error) {
	if err := r.db.WithContext(ctx).Create(consultation).Error; err != nil {
		return nil, err
	}
	return consultation, nil
}

// ListByUser returns a user's threads, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Consultation, error) {
	var rows []models.Consultation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOpen returns unanswered threads, oldest first, for the staff queue.
func (r *Repository) ListOpen(ctx context.Context) ([]models.Consultation, error) {
	var rows []models.Consultation
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.ConsultationStatusOpen).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one thread.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Consultation, error) {
	var row models.Consultation
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// SaveReply stores the staff answer and flips the status in one write.
func (r *Repository) SaveReply(ctx context.Context, id uuid.UUID, reply string, repliedBy uuid.UUID, repliedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Consultation{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"reply":      reply,
			"replied_by": repliedBy,
			"replied_at": repliedAt,
			"status":     enums.ConsultationStatusAnswered,
		}).Error
}

// UpdateStatus flips the thread status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ConsultationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Consultation{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
