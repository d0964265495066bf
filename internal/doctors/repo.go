package doctors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	"github.com/careplushealth/careplus-backend/pkg/pagination"
)

// Repository exposes doctor catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a doctors repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a doctor profile.
func (r *Repository) Create(ctx context.Context, doctor *models.Doctor) (*models.Doctor, error) {
	if err := r.db.WithContext(ctx).Create(doctor).Error; err != nil {
		return nil, err
	}
	return doctor, nil
}

// List returns one keyset page of doctors matching the filters, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.Doctor, error) {
	query := r.db.WithContext(ctx).Model(&models.Doctor{})
	if filters.Department != "" {
		query = query.Where("department = ?", filters.Department)
	}
	if filters.AvailableOnly {
		query = query.Where("available = ?", true)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Doctor
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one doctor profile.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

// Update persists the modified profile fields.
func (r *Repository) Update(ctx context.Context, doctor *models.Doctor) (*models.Doctor, error) {
	if err := r.db.WithContext(ctx).Save(doctor).Error; err != nil {
		return nil, err
	}
	return doctor, nil
}
