package faq

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
)

// Repository exposes FAQ persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a FAQ repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an article.
func (r *Repository) Create(ctx context.Context, entry *models.FAQEntry) (*models.FAQEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns articles, optionally narrowed by category and published flag.
func (r *Repository) List(ctx context.Context, category string, publishedOnly bool) ([]models.FAQEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.FAQEntry{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if publishedOnly {
		query = query.Where("published = ?", true)
	}

	var rows []models.FAQEntry
	if err := query.Order("sort_order ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one article.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FAQEntry, error) {
	var entry models.FAQEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update persists the modified article.
func (r *Repository) Update(ctx context.Context, entry *models.FAQEntry) (*models.FAQEntry, error) {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes an article.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.FAQEntry{}, "id = ?", id).Error
}
