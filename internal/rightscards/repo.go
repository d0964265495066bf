package rightscards

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// Repository exposes rights-card catalog, instance, and usage-log persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a rights-cards repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateCard inserts a catalog product.
func (r *Repository) CreateCard(ctx context.Context, card *models.RightsCard) (*models.RightsCard, error) {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

// ListCards returns catalog rows, optionally filtered by card type.
func (r *Repository) ListCards(ctx context.Context, cardType *enums.RightsCardType, availableOnly bool) ([]models.RightsCard, error) {
	query := r.db.WithContext(ctx).Model(&models.RightsCard{})
	if cardType != nil {
		query = query.Where("type = ?", *cardType)
	}
	if availableOnly {
		query = query.Where("available = ?", true)
	}

	var rows []models.RightsCard
	if err := query.Order("sort_order ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCardByID loads one catalog row.
func (r *Repository) FindCardByID(ctx context.Context, id uuid.UUID) (*models.RightsCard, error) {
	var card models.RightsCard
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// CreateInstance inserts a purchased rights-card instance.
func (r *Repository) CreateInstance(ctx context.Context, instance *models.UserRightsCard) (*models.UserRightsCard, error) {
	if err := r.db.WithContext(ctx).Create(instance).Error; err != nil {
		return nil, err
	}
	return instance, nil
}

// ListByUser returns a user's rights cards, newest first, with the catalog row preloaded.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserRightsCard, error) {
	var rows []models.UserRightsCard
	err := r.db.WithContext(ctx).
		Preload("Card").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindInstanceByID loads one instance.
func (r *Repository) FindInstanceByID(ctx context.Context, id uuid.UUID) (*models.UserRightsCard, error) {
	var row models.UserRightsCard
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindInstanceByIDForUpdate loads one instance under a row lock. Callers must
// run inside a transaction.
func (r *Repository) FindInstanceByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.UserRightsCard, error) {
	var row models.UserRightsCard
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateActivation stamps the activation window and flips the status in one write.
func (r *Repository) UpdateActivation(ctx context.Context, id uuid.UUID, activation, expiry time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.UserRightsCard{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":          enums.RightsCardStatusActive,
			"activation_date": activation,
			"expiry_date":     expiry,
		}).Error
}

// UpdateStatus flips the stored lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RightsCardStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.UserRightsCard{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// CreateUsageRecord appends one audit-log row.
func (r *Repository) CreateUsageRecord(ctx context.Context, record *models.UsageRecord) (*models.UsageRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// ListUsageByInstance returns the audit log for one card, newest first.
func (r *Repository) ListUsageByInstance(ctx context.Context, instanceID uuid.UUID) ([]models.UsageRecord, error) {
	var rows []models.UsageRecord
	err := r.db.WithContext(ctx).
		Where("user_rights_card_id = ?", instanceID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindUsageByIDForUpdate loads one usage record under a row lock.
func (r *Repository) FindUsageByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.UsageRecord, error) {
	var row models.UsageRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateUsageReview records the staff decision on a pending usage record.
func (r *Repository) UpdateUsageReview(ctx context.Context, id uuid.UUID, status enums.UsageRecordStatus, reviewedBy uuid.UUID, reviewedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.UsageRecord{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"status":      status,
			"reviewed_by": reviewedBy,
			"reviewed_at": reviewedAt,
		}).Error
}
