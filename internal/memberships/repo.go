package memberships

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	dbtypes "github.com/careplushealth/careplus-backend/pkg/db/types"
	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// Repository exposes membership catalog and instance persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a memberships repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateCard inserts a catalog product.
func (r *Repository) CreateCard(ctx context.Context, card *models.MembershipCard) (*models.MembershipCard, error) {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

// ListCards returns catalog rows ordered for display.
func (r *Repository) ListCards(ctx context.Context, availableOnly bool) ([]models.MembershipCard, error) {
	query := r.db.WithContext(ctx).Model(&models.MembershipCard{})
	if availableOnly {
		query = query.Where("available = ?", true)
	}

	var rows []models.MembershipCard
	if err := query.Order("sort_order ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCardByID loads one catalog row.
func (r *Repository) FindCardByID(ctx context.Context, id uuid.UUID) (*models.MembershipCard, error) {
	var card models.MembershipCard
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// CreateMembership inserts a purchased instance.
func (r *Repository) CreateMembership(ctx context.Context, membership *models.UserMembership) (*models.UserMembership, error) {
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// ListByUser returns a user's memberships, newest first, with the catalog row preloaded.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserMembership, error) {
	var rows []models.UserMembership
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

// FindByID loads one membership instance.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.UserMembership, error) {
	var row models.UserMembership
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDForUpdate loads one membership row under a row lock. Callers must
// run inside a transaction; the lock holds until commit or rollback.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.UserMembership, error) {
	var row models.UserMembership
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// SaveBenefits persists the decremented ledger for a membership.
func (r *Repository) SaveBenefits(ctx context.Context, id uuid.UUID, benefits dbtypes.BenefitMap) error {
	return r.db.WithContext(ctx).
		Model(&models.UserMembership{}).
		Where("id = ?", id).
		UpdateColumn("remaining_benefits", benefits).Error
}

// UpdateStatus flips the stored lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MembershipCardStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.UserMembership{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
