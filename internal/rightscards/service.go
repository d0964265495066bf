package rightscards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/careplushealth/careplus-backend/pkg/db"
	"github.com/careplushealth/careplus-backend/pkg/db/models"
	dbtypes "github.com/careplushealth/careplus-backend/pkg/db/types"
	"github.com/careplushealth/careplus-backend/pkg/enums"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type rightsCardsRepository interface {
	CreateCard(ctx context.Context, card *models.RightsCard) (*models.RightsCard, error)
	ListCards(ctx context.Context, cardType *enums.RightsCardType, availableOnly bool) ([]models.RightsCard, error)
	FindCardByID(ctx context.Context, id uuid.UUID) (*models.RightsCard, error)
	CreateInstance(ctx context.Context, instance *models.UserRightsCard) (*models.UserRightsCard, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserRightsCard, error)
	FindInstanceByID(ctx context.Context, id uuid.UUID) (*models.UserRightsCard, error)
	ListUsageByInstance(ctx context.Context, instanceID uuid.UUID) ([]models.UsageRecord, error)
}

type txRepository interface {
	FindInstanceByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.UserRightsCard, error)
	UpdateActivation(ctx context.Context, id uuid.UUID, activation, expiry time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RightsCardStatus) error
	CreateUsageRecord(ctx context.Context, record *models.UsageRecord) (*models.UsageRecord, error)
	FindUsageByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.UsageRecord, error)
	UpdateUsageReview(ctx context.Context, id uuid.UUID, status enums.UsageRecordStatus, reviewedBy uuid.UUID, reviewedAt time.Time) error
}

// Service exposes the rights-card catalog, activation lifecycle, and usage log.
type Service interface {
	CreateCard(ctx context.Context, req CreateCardRequest) (*CardDTO, error)
	ListCards(ctx context.Context, cardType string, availableOnly bool) ([]CardDTO, error)
	Purchase(ctx context.Context, userID uuid.UUID, req PurchaseRequest) (*InstanceDTO, error)
	ListUserCards(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, userID uuid.UUID) ([]InstanceDTO, error)
	Activate(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, instanceID uuid.UUID) (*InstanceDTO, error)
	RecordUsage(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, instanceID uuid.UUID, req RecordUsageRequest) (*UsageRecordDTO, error)
	ListUsage(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, instanceID uuid.UUID) ([]UsageRecordDTO, error)
	ReviewUsage(ctx context.Context, reviewerID uuid.UUID, recordID uuid.UUID, req ReviewUsageRequest) (*UsageRecordDTO, error)
	Cancel(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, instanceID uuid.UUID) (*InstanceDTO, error)
}

type service struct {
	repo   rightsCardsRepository
	tx     TxRunner
	txRepo func(tx *gorm.DB) txRepository
	now    func() time.Time
}

// ServiceParams bundles the dependencies required to build a rights-card service.
type ServiceParams struct {
	Repo          rightsCardsRepository
	TxRunner      TxRunner
	TxRepoFactory func(tx *gorm.DB) txRepository
}

// NewService constructs a rights-card service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("rights cards repository is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.TxRepoFactory == nil {
		params.TxRepoFactory = func(tx *gorm.DB) txRepository {
			return NewRepository(tx)
		}
	}
	return &service{
		repo:   params.Repo,
		tx:     params.TxRunner,
		txRepo: params.TxRepoFactory,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) CreateCard(ctx context.Context, req CreateCardRequest) (*CardDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	cardType, err := enums.ParseRightsCardType(strings.TrimSpace(req.Type))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid rights card type")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil || price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative decimal")
	}
	if req.DurationYears <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration_years must be positive")
	}
	template := dbtypes.BenefitMap{}
	for serviceType, quota := range req.Benefits {
		key := strings.TrimSpace(serviceType)
		if key == "" || quota <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "benefits must map service types to positive quotas")
		}
		template[key] = quota
	}
	if len(template) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one benefit is required")
	}
	if req.MinActivationAge != nil && req.MaxActivationAge != nil && *req.MinActivationAge > *req.MaxActivationAge {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_activation_age cannot exceed max_activation_age")
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	card, err := s.repo.CreateCard(ctx, &models.RightsCard{
		Name:             name,
		Type:             cardType,
		Description:      req.Description,
		Price:            price,
		DurationYears:    req.DurationYears,
		CoverageDetails:  req.CoverageDetails,
		EligibilityRules: req.EligibilityRules,
		KeyFeatures:      pq.StringArray(req.KeyFeatures),
		MinActivationAge: req.MinActivationAge,
		MaxActivationAge: req.MaxActivationAge,
		BenefitTemplate:  template,
		Available:        available,
		SortOrder:        req.SortOrder,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rights card")
	}

	dto := cardFromModel(card)
	return &dto, nil
}

func (s *service) ListCards(ctx context.Context, cardType string, availableOnly bool) ([]CardDTO, error) {
	var filter *enums.RightsCardType
	if trimmed := strings.TrimSpace(cardType); trimmed != "" {
		parsed, err := enums.ParseRightsCardType(trimmed)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid rights card type")
		}
		filter = &parsed
	}

	rows, err := s.repo.ListCards(ctx, filter, availableOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rights cards")
	}
	out := make([]CardDTO, len(rows))
	for i := range rows {
		out[i] = cardFromModel(&rows[i])
	}
	return out, nil
}

func (s *service) Purchase(ctx context.Context, userID uuid.UUID, req PurchaseRequest) (*InstanceDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if req.CardID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card_id is required")
	}
	method, err := enums.ParsePaymentMethod(strings.TrimSpace(req.PaymentMethod))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	card, err := s.repo.FindCardByID(ctx, req.CardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rights card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup rights card")
	}
	if !card.Available {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "rights card is not available for purchase")
	}

	instance := &models.UserRightsCard{
		UserID:            userID,
		CardID:            card.ID,
		CardNumber:        uuid.NewString(),
		Status:            enums.RightsCardStatusInactive,
		RemainingBenefits: card.BenefitTemplate.Clone(),
		PaymentMethod:     method,
		PaymentAmount:     card.Price,
	}

	created, err := s.repo.CreateInstance(ctx, instance)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_user_rights_cards_card_number") {
			instance.CardNumber = uuid.NewString()
			created, err = s.repo.CreateInstance(ctx, instance)
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rights card instance")
		}
	}

	created.Card = card
	dto := instanceFromModel(created, s.now())
	return &dto, nil
}

func (s *service) ListUserCards(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, userID uuid.UUID) ([]InstanceDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !canActFor(actorID, actorRole, userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another user's cards")
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rights cards")
	}

	now := s.now()
	out := make([]InstanceDTO, len(rows))
	for i := range rows {
		out[i] = instanceFromModel(&rows[i], now)
	}
	return out, nil
}

// Activate opens the coverage window. The expiry is calendar arithmetic from
// the activation instant, so a Feb 29 activation on a one-year card lands on
// Mar 1 of the following year.
func (s *service) Activate(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, instanceID uuid.UUID) (*InstanceDTO, error) {
	if instanceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id is required")
	}

	var result InstanceDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)

		instance, err := repo.FindInstanceByIDForUpdate(ctx, instanceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "rights card instance not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock rights card instance")
		}

		if !canActFor(actorID, actorRole, instance.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "card belongs to another user")
		}

		switch instance.Status {
		case enums.RightsCardStatusActive:
			return pkgerrors.New(pkgerrors.CodeConflict, "card is already activated")
		case enums.RightsCardStatusExpired:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "expired cards cannot be activated")
		case enums.RightsCardStatusCancelled:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled cards cannot be activated")
		}

		card, err := s.repo.FindCardByID(ctx, instance.CardID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup rights card product")
		}

		now := s.now()
		expiry := now.AddDate(card.DurationYears, 0, 0)
		if err := repo.UpdateActivation(ctx, instance.ID, now, expiry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate rights card")
		}

		instance.Status = enums.RightsCardStatusActive
		instance.ActivationDate = &now
		instance.ExpiryDate = &expiry
		instance.Card = card
		result = instanceFromModel(instance, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RecordUsage appends an audit-log row for an active card. The benefit map is
// not decremented here; staff review drives any balance adjustments.
func (s *service) RecordUsage(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, instanceID uuid.UUID, req RecordUsageRequest) (*UsageRecordDTO, error) {
	if instanceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id is required")
	}
	serviceType := strings.TrimSpace(req.ServiceType)
	if serviceType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service_type is required")
	}

	var details datatypes.JSON
	if len(req.Details) > 0 {
		raw, err := json.Marshal(req.Details)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "details must be JSON-serializable")
		}
		details = datatypes.JSON(raw)
	}

	var result UsageRecordDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)

		instance, err := repo.FindInstanceByIDForUpdate(ctx, instanceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "rights card instance not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock rights card instance")
		}

		if !canActFor(actorID, actorRole, instance.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "card belongs to another user")
		}

		now := s.now()
		switch {
		case instance.Status == enums.RightsCardStatusInactive:
			return pkgerrors.New(pkgerrors.CodeCardNotActive, "card has not been activated")
		case instance.Status == enums.RightsCardStatusCancelled:
			return pkgerrors.New(pkgerrors.CodeCardNotActive, "card has been cancelled")
		case instance.Status == enums.RightsCardStatusExpired:
			return pkgerrors.New(pkgerrors.CodeCardExpired, "card has expired")
		case instance.ExpiryDate != nil && now.After(*instance.ExpiryDate):
			if err := repo.UpdateStatus(ctx, instance.ID, enums.RightsCardStatusExpired); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire rights card")
			}
			return pkgerrors.New(pkgerrors.CodeCardExpired, "card has expired")
		}

		record, err := repo.CreateUsageRecord(ctx, &models.UsageRecord{
			UserRightsCardID: instance.ID,
			ServiceType:      serviceType,
			Details:          details,
			Status:           enums.UsageRecordStatusPending,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record usage")
		}

		result = usageFromModel(record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) ListUsage(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, instanceID uuid.UUID) ([]UsageRecordDTO, error) {
	if instanceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id is required")
	}

	instance, err := s.repo.FindInstanceByID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rights card instance not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup rights card instance")
	}
	if !canActFor(actorID, actorRole, instance.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "card belongs to another user")
	}

	rows, err := s.repo.ListUsageByInstance(ctx, instanceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list usage records")
	}
	out := make([]UsageRecordDTO, len(rows))
	for i := range rows {
		out[i] = usageFromModel(&rows[i])
	}
	return out, nil
}

// ReviewUsage records a staff decision. Only pending records can be reviewed;
// the route layer restricts this to staff and admin actors.
func (s *service) ReviewUsage(ctx context.Context, reviewerID uuid.UUID, recordID uuid.UUID, req ReviewUsageRequest) (*UsageRecordDTO, error) {
	if recordID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "record id is required")
	}
	decision, err := enums.ParseUsageRecordStatus(strings.TrimSpace(req.Decision))
	if err != nil || (decision != enums.UsageRecordStatusApproved && decision != enums.UsageRecordStatusRejected) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decision must be approved or rejected")
	}

	var result UsageRecordDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)

		record, err := repo.FindUsageByIDForUpdate(ctx, recordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "usage record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock usage record")
		}

		if record.Status != enums.UsageRecordStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "usage record has already been reviewed")
		}

		now := s.now()
		if err := repo.UpdateUsageReview(ctx, record.ID, decision, reviewerID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "review usage record")
		}

		record.Status = decision
		record.ReviewedBy = &reviewerID
		record.ReviewedAt = &now
		result = usageFromModel(record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) Cancel(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, instanceID uuid.UUID) (*InstanceDTO, error) {
	if instanceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id is required")
	}

	var result InstanceDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)

		instance, err := repo.FindInstanceByIDForUpdate(ctx, instanceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "rights card instance not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock rights card instance")
		}

		if !canActFor(actorID, actorRole, instance.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "card belongs to another user")
		}

		now := s.now()
		switch {
		case instance.Status == enums.RightsCardStatusCancelled:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "card already cancelled")
		case instance.Status == enums.RightsCardStatusExpired:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "expired cards cannot be cancelled")
		case instance.ExpiryDate != nil && now.After(*instance.ExpiryDate):
			return pkgerrors.New(pkgerrors.CodeStateConflict, "expired cards cannot be cancelled")
		}

		if err := repo.UpdateStatus(ctx, instance.ID, enums.RightsCardStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel rights card")
		}

		instance.Status = enums.RightsCardStatusCancelled
		result = instanceFromModel(instance, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// canActFor allows the owner plus staff/admin actors.
func canActFor(actorID uuid.UUID, actorRole enums.UserRole, ownerID uuid.UUID) bool {
	if actorID == ownerID {
		return true
	}
	return actorRole == enums.UserRoleAdmin || actorRole == enums.UserRoleStaff
}
