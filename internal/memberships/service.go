package memberships

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

type membershipsRepository interface {
	CreateCard(ctx context.Context, card *models.MembershipCard) (*models.MembershipCard, error)
	ListCards(ctx context.Context, availableOnly bool) ([]models.MembershipCard, error)
	FindCardByID(ctx context.Context, id uuid.UUID) (*models.MembershipCard, error)
	CreateMembership(ctx context.Context, membership *models.UserMembership) (*models.UserMembership, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserMembership, error)
}

type txRepository interface {
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.UserMembership, error)
	SaveBenefits(ctx context.Context, id uuid.UUID, benefits dbtypes.BenefitMap) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MembershipCardStatus) error
}

// Service exposes the membership catalog, purchase, and benefit consumption flows.
type Service interface {
	CreateCard(ctx context.Context, req CreateCardRequest) (*CardDTO, error)
	ListCards(ctx context.Context, availableOnly bool) ([]CardDTO, error)
	Purchase(ctx context.Context, userID uuid.UUID, req PurchaseRequest) (*MembershipDTO, error)
	ListUserMemberships(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, userID uuid.UUID) ([]MembershipDTO, error)
	UseService(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, membershipID uuid.UUID, req UseServiceRequest) (*MembershipDTO, error)
	Cancel(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, membershipID uuid.UUID) (*MembershipDTO, error)
}

type service struct {
	repo   membershipsRepository
	tx     TxRunner
	txRepo func(tx *gorm.DB) txRepository
	now    func() time.Time
}

// ServiceParams bundles the dependencies required to build a membership service.
type ServiceParams struct {
	Repo          membershipsRepository
	TxRunner      TxRunner
	TxRepoFactory func(tx *gorm.DB) txRepository
}

// NewService constructs a membership service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("memberships repository is required")
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
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil || price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative decimal")
	}
	if req.DurationDays <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration_days must be positive")
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

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	card, err := s.repo.CreateCard(ctx, &models.MembershipCard{
		Name:            name,
		Description:     req.Description,
		Price:           price,
		DurationDays:    req.DurationDays,
		BenefitTemplate: template,
		Available:       available,
		SortOrder:       req.SortOrder,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership card")
	}

	dto := cardFromModel(card)
	return &dto, nil
}

func (s *service) ListCards(ctx context.Context, availableOnly bool) ([]CardDTO, error) {
	rows, err := s.repo.ListCards(ctx, availableOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list membership cards")
	}
	out := make([]CardDTO, len(rows))
	for i := range rows {
		out[i] = cardFromModel(&rows[i])
	}
	return out, nil
}

func (s *service) Purchase(ctx context.Context, userID uuid.UUID, req PurchaseRequest) (*MembershipDTO, error) {
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
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "membership card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup membership card")
	}
	if !card.Available {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "membership card is not available for purchase")
	}

	now := s.now()
	membership := &models.UserMembership{
		UserID:     userID,
		CardID:     card.ID,
		CardNumber: uuid.NewString(),
		Status:     enums.MembershipCardStatusActive,
		StartDate:  now,
		EndDate:    now.AddDate(0, 0, card.DurationDays),
		// Deep copy: decrements on this instance must never touch the template.
		RemainingBenefits: card.BenefitTemplate.Clone(),
		PaymentMethod:     method,
		PaymentAmount:     card.Price,
	}

	created, err := s.repo.CreateMembership(ctx, membership)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_user_memberships_card_number") {
			// UUID collision is vanishingly rare; one retry covers it.
			membership.CardNumber = uuid.NewString()
			if created, err = s.repo.CreateMembership(ctx, membership); err == nil {
				created.Card = card
				dto := membershipFromModel(created, now)
				return &dto, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
	}

	created.Card = card
	dto := membershipFromModel(created, now)
	return &dto, nil
}

func (s *service) ListUserMemberships(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, userID uuid.UUID) ([]MembershipDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !canActFor(actorID, actorRole, userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another user's memberships")
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list memberships")
	}

	now := s.now()
	out := make([]MembershipDTO, len(rows))
	for i := range rows {
		out[i] = membershipFromModel(&rows[i], now)
	}
	return out, nil
}

// UseService decrements the benefit ledger inside one row-locked transaction,
// so concurrent requests against the same membership serialize and the quota
// can never go below zero.
func (s *service) UseService(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, membershipID uuid.UUID, req UseServiceRequest) (*MembershipDTO, error) {
	if membershipID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "membership id is required")
	}
	serviceType := strings.TrimSpace(req.ServiceType)
	if serviceType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service_type is required")
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var result MembershipDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)

		membership, err := repo.FindByIDForUpdate(ctx, membershipID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock membership")
		}

		if !canActFor(actorID, actorRole, membership.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "membership belongs to another user")
		}

		now := s.now()
		switch {
		case membership.Status == enums.MembershipCardStatusCancelled:
			return pkgerrors.New(pkgerrors.CodeCardNotActive, "membership has been cancelled")
		case membership.Status == enums.MembershipCardStatusExpired:
			return pkgerrors.New(pkgerrors.CodeCardExpired, "membership has expired")
		case now.After(membership.EndDate):
			// Lazy expiry: persist the flip while we hold the lock.
			if err := repo.UpdateStatus(ctx, membership.ID, enums.MembershipCardStatusExpired); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire membership")
			}
			return pkgerrors.New(pkgerrors.CodeCardExpired, "membership has expired")
		}

		benefits := membership.RemainingBenefits.Clone()
		if !benefits.Consume(serviceType, quantity) {
			return pkgerrors.New(pkgerrors.CodeInsufficientBenefit, "insufficient benefit balance").
				WithDetails(map[string]any{
					"service_type": serviceType,
					"remaining":    benefits.Remaining(serviceType),
					"requested":    quantity,
				})
		}

		if err := repo.SaveBenefits(ctx, membership.ID, benefits); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save benefits")
		}

		membership.RemainingBenefits = benefits
		result = membershipFromModel(membership, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) Cancel(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, membershipID uuid.UUID) (*MembershipDTO, error) {
	if membershipID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "membership id is required")
	}

	var result MembershipDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)

		membership, err := repo.FindByIDForUpdate(ctx, membershipID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock membership")
		}

		if !canActFor(actorID, actorRole, membership.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "membership belongs to another user")
		}

		now := s.now()
		switch {
		case membership.Status == enums.MembershipCardStatusCancelled:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "membership already cancelled")
		case membership.Status == enums.MembershipCardStatusExpired || now.After(membership.EndDate):
			return pkgerrors.New(pkgerrors.CodeStateConflict, "expired memberships cannot be cancelled")
		}

		if err := repo.UpdateStatus(ctx, membership.ID, enums.MembershipCardStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel membership")
		}

		membership.Status = enums.MembershipCardStatusCancelled
		result = membershipFromModel(membership, now)
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
