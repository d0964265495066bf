package consultations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	"github.com/careplushealth/careplus-backend/pkg/enums"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
)

// CreateRequest opens a consultation thread.
type CreateRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"body" validate:"required,max=4000"`
}

// ReplyRequest is the staff answer to an open consultation.
type ReplyRequest struct {
	Reply string `json:"reply" validate:"required,max=4000"`
}

// ConsultationDTO is the thread shape returned to clients.
type ConsultationDTO struct {
	ID        uuid.UUID                `json:"id"`
	UserID    uuid.UUID                `json:"user_id"`
	Subject   string                   `json:"subject"`
	Body      string                   `json:"body"`
	Reply     *string                  `json:"reply,omitempty"`
	RepliedBy *uuid.UUID               `json:"replied_by,omitempty"`
	RepliedAt *time.Time               `json:"replied_at,omitempty"`
	Status    enums.ConsultationStatus `json:"status"`
	CreatedAt time.Time                `json:"created_at"`
}

func fromModel(c *models.Consultation) ConsultationDTO {
	return ConsultationDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		Subject:   c.Subject,
		Body:      c.Body,
		Reply:     c.Reply,
		RepliedBy: c.RepliedBy,
		RepliedAt: c.RepliedAt,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}

type consultationsRepository interface {
	Create(ctx context.Context, consultation *models.Consultation) (*models.Consultation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Consultation, error)
	ListOpen(ctx context.Context) ([]models.Consultation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Consultation, error)
	SaveReply(ctx context.Context, id uuid.UUID, reply string, repliedBy uuid.UUID, repliedAt time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ConsultationStatus) error
}

// Service exposes the consultation thread flow.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*ConsultationDTO, error)
	ListByUser(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, userID uuid.UUID) ([]ConsultationDTO, error)
	ListOpen(ctx context.Context) ([]ConsultationDTO, error)
	Reply(ctx context.Context, staffID uuid.UUID, consultationID uuid.UUID, req ReplyRequest) (*ConsultationDTO, error)
	Close(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, consultationID uuid.UUID) (*ConsultationDTO, error)
}

type service struct {
	repo consultationsRepository
	now  func() time.Time
}

// NewService constructs a consultations service.
func NewService(repo consultationsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("consultations repository is required")
	}
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*ConsultationDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	subject := strings.TrimSpace(req.Subject)
	body := strings.TrimSpace(req.Body)
	if subject == "" || body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject and body are required")
	}

	created, err := s.repo.Create(ctx, &models.Consultation{
		UserID:  userID,
		Subject: subject,
		Body:    body,
		Status:  enums.ConsultationStatusOpen,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create consultation")
	}

	dto := fromModel(created)
	return &dto, nil
}

func (s *service) ListByUser(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, userID uuid.UUID) ([]ConsultationDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if actorID != userID && actorRole != enums.UserRoleAdmin && actorRole != enums.UserRoleStaff {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another user's consultations")
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list consultations")
	}
	out := make([]ConsultationDTO, len(rows))
	for i := range rows {
		out[i] = fromModel(&rows[i])
	}
	return out, nil
}

// ListOpen feeds the staff work queue. Routes restrict it to staff and admin.
func (s *service) ListOpen(ctx context.Context) ([]ConsultationDTO, error) {
	rows, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open consultations")
	}
	out := make([]ConsultationDTO, len(rows))
	for i := range rows {
		out[i] = fromModel(&rows[i])
	}
	return out, nil
}

func (s *service) Reply(ctx context.Context, staffID uuid.UUID, consultationID uuid.UUID, req ReplyRequest) (*ConsultationDTO, error) {
	reply := strings.TrimSpace(req.Reply)
	if reply == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reply is required")
	}

	consultation, err := s.findConsultation(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation.Status != enums.ConsultationStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only open consultations can be answered")
	}

	now := s.now()
	if err := s.repo.SaveReply(ctx, consultation.ID, reply, staffID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save reply")
	}

	consultation.Reply = &reply
	consultation.RepliedBy = &staffID
	consultation.RepliedAt = &now
	consultation.Status = enums.ConsultationStatusAnswered
	dto := fromModel(consultation)
	return &dto, nil
}

func (s *service) Close(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, consultationID uuid.UUID) (*ConsultationDTO, error) {
	consultation, err := s.findConsultation(ctx, consultationID)
	if err != nil {
		return nil, err
	}
	if consultation.UserID != actorID && actorRole != enums.UserRoleAdmin && actorRole != enums.UserRoleStaff {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "consultation belongs to another user")
	}
	if consultation.Status == enums.ConsultationStatusClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "consultation already closed")
	}

	if err := s.repo.UpdateStatus(ctx, consultation.ID, enums.ConsultationStatusClosed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close consultation")
	}

	consultation.Status = enums.ConsultationStatusClosed
	dto := fromModel(consultation)
	return &dto, nil
}

func (s *service) findConsultation(ctx context.Context, id uuid.UUID) (*models.Consultation, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "consultation id is required")
	}
	consultation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "consultation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup consultation")
	}
	return consultation, nil
}
