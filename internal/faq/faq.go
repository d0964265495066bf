package faq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
)

// EntryDTO is one help article.
type EntryDTO struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	SortOrder int       `json:"sort_order"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateEntryRequest is the admin payload for adding an article.
type CreateEntryRequest struct {
	Question  string `json:"question" validate:"required,max=300"`
	Answer    string `json:"answer" validate:"required,max=4000"`
	Category  string `json:"category" validate:"required,max=80"`
	SortOrder int    `json:"sort_order,omitempty"`
	Published *bool  `json:"published,omitempty"`
}

// UpdateEntryRequest patches an article. Nil fields are left unchanged.
type UpdateEntryRequest struct {
	Question  *string `json:"question,omitempty" validate:"omitempty,max=300"`
	Answer    *string `json:"answer,omitempty" validate:"omitempty,max=4000"`
	Category  *string `json:"category,omitempty" validate:"omitempty,max=80"`
	SortOrder *int    `json:"sort_order,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

func fromModel(e *models.FAQEntry) EntryDTO {
	return EntryDTO{
		ID:        e.ID,
		Question:  e.Question,
		Answer:    e.Answer,
		Category:  e.Category,
		SortOrder: e.SortOrder,
		Published: e.Published,
		CreatedAt: e.CreatedAt,
	}
}

type faqRepository interface {
	Create(ctx context.Context, entry *models.FAQEntry) (*models.FAQEntry, error)
	List(ctx context.Context, category string, publishedOnly bool) ([]models.FAQEntry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.FAQEntry, error)
	Update(ctx context.Context, entry *models.FAQEntry) (*models.FAQEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes the FAQ catalog.
type Service interface {
	Create(ctx context.Context, req CreateEntryRequest) (*EntryDTO, error)
	List(ctx context.Context, category string, publishedOnly bool) ([]EntryDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateEntryRequest) (*EntryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo faqRepository
}

// NewService constructs a FAQ service.
func NewService(repo faqRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("faq repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, req CreateEntryRequest) (*EntryDTO, error) {
	question := strings.TrimSpace(req.Question)
	answer := strings.TrimSpace(req.Answer)
	category := strings.TrimSpace(req.Category)
	if question == "" || answer == "" || category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question, answer and category are required")
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	entry, err := s.repo.Create(ctx, &models.FAQEntry{
		Question:  question,
		Answer:    answer,
		Category:  category,
		SortOrder: req.SortOrder,
		Published: published,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create faq entry")
	}

	dto := fromModel(entry)
	return &dto, nil
}

func (s *service) List(ctx context.Context, category string, publishedOnly bool) ([]EntryDTO, error) {
	rows, err := s.repo.List(ctx, strings.TrimSpace(category), publishedOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list faq entries")
	}
	out := make([]EntryDTO, len(rows))
	for i := range rows {
		out[i] = fromModel(&rows[i])
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateEntryRequest) (*EntryDTO, error) {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Question != nil {
		entry.Question = strings.TrimSpace(*req.Question)
	}
	if req.Answer != nil {
		entry.Answer = strings.TrimSpace(*req.Answer)
	}
	if req.Category != nil {
		entry.Category = strings.TrimSpace(*req.Category)
	}
	if req.SortOrder != nil {
		entry.SortOrder = *req.SortOrder
	}
	if req.Published != nil {
		entry.Published = *req.Published
	}
	if entry.Question == "" || entry.Answer == "" || entry.Category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question, answer and category cannot be blank")
	}

	updated, err := s.repo.Update(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update faq entry")
	}

	dto := fromModel(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findEntry(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete faq entry")
	}
	return nil
}

func (s *service) findEntry(ctx context.Context, id uuid.UUID) (*models.FAQEntry, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "faq entry id is required")
	}
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "faq entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup faq entry")
	}
	return entry, nil
}
