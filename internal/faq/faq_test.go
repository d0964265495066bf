package faq

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
)

type stubFAQRepo struct {
	data map[uuid.UUID]*models.FAQEntry
}

func newStubFAQRepo() *stubFAQRepo {
	return &stubFAQRepo{data: map[uuid.UUID]*models.FAQEntry{}}
}

func (s *stubFAQRepo) Create(ctx context.Context, entry *models.FAQEntry) (*models.FAQEntry, error) {
	entry.ID = uuid.New()
	s.data[entry.ID] = entry
	return entry, nil
}

func (s *stubFAQRepo) List(ctx context.Context, category string, publishedOnly bool) ([]models.FAQEntry, error) {
	var out []models.FAQEntry
	for _, e := range s.data {
		if category != "" && e.Category != category {
			continue
		}
		if publishedOnly && !e.Published {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *stubFAQRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FAQEntry, error) {
	if e, ok := s.data[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubFAQRepo) Update(ctx context.Context, entry *models.FAQEntry) (*models.FAQEntry, error) {
	s.data[entry.ID] = entry
	return entry, nil
}

func (s *stubFAQRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.data, id)
	return nil
}

func TestFAQListFiltersUnpublished(t *testing.T) {
	repo := newStubFAQRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	published, err := svc.Create(context.Background(), CreateEntryRequest{
		Question: "How do I activate my card?",
		Answer:   "From the card detail page.",
		Category: "cards",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	hidden := false
	if _, err := svc.Create(context.Background(), CreateEntryRequest{
		Question:  "Draft entry",
		Answer:    "Not ready yet.",
		Category:  "cards",
		Published: &hidden,
	}); err != nil {
		t.Fatalf("create draft failed: %v", err)
	}

	visible, err := svc.List(context.Background(), "cards", true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != published.ID {
		t.Fatalf("expected only the published entry, got %d entries", len(visible))
	}

	all, err := svc.List(context.Background(), "", false)
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both entries for admin listing, got %d", len(all))
	}
}

func TestFAQUpdateAndDelete(t *testing.T) {
	repo := newStubFAQRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	created, err := svc.Create(context.Background(), CreateEntryRequest{
		Question: "Old question",
		Answer:   "Old answer",
		Category: "general",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newAnswer := "Updated answer"
	updated, err := svc.Update(context.Background(), created.ID, UpdateEntryRequest{Answer: &newAnswer})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Answer != newAnswer || updated.Question != "Old question" {
		t.Fatalf("unexpected patch result: %+v", updated)
	}

	blank := "  "
	_, err = svc.Update(context.Background(), created.ID, UpdateEntryRequest{Question: &blank})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	err = svc.Delete(context.Background(), created.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
