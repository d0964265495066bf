package doctors

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
	"github.com/careplushealth/careplus-backend/pkg/pagination"
)

type stubDoctorsRepo struct {
	data map[uuid.UUID]*models.Doctor
}

func newStubDoctorsRepo() *stubDoctorsRepo {
	return &stubDoctorsRepo{data: map[uuid.UUID]*models.Doctor{}}
}

func (s *stubDoctorsRepo) Create(ctx context.Context, doctor *models.Doctor) (*models.Doctor, error) {
	doctor.ID = uuid.New()
	s.data[doctor.ID] = doctor
	return doctor, nil
}

func (s *stubDoctorsRepo) List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.Doctor, error) {
	var out []models.Doctor
	for _, d := range s.data {
		if filters.Department != "" && d.Department != filters.Department {
			continue
		}
		if filters.AvailableOnly && !d.Available {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	if cursor != nil {
		trimmed := out[:0]
		for _, d := range out {
			if d.CreatedAt.Before(cursor.CreatedAt) {
				trimmed = append(trimmed, d)
			}
		}
		out = trimmed
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubDoctorsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Doctor, error) {
	if d, ok := s.data[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDoctorsRepo) Update(ctx context.Context, doctor *models.Doctor) (*models.Doctor, error) {
	s.data[doctor.ID] = doctor
	return doctor, nil
}

func TestCreateDoctorValidatesFee(t *testing.T) {
	svc, err := NewService(newStubDoctorsRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateDoctorRequest{
		Name:       "Dr. Chen",
		Title:      "Chief Physician",
		Department: "cardiology",
		ConsultFee: "-10",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateDoctorRequest{
		Name:        "Dr. Chen",
		Title:       "Chief Physician",
		Department:  "cardiology",
		Specialties: []string{"arrhythmia"},
		ConsultFee:  "150.00",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !dto.Available {
		t.Fatal("expected doctor to default to available")
	}
}

func TestUpdateDoctorPartialPatch(t *testing.T) {
	repo := newStubDoctorsRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	created, err := svc.Create(context.Background(), CreateDoctorRequest{
		Name:       "Dr. Wu",
		Title:      "Attending",
		Department: "dermatology",
		ConsultFee: "80",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	unavailable := false
	updated, err := svc.Update(context.Background(), created.ID, UpdateDoctorRequest{Available: &unavailable})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Available {
		t.Fatal("expected doctor to be unavailable")
	}
	if updated.Name != "Dr. Wu" || updated.Department != "dermatology" {
		t.Fatalf("unexpected patch side effects: %+v", updated)
	}
}

func TestListDoctorsPaginates(t *testing.T) {
	repo := newStubDoctorsRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		id := uuid.New()
		repo.data[id] = &models.Doctor{
			ID:         id,
			Name:       "Dr. Page",
			Title:      "Attending",
			Department: "cardiology",
			Available:  true,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
	}

	first, err := svc.List(context.Background(), ListFilters{}, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first.Doctors) != 2 {
		t.Fatalf("expected 2 doctors on first page, got %d", len(first.Doctors))
	}
	if first.NextCursor == "" {
		t.Fatal("expected a next cursor on the first page")
	}

	second, err := svc.List(context.Background(), ListFilters{}, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Doctors) != 1 {
		t.Fatalf("expected 1 doctor on second page, got %d", len(second.Doctors))
	}
	if second.NextCursor != "" {
		t.Fatalf("expected no cursor on the last page, got %q", second.NextCursor)
	}

	_, err = svc.List(context.Background(), ListFilters{}, pagination.Params{Cursor: "not-base64!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad cursor, got %v", err)
	}
}

func TestGetUnknownDoctorNotFound(t *testing.T) {
	svc, err := NewService(newStubDoctorsRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
