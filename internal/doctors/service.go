package doctors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
	"github.com/careplushealth/careplus-backend/pkg/pagination"
)

type doctorsRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) (*models.Doctor, error)
	List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.Doctor, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Doctor, error)
	Update(ctx context.Context, doctor *models.Doctor) (*models.Doctor, error)
}

// Service exposes the doctor catalog.
type Service interface {
	Create(ctx context.Context, req CreateDoctorRequest) (*DoctorDTO, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*DoctorList, error)
	Get(ctx context.Context, id uuid.UUID) (*DoctorDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateDoctorRequest) (*DoctorDTO, error)
}

type service struct {
	repo doctorsRepository
}

// NewService constructs a doctors service.
func NewService(repo doctorsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("doctors repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, req CreateDoctorRequest) (*DoctorDTO, error) {
	fee, err := decimal.NewFromString(strings.TrimSpace(req.ConsultFee))
	if err != nil || fee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "consult_fee must be a non-negative decimal")
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	doctor, err := s.repo.Create(ctx, &models.Doctor{
		Name:        strings.TrimSpace(req.Name),
		Title:       strings.TrimSpace(req.Title),
		Department:  strings.TrimSpace(req.Department),
		Specialties: pq.StringArray(req.Specialties),
		Bio:         req.Bio,
		ConsultFee:  fee,
		Available:   available,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create doctor")
	}

	dto := fromModel(doctor)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*DoctorList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, filters, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list doctors")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	out := make([]DoctorDTO, len(rows))
	for i := range rows {
		out[i] = fromModel(&rows[i])
	}
	return &DoctorList{Doctors: out, NextCursor: next}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DoctorDTO, error) {
	doctor, err := s.findDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := fromModel(doctor)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateDoctorRequest) (*DoctorDTO, error) {
	doctor, err := s.findDoctor(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		doctor.Name = strings.TrimSpace(*req.Name)
	}
	if req.Title != nil {
		doctor.Title = strings.TrimSpace(*req.Title)
	}
	if req.Department != nil {
		doctor.Department = strings.TrimSpace(*req.Department)
	}
	if req.Specialties != nil {
		doctor.Specialties = pq.StringArray(req.Specialties)
	}
	if req.Bio != nil {
		doctor.Bio = req.Bio
	}
	if req.ConsultFee != nil {
		fee, err := decimal.NewFromString(strings.TrimSpace(*req.ConsultFee))
		if err != nil || fee.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "consult_fee must be a non-negative decimal")
		}
		doctor.ConsultFee = fee
	}
	if req.Available != nil {
		doctor.Available = *req.Available
	}

	updated, err := s.repo.Update(ctx, doctor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update doctor")
	}

	dto := fromModel(updated)
	return &dto, nil
}

func (s *service) findDoctor(ctx context.Context, id uuid.UUID) (*models.Doctor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "doctor id is required")
	}
	doctor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "doctor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup doctor")
	}
	return doctor, nil
}
