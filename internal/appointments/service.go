package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careplushealth/careplus-backend/pkg/db"
	"github.com/careplushealth/careplus-backend/pkg/db/models"
	"github.com/careplushealth/careplus-backend/pkg/enums"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type appointmentsRepository interface {
	FindDoctorByID(ctx context.Context, id uuid.UUID) (*models.Doctor, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error)
}

type txRepository interface {
	CountBookedSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (int64, error)
	Create(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) error
}

// Service exposes appointment booking and lifecycle.
type Service interface {
	Book(ctx context.Context, userID uuid.UUID, req BookRequest) (*AppointmentDTO, error)
	ListByUser(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, userID uuid.UUID) ([]AppointmentDTO, error)
	Cancel(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, appointmentID uuid.UUID) (*AppointmentDTO, error)
	Complete(ctx context.Context, appointmentID uuid.UUID) (*AppointmentDTO, error)
}

type service struct {
	repo   appointmentsRepository
	tx     TxRunner
	txRepo func(tx *gorm.DB) txRepository
	now    func() time.Time
}

// ServiceParams bundles the dependencies required to build an appointment service.
type ServiceParams struct {
	Repo          appointmentsRepository
	TxRunner      TxRunner
	TxRepoFactory func(tx *gorm.DB) txRepository
}

// NewService constructs an appointments service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("appointments repository is required")
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

// Book reserves a slot. The conflict check and insert share one transaction;
// concurrent bookings that slip past the check hit the partial unique index
// and surface as the same conflict error.
func (s *service) Book(ctx context.Context, userID uuid.UUID, req BookRequest) (*AppointmentDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if req.DoctorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "doctor_id is required")
	}
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.Date), time.UTC)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted YYYY-MM-DD")
	}
	slot := strings.TrimSpace(req.Slot)
	if slot == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slot is required")
	}
	today := s.now().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date cannot be in the past")
	}

	doctor, err := s.repo.FindDoctorByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "doctor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup doctor")
	}
	if !doctor.Available {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "doctor is not accepting appointments")
	}

	var result AppointmentDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)

		taken, err := repo.CountBookedSlot(ctx, doctor.ID, date, slot)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slot availability")
		}
		if taken > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "slot is already booked")
		}

		created, err := repo.Create(ctx, &models.Appointment{
			UserID:   userID,
			DoctorID: doctor.ID,
			Date:     date,
			Slot:     slot,
			Status:   enums.AppointmentStatusBooked,
			Note:     req.Note,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "idx_appointments_booked_slot") {
				return pkgerrors.New(pkgerrors.CodeConflict, "slot is already booked")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create appointment")
		}

		created.Doctor = doctor
		result = fromModel(created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) ListByUser(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, userID uuid.UUID) ([]AppointmentDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !canActFor(actorID, actorRole, userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another user's appointments")
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list appointments")
	}
	out := make([]AppointmentDTO, len(rows))
	for i := range rows {
		out[i] = fromModel(&rows[i])
	}
	return out, nil
}

func (s *service) Cancel(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, appointmentID uuid.UUID) (*AppointmentDTO, error) {
	if appointmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment id is required")
	}

	var result AppointmentDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)

		appointment, err := repo.FindByIDForUpdate(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock appointment")
		}

		if !canActFor(actorID, actorRole, appointment.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "appointment belongs to another user")
		}
		if appointment.Status != enums.AppointmentStatusBooked {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only booked appointments can be cancelled")
		}

		if err := repo.UpdateStatus(ctx, appointment.ID, enums.AppointmentStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel appointment")
		}

		appointment.Status = enums.AppointmentStatusCancelled
		result = fromModel(appointment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Complete marks a booked appointment as done. Routes restrict this to staff.
func (s *service) Complete(ctx context.Context, appointmentID uuid.UUID) (*AppointmentDTO, error) {
	if appointmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment id is required")
	}

	var result AppointmentDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)

		appointment, err := repo.FindByIDForUpdate(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock appointment")
		}
		if appointment.Status != enums.AppointmentStatusBooked {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only booked appointments can be completed")
		}

		if err := repo.UpdateStatus(ctx, appointment.ID, enums.AppointmentStatusCompleted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete appointment")
		}

		appointment.Status = enums.AppointmentStatusCompleted
		result = fromModel(appointment)
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
