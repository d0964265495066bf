package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	"github.com/careplushealth/careplus-backend/pkg/enums"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubAppointmentsRepo struct {
	doctors      map[uuid.UUID]*models.Doctor
	appointments map[uuid.UUID]*models.Appointment
}

func newStubAppointmentsRepo() *stubAppointmentsRepo {
	return &stubAppointmentsRepo{
		doctors:      map[uuid.UUID]*models.Doctor{},
		appointments: map[uuid.UUID]*models.Appointment{},
	}
}

func (s *stubAppointmentsRepo) FindDoctorByID(ctx context.Context, id uuid.UUID) (*models.Doctor, error) {
	if d, ok := s.doctors[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAppointmentsRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range s.appointments {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *stubAppointmentsRepo) CountBookedSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (int64, error) {
	var count int64
	for _, a := range s.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Slot == slot && a.Status == enums.AppointmentStatusBooked {
			count++
		}
	}
	return count, nil
}

func (s *stubAppointmentsRepo) Create(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	appointment.ID = uuid.New()
	s.appointments[appointment.ID] = appointment
	return appointment, nil
}

func (s *stubAppointmentsRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	if a, ok := s.appointments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAppointmentsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) error {
	s.appointments[id].Status = status
	return nil
}

func newAppointmentService(t *testing.T, repo *stubAppointmentsRepo, now time.Time) *service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		TxRunner: stubTxRunner{},
		TxRepoFactory: func(tx *gorm.DB) txRepository {
			return repo
		},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	impl := svc.(*service)
	impl.now = func() time.Time { return now }
	return impl
}

func seedDoctor(repo *stubAppointmentsRepo, available bool) *models.Doctor {
	d := &models.Doctor{
		ID:         uuid.New(),
		Name:       "Dr. Chen",
		Title:      "Chief Physician",
		Department: "cardiology",
		ConsultFee: decimal.NewFromInt(150),
		Available:  available,
	}
	repo.doctors[d.ID] = d
	return d
}

func TestBookAndDoubleBookConflict(t *testing.T) {
	repo := newStubAppointmentsRepo()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	svc := newAppointmentService(t, repo, now)

	doctor := seedDoctor(repo, true)
	req := BookRequest{DoctorID: doctor.ID, Date: "2026-09-10", Slot: "09:00-09:30"}

	first, err := svc.Book(context.Background(), uuid.New(), req)
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}
	if first.Status != enums.AppointmentStatusBooked {
		t.Fatalf("expected booked status, got %s", first.Status)
	}
	if first.DoctorName != "Dr. Chen" {
		t.Fatalf("expected doctor name, got %q", first.DoctorName)
	}

	_, err = svc.Book(context.Background(), uuid.New(), req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on double booking, got %v", err)
	}
}

func TestBookCancelledSlotReopens(t *testing.T) {
	repo := newStubAppointmentsRepo()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	svc := newAppointmentService(t, repo, now)

	doctor := seedDoctor(repo, true)
	userID := uuid.New()
	req := BookRequest{DoctorID: doctor.ID, Date: "2026-09-10", Slot: "09:00-09:30"}

	first, err := svc.Book(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), userID, enums.UserRolePatient, first.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := svc.Book(context.Background(), uuid.New(), req); err != nil {
		t.Fatalf("expected cancelled slot to be rebookable, got %v", err)
	}
}

func TestBookValidation(t *testing.T) {
	repo := newStubAppointmentsRepo()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	svc := newAppointmentService(t, repo, now)

	doctor := seedDoctor(repo, true)

	_, err := svc.Book(context.Background(), uuid.New(), BookRequest{DoctorID: doctor.ID, Date: "2026-08-01", Slot: "09:00-09:30"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for past date, got %v", err)
	}

	_, err = svc.Book(context.Background(), uuid.New(), BookRequest{DoctorID: uuid.New(), Date: "2026-09-10", Slot: "09:00-09:30"})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown doctor, got %v", err)
	}

	unavailable := seedDoctor(repo, false)
	_, err = svc.Book(context.Background(), uuid.New(), BookRequest{DoctorID: unavailable.ID, Date: "2026-09-10", Slot: "09:00-09:30"})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for unavailable doctor, got %v", err)
	}
}

func TestCancelRules(t *testing.T) {
	repo := newStubAppointmentsRepo()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	svc := newAppointmentService(t, repo, now)

	doctor := seedDoctor(repo, true)
	userID := uuid.New()
	booked, err := svc.Book(context.Background(), userID, BookRequest{DoctorID: doctor.ID, Date: "2026-09-10", Slot: "10:00-10:30"})
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}

	_, err = svc.Cancel(context.Background(), uuid.New(), enums.UserRolePatient, booked.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for other patient, got %v", err)
	}

	completed, err := svc.Complete(context.Background(), booked.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.Status != enums.AppointmentStatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}

	_, err = svc.Cancel(context.Background(), userID, enums.UserRolePatient, booked.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict cancelling completed appointment, got %v", err)
	}
}
