package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/careplushealth/careplus-backend/internal/appointments"
	"github.com/careplushealth/careplus-backend/internal/auth"
	"github.com/careplushealth/careplus-backend/internal/consultations"
	"github.com/careplushealth/careplus-backend/internal/doctors"
	"github.com/careplushealth/careplus-backend/internal/faq"
	"github.com/careplushealth/careplus-backend/internal/memberships"
	"github.com/careplushealth/careplus-backend/internal/rightscards"
	"github.com/careplushealth/careplus-backend/internal/users"
	pkgAuth "github.com/careplushealth/careplus-backend/pkg/auth"
	"github.com/careplushealth/careplus-backend/pkg/auth/session"
	"github.com/careplushealth/careplus-backend/pkg/config"
	"github.com/careplushealth/careplus-backend/pkg/enums"
	"github.com/careplushealth/careplus-backend/pkg/logger"
	"github.com/careplushealth/careplus-backend/pkg/pagination"
	"github.com/google/uuid"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubMembershipsService struct{}

func (stubMembershipsService) CreateCard(ctx context.Context, req memberships.CreateCardRequest) (*memberships.CardDTO, error) {
	return &memberships.CardDTO{}, nil
}

func (stubMembershipsService) ListCards(ctx context.Context, availableOnly bool) ([]memberships.CardDTO, error) {
	return []memberships.CardDTO{}, nil
}

func (stubMembershipsService) Purchase(ctx context.Context, userID uuid.UUID, req memberships.PurchaseRequest) (*memberships.MembershipDTO, error) {
	return &memberships.MembershipDTO{}, nil
}

func (stubMembershipsService) ListUserMemberships(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, userID uuid.UUID) ([]memberships.MembershipDTO, error) {
	return []memberships.MembershipDTO{}, nil
}

func (stubMembershipsService) UseService(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, membershipID uuid.UUID, req memberships.UseServiceRequest) (*memberships.MembershipDTO, error) {
	return &memberships.MembershipDTO{}, nil
}

func (stubMembershipsService) Cancel(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, membershipID uuid.UUID) (*memberships.MembershipDTO, error) {
	return &memberships.MembershipDTO{}, nil
}

type stubRightsCardsService struct{}

func (stubRightsCardsService) CreateCard(ctx context.Context, req rightscards.CreateCardRequest) (*rightscards.CardDTO, error) {
	return &rightscards.CardDTO{}, nil
}

func (stubRightsCardsService) ListCards(ctx context.Context, cardType string, availableOnly bool) ([]rightscards.CardDTO, error) {
	return []rightscards.CardDTO{}, nil
}

func (stubRightsCardsService) Purchase(ctx context.Context, userID uuid.UUID, req rightscards.PurchaseRequest) (*rightscards.InstanceDTO, error) {
	return &rightscards.InstanceDTO{}, nil
}

func (stubRightsCardsService) ListUserCards(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, userID uuid.UUID) ([]rightscards.InstanceDTO, error) {
	return []rightscards.InstanceDTO{}, nil
}

func (stubRightsCardsService) Activate(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, instanceID uuid.UUID) (*rightscards.InstanceDTO, error) {
	return &rightscards.InstanceDTO{}, nil
}

func (stubRightsCardsService) RecordUsage(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, instanceID uuid.UUID, req rightscards.RecordUsageRequest) (*rightscards.UsageRecordDTO, error) {
	return &rightscards.UsageRecordDTO{}, nil
}

func (stubRightsCardsService) ListUsage(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, instanceID uuid.UUID) ([]rightscards.UsageRecordDTO, error) {
	return []rightscards.UsageRecordDTO{}, nil
}

func (stubRightsCardsService) ReviewUsage(ctx context.Context, reviewerID uuid.UUID, recordID uuid.UUID, req rightscards.ReviewUsageRequest) (*rightscards.UsageRecordDTO, error) {
	return &rightscards.UsageRecordDTO{}, nil
}

func (stubRightsCardsService) Cancel(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, instanceID uuid.UUID) (*rightscards.InstanceDTO, error) {
	return &rightscards.InstanceDTO{}, nil
}

type stubDoctorsService struct{}

func (stubDoctorsService) Create(ctx context.Context, req doctors.CreateDoctorRequest) (*doctors.DoctorDTO, error) {
	return &doctors.DoctorDTO{}, nil
}

func (stubDoctorsService) List(ctx context.Context, filters doctors.ListFilters, params pagination.Params) (*doctors.DoctorList, error) {
	return &doctors.DoctorList{}, nil
}

func (stubDoctorsService) Get(ctx context.Context, id uuid.UUID) (*doctors.DoctorDTO, error) {
	return &doctors.DoctorDTO{}, nil
}

func (stubDoctorsService) Update(ctx context.Context, id uuid.UUID, req doctors.UpdateDoctorRequest) (*doctors.DoctorDTO, error) {
	return &doctors.DoctorDTO{}, nil
}

type stubAppointmentsService struct{}

func (stubAppointmentsService) Book(ctx context.Context, userID uuid.UUID, req appointments.BookRequest) (*appointments.AppointmentDTO, error) {
	return &appointments.AppointmentDTO{}, nil
}

func (stubAppointmentsService) ListByUser(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, userID uuid.UUID) ([]appointments.AppointmentDTO, error) {
	return []appointments.AppointmentDTO{}, nil
}

func (stubAppointmentsService) Cancel(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, appointmentID uuid.UUID) (*appointments.AppointmentDTO, error) {
	return &appointments.AppointmentDTO{}, nil
}

func (stubAppointmentsService) Complete(ctx context.Context, appointmentID uuid.UUID) (*appointments.AppointmentDTO, error) {
	return &appointments.AppointmentDTO{}, nil
}

type stubConsultationsService struct{}

func (stubConsultationsService) Create(ctx context.Context, userID uuid.UUID, req consultations.CreateRequest) (*consultations.ConsultationDTO, error) {
	return &consultations.ConsultationDTO{}, nil
}

func (stubConsultationsService) ListByUser(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, userID uuid.UUID) ([]consultations.ConsultationDTO, error) {
	return []consultations.ConsultationDTO{}, nil
}

func (stubConsultationsService) ListOpen(ctx context.Context) ([]consultations.ConsultationDTO, error) {
	return []consultations.ConsultationDTO{}, nil
}

func (stubConsultationsService) Reply(ctx context.Context, staffID uuid.UUID, consultationID uuid.UUID, req consultations.ReplyRequest) (*consultations.ConsultationDTO, error) {
	return &consultations.ConsultationDTO{}, nil
}

func (stubConsultationsService) Close(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, consultationID uuid.UUID) (*consultations.ConsultationDTO, error) {
	return &consultations.ConsultationDTO{}, nil
}

type stubFAQService struct{}

func (stubFAQService) Create(ctx context.Context, req faq.CreateEntryRequest) (*faq.EntryDTO, error) {
	return &faq.EntryDTO{}, nil
}

func (stubFAQService) List(ctx context.Context, category string, publishedOnly bool) ([]faq.EntryDTO, error) {
	return []faq.EntryDTO{}, nil
}

func (stubFAQService) Update(ctx context.Context, id uuid.UUID, req faq.UpdateEntryRequest) (*faq.EntryDTO, error) {
	return &faq.EntryDTO{}, nil
}

func (stubFAQService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:        cfg,
		Logger:        logg,
		DB:            stubPinger{},
		Redis:         nil,
		Sessions:      stubSessionChecker{},
		AuthService:   stubAuthService{},
		Register:      stubRegisterService{},
		Memberships:   stubMembershipsService{},
		RightsCards:   stubRightsCardsService{},
		Doctors:       stubDoctorsService{},
		Appointments:  stubAppointmentsService{},
		Consultations: stubConsultationsService{},
		FAQ:           stubFAQService{},
	})
}

func TestPatientGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/membership/mine", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/api/membership/cards", "/api/rights-cards/catalog", "/api/doctors", "/api/faq"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for public %s got %d", path, resp.Code)
		}
	}
}

func TestPatientGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/appointments/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRolePatient))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for patient appointments got %d", resp.Code)
	}
}

func TestStaffGroupRequiresStaffRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	patient := httptest.NewRequest(http.MethodGet, "/api/staff/consultations/open", nil)
	patient.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRolePatient))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, patient)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-staff got %d", resp.Code)
	}

	staff := httptest.NewRequest(http.MethodGet, "/api/staff/consultations/open", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	staff := httptest.NewRequest(http.MethodGet, "/api/admin/faq", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/faq", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestHealthProbes(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
