package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/careplushealth/careplus-backend/pkg/auth"
	"github.com/careplushealth/careplus-backend/pkg/auth/session"
	"github.com/careplushealth/careplus-backend/pkg/config"
	"github.com/careplushealth/careplus-backend/pkg/db/models"
	"github.com/careplushealth/careplus-backend/pkg/enums"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
	"github.com/careplushealth/careplus-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	user        *models.User
	findErr     error
	lastLoginAt *time.Time
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginAt = &at
	return nil
}

type stubSessions struct {
	generated map[string]string
	revoked   []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{generated: map[string]string{}}
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated[accessID] = "refresh-" + accessID
	return s.generated[accessID], nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.generated[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.generated, oldAccessID)
	newID := uuid.NewString()
	s.generated[newID] = "refresh-" + newID
	return newID, s.generated[newID], nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.generated, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "careplus",
		ExpirationMinutes: 15,
	}
}

func testUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Pat Doe",
		Role:         enums.UserRolePatient,
		IsActive:     true,
	}
}

func TestLoginSuccess(t *testing.T) {
	user := testUser(t, "pat@example.com", "secret-password")
	repo := &stubUserRepo{user: user}
	sessions := newStubSessions()

	svc, err := NewService(ServiceParams{UserRepo: repo, SessionManager: sessions, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Pat@Example.com", Password: "secret-password"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatal("expected the logged-in user in the response")
	}
	if repo.lastLoginAt == nil {
		t.Fatal("expected last login timestamp to be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Role != enums.UserRolePatient {
		t.Fatalf("unexpected role claim %s", claims.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := testUser(t, "pat@example.com", "secret-password")
	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{user: user}, SessionManager: newStubSessions(), JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "pat@example.com", Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	user := testUser(t, "pat@example.com", "secret-password")
	user.IsActive = false
	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{user: user}, SessionManager: newStubSessions(), JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "pat@example.com", Password: "secret-password"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	user := testUser(t, "pat@example.com", "secret-password")
	repo := &stubUserRepo{user: user}
	sessions := newStubSessions()
	svc, err := NewService(ServiceParams{UserRepo: repo, SessionManager: sessions, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	login, err := svc.Login(context.Background(), LoginRequest{Email: "pat@example.com", Password: "secret-password"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Fatal("expected a rotated token pair")
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("expected the refresh token to rotate")
	}

	// old pair is dead after rotation
	if _, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	}); err == nil {
		t.Fatal("expected stale refresh token to be rejected")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	user := testUser(t, "pat@example.com", "secret-password")
	sessions := newStubSessions()
	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{user: user}, SessionManager: sessions, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	login, err := svc.Login(context.Background(), LoginRequest{Email: "pat@example.com", Password: "secret-password"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), login.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 {
		t.Fatalf("expected one revoked session, got %d", len(sessions.revoked))
	}
}
