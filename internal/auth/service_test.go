package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/swiftship/swiftship-backend/pkg/auth"
	"github.com/swiftship/swiftship-backend/pkg/auth/session"
	"github.com/swiftship/swiftship-backend/pkg/config"
	pkgmodels "github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/enums"
	pkgerrors "github.com/swiftship/swiftship-backend/pkg/errors"
	"github.com/swiftship/swiftship-backend/pkg/security"
)

type stubLoginUserRepo struct {
	user        *pkgmodels.User
	lastLoginAt *time.Time
}

func (s *stubLoginUserRepo) FindByEmail(ctx context.Context, email string) (*pkgmodels.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubLoginUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginAt = &at
	return nil
}

type stubSessionManager struct {
	generated map[string]string
	revoked   []string
	rotateErr error
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{generated: map[string]string{}}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.generated[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	stored, ok := s.generated[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.generated, oldAccessID)
	newID := session.NewAccessID()
	token := "refresh-" + newID
	s.generated[newID] = token
	return newID, token, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.generated, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "swiftship-test",
		ExpirationMinutes: 15,
	}
}

func seedUser(t *testing.T, password string, role enums.UserRole, tenantID *uuid.UUID) *pkgmodels.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &pkgmodels.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        "lina@example.com",
		PasswordHash: hash,
		FullName:     "Lina Haddad",
		Role:         role,
		IsActive:     true,
	}
}

func newLoginService(t *testing.T, repo *stubLoginUserRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginSuccess(t *testing.T) {
	tenantID := uuid.New()
	user := seedUser(t, "Secret123!", enums.UserRoleMerchant, &tenantID)
	repo := &stubLoginUserRepo{user: user}
	sessions := newStubSessionManager()
	svc := newLoginService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Lina@Example.com",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("token pair must be issued")
	}
	if repo.lastLoginAt == nil {
		t.Fatal("last login must be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("minted token must parse: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatal("token must carry the user id")
	}
	if claims.TenantID == nil || *claims.TenantID != tenantID {
		t.Fatal("token must carry the tenant id")
	}
	if claims.Role != enums.UserRoleMerchant {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if _, ok := sessions.generated[claims.ID]; !ok {
		t.Fatal("refresh session must be keyed by the token jti")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	tenantID := uuid.New()
	repo := &stubLoginUserRepo{user: seedUser(t, "Secret123!", enums.UserRoleMerchant, &tenantID)}
	svc := newLoginService(t, repo, newStubSessionManager())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "lina@example.com",
		Password: "wrong",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	tenantID := uuid.New()
	user := seedUser(t, "Secret123!", enums.UserRoleMerchant, &tenantID)
	user.IsActive = false
	svc := newLoginService(t, &stubLoginUserRepo{user: user}, newStubSessionManager())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "lina@example.com",
		Password: "Secret123!",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	tenantID := uuid.New()
	user := seedUser(t, "Secret123!", enums.UserRoleCourier, &tenantID)
	repo := &stubLoginUserRepo{user: user}
	sessions := newStubSessionManager()
	svc := newLoginService(t, repo, sessions)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "lina@example.com",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if refreshed.AccessToken == login.AccessToken {
		t.Fatal("a new access token must be minted")
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("the refresh token must rotate")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), refreshed.AccessToken)
	if err != nil {
		t.Fatalf("rotated token must parse: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.UserRoleCourier {
		t.Fatal("identity must survive rotation")
	}

	// The old pair is dead after rotation.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for replayed pair got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	tenantID := uuid.New()
	user := seedUser(t, "Secret123!", enums.UserRoleMerchant, &tenantID)
	sessions := newStubSessionManager()
	svc := newLoginService(t, &stubLoginUserRepo{user: user}, sessions)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "lina@example.com",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), login.AccessToken); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(sessions.revoked) != 1 {
		t.Fatalf("expected one revoked session got %d", len(sessions.revoked))
	}
}
