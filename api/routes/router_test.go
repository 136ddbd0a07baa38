package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/swiftship/swiftship-backend/internal/auth"
	"github.com/swiftship/swiftship-backend/internal/finance"
	"github.com/swiftship/swiftship-backend/internal/notifications"
	"github.com/swiftship/swiftship-backend/internal/orders"
	"github.com/swiftship/swiftship-backend/internal/users"
	pkgAuth "github.com/swiftship/swiftship-backend/pkg/auth"
	"github.com/swiftship/swiftship-backend/pkg/config"
	"github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/enums"
	"github.com/swiftship/swiftship-backend/pkg/logger"
	"github.com/swiftship/swiftship-backend/pkg/money"
	"github.com/swiftship/swiftship-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return &auth.RefreshResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New()}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New()}, nil
}

func (stubOrdersService) Assign(ctx context.Context, input orders.AssignCourierInput) (*models.Order, error) {
	return &models.Order{ID: input.OrderID}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, input orders.UpdateStatusInput) (*models.Order, error) {
	return &models.Order{ID: input.OrderID}, nil
}

func (stubOrdersService) Get(ctx context.Context, actor pkgAuth.Identity, orderID uuid.UUID) (*orders.OrderDetail, error) {
	return &orders.OrderDetail{}, nil
}

func (stubOrdersService) GetByTrackingCode(ctx context.Context, actor pkgAuth.Identity, code string) (*orders.OrderDetail, error) {
	return &orders.OrderDetail{}, nil
}

func (stubOrdersService) List(ctx context.Context, actor pkgAuth.Identity, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

type stubFinanceService struct{}

func (stubFinanceService) ApplyDeliveryLedger(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return nil
}

func (stubFinanceService) GetMerchantBalance(ctx context.Context, actor pkgAuth.Identity, merchantID uuid.UUID) (*finance.MerchantBalanceView, error) {
	return &finance.MerchantBalanceView{MerchantID: merchantID, Balance: money.Zero()}, nil
}

func (stubFinanceService) GetCourierWallet(ctx context.Context, actor pkgAuth.Identity, courierID uuid.UUID) (*finance.CourierWalletView, error) {
	return &finance.CourierWalletView{CourierID: courierID, Wallet: money.Zero()}, nil
}

func (stubFinanceService) DeductCourierWallet(ctx context.Context, input finance.DeductWalletInput) (*finance.CourierWalletView, error) {
	return &finance.CourierWalletView{CourierID: input.CourierID, Wallet: money.Zero()}, nil
}

func (stubFinanceService) RecalculateMerchantBalance(ctx context.Context, actor pkgAuth.Identity, merchantID uuid.UUID) (*finance.MerchantBalanceView, error) {
	return &finance.MerchantBalanceView{MerchantID: merchantID, Balance: money.Zero()}, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) Create(ctx context.Context, input notifications.CreateInput) (*models.Notification, error) {
	return &models.Notification{}, nil
}

func (stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubTenantsService struct{}

func (stubTenantsService) Create(ctx context.Context, actor pkgAuth.Identity, name string) (*models.Tenant, error) {
	return &models.Tenant{ID: uuid.New(), Name: name}, nil
}

func (stubTenantsService) Get(ctx context.Context, actor pkgAuth.Identity, id uuid.UUID) (*models.Tenant, error) {
	return &models.Tenant{ID: id}, nil
}

func (stubTenantsService) List(ctx context.Context, actor pkgAuth.Identity) ([]models.Tenant, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "swiftship-test",
			ExpirationMinutes: 15,
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:        testConfig(),
		Logger:        logger.New(logger.Options{ServiceName: "router-test"}),
		DB:            stubPinger{},
		Sessions:      stubSessionManager{},
		Registry:      prometheus.NewRegistry(),
		AuthService:   stubAuthService{},
		Register:      stubRegisterService{},
		Orders:        stubOrdersService{},
		Finance:       stubFinanceService{},
		Notifications: stubNotificationsService{},
		Tenants:       stubTenantsService{},
	})
}

func mintToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	tenantID := uuid.New()
	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		TenantID: &tenantID,
		Role:     role,
		JTI:      uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-SwiftShip-Env") != "test" {
		t.Fatal("env header must be set")
	}
}

func TestMetricsExposed(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestOrdersRequireAuthentication(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestOrdersListWithToken(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleMerchant))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTenantsAreSuperAdminOnly(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tenants", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleSuperAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for super-admin got %d", rec.Code)
	}
}

func TestAssignRouteIsAdminGated(t *testing.T) {
	router := newTestRouter(t)
	target := "/api/v1/orders/" + uuid.NewString() + "/assign"

	req := httptest.NewRequest(http.MethodPatch, target, nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleMerchant))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for merchant got %d", rec.Code)
	}
}
