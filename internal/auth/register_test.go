package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftship/swiftship-backend/internal/users"
	"github.com/swiftship/swiftship-backend/pkg/config"
	pkgmodels "github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/enums"
	pkgerrors "github.com/swiftship/swiftship-backend/pkg/errors"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserRepository struct {
	data            map[string]*pkgmodels.User
	created         *pkgmodels.User
	merchantProfile *pkgmodels.MerchantProfile
	courierProfile  *pkgmodels.CourierProfile
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{data: map[string]*pkgmodels.User{}}
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*pkgmodels.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*pkgmodels.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.data[dto.Email] = user
	s.created = user
	return user, nil
}

func (s *stubUserRepository) CreateMerchantProfile(ctx context.Context, profile *pkgmodels.MerchantProfile) error {
	s.merchantProfile = profile
	return nil
}

func (s *stubUserRepository) CreateCourierProfile(ctx context.Context, profile *pkgmodels.CourierProfile) error {
	s.courierProfile = profile
	return nil
}

type stubTenantRepository struct {
	tenant *pkgmodels.Tenant
}

func (s *stubTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*pkgmodels.Tenant, error) {
	if s.tenant == nil || s.tenant.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.tenant, nil
}

type registerTestSetup struct {
	service  RegisterService
	userRepo *stubUserRepository
	tenants  *stubTenantRepository
}

func newRegisterTestSetup(t *testing.T, tenant *pkgmodels.Tenant) *registerTestSetup {
	t.Helper()
	userRepo := newStubUserRepository()
	tenantRepo := &stubTenantRepository{tenant: tenant}
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return userRepo
		},
		Tenants:        tenantRepo,
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return &registerTestSetup{service: svc, userRepo: userRepo, tenants: tenantRepo}
}

func activeTenant() *pkgmodels.Tenant {
	return &pkgmodels.Tenant{ID: uuid.New(), Name: "acme-logistics", IsActive: true}
}

func TestRegisterMerchantCreatesProfile(t *testing.T) {
	tenant := activeTenant()
	setup := newRegisterTestSetup(t, tenant)
	business := "Cedar Trading Co"

	dto, err := setup.service.Register(context.Background(), RegisterRequest{
		FullName:     "Lina Haddad",
		Email:        "Lina@Example.com",
		Password:     "Secret123!",
		Role:         enums.UserRoleMerchant,
		TenantID:     tenant.ID,
		BusinessName: &business,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Email != "lina@example.com" {
		t.Fatalf("email must be lowercased got %q", dto.Email)
	}
	if setup.userRepo.merchantProfile == nil {
		t.Fatal("merchant profile must be created")
	}
	if setup.userRepo.merchantProfile.TenantID != tenant.ID {
		t.Fatal("profile must inherit the tenant")
	}
	if setup.userRepo.merchantProfile.UserID != setup.userRepo.created.ID {
		t.Fatal("profile must reference the new user")
	}
	if setup.userRepo.courierProfile != nil {
		t.Fatal("no courier profile expected")
	}
}

func TestRegisterCourierCreatesProfile(t *testing.T) {
	tenant := activeTenant()
	setup := newRegisterTestSetup(t, tenant)
	vehicle := "motorbike"

	_, err := setup.service.Register(context.Background(), RegisterRequest{
		FullName:    "Samir Khoury",
		Email:       "samir@example.com",
		Password:    "Secret123!",
		Role:        enums.UserRoleCourier,
		TenantID:    tenant.ID,
		VehicleType: &vehicle,
		Zones:       []string{"beirut", "jounieh"},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if setup.userRepo.courierProfile == nil {
		t.Fatal("courier profile must be created")
	}
	if len(setup.userRepo.courierProfile.Zones) != 2 {
		t.Fatalf("zones not persisted: %+v", setup.userRepo.courierProfile.Zones)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	tenant := activeTenant()
	setup := newRegisterTestSetup(t, tenant)
	setup.userRepo.data["taken@example.com"] = &pkgmodels.User{ID: uuid.New()}

	_, err := setup.service.Register(context.Background(), RegisterRequest{
		FullName: "Lina Haddad",
		Email:    "taken@example.com",
		Password: "Secret123!",
		Role:     enums.UserRoleAdmin,
		TenantID: tenant.ID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestRegisterUnknownTenant(t *testing.T) {
	setup := newRegisterTestSetup(t, activeTenant())

	_, err := setup.service.Register(context.Background(), RegisterRequest{
		FullName: "Lina Haddad",
		Email:    "lina@example.com",
		Password: "Secret123!",
		Role:     enums.UserRoleAdmin,
		TenantID: uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestRegisterRejectsSuperAdmin(t *testing.T) {
	tenant := activeTenant()
	setup := newRegisterTestSetup(t, tenant)

	_, err := setup.service.Register(context.Background(), RegisterRequest{
		FullName: "Root Account",
		Email:    "root@example.com",
		Password: "Secret123!",
		Role:     enums.UserRoleSuperAdmin,
		TenantID: tenant.ID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestRegisterMerchantRequiresBusinessName(t *testing.T) {
	tenant := activeTenant()
	setup := newRegisterTestSetup(t, tenant)

	_, err := setup.service.Register(context.Background(), RegisterRequest{
		FullName: "Lina Haddad",
		Email:    "lina@example.com",
		Password: "Secret123!",
		Role:     enums.UserRoleMerchant,
		TenantID: tenant.ID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}
