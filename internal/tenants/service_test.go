package tenants

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftship/swiftship-backend/pkg/auth"
	"github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/enums"
	pkgerrors "github.com/swiftship/swiftship-backend/pkg/errors"
)

type fakeRepository struct {
	created []*models.Tenant
	byID    map[uuid.UUID]*models.Tenant
	listed  []models.Tenant
}

func (f *fakeRepository) Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	tenant.ID = uuid.New()
	f.created = append(f.created, tenant)
	return tenant, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	if tenant, ok := f.byID[id]; ok {
		return tenant, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByName(ctx context.Context, name string) (*models.Tenant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context) ([]models.Tenant, error) {
	return f.listed, nil
}

func superAdmin() auth.Identity {
	return auth.Identity{UserID: uuid.New(), Role: enums.UserRoleSuperAdmin}
}

func adminOf(tenantID uuid.UUID) auth.Identity {
	return auth.Identity{UserID: uuid.New(), Role: enums.UserRoleAdmin, TenantID: &tenantID}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s got %s", code, typed.Code())
	}
}

func TestServiceCreateTenant(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	tenant, err := svc.Create(context.Background(), superAdmin(), "  Acme Logistics  ")
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	if tenant.Name != "Acme Logistics" {
		t.Fatalf("expected trimmed name, got %q", tenant.Name)
	}
	if !tenant.IsActive {
		t.Fatal("new tenants must start active")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one create, got %d", len(repo.created))
	}
}

func TestServiceCreateRejectsEmptyName(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), superAdmin(), "   ")
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceTenantsAreSuperAdminOnly(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	actor := adminOf(uuid.New())

	if _, err := svc.Create(context.Background(), actor, "Acme"); err == nil {
		t.Fatal("expected create to be rejected")
	} else {
		expectCode(t, err, pkgerrors.CodeForbidden)
	}
	if _, err := svc.List(context.Background(), actor); err == nil {
		t.Fatal("expected list to be rejected")
	} else {
		expectCode(t, err, pkgerrors.CodeForbidden)
	}
	if _, err := svc.Get(context.Background(), actor, uuid.New()); err == nil {
		t.Fatal("expected get to be rejected")
	} else {
		expectCode(t, err, pkgerrors.CodeForbidden)
	}
}

func TestServiceGetUnknownTenant(t *testing.T) {
	svc, err := NewService(&fakeRepository{byID: map[uuid.UUID]*models.Tenant{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Get(context.Background(), superAdmin(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}
