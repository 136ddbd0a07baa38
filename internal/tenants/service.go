package tenants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftship/swiftship-backend/pkg/auth"
	dbpkg "github.com/swiftship/swiftship-backend/pkg/db"
	"github.com/swiftship/swiftship-backend/pkg/db/models"
	"github.com/swiftship/swiftship-backend/pkg/enums"
	pkgerrors "github.com/swiftship/swiftship-backend/pkg/errors"
)

// Service is the super-admin tenant management surface.
type Service interface {
	Create(ctx context.Context, actor auth.Identity, name string) (*models.Tenant, error)
	Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.Tenant, error)
	List(ctx context.Context, actor auth.Identity) ([]models.Tenant, error)
}

type service struct {
	repo Repository
}

// NewService wires the tenants service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tenants repository is required")
	}
	return &service{repo: repo}, nil
}

func requireSuperAdmin(actor auth.Identity) error {
	if actor.Role != enums.UserRoleSuperAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "tenant management is super-admin only")
	}
	return nil
}

func (s *service) Create(ctx context.Context, actor auth.Identity, name string) (*models.Tenant, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant name is required").
			WithDetails(map[string]string{"field": "name"})
	}

	tenant, err := s.repo.Create(ctx, &models.Tenant{Name: name, IsActive: true})
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "tenant name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating tenant")
	}
	return tenant, nil
}

func (s *service) Get(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.Tenant, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	tenant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading tenant")
	}
	return tenant, nil
}

func (s *service) List(ctx context.Context, actor auth.Identity) ([]models.Tenant, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	tenants, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing tenants")
	}
	return tenants, nil
}
